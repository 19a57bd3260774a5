package model_test

import (
	"errors"
	"testing"

	"github.com/habib-lab/habib/pkg/domain/model"
)

func TestSubjectRegistry(t *testing.T) {
	t.Run("Get returns registered entry", func(t *testing.T) {
		registry := model.NewSubjectRegistry()
		registry.Register(&model.SubjectEntry{
			Subject:     model.Subject{ID: "Computer", Name: "Computer Science"},
			Description: "Programming and algorithms",
		})

		entry, err := registry.Get("Computer")
		if err != nil {
			t.Fatalf("failed to get subject: %v", err)
		}
		if entry.Subject.Name != "Computer Science" {
			t.Errorf("expected name 'Computer Science', got %s", entry.Subject.Name)
		}
		if entry.Description != "Programming and algorithms" {
			t.Errorf("expected description to round trip, got %s", entry.Description)
		}
	})

	t.Run("Get returns ErrSubjectNotFound for unknown subject", func(t *testing.T) {
		registry := model.NewSubjectRegistry()

		_, err := registry.Get("History")
		if !errors.Is(err, model.ErrSubjectNotFound) {
			t.Errorf("expected ErrSubjectNotFound, got %v", err)
		}
	})

	t.Run("List preserves registration order", func(t *testing.T) {
		registry := model.NewSubjectRegistry()
		registry.Register(&model.SubjectEntry{Subject: model.Subject{ID: "Computer", Name: "Computer"}})
		registry.Register(&model.SubjectEntry{Subject: model.Subject{ID: "Math", Name: "Math"}})

		entries := registry.List()
		if len(entries) != 2 {
			t.Fatalf("expected 2 entries, got %d", len(entries))
		}
		if entries[0].Subject.ID != "Computer" || entries[1].Subject.ID != "Math" {
			t.Errorf("unexpected order: %v, %v", entries[0].Subject.ID, entries[1].Subject.ID)
		}
	})

	t.Run("Register twice does not duplicate order entries", func(t *testing.T) {
		registry := model.NewSubjectRegistry()
		registry.Register(&model.SubjectEntry{Subject: model.Subject{ID: "Math", Name: "Math"}})
		registry.Register(&model.SubjectEntry{Subject: model.Subject{ID: "Math", Name: "Mathematics"}})

		subjects := registry.Subjects()
		if len(subjects) != 1 {
			t.Fatalf("expected 1 subject, got %d", len(subjects))
		}
		if subjects[0].Name != "Mathematics" {
			t.Errorf("expected updated name 'Mathematics', got %s", subjects[0].Name)
		}
	})
}

package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/urfave/cli/v3"

	"github.com/habib-lab/habib/pkg/cli/config"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "subjects.toml")
	gt.NoError(t, os.WriteFile(path, []byte(content), 0644)).Required()
	return path
}

func TestLoadAppConfiguration(t *testing.T) {
	t.Run("valid configuration", func(t *testing.T) {
		path := writeConfigFile(t, `
[[subject]]
id = "computer_science"
name = "Computer Science"
description = "Programming, algorithms, and systems"

[[subject]]
id = "math"
name = "Mathematics"
`)

		cfg, err := config.LoadAppConfiguration(path)
		gt.NoError(t, err).Required()
		gt.Array(t, cfg.Subjects).Length(2).Required()
		gt.Value(t, cfg.Subjects[0].ID).Equal("computer_science")
		gt.Value(t, cfg.Subjects[0].Name).Equal("Computer Science")
		gt.Value(t, cfg.Subjects[1].ID).Equal("math")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := config.LoadAppConfiguration(filepath.Join(t.TempDir(), "missing.toml"))
		gt.Error(t, err)
		gt.Value(t, errors.Is(err, config.ErrConfigNotFound)).Equal(true)
	})

	t.Run("invalid subject ID", func(t *testing.T) {
		path := writeConfigFile(t, `
[[subject]]
id = "9starts-with-digit"
name = "Broken"
`)

		_, err := config.LoadAppConfiguration(path)
		gt.Error(t, err)
	})

	t.Run("missing subject name", func(t *testing.T) {
		path := writeConfigFile(t, `
[[subject]]
id = "cs"
`)

		_, err := config.LoadAppConfiguration(path)
		gt.Error(t, err)
	})

	t.Run("duplicate subject ID", func(t *testing.T) {
		path := writeConfigFile(t, `
[[subject]]
id = "cs"
name = "Computer Science"

[[subject]]
id = "cs"
name = "Computing"
`)

		_, err := config.LoadAppConfiguration(path)
		gt.Error(t, err)
		gt.Value(t, errors.Is(err, config.ErrDuplicateSubject)).Equal(true)
	})

	t.Run("no subjects", func(t *testing.T) {
		path := writeConfigFile(t, "")

		_, err := config.LoadAppConfiguration(path)
		gt.Error(t, err)
		gt.Value(t, errors.Is(err, config.ErrInvalidConfig)).Equal(true)
	})
}

func TestAppConfigConfigure(t *testing.T) {
	t.Run("falls back to default subjects", func(t *testing.T) {
		var cfg config.AppConfig

		registry, err := cfg.Configure()
		gt.NoError(t, err).Required()

		subjects := registry.Subjects()
		gt.Array(t, subjects).Length(2).Required()
		gt.Value(t, string(subjects[0].ID)).Equal("computer_science")
		gt.Value(t, string(subjects[1].ID)).Equal("math")
	})

	t.Run("registry preserves declaration order", func(t *testing.T) {
		cfg := config.AppConfig{
			Subjects: []config.Subject{
				{ID: "physics", Name: "Physics"},
				{ID: "chemistry", Name: "Chemistry"},
			},
		}

		registry, err := cfg.Configure()
		gt.NoError(t, err).Required()

		subjects := registry.Subjects()
		gt.Array(t, subjects).Length(2).Required()
		gt.Value(t, subjects[0].Name).Equal("Physics")
		gt.Value(t, subjects[1].Name).Equal("Chemistry")
	})
}

// runRetrievalFlags parses args through the flag set and validates the result
func runRetrievalFlags(t *testing.T, args ...string) error {
	t.Helper()

	var r config.Retrieval
	cmd := &cli.Command{
		Name:  "test",
		Flags: r.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			return r.Validate()
		},
	}
	return cmd.Run(context.Background(), append([]string{"test"}, args...))
}

func TestRetrievalValidate(t *testing.T) {
	t.Run("zero value fails", func(t *testing.T) {
		// Flag defaults are applied by the CLI layer
		var r config.Retrieval
		gt.Error(t, r.Validate())
	})

	t.Run("flag defaults pass", func(t *testing.T) {
		gt.NoError(t, runRetrievalFlags(t))
	})

	t.Run("negative history limit fails", func(t *testing.T) {
		gt.Error(t, runRetrievalFlags(t, "--history-limit=-1"))
	})

	t.Run("zero history limit passes", func(t *testing.T) {
		gt.NoError(t, runRetrievalFlags(t, "--history-limit=0"))
	})
}

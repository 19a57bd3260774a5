package model

import (
	"github.com/m-mizutani/goerr/v2"

	"github.com/habib-lab/habib/pkg/domain/types"
)

// Subject represents one teachable subject backed by a corpus partition
type Subject struct {
	ID   types.SubjectID
	Name string
}

// ErrSubjectNotFound is returned when a subject is not found in the registry
var ErrSubjectNotFound = goerr.New("subject not found")

// SubjectEntry holds a subject's identity and its presentation settings
type SubjectEntry struct {
	Subject     Subject
	Description string
}

// SubjectRegistry holds subject configurations (settings only; no
// repository or use case instances).
type SubjectRegistry struct {
	entries map[types.SubjectID]*SubjectEntry
	order   []types.SubjectID // preserves registration order
}

// NewSubjectRegistry creates a new empty SubjectRegistry
func NewSubjectRegistry() *SubjectRegistry {
	return &SubjectRegistry{
		entries: make(map[types.SubjectID]*SubjectEntry),
	}
}

// Register adds a subject entry to the registry
func (r *SubjectRegistry) Register(entry *SubjectEntry) {
	if _, exists := r.entries[entry.Subject.ID]; !exists {
		r.order = append(r.order, entry.Subject.ID)
	}
	r.entries[entry.Subject.ID] = entry
}

// Get retrieves a subject entry by ID
func (r *SubjectRegistry) Get(subjectID types.SubjectID) (*SubjectEntry, error) {
	entry, ok := r.entries[subjectID]
	if !ok {
		return nil, goerr.Wrap(ErrSubjectNotFound, "subject not found",
			goerr.V("subject_id", subjectID))
	}
	return entry, nil
}

// Has reports whether the subject is registered
func (r *SubjectRegistry) Has(subjectID types.SubjectID) bool {
	_, ok := r.entries[subjectID]
	return ok
}

// List returns all registered subject entries in registration order
func (r *SubjectRegistry) List() []*SubjectEntry {
	result := make([]*SubjectEntry, 0, len(r.order))
	for _, id := range r.order {
		result = append(result, r.entries[id])
	}
	return result
}

// Subjects returns all registered subjects in registration order
func (r *SubjectRegistry) Subjects() []Subject {
	result := make([]Subject, 0, len(r.order))
	for _, id := range r.order {
		result = append(result, r.entries[id].Subject)
	}
	return result
}

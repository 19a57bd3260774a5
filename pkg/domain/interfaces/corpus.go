package interfaces

import (
	"context"

	"github.com/habib-lab/habib/pkg/domain/model"
	"github.com/habib-lab/habib/pkg/domain/types"
)

// CorpusRepository provides read access to a subject's corpus partition and
// write access for corpus import. Search is the similarity contract shared
// by both backends: an index-assisted implementation may pre-select
// candidates, but scores are always cosine similarity in [-1, 1] and results
// are ordered best-first.
type CorpusRepository interface {
	// Put stores a passage in the subject's partition
	Put(ctx context.Context, subjectID types.SubjectID, passage *model.Passage) (*model.Passage, error)

	// Search returns up to limit passages ranked by cosine similarity
	// against the query embedding. Passages without an embedding are
	// excluded. An empty partition yields an empty result, not an error.
	Search(ctx context.Context, subjectID types.SubjectID, embedding []float32, limit int) ([]model.ScoredPassage, error)

	// Count returns the number of passages stored for the subject
	Count(ctx context.Context, subjectID types.SubjectID) (int, error)
}

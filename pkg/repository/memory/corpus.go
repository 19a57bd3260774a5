package memory

import (
	"context"
	"sync"
	"time"

	"github.com/habib-lab/habib/pkg/domain/model"
	"github.com/habib-lab/habib/pkg/domain/types"
	"github.com/habib-lab/habib/pkg/service/rank"
)

type corpusRepository struct {
	mu       sync.RWMutex
	passages map[types.SubjectID][]*model.Passage
}

func newCorpusRepository() *corpusRepository {
	return &corpusRepository{
		passages: make(map[types.SubjectID][]*model.Passage),
	}
}

// copyPassage creates a deep copy of a passage
func copyPassage(p *model.Passage) *model.Passage {
	copied := &model.Passage{
		ID:        p.ID,
		SubjectID: p.SubjectID,
		Text:      p.Text,
		CreatedAt: p.CreatedAt,
	}
	if p.Embedding != nil {
		copied.Embedding = make([]float32, len(p.Embedding))
		copy(copied.Embedding, p.Embedding)
	}
	return copied
}

func (r *corpusRepository) Put(ctx context.Context, subjectID types.SubjectID, passage *model.Passage) (*model.Passage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := copyPassage(passage)
	if created.ID == "" {
		created.ID = types.NewPassageID()
	}
	created.SubjectID = subjectID
	created.CreatedAt = time.Now().UTC()

	r.passages[subjectID] = append(r.passages[subjectID], created)
	return copyPassage(created), nil
}

// Search is the brute-force variant of the similarity contract: every
// stored passage is scored in-process.
func (r *corpusRepository) Search(ctx context.Context, subjectID types.SubjectID, embedding []float32, limit int) ([]model.ScoredPassage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return rank.Rank(embedding, r.passages[subjectID], limit), nil
}

func (r *corpusRepository) Count(ctx context.Context, subjectID types.SubjectID) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.passages[subjectID]), nil
}

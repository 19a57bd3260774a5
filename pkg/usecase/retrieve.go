package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"

	"github.com/habib-lab/habib/pkg/domain/model"
	"github.com/habib-lab/habib/pkg/domain/types"
	"github.com/habib-lab/habib/pkg/utils/logging"
)

// Retrieve finds the passages most relevant to the question. Passages
// below the relevance threshold are dropped, but when every candidate
// falls below it the single best one is kept so that a non-empty corpus
// always yields some context. An empty result means no context could be
// retrieved: the corpus has nothing for this subject, or the query could
// not be embedded.
func (uc *UseCases) Retrieve(ctx context.Context, subjectID types.SubjectID, query string) ([]model.ScoredPassage, error) {
	logger := logging.From(ctx)

	if _, err := uc.registry.Get(subjectID); err != nil {
		return nil, goerr.Wrap(ErrUnknownSubject, "subject is not registered", goerr.V(SubjectIDKey, subjectID))
	}

	// An unembeddable query means no context is retrievable, not a fatal
	// error. The caller answers from an empty context.
	embedding, err := uc.embedder.Embed(ctx, query)
	if err != nil {
		logger.Warn("failed to embed query, returning no context",
			"subjectID", subjectID,
			"error", err.Error(),
		)
		return nil, nil
	}

	candidates, err := uc.repo.Corpus().Search(ctx, subjectID, embedding, uc.topK)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to search corpus", goerr.V(SubjectIDKey, subjectID))
	}

	if len(candidates) == 0 {
		logger.Info("no passages found", "subjectID", subjectID)
		return nil, nil
	}

	relevant := make([]model.ScoredPassage, 0, len(candidates))
	for _, c := range candidates {
		if c.Score >= uc.minScore {
			relevant = append(relevant, c)
		}
	}

	// Candidates are sorted by descending score, so the first one is the
	// best available match.
	if len(relevant) == 0 {
		logger.Info("all passages below threshold, keeping best match",
			"subjectID", subjectID,
			"bestScore", candidates[0].Score,
			"minScore", uc.minScore,
		)
		relevant = candidates[:1]
	}

	return relevant, nil
}

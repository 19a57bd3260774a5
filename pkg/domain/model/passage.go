package model

import (
	"time"

	"github.com/habib-lab/habib/pkg/domain/types"
)

// DefaultEmbeddingDimension is the embedding vector dimension used unless
// the deployment overrides it. OpenAI text-embedding-3-large uses 3072.
const DefaultEmbeddingDimension = 3072

// Passage is one stored unit of textbook content within a subject's corpus
// partition. Passages are written once at import time and only read by the
// chat pipeline.
type Passage struct {
	ID        types.PassageID
	SubjectID types.SubjectID
	Text      string
	Embedding []float32
	CreatedAt time.Time
}

// ScoredPassage pairs a passage text with its cosine similarity score
// against a query embedding. Produced per query, never persisted.
type ScoredPassage struct {
	Text  string
	Score float64
}

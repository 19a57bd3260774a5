package usecase

import (
	"github.com/m-mizutani/gollem"

	"github.com/habib-lab/habib/pkg/domain/interfaces"
	"github.com/habib-lab/habib/pkg/domain/model"
	"github.com/habib-lab/habib/pkg/service/embedding"
)

const (
	// DefaultTopK is the number of passages retrieved per question
	DefaultTopK = 5
	// DefaultMinScore is the relevance threshold below which passages are
	// filtered out before the top-1 fallback applies
	DefaultMinScore = 0.5
	// DefaultHistoryLimit is the number of recent messages rendered into
	// the system prompt
	DefaultHistoryLimit = 10
)

type UseCases struct {
	repo         interfaces.Repository
	registry     *model.SubjectRegistry
	llmClient    gollem.LLMClient
	embedder     embedding.Service
	topK         int
	minScore     float64
	historyLimit int
}

type Option func(*UseCases)

func WithTopK(topK int) Option {
	return func(uc *UseCases) {
		uc.topK = topK
	}
}

func WithMinScore(minScore float64) Option {
	return func(uc *UseCases) {
		uc.minScore = minScore
	}
}

func WithHistoryLimit(limit int) Option {
	return func(uc *UseCases) {
		uc.historyLimit = limit
	}
}

func New(repo interfaces.Repository, registry *model.SubjectRegistry, llmClient gollem.LLMClient, embedder embedding.Service, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:         repo,
		registry:     registry,
		llmClient:    llmClient,
		embedder:     embedder,
		topK:         DefaultTopK,
		minScore:     DefaultMinScore,
		historyLimit: DefaultHistoryLimit,
	}

	for _, opt := range opts {
		opt(uc)
	}

	return uc
}

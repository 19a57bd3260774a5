package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/habib-lab/habib/pkg/domain/model"
	"github.com/habib-lab/habib/pkg/usecase"
)

// Retrieval holds CLI flags for context retrieval tuning
type Retrieval struct {
	topK         int
	minScore     float64
	dimension    int
	historyLimit int
}

// Flags returns CLI flags for retrieval configuration
func (r *Retrieval) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:        "retrieval-top-k",
			Usage:       "Number of passages retrieved per question",
			Value:       usecase.DefaultTopK,
			Sources:     cli.EnvVars("HABIB_RETRIEVAL_TOP_K"),
			Destination: &r.topK,
		},
		&cli.FloatFlag{
			Name:        "retrieval-min-score",
			Usage:       "Relevance threshold for retrieved passages (0.0 to 1.0)",
			Value:       usecase.DefaultMinScore,
			Sources:     cli.EnvVars("HABIB_RETRIEVAL_MIN_SCORE"),
			Destination: &r.minScore,
		},
		&cli.IntFlag{
			Name:        "embedding-dimension",
			Usage:       "Embedding vector dimension (must match stored corpus vectors)",
			Value:       model.DefaultEmbeddingDimension,
			Sources:     cli.EnvVars("HABIB_EMBEDDING_DIMENSION"),
			Destination: &r.dimension,
		},
		&cli.IntFlag{
			Name:        "history-limit",
			Usage:       "Number of recent messages included in the prompt (0 includes the full history)",
			Value:       usecase.DefaultHistoryLimit,
			Sources:     cli.EnvVars("HABIB_HISTORY_LIMIT"),
			Destination: &r.historyLimit,
		},
	}
}

// LogAttrs returns log attributes for the retrieval configuration
func (r *Retrieval) LogAttrs() []slog.Attr {
	return []slog.Attr{
		slog.Int("top_k", r.topK),
		slog.Float64("min_score", r.minScore),
		slog.Int("dimension", r.dimension),
		slog.Int("history_limit", r.historyLimit),
	}
}

// Validate checks the retrieval parameters
func (r *Retrieval) Validate() error {
	if r.topK <= 0 {
		return goerr.New("retrieval-top-k must be positive", goerr.V("top_k", r.topK))
	}
	if r.minScore < -1 || r.minScore > 1 {
		return goerr.New("retrieval-min-score must be between -1 and 1", goerr.V("min_score", r.minScore))
	}
	if r.dimension <= 0 {
		return goerr.New("embedding-dimension must be positive", goerr.V("dimension", r.dimension))
	}
	if r.historyLimit < 0 {
		return goerr.New("history-limit must not be negative", goerr.V("history_limit", r.historyLimit))
	}
	return nil
}

// Dimension returns the configured embedding dimension
func (r *Retrieval) Dimension() int {
	return r.dimension
}

// Options returns use case options for the configured parameters
func (r *Retrieval) Options() []usecase.Option {
	return []usecase.Option{
		usecase.WithTopK(r.topK),
		usecase.WithMinScore(r.minScore),
		usecase.WithHistoryLimit(r.historyLimit),
	}
}

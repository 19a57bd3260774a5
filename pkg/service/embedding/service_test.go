package embedding_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gt"

	"github.com/habib-lab/habib/pkg/service/embedding"
)

type mockLLMClient struct {
	generateEmbeddingFn func(ctx context.Context, dimension int, input []string) ([][]float64, error)
}

func (m *mockLLMClient) NewSession(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
	return nil, nil
}

func (m *mockLLMClient) GenerateEmbedding(ctx context.Context, dimension int, input []string) ([][]float64, error) {
	if m.generateEmbeddingFn != nil {
		return m.generateEmbeddingFn(ctx, dimension, input)
	}
	vec := make([]float64, dimension)
	for i := range vec {
		vec[i] = 0.1
	}
	return [][]float64{vec}, nil
}

func TestEmbed(t *testing.T) {
	ctx := context.Background()

	t.Run("converts to float32 at configured dimension", func(t *testing.T) {
		var gotDimension int
		var gotInput []string
		mock := &mockLLMClient{
			generateEmbeddingFn: func(ctx context.Context, dimension int, input []string) ([][]float64, error) {
				gotDimension = dimension
				gotInput = input
				return [][]float64{{0.25, -0.5, 0.75, 1.0}}, nil
			},
		}

		svc, err := embedding.New(mock, embedding.WithDimension(4))
		gt.NoError(t, err).Required()

		vec, err := svc.Embed(ctx, "what is a compiler?")
		gt.NoError(t, err).Required()
		gt.Value(t, gotDimension).Equal(4)
		gt.Array(t, gotInput).Equal([]string{"what is a compiler?"})
		gt.Array(t, vec).Equal([]float32{0.25, -0.5, 0.75, 1.0})
	})

	t.Run("rejects empty text", func(t *testing.T) {
		svc, err := embedding.New(&mockLLMClient{}, embedding.WithDimension(4))
		gt.NoError(t, err).Required()

		_, err = svc.Embed(ctx, "   ")
		gt.Error(t, err)
	})

	t.Run("propagates provider errors", func(t *testing.T) {
		mock := &mockLLMClient{
			generateEmbeddingFn: func(ctx context.Context, dimension int, input []string) ([][]float64, error) {
				return nil, goerr.New("provider unavailable")
			},
		}

		svc, err := embedding.New(mock, embedding.WithDimension(4))
		gt.NoError(t, err).Required()

		_, err = svc.Embed(ctx, "question")
		gt.Error(t, err)
	})

	t.Run("rejects empty provider result", func(t *testing.T) {
		mock := &mockLLMClient{
			generateEmbeddingFn: func(ctx context.Context, dimension int, input []string) ([][]float64, error) {
				return [][]float64{}, nil
			},
		}

		svc, err := embedding.New(mock, embedding.WithDimension(4))
		gt.NoError(t, err).Required()

		_, err = svc.Embed(ctx, "question")
		gt.Error(t, err)
	})

	t.Run("rejects dimension mismatch", func(t *testing.T) {
		mock := &mockLLMClient{
			generateEmbeddingFn: func(ctx context.Context, dimension int, input []string) ([][]float64, error) {
				return [][]float64{{0.1, 0.2}}, nil
			},
		}

		svc, err := embedding.New(mock, embedding.WithDimension(4))
		gt.NoError(t, err).Required()

		_, err = svc.Embed(ctx, "question")
		gt.Error(t, err)
	})
}

func TestNew(t *testing.T) {
	t.Run("requires LLM client", func(t *testing.T) {
		_, err := embedding.New(nil)
		gt.Error(t, err)
	})

	t.Run("rejects non-positive dimension", func(t *testing.T) {
		_, err := embedding.New(&mockLLMClient{}, embedding.WithDimension(0))
		gt.Error(t, err)
	})
}

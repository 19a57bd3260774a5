package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gt"

	httpserver "github.com/habib-lab/habib/pkg/controller/http"
	"github.com/habib-lab/habib/pkg/domain/interfaces"
	"github.com/habib-lab/habib/pkg/domain/model"
	"github.com/habib-lab/habib/pkg/domain/types"
	"github.com/habib-lab/habib/pkg/repository/memory"
	"github.com/habib-lab/habib/pkg/service/embedding"
	"github.com/habib-lab/habib/pkg/usecase"
)

type mockLLMSession struct{}

func (s *mockLLMSession) Generate(ctx context.Context, input []gollem.Input, opts ...gollem.GenerateOption) (*gollem.Response, error) {
	return s.GenerateContent(ctx, input...)
}

func (s *mockLLMSession) Stream(ctx context.Context, input []gollem.Input, opts ...gollem.GenerateOption) (<-chan *gollem.Response, error) {
	return s.GenerateStream(ctx, input...)
}

func (s *mockLLMSession) GenerateContent(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
	return &gollem.Response{
		Texts: []string{"A compiler translates your program into machine code."},
	}, nil
}

func (s *mockLLMSession) GenerateStream(ctx context.Context, input ...gollem.Input) (<-chan *gollem.Response, error) {
	return nil, nil
}

func (s *mockLLMSession) History() (*gollem.History, error) {
	return nil, nil
}

func (s *mockLLMSession) AppendHistory(*gollem.History) error {
	return nil
}

func (s *mockLLMSession) CountToken(ctx context.Context, input ...gollem.Input) (int, error) {
	return 0, nil
}

type mockLLMClient struct{}

func (c *mockLLMClient) NewSession(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
	return &mockLLMSession{}, nil
}

func (c *mockLLMClient) GenerateEmbedding(ctx context.Context, dimension int, input []string) ([][]float64, error) {
	return [][]float64{{1, 0}}, nil
}

func newTestServer(t *testing.T) (*httpserver.Server, interfaces.Repository) {
	t.Helper()

	registry := model.NewSubjectRegistry()
	registry.Register(&model.SubjectEntry{
		Subject: model.Subject{ID: "cs", Name: "Computer Science"},
	})
	registry.Register(&model.SubjectEntry{
		Subject: model.Subject{ID: "math", Name: "Mathematics"},
	})

	repo := memory.New()
	mock := &mockLLMClient{}
	embedder, err := embedding.New(mock, embedding.WithDimension(2))
	gt.NoError(t, err).Required()

	uc := usecase.New(repo, registry, mock, embedder, usecase.WithMinScore(0.3))

	srv, err := httpserver.New(uc, registry)
	gt.NoError(t, err).Required()

	return srv, repo
}

func seedPassage(t *testing.T, repo interfaces.Repository) {
	t.Helper()
	_, err := repo.Corpus().Put(context.Background(), "cs", &model.Passage{
		Text:      "A compiler translates source code into machine code.",
		Embedding: []float32{1, 0},
	})
	gt.NoError(t, err).Required()
}

func TestPages(t *testing.T) {
	srv, _ := newTestServer(t)

	t.Run("index lists subjects", func(t *testing.T) {
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		gt.Number(t, rec.Code).Equal(http.StatusOK)
		body := rec.Body.String()
		gt.Value(t, strings.Contains(body, "Computer Science")).Equal(true)
		gt.Value(t, strings.Contains(body, "Mathematics")).Equal(true)
	})

	t.Run("chat page renders for known subject", func(t *testing.T) {
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/chat/cs", nil))

		gt.Number(t, rec.Code).Equal(http.StatusOK)
		gt.Value(t, strings.Contains(rec.Body.String(), "Computer Science")).Equal(true)
	})

	t.Run("chat page returns 404 for unknown subject", func(t *testing.T) {
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/chat/history", nil))

		gt.Number(t, rec.Code).Equal(http.StatusNotFound)
	})
}

func TestSubjectsAPI(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/subjects", nil))

	gt.Number(t, rec.Code).Equal(http.StatusOK)

	var resp struct {
		Subjects []struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"subjects"`
	}
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp)).Required()
	gt.Array(t, resp.Subjects).Length(2).Required()
	gt.Value(t, resp.Subjects[0].ID).Equal("cs")
	gt.Value(t, resp.Subjects[1].Name).Equal("Mathematics")
}

func postChat(t *testing.T, srv *httpserver.Server, payload map[string]any) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	gt.NoError(t, err).Required()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	srv.ServeHTTP(rec, req)
	return rec
}

func TestChatAPI(t *testing.T) {
	t.Run("answers a grounded question", func(t *testing.T) {
		srv, repo := newTestServer(t)
		seedPassage(t, repo)

		rec := postChat(t, srv, map[string]any{
			"subject": "cs",
			"message": "What does a compiler do?",
		})

		gt.Number(t, rec.Code).Equal(http.StatusOK)

		var resp struct {
			Response       string `json:"response"`
			ConversationID string `json:"conversation_id"`
		}
		gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp)).Required()
		gt.Value(t, resp.Response).Equal("A compiler translates your program into machine code.")
		gt.Value(t, resp.ConversationID != "").Equal(true)
	})

	t.Run("reuses the conversation ID from the body", func(t *testing.T) {
		srv, repo := newTestServer(t)
		seedPassage(t, repo)

		first := postChat(t, srv, map[string]any{
			"subject": "cs",
			"message": "What does a compiler do?",
		})
		gt.Number(t, first.Code).Equal(http.StatusOK)

		var firstResp struct {
			ConversationID string `json:"conversation_id"`
		}
		gt.NoError(t, json.Unmarshal(first.Body.Bytes(), &firstResp)).Required()

		second := postChat(t, srv, map[string]any{
			"subject":         "cs",
			"message":         "Can you give an example?",
			"conversation_id": firstResp.ConversationID,
		})
		gt.Number(t, second.Code).Equal(http.StatusOK)

		var secondResp struct {
			ConversationID string `json:"conversation_id"`
		}
		gt.NoError(t, json.Unmarshal(second.Body.Bytes(), &secondResp)).Required()
		gt.Value(t, secondResp.ConversationID).Equal(firstResp.ConversationID)
	})

	t.Run("empty message returns 400 with error payload", func(t *testing.T) {
		srv, _ := newTestServer(t)

		rec := postChat(t, srv, map[string]any{
			"subject": "cs",
			"message": "",
		})

		gt.Number(t, rec.Code).Equal(http.StatusBadRequest)

		var resp struct {
			Error string `json:"error"`
		}
		gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp)).Required()
		gt.Value(t, resp.Error != "").Equal(true)
	})

	t.Run("unknown subject returns 400", func(t *testing.T) {
		srv, _ := newTestServer(t)

		rec := postChat(t, srv, map[string]any{
			"subject": "history",
			"message": "Who won the war?",
		})

		gt.Number(t, rec.Code).Equal(http.StatusBadRequest)
	})

	t.Run("malformed JSON returns 400", func(t *testing.T) {
		srv, _ := newTestServer(t)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader("{not json"))
		req.Header.Set("Content-Type", "application/json")
		srv.ServeHTTP(rec, req)

		gt.Number(t, rec.Code).Equal(http.StatusBadRequest)
	})
}

func TestConversationAPI(t *testing.T) {
	t.Run("returns the transcript", func(t *testing.T) {
		srv, repo := newTestServer(t)
		seedPassage(t, repo)

		rec := postChat(t, srv, map[string]any{
			"subject": "cs",
			"message": "What does a compiler do?",
		})
		gt.Number(t, rec.Code).Equal(http.StatusOK)

		var chatResp struct {
			ConversationID string `json:"conversation_id"`
		}
		gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &chatResp)).Required()

		convRec := httptest.NewRecorder()
		srv.ServeHTTP(convRec, httptest.NewRequest(http.MethodGet, "/api/conversation/"+chatResp.ConversationID, nil))

		gt.Number(t, convRec.Code).Equal(http.StatusOK)

		var conv struct {
			ConversationID string `json:"conversation_id"`
			Subject        string `json:"subject"`
			Messages       []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		gt.NoError(t, json.Unmarshal(convRec.Body.Bytes(), &conv)).Required()
		gt.Value(t, conv.ConversationID).Equal(chatResp.ConversationID)
		gt.Value(t, conv.Subject).Equal("cs")
		gt.Array(t, conv.Messages).Length(2).Required()
		gt.Value(t, conv.Messages[0].Role).Equal("user")
		gt.Value(t, conv.Messages[1].Role).Equal("assistant")
	})

	t.Run("unknown conversation returns 404", func(t *testing.T) {
		srv, _ := newTestServer(t)

		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/conversation/"+string(types.NewConversationID()), nil))

		gt.Number(t, rec.Code).Equal(http.StatusNotFound)
	})
}

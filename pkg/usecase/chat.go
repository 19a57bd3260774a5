package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"

	"github.com/habib-lab/habib/pkg/domain/interfaces"
	"github.com/habib-lab/habib/pkg/domain/model"
	"github.com/habib-lab/habib/pkg/domain/types"
	"github.com/habib-lab/habib/pkg/utils/logging"
)

// NoMaterialResponse is returned without calling the model when the
// corpus has no passages for the question's subject.
const NoMaterialResponse = "I'm sorry, but I don't have any course material that covers your question. Please ask about a topic from this course."

// ChatInput is a single turn of a tutoring conversation
type ChatInput struct {
	SubjectID      types.SubjectID
	ConversationID types.ConversationID
	Message        string
}

// ChatOutput carries the tutor's answer and the conversation it belongs to
type ChatOutput struct {
	Response       string
	ConversationID types.ConversationID
}

// Chat runs one turn: retrieve context, generate a grounded answer, and
// persist both messages. When generation fails nothing is persisted, so
// a retried request does not leave a half-written turn behind.
func (uc *UseCases) Chat(ctx context.Context, input ChatInput) (*ChatOutput, error) {
	logger := logging.From(ctx)

	message := strings.TrimSpace(input.Message)
	if message == "" {
		return nil, goerr.Wrap(ErrEmptyMessage, "message must not be empty")
	}

	entry, err := uc.registry.Get(input.SubjectID)
	if err != nil {
		return nil, goerr.Wrap(ErrUnknownSubject, "subject is not registered", goerr.V(SubjectIDKey, input.SubjectID))
	}

	conversationID := input.ConversationID
	if conversationID == "" {
		conversationID = types.NewConversationID()
	}

	var history []model.Message
	if input.ConversationID != "" {
		conv, err := uc.GetConversation(ctx, input.ConversationID)
		switch {
		case err == nil:
			history = conv.RecentMessages(uc.historyLimit)
		case errors.Is(err, ErrConversationNotFound):
			// A fresh ID from the client starts a new conversation
		default:
			return nil, err
		}
	}

	passages, err := uc.Retrieve(ctx, input.SubjectID, message)
	if err != nil {
		return nil, err
	}

	response := NoMaterialResponse
	if len(passages) > 0 {
		systemPrompt, err := uc.buildTutorSystemPrompt(entry, passages, history)
		if err != nil {
			return nil, err
		}

		session, err := uc.llmClient.NewSession(ctx, gollem.WithSessionSystemPrompt(systemPrompt))
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create LLM session", goerr.V(ConversationIDKey, conversationID))
		}

		resp, err := session.Generate(ctx, []gollem.Input{gollem.Text(message)})
		if err != nil {
			return nil, goerr.Wrap(err, "failed to generate tutor response", goerr.V(ConversationIDKey, conversationID))
		}
		if len(resp.Texts) == 0 {
			return nil, goerr.New("LLM returned empty response", goerr.V(ConversationIDKey, conversationID))
		}
		response = strings.Join(resp.Texts, "\n")
	} else {
		logger.Info("answering without model call", "subjectID", input.SubjectID, "conversationID", conversationID)
	}

	msgs := []model.Message{
		model.NewUserMessage(message),
		model.NewAssistantMessage(response),
	}
	if _, err := uc.repo.Conversation().Append(ctx, conversationID, input.SubjectID, msgs); err != nil {
		return nil, goerr.Wrap(err, "failed to persist conversation turn", goerr.V(ConversationIDKey, conversationID))
	}

	return &ChatOutput{
		Response:       response,
		ConversationID: conversationID,
	}, nil
}

// GetConversation returns the full transcript of a conversation. A
// missing record maps to ErrConversationNotFound; storage failures are
// propagated as-is.
func (uc *UseCases) GetConversation(ctx context.Context, id types.ConversationID) (*model.Conversation, error) {
	conv, err := uc.repo.Conversation().Get(ctx, id)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, goerr.Wrap(ErrConversationNotFound, "conversation not found", goerr.V(ConversationIDKey, id))
		}
		return nil, goerr.Wrap(err, "failed to load conversation", goerr.V(ConversationIDKey, id))
	}
	return conv, nil
}

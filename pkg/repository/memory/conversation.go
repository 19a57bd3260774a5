package memory

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/habib-lab/habib/pkg/domain/interfaces"
	"github.com/habib-lab/habib/pkg/domain/model"
	"github.com/habib-lab/habib/pkg/domain/types"
)

type conversationRepository struct {
	mu            sync.Mutex
	conversations map[types.ConversationID]*model.Conversation
}

func newConversationRepository() *conversationRepository {
	return &conversationRepository{
		conversations: make(map[types.ConversationID]*model.Conversation),
	}
}

// copyConversation creates a deep copy of a conversation
func copyConversation(c *model.Conversation) *model.Conversation {
	copied := &model.Conversation{
		ID:        c.ID,
		SubjectID: c.SubjectID,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
	if c.Messages != nil {
		copied.Messages = make([]model.Message, len(c.Messages))
		copy(copied.Messages, c.Messages)
	}
	return copied
}

func (r *conversationRepository) Get(ctx context.Context, id types.ConversationID) (*model.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	conv, exists := r.conversations[id]
	if !exists {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "conversation not found", goerr.V("conversation_id", id))
	}

	return copyConversation(conv), nil
}

func (r *conversationRepository) Append(ctx context.Context, id types.ConversationID, subjectID types.SubjectID, msgs []model.Message) (*model.Conversation, error) {
	if id == "" {
		return nil, goerr.New("conversation ID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	conv, exists := r.conversations[id]
	if !exists {
		conv = &model.Conversation{
			ID:        id,
			SubjectID: subjectID,
			CreatedAt: now,
		}
		r.conversations[id] = conv
	}

	conv.Messages = append(conv.Messages, msgs...)
	conv.UpdatedAt = now

	return copyConversation(conv), nil
}

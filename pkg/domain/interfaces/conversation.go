package interfaces

import (
	"context"

	"github.com/habib-lab/habib/pkg/domain/model"
	"github.com/habib-lab/habib/pkg/domain/types"
)

// ConversationRepository persists per-conversation message history as an
// append-only log keyed by conversation ID.
//
// Concurrent appends to the same conversation ID are ordered by whatever the
// backend's append primitive provides (a Firestore transaction or an
// in-process mutex); no stronger cross-request ordering is guaranteed.
type ConversationRepository interface {
	// Get returns the conversation, or ErrNotFound if absent
	Get(ctx context.Context, id types.ConversationID) (*model.Conversation, error)

	// Append adds messages to the conversation, creating it (with
	// CreatedAt set) on first append and bumping UpdatedAt otherwise.
	// A failed append never reports success.
	Append(ctx context.Context, id types.ConversationID, subjectID types.SubjectID, msgs []model.Message) (*model.Conversation, error)
}

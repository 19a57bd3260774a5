package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/habib-lab/habib/pkg/domain/interfaces"
	"github.com/habib-lab/habib/pkg/domain/model"
	"github.com/habib-lab/habib/pkg/domain/types"
)

type messageDoc struct {
	Role      string    `firestore:"Role"`
	Content   string    `firestore:"Content"`
	Timestamp time.Time `firestore:"Timestamp"`
}

// conversationDoc holds the full message history in a single document.
// A transcript stays well below the 1 MiB document limit for tutoring
// sessions, and a single document gives transactional append ordering.
type conversationDoc struct {
	ID        types.ConversationID `firestore:"ID"`
	SubjectID types.SubjectID      `firestore:"SubjectID"`
	Messages  []messageDoc         `firestore:"Messages"`
	CreatedAt time.Time            `firestore:"CreatedAt"`
	UpdatedAt time.Time            `firestore:"UpdatedAt"`
}

func toMessageDocs(msgs []model.Message) []messageDoc {
	docs := make([]messageDoc, len(msgs))
	for i, m := range msgs {
		docs[i] = messageDoc{
			Role:      string(m.Role),
			Content:   m.Content,
			Timestamp: m.Timestamp,
		}
	}
	return docs
}

func fromConversationDoc(d *conversationDoc) *model.Conversation {
	conv := &model.Conversation{
		ID:        d.ID,
		SubjectID: d.SubjectID,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
	conv.Messages = make([]model.Message, len(d.Messages))
	for i, m := range d.Messages {
		conv.Messages[i] = model.Message{
			Role:      types.Role(m.Role),
			Content:   m.Content,
			Timestamp: m.Timestamp,
		}
	}
	return conv
}

type conversationRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newConversationRepository(client *firestore.Client) *conversationRepository {
	return &conversationRepository{client: client}
}

func (r *conversationRepository) collection() *firestore.CollectionRef {
	name := "conversations"
	if r.collectionPrefix != "" {
		name = r.collectionPrefix + "_" + name
	}
	return r.client.Collection(name)
}

func (r *conversationRepository) Get(ctx context.Context, id types.ConversationID) (*model.Conversation, error) {
	doc, err := r.collection().Doc(string(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(interfaces.ErrNotFound, "conversation not found", goerr.V("conversationID", id))
		}
		return nil, goerr.Wrap(err, "failed to get conversation", goerr.V("conversationID", id))
	}

	var d conversationDoc
	if err := doc.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal conversation", goerr.V("conversationID", id))
	}

	return fromConversationDoc(&d), nil
}

func (r *conversationRepository) Append(ctx context.Context, id types.ConversationID, subjectID types.SubjectID, msgs []model.Message) (*model.Conversation, error) {
	if id == "" {
		return nil, goerr.New("conversation ID is required")
	}

	docRef := r.collection().Doc(string(id))
	var result conversationDoc

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		now := time.Now().UTC()

		doc, err := tx.Get(docRef)
		if err != nil {
			if status.Code(err) != codes.NotFound {
				return goerr.Wrap(err, "failed to get conversation", goerr.V("conversationID", id))
			}
			result = conversationDoc{
				ID:        id,
				SubjectID: subjectID,
				CreatedAt: now,
			}
		} else {
			if err := doc.DataTo(&result); err != nil {
				return goerr.Wrap(err, "failed to unmarshal conversation", goerr.V("conversationID", id))
			}
		}

		result.Messages = append(result.Messages, toMessageDocs(msgs)...)
		result.UpdatedAt = now

		return tx.Set(docRef, &result)
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to append to conversation", goerr.V("conversationID", id))
	}

	return fromConversationDoc(&result), nil
}

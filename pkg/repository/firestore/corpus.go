package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"

	"github.com/habib-lab/habib/pkg/domain/model"
	"github.com/habib-lab/habib/pkg/domain/types"
	"github.com/habib-lab/habib/pkg/service/rank"
)

// passageDoc is the Firestore document representation of model.Passage.
// Embedding is stored as firestore.Vector32 for FindNearest vector search.
type passageDoc struct {
	ID        types.PassageID    `firestore:"ID"`
	SubjectID types.SubjectID    `firestore:"SubjectID"`
	Text      string             `firestore:"Text"`
	Embedding firestore.Vector32 `firestore:"Embedding,omitempty"`
	CreatedAt time.Time          `firestore:"CreatedAt"`
}

func toPassageDoc(p *model.Passage) *passageDoc {
	doc := &passageDoc{
		ID:        p.ID,
		SubjectID: p.SubjectID,
		Text:      p.Text,
		CreatedAt: p.CreatedAt,
	}
	if len(p.Embedding) > 0 {
		doc.Embedding = firestore.Vector32(p.Embedding)
	}
	return doc
}

func fromPassageDoc(d *passageDoc) *model.Passage {
	p := &model.Passage{
		ID:        d.ID,
		SubjectID: d.SubjectID,
		Text:      d.Text,
		CreatedAt: d.CreatedAt,
	}
	if len(d.Embedding) > 0 {
		p.Embedding = []float32(d.Embedding)
	}
	return p
}

type corpusRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newCorpusRepository(client *firestore.Client) *corpusRepository {
	return &corpusRepository{client: client}
}

// passagesCollection returns the subcollection path:
// subjects/{subjectID}/passages
func (r *corpusRepository) passagesCollection(subjectID types.SubjectID) *firestore.CollectionRef {
	name := "subjects"
	if r.collectionPrefix != "" {
		name = r.collectionPrefix + "_" + name
	}
	return r.client.Collection(name).Doc(string(subjectID)).Collection("passages")
}

func (r *corpusRepository) Put(ctx context.Context, subjectID types.SubjectID, passage *model.Passage) (*model.Passage, error) {
	created := *passage
	if created.ID == "" {
		created.ID = types.NewPassageID()
	}
	created.SubjectID = subjectID
	created.CreatedAt = time.Now().UTC()

	docRef := r.passagesCollection(subjectID).Doc(string(created.ID))
	if _, err := docRef.Set(ctx, toPassageDoc(&created)); err != nil {
		return nil, goerr.Wrap(err, "failed to put passage", goerr.V("subjectID", subjectID), goerr.V("passageID", created.ID))
	}

	return &created, nil
}

// Search pre-selects candidates with FindNearest, then re-scores them
// in-process so that scores are comparable across backends. FindNearest
// orders by cosine distance but does not report it.
func (r *corpusRepository) Search(ctx context.Context, subjectID types.SubjectID, embedding []float32, limit int) ([]model.ScoredPassage, error) {
	if len(embedding) == 0 {
		return []model.ScoredPassage{}, nil
	}

	vq := r.passagesCollection(subjectID).
		FindNearest("Embedding", firestore.Vector32(embedding), limit, firestore.DistanceMeasureCosine, nil)

	iter := vq.Documents(ctx)
	defer iter.Stop()

	candidates := make([]*model.Passage, 0, limit)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate passage vector search results", goerr.V("subjectID", subjectID))
		}

		var d passageDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal passage from vector search", goerr.V("subjectID", subjectID))
		}

		candidates = append(candidates, fromPassageDoc(&d))
	}

	return rank.Rank(embedding, candidates, limit), nil
}

func (r *corpusRepository) Count(ctx context.Context, subjectID types.SubjectID) (int, error) {
	iter := r.passagesCollection(subjectID).Select().Documents(ctx)
	defer iter.Stop()

	count := 0
	for {
		_, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return 0, goerr.Wrap(err, "failed to count passages", goerr.V("subjectID", subjectID))
		}
		count++
	}

	return count, nil
}

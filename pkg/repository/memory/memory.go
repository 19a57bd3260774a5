package memory

import (
	"github.com/habib-lab/habib/pkg/domain/interfaces"
)

// Memory is an in-process repository for development and tests
type Memory struct {
	corpus       *corpusRepository
	conversation *conversationRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		corpus:       newCorpusRepository(),
		conversation: newConversationRepository(),
	}
}

func (m *Memory) Corpus() interfaces.CorpusRepository {
	return m.corpus
}

func (m *Memory) Conversation() interfaces.ConversationRepository {
	return m.conversation
}

func (m *Memory) Close() error {
	return nil
}

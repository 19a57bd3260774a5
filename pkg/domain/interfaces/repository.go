package interfaces

// Repository defines the interface for data persistence
type Repository interface {
	Corpus() CorpusRepository
	Conversation() ConversationRepository

	Close() error
}

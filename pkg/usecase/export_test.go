package usecase

// Export for testing
var BuildTutorSystemPrompt = (*UseCases).buildTutorSystemPrompt

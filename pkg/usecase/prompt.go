package usecase

import (
	"bytes"
	_ "embed"
	"text/template"

	"github.com/m-mizutani/goerr/v2"

	"github.com/habib-lab/habib/pkg/domain/model"
)

//go:embed prompt/tutor_system.md
var tutorSystemPromptTmpl string

var tutorSystemPrompt = template.Must(template.New("tutor_system").Parse(tutorSystemPromptTmpl))

// tutorPromptMessage represents a history message for the system prompt template
type tutorPromptMessage struct {
	Role    string
	Content string
}

// tutorPromptData holds all data for the tutor system prompt template
type tutorPromptData struct {
	SubjectName        string
	SubjectDescription string
	Passages           []model.ScoredPassage
	Messages           []tutorPromptMessage
}

func (uc *UseCases) buildTutorSystemPrompt(entry *model.SubjectEntry, passages []model.ScoredPassage, history []model.Message) (string, error) {
	data := tutorPromptData{
		SubjectName:        entry.Subject.Name,
		SubjectDescription: entry.Description,
		Passages:           passages,
	}

	// History is stored oldest-first, so the tail is the recent window
	for _, m := range history {
		data.Messages = append(data.Messages, tutorPromptMessage{
			Role:    m.Role.String(),
			Content: m.Content,
		})
	}

	var buf bytes.Buffer
	if err := tutorSystemPrompt.Execute(&buf, data); err != nil {
		return "", goerr.Wrap(err, "failed to execute tutor system prompt template")
	}

	return buf.String(), nil
}

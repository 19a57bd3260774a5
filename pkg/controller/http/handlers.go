package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"

	"github.com/habib-lab/habib/pkg/domain/model"
	"github.com/habib-lab/habib/pkg/domain/types"
	"github.com/habib-lab/habib/pkg/frontend"
	"github.com/habib-lab/habib/pkg/usecase"
	"github.com/habib-lab/habib/pkg/utils/errutil"
	"github.com/habib-lab/habib/pkg/utils/safe"
)

// statusForError maps use case errors to HTTP status codes
func statusForError(err error) int {
	switch {
	case errors.Is(err, usecase.ErrEmptyMessage), errors.Is(err, usecase.ErrUnknownSubject):
		return http.StatusBadRequest
	case errors.Is(err, usecase.ErrConversationNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(ctx context.Context, w http.ResponseWriter, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to encode response"), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	safe.Write(ctx, w, body)
}

// indexPageHandler serves the subject selection page
func indexPageHandler(registry *model.SubjectRegistry) http.HandlerFunc {
	type pageData struct {
		Subjects []*model.SubjectEntry
	}

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := frontend.Templates.ExecuteTemplate(w, "index.html", pageData{Subjects: registry.List()}); err != nil {
			errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to render index page"), http.StatusInternalServerError)
		}
	}
}

// chatPageHandler serves the chat page for a subject
func chatPageHandler(registry *model.SubjectRegistry) http.HandlerFunc {
	type pageData struct {
		Subject *model.Subject
	}

	return func(w http.ResponseWriter, r *http.Request) {
		subjectID := types.SubjectID(chi.URLParam(r, "subject"))
		entry, err := registry.Get(subjectID)
		if err != nil {
			http.NotFound(w, r)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := frontend.Templates.ExecuteTemplate(w, "chat.html", pageData{Subject: &entry.Subject}); err != nil {
			errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to render chat page"), http.StatusInternalServerError)
		}
	}
}

// subjectsHandler returns the subject list as JSON
func subjectsHandler(registry *model.SubjectRegistry) http.HandlerFunc {
	type subjectResponse struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	type response struct {
		Subjects []subjectResponse `json:"subjects"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		subjects := registry.Subjects()
		resp := response{
			Subjects: make([]subjectResponse, len(subjects)),
		}
		for i, s := range subjects {
			resp.Subjects[i] = subjectResponse{
				ID:   string(s.ID),
				Name: s.Name,
			}
		}

		writeJSON(r.Context(), w, resp)
	}
}

// chatHandler runs one tutoring turn
func chatHandler(uc *usecase.UseCases) http.HandlerFunc {
	type request struct {
		Subject        string `json:"subject"`
		Message        string `json:"message"`
		ConversationID string `json:"conversation_id"`
	}
	type response struct {
		Response       string `json:"response"`
		ConversationID string `json:"conversation_id"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "invalid request body"), http.StatusBadRequest)
			return
		}

		out, err := uc.Chat(r.Context(), usecase.ChatInput{
			SubjectID:      types.SubjectID(req.Subject),
			ConversationID: types.ConversationID(req.ConversationID),
			Message:        req.Message,
		})
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, statusForError(err))
			return
		}

		writeJSON(r.Context(), w, response{
			Response:       out.Response,
			ConversationID: string(out.ConversationID),
		})
	}
}

// conversationHandler returns a full conversation transcript
func conversationHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := types.ConversationID(chi.URLParam(r, "id"))

		conv, err := uc.GetConversation(r.Context(), id)
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, statusForError(err))
			return
		}

		writeJSON(r.Context(), w, conv)
	}
}

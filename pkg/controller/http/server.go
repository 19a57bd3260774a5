package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/habib-lab/habib/pkg/domain/model"
	"github.com/habib-lab/habib/pkg/usecase"
	"github.com/habib-lab/habib/pkg/utils/logging"
)

type Server struct {
	router   *chi.Mux
	uc       *usecase.UseCases
	registry *model.SubjectRegistry
}

type Options func(*Server)

func New(uc *usecase.UseCases, registry *model.SubjectRegistry, opts ...Options) (*Server, error) {
	r := chi.NewRouter()

	s := &Server{
		router:   r,
		uc:       uc,
		registry: registry,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	// Chat UI pages
	r.Get("/", indexPageHandler(s.registry))
	r.Get("/chat/{subject}", chatPageHandler(s.registry))

	// JSON API
	r.Route("/api", func(r chi.Router) {
		r.Get("/subjects", subjectsHandler(s.registry))
		r.Post("/chat", chatHandler(s.uc))
		r.Get("/conversation/{id}", conversationHandler(s.uc))
	})

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.Default().Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}

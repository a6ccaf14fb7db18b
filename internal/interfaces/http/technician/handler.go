// Package technician exposes the checklist session flow over HTTP for the
// field technician app.
package technician

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ctrl-robotics/maintenance-services/api/internal/checklist/application"
	"github.com/ctrl-robotics/maintenance-services/api/internal/checklist/domain"
)

// Handler wires technician HTTP endpoints to the session service.
type Handler struct {
	logger   *log.Logger
	sessions application.SessionService
	catalog  *domain.Catalog
}

// Config defines dependencies required by Handler.
type Config struct {
	Logger   *log.Logger
	Sessions application.SessionService
	Catalog  *domain.Catalog
}

// NewHandler constructs a technician HTTP handler set.
func NewHandler(cfg Config) *Handler {
	return &Handler{
		logger:   cfg.Logger,
		sessions: cfg.Sessions,
		catalog:  cfg.Catalog,
	}
}

// Register mounts all technician routes onto the router.
func (h *Handler) Register(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Get("/catalog", h.catalogHandler())
	r.With(authMiddleware).Route("/sessions", func(r chi.Router) {
		r.Post("/", h.sessionStartHandler())
		r.Get("/{id}", h.sessionDetailHandler())
		r.Get("/{id}/progress", h.sessionProgressHandler())
		r.Put("/{id}/responses/{questionID}", h.responseRecordHandler())
		r.Post("/{id}/evidence/{questionID}", h.evidenceAttachHandler())
		r.Put("/{id}/notes/{questionID}", h.noteSetHandler())
		r.Post("/{id}/complete", h.sessionCompleteHandler())
	})
}

// Package admin exposes the report archive to the back-office UI.
package admin

import (
	"log"

	"github.com/go-chi/chi/v5"

	"github.com/ctrl-robotics/maintenance-services/api/internal/checklist/application"
)

// Handler wires admin HTTP endpoints to the report query service.
type Handler struct {
	logger  *log.Logger
	reports application.ReportQueryService
}

// Config provides dependencies for Handler.
type Config struct {
	Logger  *log.Logger
	Reports application.ReportQueryService
}

// NewHandler constructs an admin HTTP handler set.
func NewHandler(cfg Config) *Handler {
	return &Handler{
		logger:  cfg.Logger,
		reports: cfg.Reports,
	}
}

// Register mounts admin routes onto router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/reports", h.reportListHandler())
	r.Get("/reports/{id}", h.reportDetailHandler())
	r.Get("/robots/{robotRef}/stats", h.robotStatsHandler())
}

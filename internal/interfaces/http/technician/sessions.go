package technician

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"

	"github.com/ctrl-robotics/maintenance-services/api/internal/checklist/application"
	"github.com/ctrl-robotics/maintenance-services/api/internal/checklist/domain"
	"github.com/ctrl-robotics/maintenance-services/api/internal/interfaces/http/common"
)

type startSessionRequest struct {
	RobotRef  string     `json:"robotRef"`
	StartTime *time.Time `json:"startTime,omitempty"`
}

type recordResponseRequest struct {
	Value string `json:"value"`
}

type attachEvidenceRequest struct {
	FileRef     string `json:"fileRef"`
	ContentType string `json:"contentType,omitempty"`
	Note        string `json:"note,omitempty"`
}

type setNoteRequest struct {
	Text string `json:"text"`
}

type completeSessionRequest struct {
	CustomerName    string `json:"customerName,omitempty"`
	CustomerAddress string `json:"customerAddress,omitempty"`
	RobotSerial     string `json:"robotSerial,omitempty"`
	RobotModel      string `json:"robotModel,omitempty"`
	TechnicianName  string `json:"technicianName,omitempty"`
}

func (h *Handler) catalogHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		common.WriteJSON(h.logger, w, http.StatusOK, buildCatalogResponse(h.catalog))
	}
}

func (h *Handler) sessionStartHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		user, ok := common.UserFromContext(r.Context())
		if !ok {
			common.WriteJSON(h.logger, w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
			return
		}

		var payload startSessionRequest
		if !h.decodeBody(w, r, &payload) {
			return
		}
		robotRef := strings.TrimSpace(payload.RobotRef)
		if robotRef == "" {
			common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": "robotRef is required"})
			return
		}

		cmd := application.StartSessionCommand{
			RobotRef:      robotRef,
			TechnicianRef: user.ID,
		}
		if payload.StartTime != nil {
			cmd.StartTime = *payload.StartTime
		}

		session, err := h.sessions.Start(ctx, cmd)
		if err != nil {
			h.logger.Printf("session start failed: %v", err)
			common.WriteJSON(h.logger, w, http.StatusInternalServerError, map[string]string{"error": "failed to start session"})
			return
		}
		common.WriteJSON(h.logger, w, http.StatusCreated, buildSessionResponse(session))
	}
}

func (h *Handler) sessionDetailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		session, err := h.sessions.Get(ctx, chi.URLParam(r, "id"))
		if err != nil {
			h.writeServiceError(w, err, "failed to fetch session")
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, buildSessionResponse(session))
	}
}

func (h *Handler) sessionProgressHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		progress, err := h.sessions.Progress(ctx, chi.URLParam(r, "id"))
		if err != nil {
			h.writeServiceError(w, err, "failed to fetch progress")
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, progressResponse{
			Completed: progress.Completed,
			Total:     progress.Total,
		})
	}
}

func (h *Handler) responseRecordHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		var payload recordResponseRequest
		if !h.decodeBody(w, r, &payload) {
			return
		}
		value, err := domain.NewResponseValue(payload.Value)
		if err != nil {
			common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": "value must be yes or no"})
			return
		}

		session, err := h.sessions.RecordResponse(ctx, chi.URLParam(r, "id"), chi.URLParam(r, "questionID"), value)
		if err != nil {
			h.writeServiceError(w, err, "failed to record response")
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, buildSessionResponse(session))
	}
}

func (h *Handler) evidenceAttachHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		var payload attachEvidenceRequest
		if !h.decodeBody(w, r, &payload) {
			return
		}
		if strings.TrimSpace(payload.FileRef) == "" {
			common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": "fileRef is required"})
			return
		}

		sessionID := chi.URLParam(r, "id")
		questionID := chi.URLParam(r, "questionID")

		current, err := h.sessions.Get(ctx, sessionID)
		if err != nil {
			h.writeServiceError(w, err, "failed to attach evidence")
			return
		}
		if len(current.Images[questionID]) >= common.MaxEvidencePerQuestion {
			common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": "evidence limit reached for this question"})
			return
		}

		session, ref, err := h.sessions.AttachEvidence(ctx, sessionID, questionID, application.EvidenceUpload{
			FileRef:     payload.FileRef,
			ContentType: payload.ContentType,
			Note:        payload.Note,
		})
		if err != nil {
			h.writeServiceError(w, err, "failed to attach evidence")
			return
		}
		common.WriteJSON(h.logger, w, http.StatusCreated, map[string]any{
			"evidence": evidenceRefResponse{
				ID:         ref.ID,
				URL:        ref.URL,
				UploadedAt: ref.UploadedAt,
				Note:       ref.Note,
			},
			"session": buildSessionResponse(session),
		})
	}
}

func (h *Handler) noteSetHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		var payload setNoteRequest
		if !h.decodeBody(w, r, &payload) {
			return
		}
		if utf8.RuneCountInString(payload.Text) > common.MaxNoteRunes {
			common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": "note is too long"})
			return
		}

		session, err := h.sessions.SetNote(ctx, chi.URLParam(r, "id"), chi.URLParam(r, "questionID"), payload.Text)
		if err != nil {
			h.writeServiceError(w, err, "failed to set note")
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, buildSessionResponse(session))
	}
}

func (h *Handler) sessionCompleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		var payload completeSessionRequest
		if !h.decodeBody(w, r, &payload) {
			return
		}

		report, err := h.sessions.Complete(ctx, chi.URLParam(r, "id"), application.ReportMetadata{
			CustomerName:    payload.CustomerName,
			CustomerAddress: payload.CustomerAddress,
			RobotSerial:     payload.RobotSerial,
			RobotModel:      payload.RobotModel,
			TechnicianName:  payload.TechnicianName,
		})
		if errors.Is(err, application.ErrReportDelivery) {
			// The session committed locally; the report just failed to reach
			// the archive. The client keeps its copy and may resubmit.
			common.WriteJSON(h.logger, w, http.StatusOK, completeResponse{
				Report:    buildReportResponse(report),
				Delivered: false,
			})
			return
		}
		if err != nil {
			h.writeServiceError(w, err, "failed to complete session")
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, completeResponse{
			Report:    buildReportResponse(report),
			Delivered: true,
		})
	}
}

// decodeBody reads a size-capped JSON body. A false return means the error
// response was already written.
func (h *Handler) decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, common.MaxRequestBody)
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(dst); err != nil {
		common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return false
	}
	return true
}

// writeServiceError maps domain and application errors onto HTTP statuses.
func (h *Handler) writeServiceError(w http.ResponseWriter, err error, fallback string) {
	var incomplete *domain.IncompleteError
	switch {
	case errors.Is(err, application.ErrSessionNotFound):
		common.WriteJSON(h.logger, w, http.StatusNotFound, map[string]string{"error": "session not found"})
	case errors.Is(err, domain.ErrUnknownQuestion):
		common.WriteJSON(h.logger, w, http.StatusNotFound, map[string]string{"error": "unknown question"})
	case errors.Is(err, domain.ErrInvalidResponse):
		common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": "value must be yes or no"})
	case errors.Is(err, domain.ErrSessionCompleted):
		common.WriteJSON(h.logger, w, http.StatusConflict, map[string]string{"error": "session is already completed"})
	case errors.Is(err, domain.ErrAlreadyCompleted):
		common.WriteJSON(h.logger, w, http.StatusConflict, map[string]string{"error": "session is already completed"})
	case errors.As(err, &incomplete):
		common.WriteJSON(h.logger, w, http.StatusConflict, map[string]any{
			"error":   "session is incomplete",
			"missing": incomplete.Missing,
		})
	default:
		h.logger.Printf("%s: %v", fallback, err)
		common.WriteJSON(h.logger, w, http.StatusInternalServerError, map[string]string{"error": fallback})
	}
}

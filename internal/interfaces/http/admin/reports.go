package admin

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ctrl-robotics/maintenance-services/api/internal/checklist/application"
	"github.com/ctrl-robotics/maintenance-services/api/internal/interfaces/http/common"
)

// reportListHandler serves the back-office report archive with status, robot
// and keyword filters.
func (h *Handler) reportListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		query := r.URL.Query()

		filter := application.ReportFilter{
			RobotRef: strings.TrimSpace(query.Get("robotRef")),
			Keyword:  strings.TrimSpace(query.Get("keyword")),
		}
		if raw := strings.TrimSpace(query.Get("status")); raw != "" {
			status := common.CanonicalOverallStatus(raw)
			if status == "" {
				common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": "unknown status filter"})
				return
			}
			filter.OverallStatus = status
		}

		paging := application.Paging{}
		paging.Page, _ = common.ParsePositiveInt(query.Get("page"), 1)
		paging.Limit, _ = common.ParsePositiveInt(query.Get("limit"), 20)
		if paging.Limit > 100 {
			paging.Limit = 100
		}

		records, err := h.reports.List(ctx, filter, paging)
		if err != nil {
			h.logger.Printf("report list fetch failed: %v", err)
			common.WriteJSON(h.logger, w, http.StatusInternalServerError, map[string]string{"error": "failed to fetch reports"})
			return
		}

		items := make([]reportSummaryResponse, 0, len(records))
		for _, record := range records {
			items = append(items, buildReportSummaryResponse(record))
		}
		common.WriteJSON(h.logger, w, http.StatusOK, reportListResponse{
			Items: items,
			Page:  paging.Page,
			Limit: paging.Limit,
		})
	}
}

func (h *Handler) reportDetailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		record, err := h.reports.Detail(ctx, chi.URLParam(r, "id"))
		if errors.Is(err, application.ErrReportNotFound) {
			common.WriteJSON(h.logger, w, http.StatusNotFound, map[string]string{"error": "report not found"})
			return
		}
		if err != nil {
			h.logger.Printf("report detail fetch failed: %v", err)
			common.WriteJSON(h.logger, w, http.StatusInternalServerError, map[string]string{"error": "failed to fetch report"})
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, buildReportDetailResponse(record))
	}
}

func (h *Handler) robotStatsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		robotRef := strings.TrimSpace(chi.URLParam(r, "robotRef"))
		if robotRef == "" {
			common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": "robotRef is required"})
			return
		}

		stats, err := h.reports.RobotStats(ctx, robotRef)
		if err != nil {
			h.logger.Printf("robot stats fetch failed: %v", err)
			common.WriteJSON(h.logger, w, http.StatusInternalServerError, map[string]string{"error": "failed to fetch robot stats"})
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, robotStatsResponse{
			RobotRef:        stats.RobotRef,
			InspectionCount: stats.InspectionCount,
			AvgDuration:     stats.AvgDuration,
			AvgIssueCount:   stats.AvgIssueCount,
			LastServicedAt:  stats.LastServicedAt,
		})
	}
}

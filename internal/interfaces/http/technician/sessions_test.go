package technician

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ctrl-robotics/maintenance-services/api/internal/catalog"
	"github.com/ctrl-robotics/maintenance-services/api/internal/checklist/application"
	"github.com/ctrl-robotics/maintenance-services/api/internal/infrastructure/media"
	"github.com/ctrl-robotics/maintenance-services/api/internal/infrastructure/memory"
	"github.com/ctrl-robotics/maintenance-services/api/internal/interfaces/http/common"
)

func newTestRouter(t *testing.T) (chi.Router, *memory.ReportRepository) {
	t.Helper()

	logger := log.New(os.Stdout, "[test] ", log.LstdFlags)
	reports := memory.NewReportRepository()
	service := application.NewSessionService(application.SessionServiceConfig{
		Repository:   memory.NewSessionRepository(),
		EvidenceSink: media.NewRefSink("https://media.example.invalid"),
		ReportSink:   reports,
		Catalog:      catalog.Default(),
		Logger:       logger,
		Clock:        func() time.Time { return time.Date(2026, 5, 12, 14, 30, 0, 0, time.UTC) },
	})

	handler := NewHandler(Config{
		Logger:   logger,
		Sessions: service,
		Catalog:  catalog.Default(),
	})

	stubAuth := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := common.ContextWithUser(r.Context(), common.AuthenticatedUser{ID: "tech-7", Name: "T. Ester"})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}

	router := chi.NewRouter()
	handler.Register(router, stubAuth)
	return router, reports
}

func doJSON(t *testing.T, router chi.Router, method, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&body).Encode(payload); err != nil {
			t.Fatalf("encode payload: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}

func TestCatalogEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/catalog", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody[catalogResponse](t, rec)
	assert.Len(t, body.Questions, 10)
	assert.Equal(t, "display_working", body.Questions[0].ID)
	assert.Equal(t, "image_always", body.Questions[9].Evidence)
}

func TestSessionLifecycle(t *testing.T) {
	router, reports := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/sessions", startSessionRequest{RobotRef: "RB-200"})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeBody[sessionResponse](t, rec)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, "tech-7", created.TechnicianRef)
	assert.Equal(t, "in_progress", created.Status)
	assert.Len(t, created.Missing, 10)

	base := "/sessions/" + created.ID

	rec = doJSON(t, router, http.MethodPut, base+"/responses/display_working", recordResponseRequest{Value: "maybe"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodPut, base+"/responses/nonexistent", recordResponseRequest{Value: "yes"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	questionIDs := []string{
		"display_working", "robot_charging", "charger_working", "damage_check",
		"door_1", "door_2", "door_3", "door_4", "lte_device", "underside_inspection",
	}
	for _, id := range questionIDs {
		rec = doJSON(t, router, http.MethodPut, fmt.Sprintf("%s/responses/%s", base, id), recordResponseRequest{Value: "yes"})
		require.Equal(t, http.StatusOK, rec.Code, "question %s", id)
	}

	rec = doJSON(t, router, http.MethodGet, base+"/progress", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	progress := decodeBody[progressResponse](t, rec)
	assert.Equal(t, 10, progress.Completed)
	assert.Equal(t, 10, progress.Total)

	// Progress is full but the required photos are still missing.
	rec = doJSON(t, router, http.MethodPost, base+"/complete", completeSessionRequest{})
	require.Equal(t, http.StatusConflict, rec.Code)
	conflict := decodeBody[map[string]any](t, rec)
	assert.Contains(t, conflict["missing"], "damage_check")
	assert.Contains(t, conflict["missing"], "underside_inspection")

	rec = doJSON(t, router, http.MethodPost, base+"/evidence/damage_check", attachEvidenceRequest{FileRef: "scratch.jpg"})
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = doJSON(t, router, http.MethodPost, base+"/evidence/underside_inspection", attachEvidenceRequest{FileRef: "underside.jpg"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodPost, base+"/complete", completeSessionRequest{CustomerName: "Harbor Logistics GmbH"})
	require.Equal(t, http.StatusOK, rec.Code)
	completed := decodeBody[completeResponse](t, rec)
	assert.True(t, completed.Delivered)
	assert.Equal(t, 0, completed.Report.IssueCount)
	assert.Equal(t, "excellent", completed.Report.OverallStatus)
	assert.Equal(t, 2, completed.Report.PhotoCount)

	// Second completion attempt conflicts, the session is terminal.
	rec = doJSON(t, router, http.MethodPost, base+"/complete", completeSessionRequest{})
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Mutating a completed session is rejected too.
	rec = doJSON(t, router, http.MethodPut, base+"/notes/display_working", setNoteRequest{Text: "late note"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	records, err := reports.Find(context.Background(), application.ReportFilter{}, application.Paging{})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Harbor Logistics GmbH", records[0].Meta.CustomerName)
}

func TestEvidenceGatesImageIfYes(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/sessions", startSessionRequest{RobotRef: "RB-201"})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeBody[sessionResponse](t, rec)
	base := "/sessions/" + created.ID

	// Answering yes on damage_check requires a photo before the question
	// counts as satisfied.
	rec = doJSON(t, router, http.MethodPut, base+"/responses/damage_check", recordResponseRequest{Value: "yes"})
	require.Equal(t, http.StatusOK, rec.Code)
	session := decodeBody[sessionResponse](t, rec)
	assert.Contains(t, session.Missing, "damage_check")

	rec = doJSON(t, router, http.MethodPost, base+"/evidence/damage_check", attachEvidenceRequest{FileRef: "crack.jpg", Note: "hairline crack on panel"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	session = decodeBody[sessionResponse](t, rec)
	assert.NotContains(t, session.Missing, "damage_check")
	require.Len(t, session.Images["damage_check"], 1)
	assert.Contains(t, session.Images["damage_check"][0].URL, "crack.jpg")
}

func TestSessionNotFound(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/sessions/does-not-exist", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/sessions/does-not-exist/progress", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

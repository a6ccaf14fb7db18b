package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ctrl-robotics/maintenance-services/api/internal/catalog"
	"github.com/ctrl-robotics/maintenance-services/api/internal/checklist/application"
	"github.com/ctrl-robotics/maintenance-services/api/internal/checklist/domain"
)

func newTestSession(t *testing.T) *domain.Session {
	t.Helper()
	return domain.NewSession("", "RB-100", "tech-1", time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC), catalog.Default())
}

func TestSessionRepositoryRoundTrip(t *testing.T) {
	repo := NewSessionRepository()
	ctx := context.Background()

	sess := newTestSession(t)
	if err := repo.Create(ctx, sess); err != nil {
		t.Fatalf("create: %v", err)
	}
	if sess.ID == "" {
		t.Fatal("create should assign an id")
	}

	got, err := repo.FindByID(ctx, sess.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.RobotRef != "RB-100" || got.TechnicianRef != "tech-1" {
		t.Fatalf("unexpected session: %+v", got)
	}

	// Stored copy must be isolated from caller mutation.
	if err := got.RecordResponse("display_working", domain.ResponseYes); err != nil {
		t.Fatalf("record: %v", err)
	}
	again, err := repo.FindByID(ctx, sess.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(again.Responses) != 0 {
		t.Fatal("repository copy mutated through returned session")
	}

	if err := repo.Save(ctx, got); err != nil {
		t.Fatalf("save: %v", err)
	}
	saved, err := repo.FindByID(ctx, sess.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if saved.Responses["display_working"] != domain.ResponseYes {
		t.Fatal("save did not persist response")
	}
}

func TestSessionRepositoryMissing(t *testing.T) {
	repo := NewSessionRepository()
	ctx := context.Background()

	if _, err := repo.FindByID(ctx, "nope"); !errors.Is(err, application.ErrSessionNotFound) {
		t.Fatalf("want ErrSessionNotFound, got %v", err)
	}
	sess := newTestSession(t)
	sess.ID = "nope"
	if err := repo.Save(ctx, sess); !errors.Is(err, application.ErrSessionNotFound) {
		t.Fatalf("want ErrSessionNotFound on save, got %v", err)
	}
}

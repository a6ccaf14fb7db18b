package domain

import (
	"fmt"
	"testing"
	"time"
)

func TestOverallStatusBuckets(t *testing.T) {
	cases := []struct {
		issues int
		want   OverallStatus
	}{
		{0, OverallExcellent},
		{1, OverallGood},
		{2, OverallGood},
		{3, OverallFair},
		{4, OverallFair},
		{5, OverallPoor},
		{11, OverallPoor},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("issues=%d", tc.issues), func(t *testing.T) {
			if got := OverallStatusForIssues(tc.issues); got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestReportDerivation(t *testing.T) {
	catalog, err := NewCatalog([]Question{
		{ID: "a"}, {ID: "b"}, {ID: "c"},
	})
	if err != nil {
		t.Fatalf("NewCatalog failed: %v", err)
	}

	start := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	session := NewSession("s1", "robot-7", "tech-3", start, catalog)

	if err := session.RecordResponse("a", ResponseNo); err != nil {
		t.Fatalf("RecordResponse a: %v", err)
	}
	if err := session.RecordResponse("b", ResponseNo); err != nil {
		t.Fatalf("RecordResponse b: %v", err)
	}
	if err := session.RecordResponse("c", ResponseYes); err != nil {
		t.Fatalf("RecordResponse c: %v", err)
	}
	first := testRef("e1")
	second := testRef("e2")
	if err := session.AttachEvidence("b", first); err != nil {
		t.Fatalf("AttachEvidence: %v", err)
	}
	if err := session.AttachEvidence("b", second); err != nil {
		t.Fatalf("AttachEvidence: %v", err)
	}
	if err := session.SetNote("a", "display cracked"); err != nil {
		t.Fatalf("SetNote: %v", err)
	}

	end := start.Add(42*time.Minute + 31*time.Second)
	report, err := session.Complete(end)
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	if report.DurationMinutes != 43 {
		t.Fatalf("expected rounded 43 minutes, got %d", report.DurationMinutes)
	}
	if report.IssueCount != 2 || report.OverallStatus != OverallGood {
		t.Fatalf("unexpected issue summary: %d %s", report.IssueCount, report.OverallStatus)
	}
	if report.PhotoCount != 2 {
		t.Fatalf("expected 2 photos, got %d", report.PhotoCount)
	}
	if want := end.AddDate(0, 3, 0); !report.NextMaintenance.Equal(want) {
		t.Fatalf("expected next maintenance %v, got %v", want, report.NextMaintenance)
	}
	if report.RobotRef != "robot-7" || report.TechnicianRef != "tech-3" {
		t.Fatalf("metadata not carried over: %+v", report)
	}

	t.Run("round trip with ordering", func(t *testing.T) {
		if len(report.Responses) != 3 || report.Responses["c"] != ResponseYes {
			t.Fatalf("responses not embedded: %+v", report.Responses)
		}
		refs := report.Images["b"]
		if len(refs) != 2 || refs[0].ID != first.ID || refs[1].ID != second.ID {
			t.Fatalf("image order not preserved: %+v", refs)
		}
		if report.Notes["a"] != "display cracked" {
			t.Fatalf("notes not embedded: %+v", report.Notes)
		}
	})

	t.Run("report is detached from session maps", func(t *testing.T) {
		report.Responses["a"] = ResponseYes
		report.Images["b"][0].Note = "tampered"
		if session.Responses["a"] != ResponseNo {
			t.Fatal("report mutation leaked into session responses")
		}
		if session.Images["b"][0].Note == "tampered" {
			t.Fatal("report mutation leaked into session images")
		}
	})
}

func TestReportClampsNegativeDuration(t *testing.T) {
	catalog, err := NewCatalog([]Question{{ID: "a"}})
	if err != nil {
		t.Fatalf("NewCatalog failed: %v", err)
	}
	start := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	session := NewSession("s1", "r", "t", start, catalog)
	if err := session.RecordResponse("a", ResponseYes); err != nil {
		t.Fatalf("RecordResponse: %v", err)
	}

	// Completion clock behind the start clock (skew between devices).
	report, err := session.Complete(start.Add(-10 * time.Minute))
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if report.DurationMinutes != 0 {
		t.Fatalf("expected clamped duration 0, got %d", report.DurationMinutes)
	}
	if !report.ClockAnomaly {
		t.Fatal("expected clock anomaly flag")
	}
}

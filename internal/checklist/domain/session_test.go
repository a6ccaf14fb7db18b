package domain

import (
	"errors"
	"testing"
	"time"
)

func testCatalog(t *testing.T) *Catalog {
	t.Helper()
	catalog, err := NewCatalog([]Question{
		{ID: "q1", Title: "Plain"},
		{ID: "q2", Title: "Conditional image", Evidence: EvidenceImageIfYes},
		{ID: "q3", Title: "Mandatory note", Evidence: EvidenceNoteAlways},
	})
	if err != nil {
		t.Fatalf("NewCatalog failed: %v", err)
	}
	return catalog
}

func testRef(id string) EvidenceRef {
	return EvidenceRef{ID: id, URL: "https://media.example/" + id, UploadedAt: time.Now()}
}

func TestRecordResponse(t *testing.T) {
	start := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	session := NewSession("s1", "robot-1", "tech-1", start, testCatalog(t))

	if err := session.RecordResponse("q1", ResponseYes); err != nil {
		t.Fatalf("RecordResponse failed: %v", err)
	}
	if got := session.Responses["q1"]; got != ResponseYes {
		t.Fatalf("expected yes, got %q", got)
	}

	t.Run("idempotent", func(t *testing.T) {
		if err := session.RecordResponse("q1", ResponseYes); err != nil {
			t.Fatalf("repeat RecordResponse failed: %v", err)
		}
		if len(session.Responses) != 1 {
			t.Fatalf("expected 1 response, got %d", len(session.Responses))
		}
	})

	t.Run("overwrite", func(t *testing.T) {
		if err := session.RecordResponse("q1", ResponseNo); err != nil {
			t.Fatalf("overwrite failed: %v", err)
		}
		if got := session.Responses["q1"]; got != ResponseNo {
			t.Fatalf("expected no, got %q", got)
		}
	})

	t.Run("unknown question", func(t *testing.T) {
		err := session.RecordResponse("nope", ResponseYes)
		if !errors.Is(err, ErrUnknownQuestion) {
			t.Fatalf("expected ErrUnknownQuestion, got %v", err)
		}
	})

	t.Run("invalid value", func(t *testing.T) {
		err := session.RecordResponse("q1", ResponseValue("maybe"))
		if !errors.Is(err, ErrInvalidResponse) {
			t.Fatalf("expected ErrInvalidResponse, got %v", err)
		}
	})
}

func TestProgressCountsDistinctResponses(t *testing.T) {
	start := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	session := NewSession("s1", "robot-1", "tech-1", start, testCatalog(t))

	if p := session.Progress(); p.Completed != 0 || p.Total != 3 {
		t.Fatalf("unexpected initial progress: %+v", p)
	}

	// Answer out of order, with repeats; only distinct ids count.
	for _, step := range []struct {
		id    string
		value ResponseValue
	}{
		{"q2", ResponseYes},
		{"q2", ResponseNo},
		{"q1", ResponseNo},
		{"q2", ResponseNo},
	} {
		if err := session.RecordResponse(step.id, step.value); err != nil {
			t.Fatalf("RecordResponse(%s) failed: %v", step.id, err)
		}
	}

	if p := session.Progress(); p.Completed != 2 || p.Total != 3 {
		t.Fatalf("unexpected progress: %+v", p)
	}

	// Evidence requirements never gate progress, only completion.
	if session.IsComplete() {
		t.Fatal("session should not be complete")
	}
}

func TestQuestionCompletionPredicates(t *testing.T) {
	catalog, err := NewCatalog([]Question{
		{ID: "plain"},
		{ID: "img_always", Evidence: EvidenceImageAlways},
		{ID: "img_if_yes", Evidence: EvidenceImageIfYes},
		{ID: "note_always", Evidence: EvidenceNoteAlways},
	})
	if err != nil {
		t.Fatalf("NewCatalog failed: %v", err)
	}
	start := time.Now()

	question := func(id string) Question {
		q, ok := catalog.Question(id)
		if !ok {
			t.Fatalf("missing catalog question %s", id)
		}
		return q
	}

	t.Run("no response means incomplete", func(t *testing.T) {
		session := NewSession("s", "r", "t", start, catalog)
		for _, q := range catalog.Questions() {
			if session.IsQuestionComplete(q) {
				t.Fatalf("question %s unexpectedly complete", q.ID)
			}
		}
	})

	t.Run("image_always needs an image for any answer", func(t *testing.T) {
		session := NewSession("s", "r", "t", start, catalog)
		if err := session.RecordResponse("img_always", ResponseNo); err != nil {
			t.Fatalf("RecordResponse failed: %v", err)
		}
		if session.IsQuestionComplete(question("img_always")) {
			t.Fatal("expected incomplete without image")
		}
		if err := session.AttachEvidence("img_always", testRef("e1")); err != nil {
			t.Fatalf("AttachEvidence failed: %v", err)
		}
		if !session.IsQuestionComplete(question("img_always")) {
			t.Fatal("expected complete with image")
		}
	})

	t.Run("image_if_yes only binds on yes", func(t *testing.T) {
		session := NewSession("s", "r", "t", start, catalog)
		if err := session.RecordResponse("img_if_yes", ResponseNo); err != nil {
			t.Fatalf("RecordResponse failed: %v", err)
		}
		if !session.IsQuestionComplete(question("img_if_yes")) {
			t.Fatal("no answer should not require an image")
		}
		if err := session.RecordResponse("img_if_yes", ResponseYes); err != nil {
			t.Fatalf("RecordResponse failed: %v", err)
		}
		if session.IsQuestionComplete(question("img_if_yes")) {
			t.Fatal("yes answer requires an image")
		}
		if err := session.AttachEvidence("img_if_yes", testRef("e2")); err != nil {
			t.Fatalf("AttachEvidence failed: %v", err)
		}
		if !session.IsQuestionComplete(question("img_if_yes")) {
			t.Fatal("expected complete after attaching image")
		}
	})

	t.Run("note_always ignores whitespace-only notes", func(t *testing.T) {
		session := NewSession("s", "r", "t", start, catalog)
		if err := session.RecordResponse("note_always", ResponseYes); err != nil {
			t.Fatalf("RecordResponse failed: %v", err)
		}
		if err := session.SetNote("note_always", "   \t"); err != nil {
			t.Fatalf("SetNote failed: %v", err)
		}
		if session.IsQuestionComplete(question("note_always")) {
			t.Fatal("whitespace note must not satisfy the predicate")
		}
		if err := session.SetNote("note_always", "wheel cleaned"); err != nil {
			t.Fatalf("SetNote failed: %v", err)
		}
		if !session.IsQuestionComplete(question("note_always")) {
			t.Fatal("expected complete with real note")
		}
	})
}

// Mirrors the canonical three-question walkthrough: Q1 plain answered no,
// Q2 image-on-yes answered yes, Q3 note-always answered yes with a note.
func TestCompletionScenario(t *testing.T) {
	start := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	session := NewSession("s1", "robot-1", "tech-1", start, testCatalog(t))

	if err := session.RecordResponse("q1", ResponseNo); err != nil {
		t.Fatalf("RecordResponse q1: %v", err)
	}
	if err := session.RecordResponse("q2", ResponseYes); err != nil {
		t.Fatalf("RecordResponse q2: %v", err)
	}
	if err := session.RecordResponse("q3", ResponseYes); err != nil {
		t.Fatalf("RecordResponse q3: %v", err)
	}
	if err := session.SetNote("q3", "ok"); err != nil {
		t.Fatalf("SetNote q3: %v", err)
	}

	if session.IsComplete() {
		t.Fatal("q2 lacks its image; session must be incomplete")
	}

	_, err := session.Complete(start.Add(25 * time.Minute))
	var incomplete *IncompleteError
	if !errors.As(err, &incomplete) {
		t.Fatalf("expected IncompleteError, got %v", err)
	}
	if len(incomplete.Missing) != 1 || incomplete.Missing[0] != "q2" {
		t.Fatalf("expected missing [q2], got %v", incomplete.Missing)
	}

	if err := session.AttachEvidence("q2", testRef("e1")); err != nil {
		t.Fatalf("AttachEvidence q2: %v", err)
	}
	if !session.IsComplete() {
		t.Fatal("expected complete after attaching image")
	}

	end := start.Add(25 * time.Minute)
	report, err := session.Complete(end)
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if session.Status != StatusCompleted {
		t.Fatalf("expected completed status, got %s", session.Status)
	}
	if session.EndTime == nil || !session.EndTime.Equal(end) {
		t.Fatalf("unexpected end time: %v", session.EndTime)
	}
	if report.IssueCount != 1 {
		t.Fatalf("expected issueCount 1, got %d", report.IssueCount)
	}
	if report.OverallStatus != OverallGood {
		t.Fatalf("expected good, got %s", report.OverallStatus)
	}
	if report.DurationMinutes != 25 {
		t.Fatalf("expected 25 minutes, got %d", report.DurationMinutes)
	}
}

func TestCompletedSessionIsReadOnly(t *testing.T) {
	start := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	session := NewSession("s1", "robot-1", "tech-1", start, testCatalog(t))

	for _, id := range []string{"q1", "q2", "q3"} {
		if err := session.RecordResponse(id, ResponseNo); err != nil {
			t.Fatalf("RecordResponse %s: %v", id, err)
		}
	}
	if err := session.SetNote("q3", "door latch loose"); err != nil {
		t.Fatalf("SetNote: %v", err)
	}
	if _, err := session.Complete(start.Add(time.Hour)); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	before := len(session.Responses)
	if err := session.RecordResponse("q1", ResponseYes); !errors.Is(err, ErrSessionCompleted) {
		t.Fatalf("expected ErrSessionCompleted, got %v", err)
	}
	if session.Responses["q1"] != ResponseNo || len(session.Responses) != before {
		t.Fatal("responses changed after completion")
	}
	if err := session.AttachEvidence("q1", testRef("e9")); !errors.Is(err, ErrSessionCompleted) {
		t.Fatalf("expected ErrSessionCompleted, got %v", err)
	}
	if err := session.SetNote("q1", "late note"); !errors.Is(err, ErrSessionCompleted) {
		t.Fatalf("expected ErrSessionCompleted, got %v", err)
	}

	if _, err := session.Complete(start.Add(2 * time.Hour)); !errors.Is(err, ErrAlreadyCompleted) {
		t.Fatalf("expected ErrAlreadyCompleted, got %v", err)
	}
}

func TestCatalogValidation(t *testing.T) {
	t.Run("duplicate id", func(t *testing.T) {
		_, err := NewCatalog([]Question{{ID: "a"}, {ID: "a"}})
		if err == nil {
			t.Fatal("expected duplicate id error")
		}
	})
	t.Run("blank id", func(t *testing.T) {
		_, err := NewCatalog([]Question{{ID: "  "}})
		if err == nil {
			t.Fatal("expected blank id error")
		}
	})
	t.Run("unknown evidence requirement", func(t *testing.T) {
		_, err := NewCatalog([]Question{{ID: "a", Evidence: EvidenceRequirement("sometimes")}})
		if err == nil {
			t.Fatal("expected evidence requirement error")
		}
	})
	t.Run("empty catalog", func(t *testing.T) {
		if _, err := NewCatalog(nil); err == nil {
			t.Fatal("expected empty catalog error")
		}
	})
}

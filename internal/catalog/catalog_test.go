package catalog

import (
	"testing"

	"github.com/ctrl-robotics/maintenance-services/api/internal/checklist/domain"
)

func TestDefaultCatalog(t *testing.T) {
	c := Default()
	if c.Len() != 10 {
		t.Fatalf("expected 10 questions, got %d", c.Len())
	}

	damage, ok := c.Question("damage_check")
	if !ok || damage.Evidence != domain.EvidenceImageIfYes {
		t.Fatalf("damage_check should require an image on yes: %+v", damage)
	}
	underside, ok := c.Question("underside_inspection")
	if !ok || underside.Evidence != domain.EvidenceImageAlways {
		t.Fatalf("underside_inspection should always require an image: %+v", underside)
	}

	// The last question is the underside inspection; order matters for the UI.
	questions := c.Questions()
	if questions[0].ID != "display_working" || questions[9].ID != "underside_inspection" {
		t.Fatalf("unexpected ordering: first=%s last=%s", questions[0].ID, questions[9].ID)
	}
}

func TestParse(t *testing.T) {
	data := []byte(`
questions:
  - id: brakes
    title: Brake Check
    prompt: Do the brakes engage?
  - id: corrosion
    title: Corrosion
    prompt: Any visible corrosion?
    evidence: image_if_yes
  - id: handover
    title: Handover Note
    prompt: Summarize the visit for the customer.
    evidence: note_always
`)
	c, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if c.Len() != 3 {
		t.Fatalf("expected 3 questions, got %d", c.Len())
	}
	q, ok := c.Question("corrosion")
	if !ok || q.Evidence != domain.EvidenceImageIfYes {
		t.Fatalf("unexpected corrosion question: %+v", q)
	}
	if q.Type != domain.ResponseTypeYesNoPlus {
		t.Fatalf("omitted type should default to yes_no_plus, got %q", q.Type)
	}

	t.Run("duplicate id rejected", func(t *testing.T) {
		_, err := Parse([]byte("questions:\n  - id: a\n  - id: a\n"))
		if err == nil {
			t.Fatal("expected duplicate id error")
		}
	})

	t.Run("unknown evidence rejected", func(t *testing.T) {
		_, err := Parse([]byte("questions:\n  - id: a\n    evidence: video\n"))
		if err == nil {
			t.Fatal("expected evidence error")
		}
	})
}

package domain

import (
	"fmt"
	"strings"
)

// ResponseValue is the technician's answer to a checklist question.
type ResponseValue string

const (
	ResponseYes ResponseValue = "yes"
	ResponseNo  ResponseValue = "no"
)

// NewResponseValue validates a raw answer string.
func NewResponseValue(raw string) (ResponseValue, error) {
	switch ResponseValue(strings.TrimSpace(strings.ToLower(raw))) {
	case ResponseYes:
		return ResponseYes, nil
	case ResponseNo:
		return ResponseNo, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidResponse, raw)
}

// ResponseType enumerates supported question kinds. Only yes/no with an
// auxiliary note/photo flow exists today.
type ResponseType string

const ResponseTypeYesNoPlus ResponseType = "yes_no_plus"

// NewResponseType validates a raw response type. An empty value defaults to
// yes_no_plus so catalog files can omit it.
func NewResponseType(raw string) (ResponseType, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || ResponseType(trimmed) == ResponseTypeYesNoPlus {
		return ResponseTypeYesNoPlus, nil
	}
	return "", fmt.Errorf("unsupported response type: %q", raw)
}

// EvidenceRequirement determines whether a question counts as complete
// without attached evidence.
type EvidenceRequirement string

const (
	EvidenceNone        EvidenceRequirement = "none"
	EvidenceImageAlways EvidenceRequirement = "image_always"
	EvidenceImageIfYes  EvidenceRequirement = "image_if_yes"
	EvidenceNoteAlways  EvidenceRequirement = "note_always"
)

// NewEvidenceRequirement validates a raw requirement string. Empty means none.
func NewEvidenceRequirement(raw string) (EvidenceRequirement, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return EvidenceNone, nil
	}
	switch EvidenceRequirement(trimmed) {
	case EvidenceNone, EvidenceImageAlways, EvidenceImageIfYes, EvidenceNoteAlways:
		return EvidenceRequirement(trimmed), nil
	}
	return "", fmt.Errorf("unknown evidence requirement: %q", raw)
}

// Question is one static checklist entry. Title and Prompt are display text,
// opaque to the session logic.
type Question struct {
	ID       string
	Title    string
	Prompt   string
	Type     ResponseType
	Evidence EvidenceRequirement
}

// Catalog is the fixed, ordered question list asked during one maintenance
// visit. Sessions never mutate it.
type Catalog struct {
	questions []Question
	index     map[string]int
}

// NewCatalog validates question ids and enum fields and freezes the order.
func NewCatalog(questions []Question) (*Catalog, error) {
	if len(questions) == 0 {
		return nil, fmt.Errorf("catalog must contain at least one question")
	}
	index := make(map[string]int, len(questions))
	ordered := make([]Question, len(questions))
	for i, q := range questions {
		q.ID = strings.TrimSpace(q.ID)
		if q.ID == "" {
			return nil, fmt.Errorf("question %d: id is required", i)
		}
		if _, dup := index[q.ID]; dup {
			return nil, fmt.Errorf("duplicate question id: %s", q.ID)
		}
		responseType, err := NewResponseType(string(q.Type))
		if err != nil {
			return nil, fmt.Errorf("question %s: %w", q.ID, err)
		}
		q.Type = responseType
		requirement, err := NewEvidenceRequirement(string(q.Evidence))
		if err != nil {
			return nil, fmt.Errorf("question %s: %w", q.ID, err)
		}
		q.Evidence = requirement
		index[q.ID] = i
		ordered[i] = q
	}
	return &Catalog{questions: ordered, index: index}, nil
}

// Questions returns the catalog entries in visit order.
func (c *Catalog) Questions() []Question {
	out := make([]Question, len(c.questions))
	copy(out, c.questions)
	return out
}

// Question looks up a single entry by id.
func (c *Catalog) Question(id string) (Question, bool) {
	i, ok := c.index[id]
	if !ok {
		return Question{}, false
	}
	return c.questions[i], true
}

// Contains reports whether id belongs to the catalog.
func (c *Catalog) Contains(id string) bool {
	_, ok := c.index[id]
	return ok
}

// Len is the number of questions in the catalog.
func (c *Catalog) Len() int {
	return len(c.questions)
}

package domain

import (
	"fmt"
	"strings"
	"time"
)

// Status is the session lifecycle state. The only transition is
// in_progress → completed and it is irreversible.
type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// Session tracks one technician working through the checklist for one robot.
// RobotRef, TechnicianRef and StartTime are fixed at creation. All mutation
// goes through the methods below; once completed the session is read-only.
type Session struct {
	ID            string
	RobotRef      string
	TechnicianRef string
	StartTime     time.Time
	EndTime       *time.Time
	Status        Status
	Responses     map[string]ResponseValue
	Images        map[string][]EvidenceRef
	Notes         map[string]string
	Catalog       *Catalog
}

// NewSession starts an in-progress session over the given catalog. The id may
// be empty; repositories assign one on first persist.
func NewSession(id, robotRef, technicianRef string, startTime time.Time, catalog *Catalog) *Session {
	return &Session{
		ID:            id,
		RobotRef:      robotRef,
		TechnicianRef: technicianRef,
		StartTime:     startTime,
		Status:        StatusInProgress,
		Responses:     make(map[string]ResponseValue),
		Images:        make(map[string][]EvidenceRef),
		Notes:         make(map[string]string),
		Catalog:       catalog,
	}
}

// RecordResponse sets or overwrites the answer for a question. Answering the
// same question again with the same value is a plain overwrite, so repeated
// calls are idempotent.
func (s *Session) RecordResponse(questionID string, value ResponseValue) error {
	if err := s.guardMutation(questionID); err != nil {
		return err
	}
	if value != ResponseYes && value != ResponseNo {
		return fmt.Errorf("%w: %q", ErrInvalidResponse, value)
	}
	s.Responses[questionID] = value
	return nil
}

// AttachEvidence appends a stored evidence reference to the question's image
// list. Attachment order is preserved; it is also the report order.
func (s *Session) AttachEvidence(questionID string, ref EvidenceRef) error {
	if err := s.guardMutation(questionID); err != nil {
		return err
	}
	s.Images[questionID] = append(s.Images[questionID], ref)
	return nil
}

// SetNote overwrites the free-text note for a question. Last write wins.
func (s *Session) SetNote(questionID, text string) error {
	if err := s.guardMutation(questionID); err != nil {
		return err
	}
	s.Notes[questionID] = text
	return nil
}

func (s *Session) guardMutation(questionID string) error {
	if s.Status == StatusCompleted {
		return ErrSessionCompleted
	}
	if !s.Catalog.Contains(questionID) {
		return fmt.Errorf("%w: %s", ErrUnknownQuestion, questionID)
	}
	return nil
}

// IsQuestionComplete evaluates the completion predicate for one question
// against the current responses, images and notes.
func (s *Session) IsQuestionComplete(q Question) bool {
	response, answered := s.Responses[q.ID]
	if !answered {
		return false
	}
	switch q.Evidence {
	case EvidenceImageAlways:
		return len(s.Images[q.ID]) > 0
	case EvidenceImageIfYes:
		return response != ResponseYes || len(s.Images[q.ID]) > 0
	case EvidenceNoteAlways:
		return strings.TrimSpace(s.Notes[q.ID]) != ""
	}
	return true
}

// IsComplete reports whether every catalog question satisfies its completion
// predicate. There is no ordering dependency; this is a plain conjunction.
func (s *Session) IsComplete() bool {
	for _, q := range s.Catalog.Questions() {
		if !s.IsQuestionComplete(q) {
			return false
		}
	}
	return true
}

// MissingQuestions lists, in catalog order, the questions that still fail
// their completion predicate.
func (s *Session) MissingQuestions() []string {
	var missing []string
	for _, q := range s.Catalog.Questions() {
		if !s.IsQuestionComplete(q) {
			missing = append(missing, q.ID)
		}
	}
	return missing
}

// Progress summarizes answered questions for progress display.
type Progress struct {
	Completed int
	Total     int
}

// Progress counts distinct answered questions against the catalog size.
// Evidence requirements do not gate this counter; it is advisory, unlike the
// completion check behind Complete.
func (s *Session) Progress() Progress {
	return Progress{Completed: len(s.Responses), Total: s.Catalog.Len()}
}

// Complete transitions the session to its terminal state and derives the
// inspection report. The clock is an explicit input so the transition stays
// deterministic. The call fails with IncompleteError while any question is
// unsatisfied and with ErrAlreadyCompleted on a second invocation.
func (s *Session) Complete(now time.Time) (*Report, error) {
	if s.Status == StatusCompleted {
		return nil, ErrAlreadyCompleted
	}
	if missing := s.MissingQuestions(); len(missing) > 0 {
		return nil, &IncompleteError{Missing: missing}
	}
	end := now
	s.Status = StatusCompleted
	s.EndTime = &end
	return buildReport(s, now), nil
}

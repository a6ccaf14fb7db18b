package domain

import (
	"math"
	"time"
)

// OverallStatus is the qualitative condition bucket derived from the number
// of "no" answers in a completed session.
type OverallStatus string

const (
	OverallExcellent OverallStatus = "excellent"
	OverallGood      OverallStatus = "good"
	OverallFair      OverallStatus = "fair"
	OverallPoor      OverallStatus = "poor"
)

// OverallStatusForIssues maps an issue count onto the four buckets:
// 0 excellent, 1-2 good, 3-4 fair, above 4 poor.
func OverallStatusForIssues(issueCount int) OverallStatus {
	switch {
	case issueCount == 0:
		return OverallExcellent
	case issueCount <= 2:
		return OverallGood
	case issueCount <= 4:
		return OverallFair
	}
	return OverallPoor
}

// nextMaintenanceMonths is the fixed service cadence. Customer-specific
// scheduling lives outside the checklist core.
const nextMaintenanceMonths = 3

// Report is the immutable record derived from a session at the moment of
// completion. Responses, images and notes are deep copies of the final
// session state.
type Report struct {
	SessionID       string
	RobotRef        string
	TechnicianRef   string
	StartTime       time.Time
	EndTime         time.Time
	GeneratedAt     time.Time
	DurationMinutes int
	// ClockAnomaly marks a completion timestamp earlier than the start time.
	// The duration is clamped to zero instead of going negative.
	ClockAnomaly    bool
	IssueCount      int
	PhotoCount      int
	OverallStatus   OverallStatus
	NextMaintenance time.Time
	Responses       map[string]ResponseValue
	Images          map[string][]EvidenceRef
	Notes           map[string]string
}

func buildReport(s *Session, now time.Time) *Report {
	rawMinutes := now.Sub(s.StartTime).Minutes()
	anomaly := rawMinutes < 0
	if anomaly {
		rawMinutes = 0
	}

	issues := 0
	for _, value := range s.Responses {
		if value == ResponseNo {
			issues++
		}
	}

	photos := 0
	images := make(map[string][]EvidenceRef, len(s.Images))
	for id, refs := range s.Images {
		copied := make([]EvidenceRef, len(refs))
		copy(copied, refs)
		images[id] = copied
		photos += len(refs)
	}

	responses := make(map[string]ResponseValue, len(s.Responses))
	for id, value := range s.Responses {
		responses[id] = value
	}
	notes := make(map[string]string, len(s.Notes))
	for id, text := range s.Notes {
		notes[id] = text
	}

	return &Report{
		SessionID:       s.ID,
		RobotRef:        s.RobotRef,
		TechnicianRef:   s.TechnicianRef,
		StartTime:       s.StartTime,
		EndTime:         now,
		GeneratedAt:     now,
		DurationMinutes: int(math.Round(rawMinutes)),
		ClockAnomaly:    anomaly,
		IssueCount:      issues,
		PhotoCount:      photos,
		OverallStatus:   OverallStatusForIssues(issues),
		NextMaintenance: now.AddDate(0, nextMaintenanceMonths, 0),
		Responses:       responses,
		Images:          images,
		Notes:           notes,
	}
}

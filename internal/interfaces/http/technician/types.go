package technician

import (
	"time"

	"github.com/ctrl-robotics/maintenance-services/api/internal/checklist/domain"
)

type questionResponse struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Prompt   string `json:"prompt"`
	Type     string `json:"type"`
	Evidence string `json:"evidence"`
}

type catalogResponse struct {
	Questions []questionResponse `json:"questions"`
}

type evidenceRefResponse struct {
	ID         string    `json:"id"`
	URL        string    `json:"url"`
	UploadedAt time.Time `json:"uploadedAt"`
	Note       string    `json:"note,omitempty"`
}

type sessionResponse struct {
	ID            string                           `json:"id"`
	RobotRef      string                           `json:"robotRef"`
	TechnicianRef string                           `json:"technicianRef"`
	StartTime     time.Time                        `json:"startTime"`
	EndTime       *time.Time                       `json:"endTime,omitempty"`
	Status        string                           `json:"status"`
	Responses     map[string]string                `json:"responses"`
	Images        map[string][]evidenceRefResponse `json:"images"`
	Notes         map[string]string                `json:"notes"`
	Missing       []string                         `json:"missing,omitempty"`
}

type progressResponse struct {
	Completed int `json:"completed"`
	Total     int `json:"total"`
}

type reportResponse struct {
	SessionID       string                           `json:"sessionId"`
	RobotRef        string                           `json:"robotRef"`
	TechnicianRef   string                           `json:"technicianRef"`
	StartTime       time.Time                        `json:"startTime"`
	EndTime         time.Time                        `json:"endTime"`
	GeneratedAt     time.Time                        `json:"generatedAt"`
	DurationMinutes int                              `json:"durationMinutes"`
	ClockAnomaly    bool                             `json:"clockAnomaly,omitempty"`
	IssueCount      int                              `json:"issueCount"`
	PhotoCount      int                              `json:"photoCount"`
	OverallStatus   string                           `json:"overallStatus"`
	NextMaintenance time.Time                        `json:"nextMaintenance"`
	Responses       map[string]string                `json:"responses"`
	Images          map[string][]evidenceRefResponse `json:"images"`
	Notes           map[string]string                `json:"notes"`
}

type completeResponse struct {
	Report    reportResponse `json:"report"`
	Delivered bool           `json:"delivered"`
}

func buildCatalogResponse(catalog *domain.Catalog) catalogResponse {
	questions := catalog.Questions()
	items := make([]questionResponse, 0, len(questions))
	for _, q := range questions {
		items = append(items, questionResponse{
			ID:       q.ID,
			Title:    q.Title,
			Prompt:   q.Prompt,
			Type:     string(q.Type),
			Evidence: string(q.Evidence),
		})
	}
	return catalogResponse{Questions: items}
}

// buildSessionResponse converts the domain session into its transport DTO.
// Missing lists the questions still blocking completion, in catalog order.
func buildSessionResponse(s *domain.Session) sessionResponse {
	responses := make(map[string]string, len(s.Responses))
	for id, value := range s.Responses {
		responses[id] = string(value)
	}
	notes := make(map[string]string, len(s.Notes))
	for id, text := range s.Notes {
		notes[id] = text
	}

	resp := sessionResponse{
		ID:            s.ID,
		RobotRef:      s.RobotRef,
		TechnicianRef: s.TechnicianRef,
		StartTime:     s.StartTime,
		EndTime:       s.EndTime,
		Status:        string(s.Status),
		Responses:     responses,
		Images:        buildEvidenceRefMap(s.Images),
		Notes:         notes,
	}
	if s.Status != domain.StatusCompleted {
		resp.Missing = s.MissingQuestions()
	}
	return resp
}

func buildReportResponse(r *domain.Report) reportResponse {
	responses := make(map[string]string, len(r.Responses))
	for id, value := range r.Responses {
		responses[id] = string(value)
	}
	notes := make(map[string]string, len(r.Notes))
	for id, text := range r.Notes {
		notes[id] = text
	}

	return reportResponse{
		SessionID:       r.SessionID,
		RobotRef:        r.RobotRef,
		TechnicianRef:   r.TechnicianRef,
		StartTime:       r.StartTime,
		EndTime:         r.EndTime,
		GeneratedAt:     r.GeneratedAt,
		DurationMinutes: r.DurationMinutes,
		ClockAnomaly:    r.ClockAnomaly,
		IssueCount:      r.IssueCount,
		PhotoCount:      r.PhotoCount,
		OverallStatus:   string(r.OverallStatus),
		NextMaintenance: r.NextMaintenance,
		Responses:       responses,
		Images:          buildEvidenceRefMap(r.Images),
		Notes:           notes,
	}
}

func buildEvidenceRefMap(images map[string][]domain.EvidenceRef) map[string][]evidenceRefResponse {
	result := make(map[string][]evidenceRefResponse, len(images))
	for id, refs := range images {
		items := make([]evidenceRefResponse, 0, len(refs))
		for _, ref := range refs {
			items = append(items, evidenceRefResponse{
				ID:         ref.ID,
				URL:        ref.URL,
				UploadedAt: ref.UploadedAt,
				Note:       ref.Note,
			})
		}
		result[id] = items
	}
	return result
}

package admin

import (
	"time"

	"github.com/ctrl-robotics/maintenance-services/api/internal/checklist/application"
)

type reportSummaryResponse struct {
	ID              string    `json:"id"`
	SessionID       string    `json:"sessionId"`
	RobotRef        string    `json:"robotRef"`
	RobotSerial     string    `json:"robotSerial,omitempty"`
	RobotModel      string    `json:"robotModel,omitempty"`
	CustomerName    string    `json:"customerName,omitempty"`
	TechnicianName  string    `json:"technicianName,omitempty"`
	EndTime         time.Time `json:"endTime"`
	DurationMinutes int       `json:"durationMinutes"`
	IssueCount      int       `json:"issueCount"`
	PhotoCount      int       `json:"photoCount"`
	OverallStatus   string    `json:"overallStatus"`
	NextMaintenance time.Time `json:"nextMaintenance"`
	CreatedAt       time.Time `json:"createdAt"`
}

type reportListResponse struct {
	Items []reportSummaryResponse `json:"items"`
	Page  int                     `json:"page"`
	Limit int                     `json:"limit"`
}

type evidenceRefPayload struct {
	ID         string    `json:"id"`
	URL        string    `json:"url"`
	UploadedAt time.Time `json:"uploadedAt"`
	Note       string    `json:"note,omitempty"`
}

type reportDetailResponse struct {
	reportSummaryResponse
	TechnicianRef   string                          `json:"technicianRef"`
	CustomerAddress string                          `json:"customerAddress,omitempty"`
	StartTime       time.Time                       `json:"startTime"`
	GeneratedAt     time.Time                       `json:"generatedAt"`
	ClockAnomaly    bool                            `json:"clockAnomaly,omitempty"`
	Responses       map[string]string               `json:"responses"`
	Images          map[string][]evidenceRefPayload `json:"images"`
	Notes           map[string]string               `json:"notes"`
}

type robotStatsResponse struct {
	RobotRef        string     `json:"robotRef"`
	InspectionCount int        `json:"inspectionCount"`
	AvgDuration     *float64   `json:"avgDurationMinutes,omitempty"`
	AvgIssueCount   *float64   `json:"avgIssueCount,omitempty"`
	LastServicedAt  *time.Time `json:"lastServicedAt,omitempty"`
}

func buildReportSummaryResponse(record application.ReportRecord) reportSummaryResponse {
	return reportSummaryResponse{
		ID:              record.ID,
		SessionID:       record.Report.SessionID,
		RobotRef:        record.Report.RobotRef,
		RobotSerial:     record.Meta.RobotSerial,
		RobotModel:      record.Meta.RobotModel,
		CustomerName:    record.Meta.CustomerName,
		TechnicianName:  record.Meta.TechnicianName,
		EndTime:         record.Report.EndTime,
		DurationMinutes: record.Report.DurationMinutes,
		IssueCount:      record.Report.IssueCount,
		PhotoCount:      record.Report.PhotoCount,
		OverallStatus:   string(record.Report.OverallStatus),
		NextMaintenance: record.Report.NextMaintenance,
		CreatedAt:       record.CreatedAt,
	}
}

func buildReportDetailResponse(record *application.ReportRecord) reportDetailResponse {
	responses := make(map[string]string, len(record.Report.Responses))
	for id, value := range record.Report.Responses {
		responses[id] = string(value)
	}
	images := make(map[string][]evidenceRefPayload, len(record.Report.Images))
	for id, refs := range record.Report.Images {
		items := make([]evidenceRefPayload, 0, len(refs))
		for _, ref := range refs {
			items = append(items, evidenceRefPayload{
				ID:         ref.ID,
				URL:        ref.URL,
				UploadedAt: ref.UploadedAt,
				Note:       ref.Note,
			})
		}
		images[id] = items
	}
	notes := make(map[string]string, len(record.Report.Notes))
	for id, text := range record.Report.Notes {
		notes[id] = text
	}

	return reportDetailResponse{
		reportSummaryResponse: buildReportSummaryResponse(*record),
		TechnicianRef:         record.Report.TechnicianRef,
		CustomerAddress:       record.Meta.CustomerAddress,
		StartTime:             record.Report.StartTime,
		GeneratedAt:           record.Report.GeneratedAt,
		ClockAnomaly:          record.Report.ClockAnomaly,
		Responses:             responses,
		Images:                images,
		Notes:                 notes,
	}
}

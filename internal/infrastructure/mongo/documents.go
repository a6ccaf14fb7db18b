package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// QuestionDocument is one catalog entry snapshotted into the session at
// creation time, so a stored session replays against the catalog it was
// started with even after the deployed catalog changes.
type QuestionDocument struct {
	ID       string `bson:"id"`
	Title    string `bson:"title"`
	Prompt   string `bson:"prompt"`
	Type     string `bson:"type"`
	Evidence string `bson:"evidence"`
}

// EvidenceRefDocument stores one attached evidence reference.
type EvidenceRefDocument struct {
	ID         string    `bson:"id"`
	URL        string    `bson:"url"`
	UploadedAt time.Time `bson:"uploadedAt"`
	Note       string    `bson:"note,omitempty"`
}

// SessionDocument is the MongoDB schema for a checklist session.
type SessionDocument struct {
	ID            primitive.ObjectID               `bson:"_id"`
	RobotRef      string                           `bson:"robotRef"`
	TechnicianRef string                           `bson:"technicianRef"`
	StartTime     time.Time                        `bson:"startTime"`
	EndTime       *time.Time                       `bson:"endTime,omitempty"`
	Status        string                           `bson:"status"`
	Questions     []QuestionDocument               `bson:"questions"`
	Responses     map[string]string                `bson:"responses"`
	Images        map[string][]EvidenceRefDocument `bson:"images"`
	Notes         map[string]string                `bson:"notes"`
	CreatedAt     time.Time                        `bson:"createdAt"`
	UpdatedAt     time.Time                        `bson:"updatedAt"`
}

// ReportMetaDocument embeds the caller-supplied customer and identity context
// a report was submitted with.
type ReportMetaDocument struct {
	CustomerName    string `bson:"customerName,omitempty"`
	CustomerAddress string `bson:"customerAddress,omitempty"`
	RobotSerial     string `bson:"robotSerial,omitempty"`
	RobotModel      string `bson:"robotModel,omitempty"`
	TechnicianName  string `bson:"technicianName,omitempty"`
}

// ReportDocument is the MongoDB schema for a completed inspection report.
type ReportDocument struct {
	ID              primitive.ObjectID               `bson:"_id"`
	SessionID       string                           `bson:"sessionId"`
	RobotRef        string                           `bson:"robotRef"`
	TechnicianRef   string                           `bson:"technicianRef"`
	StartTime       time.Time                        `bson:"startTime"`
	EndTime         time.Time                        `bson:"endTime"`
	GeneratedAt     time.Time                        `bson:"generatedAt"`
	DurationMinutes int                              `bson:"durationMinutes"`
	ClockAnomaly    bool                             `bson:"clockAnomaly,omitempty"`
	IssueCount      int                              `bson:"issueCount"`
	PhotoCount      int                              `bson:"photoCount"`
	OverallStatus   string                           `bson:"overallStatus"`
	NextMaintenance time.Time                        `bson:"nextMaintenance"`
	Responses       map[string]string                `bson:"responses"`
	Images          map[string][]EvidenceRefDocument `bson:"images"`
	Notes           map[string]string                `bson:"notes"`
	Meta            ReportMetaDocument               `bson:"meta"`
	CreatedAt       time.Time                        `bson:"createdAt"`
}

// RobotStatsDocument keeps the per-robot service aggregate, recalculated on
// every report submission.
type RobotStatsDocument struct {
	RobotRef        string     `bson:"_id"`
	InspectionCount int        `bson:"inspectionCount"`
	AvgDuration     *float64   `bson:"avgDuration,omitempty"`
	AvgIssueCount   *float64   `bson:"avgIssueCount,omitempty"`
	LastServicedAt  *time.Time `bson:"lastServicedAt,omitempty"`
	UpdatedAt       time.Time  `bson:"updatedAt"`
}

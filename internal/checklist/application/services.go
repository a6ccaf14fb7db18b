package application

import (
	"context"
	"errors"
	"time"

	"github.com/ctrl-robotics/maintenance-services/api/internal/checklist/domain"
)

// ErrSessionNotFound is returned by repositories when no session matches.
var ErrSessionNotFound = errors.New("session not found")

// ErrReportNotFound is returned by report queries when no record matches.
var ErrReportNotFound = errors.New("report not found")

// ErrReportDelivery wraps a report sink failure. The completed report is still
// returned alongside it; the caller decides whether and how to retry.
var ErrReportDelivery = errors.New("report delivery failed")

// SessionRepository is the injected session store. Implementations may be
// in-memory or backed by a database; the checklist logic never touches an
// ambient global.
type SessionRepository interface {
	// Create persists a new session and assigns its ID.
	Create(ctx context.Context, session *domain.Session) error
	FindByID(ctx context.Context, id string) (*domain.Session, error)
	Save(ctx context.Context, session *domain.Session) error
}

// EvidenceUpload describes evidence handed to the sink. FileRef is an opaque
// pointer to the uploaded binary; the binary itself never passes through here.
type EvidenceUpload struct {
	FileRef     string
	ContentType string
	Note        string
}

// EvidenceSink stores evidence and returns the reference the session records.
type EvidenceSink interface {
	Store(ctx context.Context, sessionID, questionID string, upload EvidenceUpload) (domain.EvidenceRef, error)
}

// ReportMetadata is the identity and customer context the caller supplies at
// completion time. The checklist core does not own any of it.
type ReportMetadata struct {
	CustomerName    string
	CustomerAddress string
	RobotSerial     string
	RobotModel      string
	TechnicianName  string
}

// ReportSink persists a completed report. The service submits once and never
// retries.
type ReportSink interface {
	Submit(ctx context.Context, report *domain.Report, meta ReportMetadata) error
}

// Subscriber receives the updated session after each accepted mutation. The
// UI layer registers here to refresh its view.
type Subscriber func(session *domain.Session)

// StartSessionCommand carries the inputs for opening a session once a scanned
// robot has been confirmed.
type StartSessionCommand struct {
	RobotRef      string
	TechnicianRef string
	// StartTime defaults to the service clock when zero.
	StartTime time.Time
}

// SessionService exposes the checklist use-cases.
type SessionService interface {
	Start(ctx context.Context, cmd StartSessionCommand) (*domain.Session, error)
	Get(ctx context.Context, id string) (*domain.Session, error)
	RecordResponse(ctx context.Context, sessionID, questionID string, value domain.ResponseValue) (*domain.Session, error)
	AttachEvidence(ctx context.Context, sessionID, questionID string, upload EvidenceUpload) (*domain.Session, domain.EvidenceRef, error)
	SetNote(ctx context.Context, sessionID, questionID, text string) (*domain.Session, error)
	Progress(ctx context.Context, sessionID string) (domain.Progress, error)
	Complete(ctx context.Context, sessionID string, meta ReportMetadata) (*domain.Report, error)
}

// ReportRecord is a persisted report together with its caller-supplied
// metadata, as stored by the sink.
type ReportRecord struct {
	ID        string
	Report    domain.Report
	Meta      ReportMetadata
	CreatedAt time.Time
}

// ReportFilter expresses admin search criteria over stored reports.
type ReportFilter struct {
	OverallStatus string
	RobotRef      string
	Keyword       string
}

// Paging controls pagination.
type Paging struct {
	Page  int
	Limit int
}

// RobotServiceStats aggregates a robot's maintenance history.
type RobotServiceStats struct {
	RobotRef        string
	InspectionCount int
	AvgDuration     *float64
	AvgIssueCount   *float64
	LastServicedAt  *time.Time
}

// ReportQueryRepository reads back what the report sink stored.
type ReportQueryRepository interface {
	Find(ctx context.Context, filter ReportFilter, paging Paging) ([]ReportRecord, error)
	FindByID(ctx context.Context, id string) (*ReportRecord, error)
	RobotStats(ctx context.Context, robotRef string) (*RobotServiceStats, error)
}

// ReportQueryService describes the admin report use-cases.
type ReportQueryService interface {
	List(ctx context.Context, filter ReportFilter, paging Paging) ([]ReportRecord, error)
	Detail(ctx context.Context, id string) (*ReportRecord, error)
	RobotStats(ctx context.Context, robotRef string) (*RobotServiceStats, error)
}

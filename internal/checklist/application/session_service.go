package application

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/ctrl-robotics/maintenance-services/api/internal/checklist/domain"
)

type sessionService struct {
	repo        SessionRepository
	evidence    EvidenceSink
	reports     ReportSink
	catalog     *domain.Catalog
	logger      *log.Logger
	clock       func() time.Time
	subscribers []Subscriber
}

// SessionServiceConfig bundles the collaborators a session service needs.
type SessionServiceConfig struct {
	Repository   SessionRepository
	EvidenceSink EvidenceSink
	ReportSink   ReportSink
	Catalog      *domain.Catalog
	Logger       *log.Logger
	// Clock overrides time.Now, mainly for tests.
	Clock func() time.Time
}

// NewSessionService wires the checklist use-cases over the injected
// repository and sinks.
func NewSessionService(cfg SessionServiceConfig, subscribers ...Subscriber) SessionService {
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	return &sessionService{
		repo:        cfg.Repository,
		evidence:    cfg.EvidenceSink,
		reports:     cfg.ReportSink,
		catalog:     cfg.Catalog,
		logger:      cfg.Logger,
		clock:       clock,
		subscribers: subscribers,
	}
}

func (s *sessionService) Start(ctx context.Context, cmd StartSessionCommand) (*domain.Session, error) {
	if cmd.RobotRef == "" {
		return nil, errors.New("robot reference is required")
	}
	if cmd.TechnicianRef == "" {
		return nil, errors.New("technician reference is required")
	}
	startTime := cmd.StartTime
	if startTime.IsZero() {
		startTime = s.clock()
	}
	session := domain.NewSession("", cmd.RobotRef, cmd.TechnicianRef, startTime, s.catalog)
	if err := s.repo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return session, nil
}

func (s *sessionService) Get(ctx context.Context, id string) (*domain.Session, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *sessionService) RecordResponse(ctx context.Context, sessionID, questionID string, value domain.ResponseValue) (*domain.Session, error) {
	session, err := s.repo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := session.RecordResponse(questionID, value); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	s.notify(session)
	return session, nil
}

// AttachEvidence stores the upload through the sink first; the session gains
// the reference only on sink success, so a failed upload leaves no entry and
// the caller is free to retry.
func (s *sessionService) AttachEvidence(ctx context.Context, sessionID, questionID string, upload EvidenceUpload) (*domain.Session, domain.EvidenceRef, error) {
	session, err := s.repo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, domain.EvidenceRef{}, err
	}
	// Validate against session state before paying for the upload.
	if session.Status == domain.StatusCompleted {
		return nil, domain.EvidenceRef{}, domain.ErrSessionCompleted
	}
	if !session.Catalog.Contains(questionID) {
		return nil, domain.EvidenceRef{}, fmt.Errorf("%w: %s", domain.ErrUnknownQuestion, questionID)
	}

	ref, err := s.evidence.Store(ctx, sessionID, questionID, upload)
	if err != nil {
		return nil, domain.EvidenceRef{}, fmt.Errorf("store evidence: %w", err)
	}
	if err := session.AttachEvidence(questionID, ref); err != nil {
		return nil, domain.EvidenceRef{}, err
	}
	if err := s.repo.Save(ctx, session); err != nil {
		return nil, domain.EvidenceRef{}, fmt.Errorf("save session: %w", err)
	}
	s.notify(session)
	return session, ref, nil
}

func (s *sessionService) SetNote(ctx context.Context, sessionID, questionID, text string) (*domain.Session, error) {
	session, err := s.repo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := session.SetNote(questionID, text); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	s.notify(session)
	return session, nil
}

func (s *sessionService) Progress(ctx context.Context, sessionID string) (domain.Progress, error) {
	session, err := s.repo.FindByID(ctx, sessionID)
	if err != nil {
		return domain.Progress{}, err
	}
	return session.Progress(), nil
}

// Complete finalizes the session and submits the derived report. The local
// completion commits before submission; a sink failure surfaces as
// ErrReportDelivery with the report still returned, since persistence is a
// best-effort side channel rather than a transactional dependency.
func (s *sessionService) Complete(ctx context.Context, sessionID string, meta ReportMetadata) (*domain.Report, error) {
	session, err := s.repo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	report, err := session.Complete(s.clock())
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	s.notify(session)

	if err := s.reports.Submit(ctx, report, meta); err != nil {
		if s.logger != nil {
			s.logger.Printf("report submission failed session=%s err=%v", sessionID, err)
		}
		return report, fmt.Errorf("%w: %v", ErrReportDelivery, err)
	}
	return report, nil
}

func (s *sessionService) notify(session *domain.Session) {
	for _, subscriber := range s.subscribers {
		subscriber(session)
	}
}

// Package memory provides in-memory implementations of the checklist
// repositories and sinks. They back the service when no database is
// configured and keep tests free of infrastructure.
package memory

import (
	"context"
	"sync"

	"github.com/ctrl-robotics/maintenance-services/api/internal/checklist/application"
	"github.com/ctrl-robotics/maintenance-services/api/internal/checklist/domain"
	"github.com/google/uuid"
)

// SessionRepository keeps sessions in a mutex-guarded map. Find returns deep
// copies so callers observe stored state only through Save, matching the
// behavior of a database-backed repository.
type SessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]*domain.Session
}

// NewSessionRepository returns an empty repository.
func NewSessionRepository() *SessionRepository {
	return &SessionRepository{sessions: make(map[string]*domain.Session)}
}

func (r *SessionRepository) Create(_ context.Context, session *domain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	r.sessions[session.ID] = cloneSession(session)
	return nil
}

func (r *SessionRepository) FindByID(_ context.Context, id string) (*domain.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	session, ok := r.sessions[id]
	if !ok {
		return nil, application.ErrSessionNotFound
	}
	return cloneSession(session), nil
}

func (r *SessionRepository) Save(_ context.Context, session *domain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[session.ID]; !ok {
		return application.ErrSessionNotFound
	}
	r.sessions[session.ID] = cloneSession(session)
	return nil
}

func cloneSession(s *domain.Session) *domain.Session {
	clone := &domain.Session{
		ID:            s.ID,
		RobotRef:      s.RobotRef,
		TechnicianRef: s.TechnicianRef,
		StartTime:     s.StartTime,
		Status:        s.Status,
		Responses:     make(map[string]domain.ResponseValue, len(s.Responses)),
		Images:        make(map[string][]domain.EvidenceRef, len(s.Images)),
		Notes:         make(map[string]string, len(s.Notes)),
		Catalog:       s.Catalog,
	}
	if s.EndTime != nil {
		end := *s.EndTime
		clone.EndTime = &end
	}
	for id, value := range s.Responses {
		clone.Responses[id] = value
	}
	for id, refs := range s.Images {
		copied := make([]domain.EvidenceRef, len(refs))
		copy(copied, refs)
		clone.Images[id] = copied
	}
	for id, text := range s.Notes {
		clone.Notes[id] = text
	}
	return clone
}

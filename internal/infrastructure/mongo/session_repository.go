// Package mongo implements the checklist repositories and report sink over
// MongoDB collections.
package mongo

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ctrl-robotics/maintenance-services/api/internal/checklist/application"
	"github.com/ctrl-robotics/maintenance-services/api/internal/checklist/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// SessionRepository persists checklist sessions in a Mongo collection.
type SessionRepository struct {
	collection *mongo.Collection
}

// NewSessionRepository binds the repository to the session collection.
func NewSessionRepository(db *mongo.Database, collection string) *SessionRepository {
	return &SessionRepository{collection: db.Collection(collection)}
}

// Create inserts a new session document and writes the assigned ObjectID back
// into the domain session.
func (r *SessionRepository) Create(ctx context.Context, session *domain.Session) error {
	now := time.Now().UTC()
	doc := mapSessionDocument(session)
	doc.ID = primitive.NewObjectID()
	doc.CreatedAt = now
	doc.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return err
	}
	session.ID = doc.ID.Hex()
	return nil
}

func (r *SessionRepository) FindByID(ctx context.Context, id string) (*domain.Session, error) {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return nil, application.ErrSessionNotFound
	}

	var doc SessionDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, application.ErrSessionNotFound
		}
		return nil, err
	}
	return mapSessionFromDocument(doc)
}

// Save replaces the stored document with the session's current state.
func (r *SessionRepository) Save(ctx context.Context, session *domain.Session) error {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(session.ID))
	if err != nil {
		return application.ErrSessionNotFound
	}

	doc := mapSessionDocument(session)
	doc.ID = objectID
	doc.UpdatedAt = time.Now().UTC()

	update := bson.M{"$set": bson.M{
		"robotRef":      doc.RobotRef,
		"technicianRef": doc.TechnicianRef,
		"startTime":     doc.StartTime,
		"endTime":       doc.EndTime,
		"status":        doc.Status,
		"questions":     doc.Questions,
		"responses":     doc.Responses,
		"images":        doc.Images,
		"notes":         doc.Notes,
		"updatedAt":     doc.UpdatedAt,
	}}
	result, err := r.collection.UpdateByID(ctx, objectID, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return application.ErrSessionNotFound
	}
	return nil
}

// mapSessionDocument flattens a domain session into its Mongo schema. The
// catalog travels with the session as a question snapshot.
func mapSessionDocument(s *domain.Session) SessionDocument {
	questions := s.Catalog.Questions()
	questionDocs := make([]QuestionDocument, 0, len(questions))
	for _, q := range questions {
		questionDocs = append(questionDocs, QuestionDocument{
			ID:       q.ID,
			Title:    q.Title,
			Prompt:   q.Prompt,
			Type:     string(q.Type),
			Evidence: string(q.Evidence),
		})
	}

	responses := make(map[string]string, len(s.Responses))
	for id, value := range s.Responses {
		responses[id] = string(value)
	}
	images := make(map[string][]EvidenceRefDocument, len(s.Images))
	for id, refs := range s.Images {
		images[id] = mapEvidenceRefDocuments(refs)
	}
	notes := make(map[string]string, len(s.Notes))
	for id, text := range s.Notes {
		notes[id] = text
	}

	return SessionDocument{
		RobotRef:      s.RobotRef,
		TechnicianRef: s.TechnicianRef,
		StartTime:     s.StartTime.UTC(),
		EndTime:       s.EndTime,
		Status:        string(s.Status),
		Questions:     questionDocs,
		Responses:     responses,
		Images:        images,
		Notes:         notes,
	}
}

// mapSessionFromDocument rebuilds the domain session, re-validating the
// stored question snapshot through the catalog constructor.
func mapSessionFromDocument(doc SessionDocument) (*domain.Session, error) {
	questions := make([]domain.Question, 0, len(doc.Questions))
	for _, q := range doc.Questions {
		questions = append(questions, domain.Question{
			ID:       q.ID,
			Title:    q.Title,
			Prompt:   q.Prompt,
			Type:     domain.ResponseType(q.Type),
			Evidence: domain.EvidenceRequirement(q.Evidence),
		})
	}
	catalog, err := domain.NewCatalog(questions)
	if err != nil {
		return nil, err
	}

	session := domain.NewSession(doc.ID.Hex(), doc.RobotRef, doc.TechnicianRef, doc.StartTime, catalog)
	session.Status = domain.Status(doc.Status)
	session.EndTime = doc.EndTime
	for id, value := range doc.Responses {
		session.Responses[id] = domain.ResponseValue(value)
	}
	for id, refs := range doc.Images {
		session.Images[id] = mapEvidenceRefsFromDocs(refs)
	}
	for id, text := range doc.Notes {
		session.Notes[id] = text
	}
	return session, nil
}

func mapEvidenceRefDocuments(refs []domain.EvidenceRef) []EvidenceRefDocument {
	docs := make([]EvidenceRefDocument, 0, len(refs))
	for _, ref := range refs {
		docs = append(docs, EvidenceRefDocument{
			ID:         ref.ID,
			URL:        ref.URL,
			UploadedAt: ref.UploadedAt,
			Note:       ref.Note,
		})
	}
	return docs
}

func mapEvidenceRefsFromDocs(docs []EvidenceRefDocument) []domain.EvidenceRef {
	refs := make([]domain.EvidenceRef, 0, len(docs))
	for _, doc := range docs {
		refs = append(refs, domain.EvidenceRef{
			ID:         doc.ID,
			URL:        doc.URL,
			UploadedAt: doc.UploadedAt,
			Note:       doc.Note,
		})
	}
	return refs
}

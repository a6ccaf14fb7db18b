// Package media implements the evidence sink over an external media store.
// Binaries are uploaded out of band; the sink mints the canonical reference
// the session records, pointing into the configured media base URL.
package media

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ctrl-robotics/maintenance-services/api/internal/checklist/application"
	"github.com/ctrl-robotics/maintenance-services/api/internal/checklist/domain"
	"github.com/google/uuid"
)

// RefSink turns uploaded file references into evidence references.
type RefSink struct {
	baseURL string
	clock   func() time.Time
}

// NewRefSink binds the sink to a media base URL, e.g. the CDN prefix the
// mobile client uploads into.
func NewRefSink(baseURL string) *RefSink {
	return &RefSink{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		clock:   time.Now,
	}
}

// Store validates the upload descriptor and returns the reference to record.
func (s *RefSink) Store(_ context.Context, sessionID, questionID string, upload application.EvidenceUpload) (domain.EvidenceRef, error) {
	fileRef := strings.TrimSpace(upload.FileRef)
	if fileRef == "" {
		return domain.EvidenceRef{}, errors.New("evidence file reference is required")
	}
	id := uuid.NewString()
	url := fileRef
	if s.baseURL != "" && !strings.Contains(fileRef, "://") {
		url = fmt.Sprintf("%s/%s/%s/%s", s.baseURL, sessionID, questionID, fileRef)
	}
	return domain.EvidenceRef{
		ID:         id,
		URL:        url,
		UploadedAt: s.clock(),
		Note:       upload.Note,
	}, nil
}

package domain

import "time"

// EvidenceRef points at evidence stored by an external sink. The session keeps
// only the reference, never the binary.
type EvidenceRef struct {
	ID         string
	URL        string
	UploadedAt time.Time
	Note       string
}

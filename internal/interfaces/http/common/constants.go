package common

const (
	// MaxEvidencePerQuestion caps the number of evidence photos one question accepts.
	MaxEvidencePerQuestion = 10
	// MaxNoteRunes limits free-text note length to keep payloads sane.
	MaxNoteRunes = 2000
	// MaxRequestBody limits JSON request bodies for session endpoints.
	MaxRequestBody = 1 << 20
)

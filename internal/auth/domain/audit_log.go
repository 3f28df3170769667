package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditLog records administrative operations for security monitoring.
// Captures the acting subject, the touched resource path, and a human readable
// message. Used to investigate who changed what and when.
type AuditLog struct {
	ID        uuid.UUID
	RequestID uuid.UUID
	UserID    int64
	Username  string
	Path      string
	Method    string
	Message   string
	Metadata  map[string]any
	Signature []byte
	CreatedAt time.Time
}

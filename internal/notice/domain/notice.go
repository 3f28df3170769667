// Package domain defines the core notice domain entities and types.
package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/allisson/forum/internal/errors"
)

// NoticeStatus represents the delivery status of a notice
type NoticeStatus string

const (
	NoticeStatusPending   NoticeStatus = "pending"
	NoticeStatusDelivered NoticeStatus = "delivered"
	NoticeStatusFailed    NoticeStatus = "failed"
)

// Notice is a message queued for delivery to a user. Notices are written in the
// same transaction as the action that triggered them, then picked up by the
// delivery worker; a user who is offline receives the backlog on reconnect.
type Notice struct {
	ID          uuid.UUID
	UserID      int64
	Kind        string
	Content     string
	Status      NoticeStatus
	Retries     int
	LastError   *string
	DeliveredAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ErrNoticeNotFound indicates the requested notice does not exist.
var ErrNoticeNotFound = errors.Wrap(errors.ErrNotFound, "notice not found")

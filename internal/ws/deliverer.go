package ws

import (
	"context"

	noticeDomain "github.com/allisson/forum/internal/notice/domain"
	noticeUseCase "github.com/allisson/forum/internal/notice/usecase"
)

// noticePayload is the frame body pushed for a delivered notice.
type noticePayload struct {
	ID      string `json:"id"`
	Kind    string `json:"kind"`
	Content string `json:"content"`
}

// NoticeDeliverer pushes notices to their users over the hub.
type NoticeDeliverer struct {
	hub *Hub
}

// NewNoticeDeliverer creates a deliverer bound to a hub.
func NewNoticeDeliverer(hub *Hub) *NoticeDeliverer {
	return &NoticeDeliverer{hub: hub}
}

// Deliver pushes one notice. Returns ErrSubjectOffline when the user has no
// live connection, leaving the notice pending for the next pass.
func (d *NoticeDeliverer) Deliver(_ context.Context, notice *noticeDomain.Notice) error {
	delivered := d.hub.SendToSubject(notice.UserID, "notice", noticePayload{
		ID:      notice.ID.String(),
		Kind:    notice.Kind,
		Content: notice.Content,
	})
	if !delivered {
		return noticeUseCase.ErrSubjectOffline
	}
	return nil
}

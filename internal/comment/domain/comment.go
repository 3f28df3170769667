// Package domain defines the comment domain entities and types.
package domain

import (
	"time"

	"github.com/allisson/forum/internal/errors"
)

// ContentMaxLength bounds a comment body.
const ContentMaxLength = 400

// Comment is a reply to a post or to another comment.
//
// A top-level comment has RootID and ParentID of zero. A reply carries the
// top-level comment it belongs to in RootID and the comment it answers in
// ParentID; ReplyCount is only maintained on top-level comments.
type Comment struct {
	ID         int64
	PostID     int64
	UserID     int64
	RootID     int64
	ParentID   int64
	Content    string
	ReplyCount int64
	CreatedAt  time.Time
}

// IsRoot reports whether the comment is top-level.
func (c *Comment) IsRoot() bool {
	return c.RootID == 0
}

// Thread is a top-level comment together with a preview of its replies.
type Thread struct {
	Comment *Comment
	Replies []*Comment
}

// Domain-specific errors for comment operations.
var (
	// ErrCommentNotFound indicates the requested comment does not exist.
	ErrCommentNotFound = errors.Wrap(errors.ErrNotFound, "comment not found")

	// ErrCommentsClosed indicates the post does not accept comments.
	ErrCommentsClosed = errors.Wrap(errors.ErrForbidden, "comments are closed on this post")

	// ErrInvalidThread indicates the root or parent reference does not belong
	// to the commented post.
	ErrInvalidThread = errors.Wrap(errors.ErrInvalidInput, "root or parent comment does not belong to this post")
)

// Package domain defines the post content domain entities and types.
package domain

import (
	"time"

	"github.com/allisson/forum/internal/errors"
)

// PostPublish controls who may read a post.
type PostPublish int

const (
	// PublishPublic makes a post readable by anyone, including anonymous visitors.
	PublishPublic PostPublish = 1

	// PublishLoggedIn restricts a post to authenticated readers.
	PublishLoggedIn PostPublish = 2

	// PublishAuthorOnly restricts a post to its author.
	PublishAuthorOnly PostPublish = 3
)

// PostSource records the provenance of a post's content.
type PostSource int

const (
	// SourceOriginal marks content written by the author.
	SourceOriginal PostSource = 1

	// SourceRepost marks content republished from elsewhere.
	SourceRepost PostSource = 2

	// SourceTranslation marks translated content.
	SourceTranslation PostSource = 3
)

// SummaryMaxLength bounds the summary field. A post created without a summary
// gets the leading SummaryMaxLength runes of its content.
const SummaryMaxLength = 200

// Post represents an article written by a member.
// CategoryID of zero means uncategorized. The counters are denormalized and
// adjusted in the same transaction as the write that changes them.
type Post struct {
	ID           int64
	UserID       int64
	CategoryID   int64
	Title        string
	Summary      string
	Content      string
	Cover        string
	Source       PostSource
	Publish      PostPublish
	AllowComment bool
	ViewCount    int64
	LikeCount    int64
	CommentCount int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Domain-specific errors for post operations.
var (
	// ErrPostNotFound indicates the requested post does not exist.
	ErrPostNotFound = errors.Wrap(errors.ErrNotFound, "post not found")

	// ErrDuplicateTitle indicates a post with the same title already exists.
	ErrDuplicateTitle = errors.Wrap(errors.ErrConflict, "a post with this title already exists")

	// ErrNotPostAuthor indicates the actor tried to modify someone else's post.
	ErrNotPostAuthor = errors.Wrap(errors.ErrForbidden, "cannot modify another member's post")

	// ErrLoginRequired indicates the post is only readable by authenticated members.
	ErrLoginRequired = errors.Wrap(errors.ErrUnauthorized, "login required to read this post")

	// ErrPostNotVisible indicates the post is restricted to its author.
	ErrPostNotVisible = errors.Wrap(errors.ErrForbidden, "post is only visible to its author")

	// ErrAlreadyLiked indicates the member already likes the post.
	ErrAlreadyLiked = errors.Wrap(errors.ErrConflict, "post already liked")

	// ErrNotLiked indicates the member has no like on the post to remove.
	ErrNotLiked = errors.Wrap(errors.ErrNotFound, "post not liked")
)

// CheckVisibility reports whether a viewer may read a post. A viewerID of
// zero means anonymous. The author always sees their own post.
func CheckVisibility(post *Post, viewerID int64) error {
	if viewerID == post.UserID {
		return nil
	}

	switch post.Publish {
	case PublishPublic:
		return nil
	case PublishLoggedIn:
		if viewerID == 0 {
			return ErrLoginRequired
		}
		return nil
	default:
		return ErrPostNotVisible
	}
}

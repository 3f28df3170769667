// Package dto defines the wire representations of the comment module.
package dto

import (
	"time"

	"github.com/allisson/forum/internal/comment/domain"
)

// CommentResponse represents a comment in API responses.
type CommentResponse struct {
	ID         int64     `json:"id"`
	PostID     int64     `json:"post_id"`
	UserID     int64     `json:"user_id"`
	RootID     int64     `json:"root_id"`
	ParentID   int64     `json:"parent_id"`
	Content    string    `json:"content"`
	ReplyCount int64     `json:"reply_count"`
	CreatedAt  time.Time `json:"created_at"`
}

// MapCommentToResponse converts a domain comment to an API response.
func MapCommentToResponse(comment *domain.Comment) CommentResponse {
	return CommentResponse{
		ID:         comment.ID,
		PostID:     comment.PostID,
		UserID:     comment.UserID,
		RootID:     comment.RootID,
		ParentID:   comment.ParentID,
		Content:    comment.Content,
		ReplyCount: comment.ReplyCount,
		CreatedAt:  comment.CreatedAt,
	}
}

// ThreadResponse represents a top-level comment with a preview of its replies.
type ThreadResponse struct {
	Comment CommentResponse   `json:"comment"`
	Replies []CommentResponse `json:"replies"`
}

// MapThreadToResponse converts a domain thread to an API response.
func MapThreadToResponse(thread *domain.Thread) ThreadResponse {
	replies := make([]CommentResponse, 0, len(thread.Replies))
	for _, reply := range thread.Replies {
		replies = append(replies, MapCommentToResponse(reply))
	}
	return ThreadResponse{
		Comment: MapCommentToResponse(thread.Comment),
		Replies: replies,
	}
}

// ListThreadsResponse represents a paginated list of comment threads.
type ListThreadsResponse struct {
	Data []ThreadResponse `json:"data"`
}

// MapThreadsToListResponse converts domain threads to a list API response.
func MapThreadsToListResponse(threads []*domain.Thread) ListThreadsResponse {
	responses := make([]ThreadResponse, 0, len(threads))
	for _, thread := range threads {
		responses = append(responses, MapThreadToResponse(thread))
	}
	return ListThreadsResponse{
		Data: responses,
	}
}

// ListCommentsResponse represents a paginated list of comments.
type ListCommentsResponse struct {
	Data []CommentResponse `json:"data"`
}

// MapCommentsToListResponse converts domain comments to a list API response.
func MapCommentsToListResponse(comments []*domain.Comment) ListCommentsResponse {
	responses := make([]CommentResponse, 0, len(comments))
	for _, comment := range comments {
		responses = append(responses, MapCommentToResponse(comment))
	}
	return ListCommentsResponse{
		Data: responses,
	}
}

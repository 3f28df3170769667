// Package dto defines the wire representations of the post module.
package dto

import (
	"time"

	"github.com/allisson/forum/internal/post/domain"
)

// PostResponse represents a full post in API responses.
type PostResponse struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	CategoryID   int64     `json:"category_id"`
	Title        string    `json:"title"`
	Summary      string    `json:"summary"`
	Content      string    `json:"content"`
	Cover        string    `json:"cover"`
	Source       int       `json:"source"`
	Publish      int       `json:"publish"`
	AllowComment bool      `json:"allow_comment"`
	ViewCount    int64     `json:"view_count"`
	LikeCount    int64     `json:"like_count"`
	CommentCount int64     `json:"comment_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// MapPostToResponse converts a domain post to an API response.
func MapPostToResponse(post *domain.Post) PostResponse {
	return PostResponse{
		ID:           post.ID,
		UserID:       post.UserID,
		CategoryID:   post.CategoryID,
		Title:        post.Title,
		Summary:      post.Summary,
		Content:      post.Content,
		Cover:        post.Cover,
		Source:       int(post.Source),
		Publish:      int(post.Publish),
		AllowComment: post.AllowComment,
		ViewCount:    post.ViewCount,
		LikeCount:    post.LikeCount,
		CommentCount: post.CommentCount,
		CreatedAt:    post.CreatedAt,
		UpdatedAt:    post.UpdatedAt,
	}
}

// PostListItemResponse represents a post in listings: the summary stands in
// for the content.
type PostListItemResponse struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	CategoryID   int64     `json:"category_id"`
	Title        string    `json:"title"`
	Summary      string    `json:"summary"`
	Cover        string    `json:"cover"`
	Source       int       `json:"source"`
	Publish      int       `json:"publish"`
	AllowComment bool      `json:"allow_comment"`
	ViewCount    int64     `json:"view_count"`
	LikeCount    int64     `json:"like_count"`
	CommentCount int64     `json:"comment_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// MapPostToListItemResponse converts a domain post to a listing API response.
func MapPostToListItemResponse(post *domain.Post) PostListItemResponse {
	return PostListItemResponse{
		ID:           post.ID,
		UserID:       post.UserID,
		CategoryID:   post.CategoryID,
		Title:        post.Title,
		Summary:      post.Summary,
		Cover:        post.Cover,
		Source:       int(post.Source),
		Publish:      int(post.Publish),
		AllowComment: post.AllowComment,
		ViewCount:    post.ViewCount,
		LikeCount:    post.LikeCount,
		CommentCount: post.CommentCount,
		CreatedAt:    post.CreatedAt,
		UpdatedAt:    post.UpdatedAt,
	}
}

// ListPostsResponse represents a paginated list of posts.
type ListPostsResponse struct {
	Data []PostListItemResponse `json:"data"`
}

// MapPostsToListResponse converts domain posts to a list API response.
func MapPostsToListResponse(posts []*domain.Post) ListPostsResponse {
	responses := make([]PostListItemResponse, 0, len(posts))
	for _, post := range posts {
		responses = append(responses, MapPostToListItemResponse(post))
	}
	return ListPostsResponse{
		Data: responses,
	}
}

// CategoryResponse represents a category in API responses.
type CategoryResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Info      string    `json:"info"`
	Banner    string    `json:"banner"`
	Sort      int       `json:"sort"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MapCategoryToResponse converts a domain category to an API response.
func MapCategoryToResponse(category *domain.Category) CategoryResponse {
	return CategoryResponse{
		ID:        category.ID,
		Name:      category.Name,
		Info:      category.Info,
		Banner:    category.Banner,
		Sort:      category.Sort,
		CreatedAt: category.CreatedAt,
		UpdatedAt: category.UpdatedAt,
	}
}

// ListCategoriesResponse represents a list of categories.
type ListCategoriesResponse struct {
	Data []CategoryResponse `json:"data"`
}

// MapCategoriesToListResponse converts domain categories to a list API response.
func MapCategoriesToListResponse(categories []*domain.Category) ListCategoriesResponse {
	responses := make([]CategoryResponse, 0, len(categories))
	for _, category := range categories {
		responses = append(responses, MapCategoryToResponse(category))
	}
	return ListCategoriesResponse{
		Data: responses,
	}
}

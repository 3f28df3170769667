// Package usecase implements the post business logic and orchestrates post domain operations.
package usecase

import (
	"context"
	"strings"

	validation "github.com/jellydator/validation"

	"github.com/allisson/forum/internal/database"
	apperrors "github.com/allisson/forum/internal/errors"
	"github.com/allisson/forum/internal/post/domain"
	appValidation "github.com/allisson/forum/internal/validation"
)

// hotPostsLimit is how many posts the hot listing returns.
const hotPostsLimit = 10

// CreatePostInput contains the input data for creating a post.
// Zero Source and Publish default to original content visible to everyone.
// A nil AllowComment defaults to comments enabled.
type CreatePostInput struct {
	Title        string             `json:"title"`
	Summary      string             `json:"summary"`
	Content      string             `json:"content"`
	Cover        string             `json:"cover"`
	CategoryID   int64              `json:"category_id"`
	Source       domain.PostSource  `json:"source"`
	Publish      domain.PostPublish `json:"publish"`
	AllowComment *bool              `json:"allow_comment"`
}

// UpdatePostInput contains the post fields the author may change.
// Nil fields are left untouched.
type UpdatePostInput struct {
	Title        *string             `json:"title"`
	Summary      *string             `json:"summary"`
	Content      *string             `json:"content"`
	Cover        *string             `json:"cover"`
	CategoryID   *int64              `json:"category_id"`
	Source       *domain.PostSource  `json:"source"`
	Publish      *domain.PostPublish `json:"publish"`
	AllowComment *bool               `json:"allow_comment"`
}

// UseCase defines the interface for post business logic operations.
type UseCase interface {
	CreatePost(ctx context.Context, authorID int64, input CreatePostInput) (*domain.Post, error)
	GetPost(ctx context.Context, viewerID, id int64) (*domain.Post, error)
	ListPosts(ctx context.Context, viewerID, categoryID int64, offset, limit int) ([]*domain.Post, error)
	ListMyPosts(ctx context.Context, authorID int64, offset, limit int) ([]*domain.Post, error)
	ListHotPosts(ctx context.Context) ([]*domain.Post, error)
	UpdatePost(ctx context.Context, actorID, id int64, input UpdatePostInput) (*domain.Post, error)
	DeletePost(ctx context.Context, actorID int64, actorIsAdmin bool, id int64) error
	LikePost(ctx context.Context, userID, postID int64) error
	UnlikePost(ctx context.Context, userID, postID int64) error
}

// PostRepository interface defines post repository operations.
// The like operations key on the (post, user) pair; CreateLike reports a
// duplicate pair as domain.ErrAlreadyLiked and DeleteLike reports a missing
// pair as domain.ErrNotLiked.
type PostRepository interface {
	Create(ctx context.Context, post *domain.Post) error
	GetByID(ctx context.Context, id int64) (*domain.Post, error)
	Update(ctx context.Context, post *domain.Post) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, viewerID, categoryID int64, offset, limit int) ([]*domain.Post, error)
	ListByAuthor(ctx context.Context, authorID int64, offset, limit int) ([]*domain.Post, error)
	ListHot(ctx context.Context, limit int) ([]*domain.Post, error)
	IncrementViewCount(ctx context.Context, id int64) error
	CreateLike(ctx context.Context, postID, userID int64) error
	DeleteLike(ctx context.Context, postID, userID int64) error
	AdjustLikeCount(ctx context.Context, postID int64, delta int64) error
	AdjustCommentCount(ctx context.Context, postID int64, delta int64) error
}

// PostUseCase handles post-related business logic.
type PostUseCase struct {
	txManager    database.TxManager
	postRepo     PostRepository
	categoryRepo CategoryRepository
}

// NewPostUseCase creates a new PostUseCase.
func NewPostUseCase(
	txManager database.TxManager,
	postRepo PostRepository,
	categoryRepo CategoryRepository,
) *PostUseCase {
	return &PostUseCase{
		txManager:    txManager,
		postRepo:     postRepo,
		categoryRepo: categoryRepo,
	}
}

// validateCreatePostInput validates the post creation input using jellydator/validation.
func (uc *PostUseCase) validateCreatePostInput(input CreatePostInput) error {
	err := validation.ValidateStruct(&input,
		validation.Field(&input.Title,
			validation.Required.Error("title is required"),
			appValidation.NotBlank,
			validation.Length(1, 128).Error("title must be between 1 and 128 characters"),
		),
		validation.Field(&input.Content,
			validation.Required.Error("content is required"),
			appValidation.NotBlank,
		),
		validation.Field(&input.Summary,
			validation.Length(0, domain.SummaryMaxLength).Error("summary must be at most 200 characters"),
		),
		validation.Field(&input.Source,
			validation.In(
				domain.PostSource(0), domain.SourceOriginal, domain.SourceRepost, domain.SourceTranslation,
			).Error("source must be 1 (original), 2 (repost) or 3 (translation)"),
		),
		validation.Field(&input.Publish,
			validation.In(
				domain.PostPublish(0), domain.PublishPublic, domain.PublishLoggedIn, domain.PublishAuthorOnly,
			).Error("publish must be 1 (public), 2 (logged-in) or 3 (author-only)"),
		),
	)
	return appValidation.WrapValidationError(err)
}

// summaryFromContent takes the leading runes of the content as the summary.
func summaryFromContent(content string) string {
	runes := []rune(content)
	if len(runes) <= domain.SummaryMaxLength {
		return content
	}
	return string(runes[:domain.SummaryMaxLength])
}

// CreatePost creates a post owned by the author. An empty summary defaults to
// the leading content; the category must exist when one is given.
func (uc *PostUseCase) CreatePost(ctx context.Context, authorID int64, input CreatePostInput) (*domain.Post, error) {
	if err := uc.validateCreatePostInput(input); err != nil {
		return nil, err
	}

	if input.CategoryID != 0 {
		if _, err := uc.categoryRepo.GetByID(ctx, input.CategoryID); err != nil {
			return nil, err
		}
	}

	source := input.Source
	if source == 0 {
		source = domain.SourceOriginal
	}
	publish := input.Publish
	if publish == 0 {
		publish = domain.PublishPublic
	}
	allowComment := true
	if input.AllowComment != nil {
		allowComment = *input.AllowComment
	}
	summary := strings.TrimSpace(input.Summary)
	if summary == "" {
		summary = summaryFromContent(input.Content)
	}

	post := &domain.Post{
		UserID:       authorID,
		CategoryID:   input.CategoryID,
		Title:        strings.TrimSpace(input.Title),
		Summary:      summary,
		Content:      input.Content,
		Cover:        input.Cover,
		Source:       source,
		Publish:      publish,
		AllowComment: allowComment,
	}

	if err := uc.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	return post, nil
}

// GetPost returns a post readable by the viewer and counts the view.
// A viewerID of zero means anonymous.
func (uc *PostUseCase) GetPost(ctx context.Context, viewerID, id int64) (*domain.Post, error) {
	post, err := uc.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := domain.CheckVisibility(post, viewerID); err != nil {
		return nil, err
	}

	if err := uc.postRepo.IncrementViewCount(ctx, id); err != nil {
		return nil, apperrors.Wrap(err, "failed to count post view")
	}
	post.ViewCount++

	return post, nil
}

// ListPosts lists the posts the viewer may read, newest first, optionally
// filtered by category. A categoryID of zero means all categories.
func (uc *PostUseCase) ListPosts(ctx context.Context, viewerID, categoryID int64, offset, limit int) ([]*domain.Post, error) {
	posts, err := uc.postRepo.List(ctx, viewerID, categoryID, offset, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list posts")
	}
	return posts, nil
}

// ListMyPosts lists the author's own posts regardless of visibility.
func (uc *PostUseCase) ListMyPosts(ctx context.Context, authorID int64, offset, limit int) ([]*domain.Post, error) {
	posts, err := uc.postRepo.ListByAuthor(ctx, authorID, offset, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list my posts")
	}
	return posts, nil
}

// ListHotPosts returns the public posts with the most likes and comments.
func (uc *PostUseCase) ListHotPosts(ctx context.Context) ([]*domain.Post, error) {
	posts, err := uc.postRepo.ListHot(ctx, hotPostsLimit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list hot posts")
	}
	return posts, nil
}

// UpdatePost applies the non-nil fields to the actor's own post. Only the
// author may update a post, admins included.
func (uc *PostUseCase) UpdatePost(ctx context.Context, actorID, id int64, input UpdatePostInput) (*domain.Post, error) {
	post, err := uc.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if post.UserID != actorID {
		return nil, domain.ErrNotPostAuthor
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if err := validation.Validate(title,
			validation.Required.Error("title is required"),
			validation.Length(1, 128).Error("title must be between 1 and 128 characters"),
		); err != nil {
			return nil, appValidation.WrapValidationError(err)
		}
		post.Title = title
	}
	if input.Content != nil {
		if err := validation.Validate(*input.Content,
			validation.Required.Error("content is required"),
		); err != nil {
			return nil, appValidation.WrapValidationError(err)
		}
		post.Content = *input.Content
	}
	if input.Summary != nil {
		summary := strings.TrimSpace(*input.Summary)
		if err := validation.Validate(summary,
			validation.Length(0, domain.SummaryMaxLength).Error("summary must be at most 200 characters"),
		); err != nil {
			return nil, appValidation.WrapValidationError(err)
		}
		if summary == "" {
			summary = summaryFromContent(post.Content)
		}
		post.Summary = summary
	}
	if input.Cover != nil {
		post.Cover = *input.Cover
	}
	if input.CategoryID != nil {
		if *input.CategoryID != 0 {
			if _, err := uc.categoryRepo.GetByID(ctx, *input.CategoryID); err != nil {
				return nil, err
			}
		}
		post.CategoryID = *input.CategoryID
	}
	if input.Source != nil {
		if err := validation.Validate(*input.Source,
			validation.In(
				domain.SourceOriginal, domain.SourceRepost, domain.SourceTranslation,
			).Error("source must be 1 (original), 2 (repost) or 3 (translation)"),
		); err != nil {
			return nil, appValidation.WrapValidationError(err)
		}
		post.Source = *input.Source
	}
	if input.Publish != nil {
		if err := validation.Validate(*input.Publish,
			validation.In(
				domain.PublishPublic, domain.PublishLoggedIn, domain.PublishAuthorOnly,
			).Error("publish must be 1 (public), 2 (logged-in) or 3 (author-only)"),
		); err != nil {
			return nil, appValidation.WrapValidationError(err)
		}
		post.Publish = *input.Publish
	}
	if input.AllowComment != nil {
		post.AllowComment = *input.AllowComment
	}

	if err := uc.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}

	return post, nil
}

// DeletePost removes a post. The author may delete their own post; admins may
// delete any post for moderation. Comments and likes go with it.
func (uc *PostUseCase) DeletePost(ctx context.Context, actorID int64, actorIsAdmin bool, id int64) error {
	post, err := uc.postRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if post.UserID != actorID && !actorIsAdmin {
		return domain.ErrNotPostAuthor
	}

	return uc.postRepo.Delete(ctx, id)
}

// LikePost records a like and bumps the counter in one transaction.
// Liking the same post twice is a conflict.
func (uc *PostUseCase) LikePost(ctx context.Context, userID, postID int64) error {
	post, err := uc.postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if err := domain.CheckVisibility(post, userID); err != nil {
		return err
	}

	return uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := uc.postRepo.CreateLike(ctx, postID, userID); err != nil {
			return err
		}
		return uc.postRepo.AdjustLikeCount(ctx, postID, 1)
	})
}

// UnlikePost removes a like and drops the counter in one transaction.
func (uc *PostUseCase) UnlikePost(ctx context.Context, userID, postID int64) error {
	if _, err := uc.postRepo.GetByID(ctx, postID); err != nil {
		return err
	}

	return uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := uc.postRepo.DeleteLike(ctx, postID, userID); err != nil {
			return err
		}
		return uc.postRepo.AdjustLikeCount(ctx, postID, -1)
	})
}

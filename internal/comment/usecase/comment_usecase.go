// Package usecase implements the comment business logic and orchestrates comment domain operations.
package usecase

import (
	"context"
	"strings"

	validation "github.com/jellydator/validation"

	"github.com/allisson/forum/internal/comment/domain"
	"github.com/allisson/forum/internal/database"
	apperrors "github.com/allisson/forum/internal/errors"
	postDomain "github.com/allisson/forum/internal/post/domain"
	appValidation "github.com/allisson/forum/internal/validation"
)

// replyPreviewLimit is how many replies a thread listing inlines per
// top-level comment; the rest page through ListReplies.
const replyPreviewLimit = 3

// CreateCommentInput contains the input data for creating a comment.
// Zero RootID creates a top-level comment; a reply names the top-level
// comment in RootID and the answered comment in ParentID.
type CreateCommentInput struct {
	PostID   int64  `json:"post_id"`
	RootID   int64  `json:"root_id"`
	ParentID int64  `json:"parent_id"`
	Content  string `json:"content"`
}

// Validate validates the comment input using jellydator/validation.
func (i CreateCommentInput) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.PostID,
			validation.Required.Error("post_id is required"),
			validation.Min(int64(1)).Error("post_id must be positive"),
		),
		validation.Field(&i.Content,
			validation.Required.Error("content is required"),
			appValidation.NotBlank,
			validation.Length(1, domain.ContentMaxLength).Error("content must be between 1 and 400 characters"),
		),
	)
}

// UseCase defines the interface for comment business logic operations.
type UseCase interface {
	CreateComment(ctx context.Context, userID int64, input CreateCommentInput) (*domain.Comment, error)
	ListThreads(ctx context.Context, viewerID, postID int64, offset, limit int) ([]*domain.Thread, error)
	ListReplies(ctx context.Context, viewerID, rootID int64, offset, limit int) ([]*domain.Comment, error)
}

// CommentRepository interface defines comment repository operations.
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	GetByID(ctx context.Context, id int64) (*domain.Comment, error)
	ListRoots(ctx context.Context, postID int64, offset, limit int) ([]*domain.Comment, error)
	ListReplies(ctx context.Context, rootID int64, offset, limit int) ([]*domain.Comment, error)
	AdjustReplyCount(ctx context.Context, id int64, delta int64) error
}

// PostRepository interface defines the post operations the comment module
// needs: existence and visibility come from the post itself, and the post's
// comment counter moves in the same transaction as the comment write.
type PostRepository interface {
	GetByID(ctx context.Context, id int64) (*postDomain.Post, error)
	AdjustCommentCount(ctx context.Context, postID int64, delta int64) error
}

// CommentUseCase handles comment-related business logic.
type CommentUseCase struct {
	txManager   database.TxManager
	commentRepo CommentRepository
	postRepo    PostRepository
}

// NewCommentUseCase creates a new CommentUseCase.
func NewCommentUseCase(
	txManager database.TxManager,
	commentRepo CommentRepository,
	postRepo PostRepository,
) *CommentUseCase {
	return &CommentUseCase{
		txManager:   txManager,
		commentRepo: commentRepo,
		postRepo:    postRepo,
	}
}

// CreateComment writes a comment on a post the commenter can read. Replies
// bump the reply counter of their top-level comment, and every comment bumps
// the post's comment counter, all in one transaction.
func (uc *CommentUseCase) CreateComment(ctx context.Context, userID int64, input CreateCommentInput) (*domain.Comment, error) {
	if err := appValidation.WrapValidationError(input.Validate()); err != nil {
		return nil, err
	}
	if input.ParentID != 0 && input.RootID == 0 {
		return nil, domain.ErrInvalidThread
	}

	post, err := uc.postRepo.GetByID(ctx, input.PostID)
	if err != nil {
		return nil, err
	}
	if err := postDomain.CheckVisibility(post, userID); err != nil {
		return nil, err
	}
	if !post.AllowComment {
		return nil, domain.ErrCommentsClosed
	}

	if input.RootID != 0 {
		root, err := uc.commentRepo.GetByID(ctx, input.RootID)
		if err != nil {
			return nil, err
		}
		if !root.IsRoot() || root.PostID != input.PostID {
			return nil, domain.ErrInvalidThread
		}
	}
	if input.ParentID != 0 && input.ParentID != input.RootID {
		parent, err := uc.commentRepo.GetByID(ctx, input.ParentID)
		if err != nil {
			return nil, err
		}
		if parent.PostID != input.PostID || parent.RootID != input.RootID {
			return nil, domain.ErrInvalidThread
		}
	}

	comment := &domain.Comment{
		PostID:   input.PostID,
		UserID:   userID,
		RootID:   input.RootID,
		ParentID: input.ParentID,
		Content:  strings.TrimSpace(input.Content),
	}

	err = uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := uc.commentRepo.Create(ctx, comment); err != nil {
			return err
		}
		if comment.RootID != 0 {
			if err := uc.commentRepo.AdjustReplyCount(ctx, comment.RootID, 1); err != nil {
				return err
			}
		}
		return uc.postRepo.AdjustCommentCount(ctx, comment.PostID, 1)
	})
	if err != nil {
		return nil, err
	}

	return comment, nil
}

// ListThreads lists the top-level comments of a post, oldest first, each with
// a short preview of its replies.
func (uc *CommentUseCase) ListThreads(ctx context.Context, viewerID, postID int64, offset, limit int) ([]*domain.Thread, error) {
	post, err := uc.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if err := postDomain.CheckVisibility(post, viewerID); err != nil {
		return nil, err
	}

	roots, err := uc.commentRepo.ListRoots(ctx, postID, offset, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list comments")
	}

	threads := make([]*domain.Thread, 0, len(roots))
	for _, root := range roots {
		replies := make([]*domain.Comment, 0)
		if root.ReplyCount > 0 {
			replies, err = uc.commentRepo.ListReplies(ctx, root.ID, 0, replyPreviewLimit)
			if err != nil {
				return nil, apperrors.Wrap(err, "failed to list comment replies")
			}
		}
		threads = append(threads, &domain.Thread{Comment: root, Replies: replies})
	}

	return threads, nil
}

// ListReplies pages through the replies of a top-level comment, oldest first.
func (uc *CommentUseCase) ListReplies(ctx context.Context, viewerID, rootID int64, offset, limit int) ([]*domain.Comment, error) {
	root, err := uc.commentRepo.GetByID(ctx, rootID)
	if err != nil {
		return nil, err
	}

	post, err := uc.postRepo.GetByID(ctx, root.PostID)
	if err != nil {
		return nil, err
	}
	if err := postDomain.CheckVisibility(post, viewerID); err != nil {
		return nil, err
	}

	replies, err := uc.commentRepo.ListReplies(ctx, rootID, offset, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list comment replies")
	}

	return replies, nil
}

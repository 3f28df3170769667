package usecase

import (
	"context"
	"strings"

	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/forum/internal/errors"
	"github.com/allisson/forum/internal/post/domain"
	appValidation "github.com/allisson/forum/internal/validation"
)

// CategoryInput contains the input data for creating or updating a category.
type CategoryInput struct {
	Name   string `json:"name"`
	Info   string `json:"info"`
	Banner string `json:"banner"`
	Sort   int    `json:"sort"`
}

// Validate validates the category input using jellydator/validation.
func (i CategoryInput) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Name,
			validation.Required.Error("name is required"),
			appValidation.NotBlank,
			validation.Length(1, 32).Error("name must be between 1 and 32 characters"),
		),
		validation.Field(&i.Info,
			validation.Length(0, 255).Error("info must be at most 255 characters"),
		),
	)
}

// CategoryUseCaseInterface defines the interface for category business logic operations.
type CategoryUseCaseInterface interface {
	CreateCategory(ctx context.Context, input CategoryInput) (*domain.Category, error)
	GetCategoryByID(ctx context.Context, id int64) (*domain.Category, error)
	ListCategories(ctx context.Context) ([]*domain.Category, error)
	UpdateCategory(ctx context.Context, id int64, input CategoryInput) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id int64) error
}

// CategoryRepository interface defines category repository operations.
type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) error
	GetByID(ctx context.Context, id int64) (*domain.Category, error)
	List(ctx context.Context) ([]*domain.Category, error)
	Update(ctx context.Context, category *domain.Category) error
	Delete(ctx context.Context, id int64) error
}

// CategoryUseCase handles category-related business logic.
type CategoryUseCase struct {
	categoryRepo CategoryRepository
}

// NewCategoryUseCase creates a new CategoryUseCase.
func NewCategoryUseCase(categoryRepo CategoryRepository) *CategoryUseCase {
	return &CategoryUseCase{categoryRepo: categoryRepo}
}

// CreateCategory creates a new category. The name must be unique.
func (uc *CategoryUseCase) CreateCategory(ctx context.Context, input CategoryInput) (*domain.Category, error) {
	if err := appValidation.WrapValidationError(input.Validate()); err != nil {
		return nil, err
	}

	category := &domain.Category{
		Name:   strings.TrimSpace(input.Name),
		Info:   input.Info,
		Banner: input.Banner,
		Sort:   input.Sort,
	}

	if err := uc.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}

	return category, nil
}

// GetCategoryByID retrieves a category by ID.
func (uc *CategoryUseCase) GetCategoryByID(ctx context.Context, id int64) (*domain.Category, error) {
	return uc.categoryRepo.GetByID(ctx, id)
}

// ListCategories retrieves all categories ordered by sort.
func (uc *CategoryUseCase) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	categories, err := uc.categoryRepo.List(ctx)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list categories")
	}
	return categories, nil
}

// UpdateCategory replaces the mutable fields of a category.
func (uc *CategoryUseCase) UpdateCategory(ctx context.Context, id int64, input CategoryInput) (*domain.Category, error) {
	if err := appValidation.WrapValidationError(input.Validate()); err != nil {
		return nil, err
	}

	category, err := uc.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	category.Name = strings.TrimSpace(input.Name)
	category.Info = input.Info
	category.Banner = input.Banner
	category.Sort = input.Sort

	if err := uc.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}

	return category, nil
}

// DeleteCategory removes a category. Posts keep their category id; a category
// that no longer resolves reads as uncategorized.
func (uc *CategoryUseCase) DeleteCategory(ctx context.Context, id int64) error {
	return uc.categoryRepo.Delete(ctx, id)
}

package domain

import (
	"time"

	"github.com/allisson/forum/internal/errors"
)

// Category groups posts. Sort orders the public category listing ascending.
type Category struct {
	ID        int64
	Name      string
	Info      string
	Banner    string
	Sort      int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Domain-specific errors for category operations.
var (
	// ErrCategoryNotFound indicates the requested category does not exist.
	ErrCategoryNotFound = errors.Wrap(errors.ErrNotFound, "category not found")

	// ErrCategoryAlreadyExists indicates a category with the same name already exists.
	ErrCategoryAlreadyExists = errors.Wrap(errors.ErrConflict, "category already exists")
)

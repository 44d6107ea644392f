package repositories

import (
	"context"
	"errors"

	"posts-api/models"
)

// ErrNotFound is returned when no post has the requested id.
var ErrNotFound = errors.New("post not found")

// PostRepository persists posts. Implementations must order listings by id
// ascending so that pages are stable across calls.
type PostRepository interface {
	// Create inserts p and fills in its generated id.
	Create(ctx context.Context, p *models.Post) error

	// FindByID returns the post with the given id or ErrNotFound.
	FindByID(ctx context.Context, id uint) (*models.Post, error)

	// List returns one page of posts matching c, plus the number of matching
	// posts across all pages.
	List(ctx context.Context, c PostCriteria) ([]models.Post, int64, error)

	// Save overwrites the stored post with the same id. ErrNotFound is returned
	// if the post no longer exists.
	Save(ctx context.Context, p *models.Post) error

	// Delete removes the post and returns the number of rows affected.
	Delete(ctx context.Context, id uint) (int64, error)

	// Ping checks that the store is reachable.
	Ping(ctx context.Context) error
}

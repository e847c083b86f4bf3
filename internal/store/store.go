// Package store persists the review board: visitor comments keyed by place
// name. The data pipelines never touch this store; it belongs to the
// presentation surface.
package store

import (
	"context"

	"github.com/tripdesk/berlin-cli/internal/model"
)

// Store defines the review-board persistence interface.
type Store interface {
	// AddReview appends a comment to the board for a place.
	AddReview(ctx context.Context, review model.Review) (*model.Review, error)
	// ListReviews returns all reviews for a place, oldest first.
	ListReviews(ctx context.Context, place string) ([]model.Review, error)
	// ListPlaces returns the distinct place names that have reviews.
	ListPlaces(ctx context.Context) ([]string, error)

	Migrate(ctx context.Context) error
	Close() error
}

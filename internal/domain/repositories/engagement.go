package repositories

import (
	"context"

	"versecraft/internal/domain/models"
)

// CommentRepository defines data access operations for comments
type CommentRepository interface {
	// Create inserts a new comment
	Create(ctx context.Context, comment *models.Comment) error

	// ListByStory lists a story's comments, newest first
	ListByStory(ctx context.Context, storyID string) ([]models.Comment, error)
}

// RatingRepository defines data access operations for ratings
type RatingRepository interface {
	// Upsert inserts or replaces the user's rating for a story
	Upsert(ctx context.Context, rating *models.Rating) error

	// GetAverage returns the average rating and vote count for a story
	GetAverage(ctx context.Context, storyID string) (avg float64, count int, err error)
}

// FavoriteRepository defines data access operations for favorites
type FavoriteRepository interface {
	// Toggle flips the favorite state for (story, user) and reports the new
	// state.
	Toggle(ctx context.Context, storyID, userID string) (favorited bool, err error)

	// ListByUser lists the stories a user has favorited
	ListByUser(ctx context.Context, userID string) ([]models.Favorite, error)
}

package repositories

import (
	"context"

	"versecraft/internal/domain/models"
)

// StoryRepository defines data access operations for stories
type StoryRepository interface {
	// Create creates a new story
	Create(ctx context.Context, story *models.Story) error

	// GetByID retrieves a story by ID
	GetByID(ctx context.Context, id string) (*models.Story, error)

	// ListByAuthor lists an author's stories, newest first
	ListByAuthor(ctx context.Context, authorID string) ([]models.Story, error)

	// Update updates an existing story
	Update(ctx context.Context, story *models.Story) error

	// Delete deletes a story
	Delete(ctx context.Context, id string) error

	// Exists reports whether a story with the given ID exists
	Exists(ctx context.Context, id string) (bool, error)
}

package repositories

import (
	"context"

	"versecraft/internal/domain/models"
)

// ChapterRepository defines data access operations for chapters
type ChapterRepository interface {
	// Create creates a new chapter. Returns domain.ErrConflict (wrapped in a
	// ConflictError) when (story_id, number) is already taken.
	Create(ctx context.Context, chapter *models.Chapter) error

	// GetByID retrieves a chapter by ID
	GetByID(ctx context.Context, id string) (*models.Chapter, error)

	// GetByIDForUpdate retrieves a chapter and locks its row for the
	// remainder of the surrounding transaction. Must be called with a
	// transaction context; this is what serializes version creation and
	// revert against concurrent saves of the same chapter.
	GetByIDForUpdate(ctx context.Context, id string) (*models.Chapter, error)

	// ListByStory lists a story's chapters ordered by number
	ListByStory(ctx context.Context, storyID string) ([]models.Chapter, error)

	// Update updates an existing chapter. Number collisions surface as
	// domain.ErrConflict.
	Update(ctx context.Context, chapter *models.Chapter) error

	// Delete deletes a chapter record
	Delete(ctx context.Context, id string) error

	// DeleteAllByStory deletes all chapters belonging to a story
	DeleteAllByStory(ctx context.Context, storyID string) error
}

package repositories

import (
	"context"

	"versecraft/internal/domain/models"
)

// PromptRepository defines data access operations for prompts and their
// messages
type PromptRepository interface {
	// Create creates a new prompt
	Create(ctx context.Context, prompt *models.Prompt) error

	// GetByID retrieves a prompt by ID
	GetByID(ctx context.Context, id string) (*models.Prompt, error)

	// ListByStory lists a story's prompts, newest first
	ListByStory(ctx context.Context, storyID string) ([]models.Prompt, error)

	// AddMessage appends a message to a prompt's conversation
	AddMessage(ctx context.Context, msg *models.PromptMessage) error

	// ListMessages lists a prompt's messages in conversation order
	ListMessages(ctx context.Context, promptID string) ([]models.PromptMessage, error)
}

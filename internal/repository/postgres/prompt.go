package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"versecraft/internal/domain"
	"versecraft/internal/domain/models"
	"versecraft/internal/domain/repositories"
)

// PostgresPromptRepository implements the PromptRepository interface
type PostgresPromptRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewPromptRepository creates a new prompt repository
func NewPromptRepository(config *RepositoryConfig) repositories.PromptRepository {
	return &PostgresPromptRepository{pool: config.Pool, tables: config.Tables}
}

// Create creates a new prompt
func (r *PostgresPromptRepository) Create(ctx context.Context, prompt *models.Prompt) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (story_id, title, created_at)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, r.tables.Prompts)

	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query,
		prompt.StoryID,
		prompt.Title,
		prompt.CreatedAt,
	).Scan(&prompt.ID, &prompt.CreatedAt)

	if err != nil {
		if isPgForeignKeyError(err) {
			return fmt.Errorf("story %s: %w", prompt.StoryID, domain.ErrNotFound)
		}
		return fmt.Errorf("create prompt: %w", err)
	}

	return nil
}

// GetByID retrieves a prompt by ID
func (r *PostgresPromptRepository) GetByID(ctx context.Context, id string) (*models.Prompt, error) {
	query := fmt.Sprintf(`
		SELECT id, story_id, title, created_at
		FROM %s
		WHERE id = $1
	`, r.tables.Prompts)

	var prompt models.Prompt
	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, id).Scan(
		&prompt.ID,
		&prompt.StoryID,
		&prompt.Title,
		&prompt.CreatedAt,
	)

	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("prompt %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get prompt: %w", err)
	}

	return &prompt, nil
}

// ListByStory lists a story's prompts, newest first
func (r *PostgresPromptRepository) ListByStory(ctx context.Context, storyID string) ([]models.Prompt, error) {
	query := fmt.Sprintf(`
		SELECT id, story_id, title, created_at
		FROM %s
		WHERE story_id = $1
		ORDER BY created_at DESC
	`, r.tables.Prompts)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, storyID)
	if err != nil {
		return nil, fmt.Errorf("list prompts: %w", err)
	}
	defer rows.Close()

	prompts := []models.Prompt{}
	for rows.Next() {
		var prompt models.Prompt
		if err := rows.Scan(&prompt.ID, &prompt.StoryID, &prompt.Title, &prompt.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan prompt: %w", err)
		}
		prompts = append(prompts, prompt)
	}

	return prompts, rows.Err()
}

// AddMessage appends a message to a prompt's conversation
func (r *PostgresPromptRepository) AddMessage(ctx context.Context, msg *models.PromptMessage) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (prompt_id, role, content, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, r.tables.PromptMessages)

	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query,
		msg.PromptID,
		msg.Role,
		msg.Content,
		msg.CreatedAt,
	).Scan(&msg.ID, &msg.CreatedAt)

	if err != nil {
		if isPgForeignKeyError(err) {
			return fmt.Errorf("prompt %s: %w", msg.PromptID, domain.ErrNotFound)
		}
		return fmt.Errorf("add message: %w", err)
	}

	return nil
}

// ListMessages lists a prompt's messages in conversation order
func (r *PostgresPromptRepository) ListMessages(ctx context.Context, promptID string) ([]models.PromptMessage, error) {
	query := fmt.Sprintf(`
		SELECT id, prompt_id, role, content, created_at
		FROM %s
		WHERE prompt_id = $1
		ORDER BY created_at ASC, id ASC
	`, r.tables.PromptMessages)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, promptID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	messages := []models.PromptMessage{}
	for rows.Next() {
		var msg models.PromptMessage
		if err := rows.Scan(&msg.ID, &msg.PromptID, &msg.Role, &msg.Content, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, msg)
	}

	return messages, rows.Err()
}

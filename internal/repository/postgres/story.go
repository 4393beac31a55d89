package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"versecraft/internal/domain"
	"versecraft/internal/domain/models"
	"versecraft/internal/domain/repositories"
)

// PostgresStoryRepository implements the StoryRepository interface
type PostgresStoryRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewStoryRepository creates a new story repository
func NewStoryRepository(config *RepositoryConfig) repositories.StoryRepository {
	return &PostgresStoryRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create creates a new story
func (r *PostgresStoryRepository) Create(ctx context.Context, story *models.Story) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (author_id, title, description, genre, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, r.tables.Stories)

	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query,
		story.AuthorID,
		story.Title,
		story.Description,
		story.Genre,
		story.CreatedAt,
		story.UpdatedAt,
	).Scan(&story.ID, &story.CreatedAt, &story.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create story: %w", err)
	}

	return nil
}

// GetByID retrieves a story by ID
func (r *PostgresStoryRepository) GetByID(ctx context.Context, id string) (*models.Story, error) {
	query := fmt.Sprintf(`
		SELECT id, author_id, title, description, genre, created_at, updated_at
		FROM %s
		WHERE id = $1
	`, r.tables.Stories)

	var story models.Story
	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, id).Scan(
		&story.ID,
		&story.AuthorID,
		&story.Title,
		&story.Description,
		&story.Genre,
		&story.CreatedAt,
		&story.UpdatedAt,
	)

	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("story %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get story: %w", err)
	}

	return &story, nil
}

// ListByAuthor lists an author's stories, newest first
func (r *PostgresStoryRepository) ListByAuthor(ctx context.Context, authorID string) ([]models.Story, error) {
	query := fmt.Sprintf(`
		SELECT id, author_id, title, description, genre, created_at, updated_at
		FROM %s
		WHERE author_id = $1
		ORDER BY created_at DESC
	`, r.tables.Stories)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, authorID)
	if err != nil {
		return nil, fmt.Errorf("list stories: %w", err)
	}
	defer rows.Close()

	var stories []models.Story
	for rows.Next() {
		var story models.Story
		if err := rows.Scan(
			&story.ID,
			&story.AuthorID,
			&story.Title,
			&story.Description,
			&story.Genre,
			&story.CreatedAt,
			&story.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan story: %w", err)
		}
		stories = append(stories, story)
	}

	return stories, rows.Err()
}

// Update updates an existing story
func (r *PostgresStoryRepository) Update(ctx context.Context, story *models.Story) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET title = $1, description = $2, genre = $3, updated_at = $4
		WHERE id = $5
	`, r.tables.Stories)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query,
		story.Title,
		story.Description,
		story.Genre,
		story.UpdatedAt,
		story.ID,
	)

	if err != nil {
		return fmt.Errorf("update story: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("story %s: %w", story.ID, domain.ErrNotFound)
	}

	return nil
}

// Delete deletes a story
func (r *PostgresStoryRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE id = $1
	`, r.tables.Stories)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete story: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("story %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// Exists reports whether a story with the given ID exists
func (r *PostgresStoryRepository) Exists(ctx context.Context, id string) (bool, error) {
	query := fmt.Sprintf(`
		SELECT EXISTS (SELECT 1 FROM %s WHERE id = $1)
	`, r.tables.Stories)

	var exists bool
	if err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("check story existence: %w", err)
	}

	return exists, nil
}

package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"versecraft/internal/domain"
	"versecraft/internal/domain/models"
	"versecraft/internal/domain/repositories"
)

// PostgresChapterRepository implements the ChapterRepository interface
type PostgresChapterRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewChapterRepository creates a new chapter repository
func NewChapterRepository(config *RepositoryConfig) repositories.ChapterRepository {
	return &PostgresChapterRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

const chapterColumns = `id, story_id, title, number, content, language, word_count, current_version_id, created_at, updated_at`

func scanChapter(row pgx.Row, ch *models.Chapter) error {
	return row.Scan(
		&ch.ID,
		&ch.StoryID,
		&ch.Title,
		&ch.Number,
		&ch.Content,
		&ch.Language,
		&ch.WordCount,
		&ch.CurrentVersionID,
		&ch.CreatedAt,
		&ch.UpdatedAt,
	)
}

// Create creates a new chapter
func (r *PostgresChapterRepository) Create(ctx context.Context, chapter *models.Chapter) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (story_id, title, number, content, language, word_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`, r.tables.Chapters)

	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query,
		chapter.StoryID,
		chapter.Title,
		chapter.Number,
		chapter.Content,
		chapter.Language,
		chapter.WordCount,
		chapter.CreatedAt,
		chapter.UpdatedAt,
	).Scan(&chapter.ID, &chapter.CreatedAt, &chapter.UpdatedAt)

	if err != nil {
		if isPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("chapter number %d already exists in this story", chapter.Number),
				ResourceType: "chapter",
			}
		}
		if isPgForeignKeyError(err) {
			return fmt.Errorf("story %s: %w", chapter.StoryID, domain.ErrNotFound)
		}
		return fmt.Errorf("create chapter: %w", err)
	}

	return nil
}

// GetByID retrieves a chapter by ID
func (r *PostgresChapterRepository) GetByID(ctx context.Context, id string) (*models.Chapter, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s WHERE id = $1
	`, chapterColumns, r.tables.Chapters)

	var chapter models.Chapter
	err := scanChapter(GetExecutor(ctx, r.pool).QueryRow(ctx, query, id), &chapter)
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("chapter %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get chapter: %w", err)
	}

	return &chapter, nil
}

// GetByIDForUpdate retrieves a chapter and locks its row until the
// surrounding transaction ends. Concurrent saves, version creation and
// revert on the same chapter serialize on this lock.
func (r *PostgresChapterRepository) GetByIDForUpdate(ctx context.Context, id string) (*models.Chapter, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s WHERE id = $1 FOR UPDATE
	`, chapterColumns, r.tables.Chapters)

	var chapter models.Chapter
	err := scanChapter(GetExecutor(ctx, r.pool).QueryRow(ctx, query, id), &chapter)
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("chapter %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("lock chapter: %w", err)
	}

	return &chapter, nil
}

// ListByStory lists a story's chapters ordered by number
func (r *PostgresChapterRepository) ListByStory(ctx context.Context, storyID string) ([]models.Chapter, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s WHERE story_id = $1 ORDER BY number ASC
	`, chapterColumns, r.tables.Chapters)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, storyID)
	if err != nil {
		return nil, fmt.Errorf("list chapters: %w", err)
	}
	defer rows.Close()

	var chapters []models.Chapter
	for rows.Next() {
		var chapter models.Chapter
		if err := scanChapter(rows, &chapter); err != nil {
			return nil, fmt.Errorf("scan chapter: %w", err)
		}
		chapters = append(chapters, chapter)
	}

	return chapters, rows.Err()
}

// Update updates an existing chapter
func (r *PostgresChapterRepository) Update(ctx context.Context, chapter *models.Chapter) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET title = $1, number = $2, content = $3, language = $4, word_count = $5,
		    current_version_id = $6, updated_at = $7
		WHERE id = $8
	`, r.tables.Chapters)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query,
		chapter.Title,
		chapter.Number,
		chapter.Content,
		chapter.Language,
		chapter.WordCount,
		chapter.CurrentVersionID,
		chapter.UpdatedAt,
		chapter.ID,
	)

	if err != nil {
		if isPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("chapter number %d already exists in this story", chapter.Number),
				ResourceType: "chapter",
				ResourceID:   chapter.ID,
			}
		}
		return fmt.Errorf("update chapter: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("chapter %s: %w", chapter.ID, domain.ErrNotFound)
	}

	return nil
}

// Delete deletes a chapter record
func (r *PostgresChapterRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s WHERE id = $1
	`, r.tables.Chapters)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete chapter: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("chapter %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// DeleteAllByStory deletes all chapters belonging to a story
func (r *PostgresChapterRepository) DeleteAllByStory(ctx context.Context, storyID string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s WHERE story_id = $1
	`, r.tables.Chapters)

	if _, err := GetExecutor(ctx, r.pool).Exec(ctx, query, storyID); err != nil {
		return fmt.Errorf("delete story chapters: %w", err)
	}

	return nil
}

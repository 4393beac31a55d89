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

// PostgresVersionRepository implements the VersionRepository interface.
// Snapshots are append-only: there is intentionally no Update statement in
// this file.
type PostgresVersionRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewVersionRepository creates a new version repository
func NewVersionRepository(config *RepositoryConfig) repositories.VersionRepository {
	return &PostgresVersionRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

const versionColumns = `id, chapter_id, version_token, content, language, summary, display_name, created_by, created_at`

func scanVersion(row pgx.Row, v *models.ChapterVersion) error {
	return row.Scan(
		&v.ID,
		&v.ChapterID,
		&v.VersionToken,
		&v.Content,
		&v.Language,
		&v.Summary,
		&v.DisplayName,
		&v.CreatedBy,
		&v.CreatedAt,
	)
}

// Create appends a new snapshot
func (r *PostgresVersionRepository) Create(ctx context.Context, version *models.ChapterVersion) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (chapter_id, version_token, content, language, summary, display_name, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`, r.tables.Versions)

	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query,
		version.ChapterID,
		version.VersionToken,
		version.Content,
		version.Language,
		version.Summary,
		version.DisplayName,
		version.CreatedBy,
		version.CreatedAt,
	).Scan(&version.ID, &version.CreatedAt)

	if err != nil {
		if isPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      "version token already exists",
				ResourceType: "version",
			}
		}
		if isPgForeignKeyError(err) {
			return fmt.Errorf("chapter %s: %w", version.ChapterID, domain.ErrNotFound)
		}
		return fmt.Errorf("create version: %w", err)
	}

	return nil
}

// GetByID retrieves a version by ID
func (r *PostgresVersionRepository) GetByID(ctx context.Context, id string) (*models.ChapterVersion, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s WHERE id = $1
	`, versionColumns, r.tables.Versions)

	var version models.ChapterVersion
	err := scanVersion(GetExecutor(ctx, r.pool).QueryRow(ctx, query, id), &version)
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("version %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get version: %w", err)
	}

	return &version, nil
}

// GetByChapter retrieves a version scoped to its owning chapter. A version
// that exists under a different chapter is reported as not found, not as a
// different error - callers must not learn about other chapters' snapshots.
func (r *PostgresVersionRepository) GetByChapter(ctx context.Context, id, chapterID string) (*models.ChapterVersion, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s WHERE id = $1 AND chapter_id = $2
	`, versionColumns, r.tables.Versions)

	var version models.ChapterVersion
	err := scanVersion(GetExecutor(ctx, r.pool).QueryRow(ctx, query, id, chapterID), &version)
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("version %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get version: %w", err)
	}

	return &version, nil
}

// ListByChapter lists a chapter's versions, newest first
func (r *PostgresVersionRepository) ListByChapter(ctx context.Context, chapterID string) ([]models.ChapterVersion, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s WHERE chapter_id = $1 ORDER BY created_at DESC, id DESC
	`, versionColumns, r.tables.Versions)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, chapterID)
	if err != nil {
		return nil, fmt.Errorf("list versions: %w", err)
	}
	defer rows.Close()

	versions := []models.ChapterVersion{}
	for rows.Next() {
		var version models.ChapterVersion
		if err := scanVersion(rows, &version); err != nil {
			return nil, fmt.Errorf("scan version: %w", err)
		}
		versions = append(versions, version)
	}

	return versions, rows.Err()
}

// DeleteAllByChapter removes all snapshots of a chapter
func (r *PostgresVersionRepository) DeleteAllByChapter(ctx context.Context, chapterID string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s WHERE chapter_id = $1
	`, r.tables.Versions)

	if _, err := GetExecutor(ctx, r.pool).Exec(ctx, query, chapterID); err != nil {
		return fmt.Errorf("delete chapter versions: %w", err)
	}

	return nil
}

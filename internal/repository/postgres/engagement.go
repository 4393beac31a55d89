package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"versecraft/internal/domain"
	"versecraft/internal/domain/models"
	"versecraft/internal/domain/repositories"
)

// PostgresCommentRepository implements the CommentRepository interface
type PostgresCommentRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(config *RepositoryConfig) repositories.CommentRepository {
	return &PostgresCommentRepository{pool: config.Pool, tables: config.Tables}
}

// Create inserts a new comment
func (r *PostgresCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (story_id, user_id, text, sentiment, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, r.tables.Comments)

	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query,
		comment.StoryID,
		comment.UserID,
		comment.Text,
		comment.Sentiment,
		comment.CreatedAt,
	).Scan(&comment.ID, &comment.CreatedAt)

	if err != nil {
		if isPgForeignKeyError(err) {
			return fmt.Errorf("story %s: %w", comment.StoryID, domain.ErrNotFound)
		}
		return fmt.Errorf("create comment: %w", err)
	}

	return nil
}

// ListByStory lists a story's comments, newest first
func (r *PostgresCommentRepository) ListByStory(ctx context.Context, storyID string) ([]models.Comment, error) {
	query := fmt.Sprintf(`
		SELECT id, story_id, user_id, text, sentiment, created_at
		FROM %s
		WHERE story_id = $1
		ORDER BY created_at DESC
	`, r.tables.Comments)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, storyID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	comments := []models.Comment{}
	for rows.Next() {
		var comment models.Comment
		if err := rows.Scan(
			&comment.ID,
			&comment.StoryID,
			&comment.UserID,
			&comment.Text,
			&comment.Sentiment,
			&comment.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, comment)
	}

	return comments, rows.Err()
}

// PostgresRatingRepository implements the RatingRepository interface
type PostgresRatingRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewRatingRepository creates a new rating repository
func NewRatingRepository(config *RepositoryConfig) repositories.RatingRepository {
	return &PostgresRatingRepository{pool: config.Pool, tables: config.Tables}
}

// Upsert inserts or replaces the user's rating for a story. Last write wins.
func (r *PostgresRatingRepository) Upsert(ctx context.Context, rating *models.Rating) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (story_id, user_id, value, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (story_id, user_id)
		DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`, r.tables.Ratings)

	_, err := GetExecutor(ctx, r.pool).Exec(ctx, query,
		rating.StoryID,
		rating.UserID,
		rating.Value,
		rating.UpdatedAt,
	)

	if err != nil {
		if isPgForeignKeyError(err) {
			return fmt.Errorf("story %s: %w", rating.StoryID, domain.ErrNotFound)
		}
		return fmt.Errorf("upsert rating: %w", err)
	}

	return nil
}

// GetAverage returns the average rating and vote count for a story
func (r *PostgresRatingRepository) GetAverage(ctx context.Context, storyID string) (float64, int, error) {
	query := fmt.Sprintf(`
		SELECT COALESCE(AVG(value), 0), COUNT(*)
		FROM %s
		WHERE story_id = $1
	`, r.tables.Ratings)

	var avg float64
	var count int
	if err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, storyID).Scan(&avg, &count); err != nil {
		return 0, 0, fmt.Errorf("average rating: %w", err)
	}

	return avg, count, nil
}

// PostgresFavoriteRepository implements the FavoriteRepository interface
type PostgresFavoriteRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewFavoriteRepository creates a new favorite repository
func NewFavoriteRepository(config *RepositoryConfig) repositories.FavoriteRepository {
	return &PostgresFavoriteRepository{pool: config.Pool, tables: config.Tables}
}

// Toggle flips the favorite state for (story, user). A delete that removes a
// row means the favorite existed; otherwise one is inserted.
func (r *PostgresFavoriteRepository) Toggle(ctx context.Context, storyID, userID string) (bool, error) {
	deleteQuery := fmt.Sprintf(`
		DELETE FROM %s WHERE story_id = $1 AND user_id = $2
	`, r.tables.Favorites)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, deleteQuery, storyID, userID)
	if err != nil {
		return false, fmt.Errorf("toggle favorite: %w", err)
	}
	if result.RowsAffected() > 0 {
		return false, nil
	}

	insertQuery := fmt.Sprintf(`
		INSERT INTO %s (story_id, user_id, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (story_id, user_id) DO NOTHING
	`, r.tables.Favorites)

	if _, err := GetExecutor(ctx, r.pool).Exec(ctx, insertQuery, storyID, userID); err != nil {
		if isPgForeignKeyError(err) {
			return false, fmt.Errorf("story %s: %w", storyID, domain.ErrNotFound)
		}
		return false, fmt.Errorf("toggle favorite: %w", err)
	}

	return true, nil
}

// ListByUser lists the stories a user has favorited
func (r *PostgresFavoriteRepository) ListByUser(ctx context.Context, userID string) ([]models.Favorite, error) {
	query := fmt.Sprintf(`
		SELECT story_id, user_id, created_at
		FROM %s
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, r.tables.Favorites)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	defer rows.Close()

	favorites := []models.Favorite{}
	for rows.Next() {
		var favorite models.Favorite
		if err := rows.Scan(&favorite.StoryID, &favorite.UserID, &favorite.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan favorite: %w", err)
		}
		favorites = append(favorites, favorite)
	}

	return favorites, rows.Err()
}

package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"versecraft/internal/domain/repositories"
)

// RepositoryConfig holds configuration for repository implementations
type RepositoryConfig struct {
	Pool   *pgxpool.Pool
	Tables *TableNames
	Logger *slog.Logger
}

// TableNames holds dynamically prefixed table names
type TableNames struct {
	Stories        string
	Chapters       string
	Versions       string
	Comments       string
	Ratings        string
	Favorites      string
	Prompts        string
	PromptMessages string
}

// NewTableNames creates table names with the given prefix
func NewTableNames(prefix string) *TableNames {
	return &TableNames{
		Stories:        fmt.Sprintf("%sstories", prefix),
		Chapters:       fmt.Sprintf("%schapters", prefix),
		Versions:       fmt.Sprintf("%schapter_versions", prefix),
		Comments:       fmt.Sprintf("%scomments", prefix),
		Ratings:        fmt.Sprintf("%sratings", prefix),
		Favorites:      fmt.Sprintf("%sfavorites", prefix),
		Prompts:        fmt.Sprintf("%sprompts", prefix),
		PromptMessages: fmt.Sprintf("%sprompt_messages", prefix),
	}
}

// CreateConnectionPool creates a new pgx connection pool and verifies the
// connection. Table names are interpolated before the SQL reaches the
// server, so each environment prefix gets its own statements.
func CreateConnectionPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	config.MaxConns = 25
	config.MinConns = 5

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// GetExecutor returns the transaction stored in the context if one exists,
// otherwise the pool. Repositories call this on every query so they join
// any surrounding transaction automatically.
func GetExecutor(ctx context.Context, pool *pgxpool.Pool) repositories.DBTX {
	if tx := repositories.GetTx(ctx); tx != nil {
		return tx
	}
	return pool
}

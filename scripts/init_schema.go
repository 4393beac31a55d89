package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Creates the environment-prefixed schema. Run with:
//
//	go run scripts/init_schema.go
func main() {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	// Table prefix mirrors config.Load: TABLE_PREFIX wins, otherwise the
	// environment name
	prefix := os.Getenv("TABLE_PREFIX")
	if prefix == "" {
		env := os.Getenv("ENVIRONMENT")
		if env == "" {
			env = "dev"
		}
		prefix = env + "_"
	}

	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() { _ = db.Close() }() // Error ignored: script exiting

	schemaSQL := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %[1]sstories (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			author_id TEXT NOT NULL,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			genre TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE INDEX IF NOT EXISTS %[1]sstories_author_idx ON %[1]sstories (author_id);

		CREATE TABLE IF NOT EXISTS %[1]schapters (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			story_id UUID NOT NULL REFERENCES %[1]sstories(id),
			title TEXT NOT NULL,
			number INTEGER NOT NULL CHECK (number >= 1),
			content TEXT NOT NULL DEFAULT '',
			language TEXT NOT NULL DEFAULT 'en',
			word_count INTEGER NOT NULL DEFAULT 0,
			current_version_id UUID,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			UNIQUE (story_id, number)
		);

		CREATE TABLE IF NOT EXISTS %[1]schapter_versions (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			chapter_id UUID NOT NULL REFERENCES %[1]schapters(id),
			version_token TEXT NOT NULL,
			content TEXT NOT NULL DEFAULT '',
			language TEXT NOT NULL DEFAULT 'en',
			summary TEXT NOT NULL DEFAULT '',
			display_name TEXT NOT NULL DEFAULT '',
			created_by TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE INDEX IF NOT EXISTS %[1]schapter_versions_chapter_idx
			ON %[1]schapter_versions (chapter_id, created_at DESC);
		CREATE UNIQUE INDEX IF NOT EXISTS %[1]schapter_versions_token_idx
			ON %[1]schapter_versions (version_token);

		CREATE TABLE IF NOT EXISTS %[1]scomments (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			story_id UUID NOT NULL REFERENCES %[1]sstories(id) ON DELETE CASCADE,
			user_id TEXT NOT NULL,
			text TEXT NOT NULL,
			sentiment TEXT NOT NULL DEFAULT 'undecided',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE INDEX IF NOT EXISTS %[1]scomments_story_idx ON %[1]scomments (story_id, created_at DESC);

		CREATE TABLE IF NOT EXISTS %[1]sratings (
			story_id UUID NOT NULL REFERENCES %[1]sstories(id) ON DELETE CASCADE,
			user_id TEXT NOT NULL,
			value INTEGER NOT NULL CHECK (value BETWEEN 1 AND 5),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			PRIMARY KEY (story_id, user_id)
		);

		CREATE TABLE IF NOT EXISTS %[1]sfavorites (
			story_id UUID NOT NULL REFERENCES %[1]sstories(id) ON DELETE CASCADE,
			user_id TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			PRIMARY KEY (story_id, user_id)
		);

		CREATE TABLE IF NOT EXISTS %[1]sprompts (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			story_id UUID NOT NULL REFERENCES %[1]sstories(id) ON DELETE CASCADE,
			title TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);

		CREATE TABLE IF NOT EXISTS %[1]sprompt_messages (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			prompt_id UUID NOT NULL REFERENCES %[1]sprompts(id) ON DELETE CASCADE,
			role TEXT NOT NULL CHECK (role IN ('user', 'model')),
			content TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE INDEX IF NOT EXISTS %[1]sprompt_messages_prompt_idx
			ON %[1]sprompt_messages (prompt_id, created_at);
	`, prefix)

	if _, err := db.Exec(schemaSQL); err != nil {
		log.Fatalf("Failed to create schema: %v", err)
	}

	fmt.Printf("Schema created successfully (prefix: %s)\n", prefix)
}

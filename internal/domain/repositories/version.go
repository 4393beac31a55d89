package repositories

import (
	"context"

	"versecraft/internal/domain/models"
)

// VersionRepository is the append-only store of chapter snapshots. There is
// no Update: a version's content and language are immutable once written.
type VersionRepository interface {
	// Create appends a new snapshot
	Create(ctx context.Context, version *models.ChapterVersion) error

	// GetByID retrieves a version by ID
	GetByID(ctx context.Context, id string) (*models.ChapterVersion, error)

	// GetByChapter retrieves a version by ID, scoped to its owning chapter.
	// Returns domain.ErrNotFound when the version exists but belongs to a
	// different chapter.
	GetByChapter(ctx context.Context, id, chapterID string) (*models.ChapterVersion, error)

	// ListByChapter lists a chapter's versions, newest first. An empty slice
	// (not an error) when the chapter has no versions yet.
	ListByChapter(ctx context.Context, chapterID string) ([]models.ChapterVersion, error)

	// DeleteAllByChapter removes all snapshots of a chapter. Used only by
	// chapter deletion; never exposed in the normal flow.
	DeleteAllByChapter(ctx context.Context, chapterID string) error
}

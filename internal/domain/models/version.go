package models

import (
	"time"
)

// ChapterVersion is an immutable point-in-time snapshot of a chapter's
// content. Once written it is never updated; revert copies its content back
// onto the chapter instead of touching the snapshot.
type ChapterVersion struct {
	ID           string    `json:"id" db:"id"`
	ChapterID    string    `json:"chapter_id" db:"chapter_id"`
	VersionToken string    `json:"version_token" db:"version_token"` // External token (Urdu) or store uuid
	Content      string    `json:"content" db:"content"`
	Language     string    `json:"language" db:"language"`
	Summary      string    `json:"summary" db:"summary"`
	DisplayName  string    `json:"display_name" db:"display_name"` // e.g. "Draft 1", "Final"
	CreatedBy    string    `json:"created_by" db:"created_by"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

type CreateVersionRequest struct {
	ChapterID   string `json:"-"`
	CreatedBy   string `json:"-"`
	Summary     string `json:"summary"`
	DisplayName string `json:"display_name"`
}

package models

import (
	"time"
)

// Chapter is the live editable unit of a story. Content is the mutable
// draft; snapshots of it live in ChapterVersion and are never mutated.
// (StoryID, Number) is unique - enforced by the chapters table.
type Chapter struct {
	ID               string    `json:"id" db:"id"`
	StoryID          string    `json:"story_id" db:"story_id"`
	Title            string    `json:"title" db:"title"`
	Number           int       `json:"number" db:"number"`
	Content          string    `json:"content" db:"content"` // Rich-text/HTML draft
	Language         string    `json:"language" db:"language"`
	WordCount        int       `json:"word_count" db:"word_count"`
	CurrentVersionID *string   `json:"current_version_id" db:"current_version_id"` // NULL until first version
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`
}

type CreateChapterRequest struct {
	StoryID  string `json:"-"`
	Title    string `json:"title"`
	Number   int    `json:"number"`
	Content  string `json:"content"`
	Language string `json:"language"`
}

type UpdateChapterRequest struct {
	Title    *string `json:"title,omitempty"`
	Number   *int    `json:"number,omitempty"`
	Content  *string `json:"content,omitempty"`
	Language *string `json:"language,omitempty"`
}

// SaveContentRequest overwrites the live draft without creating a version.
type SaveContentRequest struct {
	Content  string  `json:"content"`
	Language *string `json:"language,omitempty"`
}

package models

import (
	"time"
)

type Story struct {
	ID          string    `json:"id" db:"id"`
	AuthorID    string    `json:"author_id" db:"author_id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Genre       string    `json:"genre" db:"genre"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

type CreateStoryRequest struct {
	AuthorID    string `json:"-"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Genre       string `json:"genre"`
}

type UpdateStoryRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Genre       *string `json:"genre,omitempty"`
}

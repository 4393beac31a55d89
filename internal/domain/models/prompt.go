package models

import (
	"time"
)

// Message roles within a prompt conversation.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// Prompt is a named conversation with the story-continuation model, scoped
// to a story.
type Prompt struct {
	ID        string    `json:"id" db:"id"`
	StoryID   string    `json:"story_id" db:"story_id"`
	Title     string    `json:"title" db:"title"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type PromptMessage struct {
	ID        string    `json:"id" db:"id"`
	PromptID  string    `json:"prompt_id" db:"prompt_id"`
	Role      string    `json:"role" db:"role"`
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type CreatePromptRequest struct {
	StoryID string `json:"story_id"`
	Title   string `json:"title"`
}

type CreateMessageRequest struct {
	PromptID string `json:"-"`
	Role     string `json:"role"`
	Content  string `json:"content"`
}

// GenerateResult is the reply of the model-generation collaborator, with
// Fallback set when the canned placeholder was substituted after retries
// were exhausted.
type GenerateResult struct {
	Content  string `json:"content"`
	Fallback bool   `json:"fallback"`
}

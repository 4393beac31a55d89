package models

import (
	"time"
)

// Sentiment categories assigned to comments. "undecided" is both the
// classifier's low-confidence bucket and the value used when the sentiment
// collaborator is unreachable.
const (
	SentimentPositive  = "positive"
	SentimentNeutral   = "neutral"
	SentimentNegative  = "negative"
	SentimentUndecided = "undecided"
)

type Comment struct {
	ID        string    `json:"id" db:"id"`
	StoryID   string    `json:"story_id" db:"story_id"`
	UserID    string    `json:"user_id" db:"user_id"`
	Text      string    `json:"text" db:"text"`
	Sentiment string    `json:"sentiment" db:"sentiment"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type CreateCommentRequest struct {
	StoryID string `json:"-"`
	UserID  string `json:"-"`
	Text    string `json:"text"`
}

// Rating is one user's score for a story. Writes are an upsert keyed by
// (story, user); last write wins.
type Rating struct {
	StoryID   string    `json:"story_id" db:"story_id"`
	UserID    string    `json:"user_id" db:"user_id"`
	Value     int       `json:"value" db:"value"` // 1..5
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type SubmitRatingRequest struct {
	StoryID string `json:"-"`
	UserID  string `json:"-"`
	Value   int    `json:"value"`
}

type Favorite struct {
	StoryID   string    `json:"story_id" db:"story_id"`
	UserID    string    `json:"user_id" db:"user_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// FavoriteState is the toggle result returned to the caller.
type FavoriteState struct {
	StoryID   string `json:"story_id"`
	Favorited bool   `json:"favorited"`
}

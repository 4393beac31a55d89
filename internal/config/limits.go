package config

const (
	// MaxStoryTitleLength is the maximum length for story titles.
	// Limited to 255 to fit in PostgreSQL VARCHAR(255).
	MaxStoryTitleLength = 255

	// MaxChapterTitleLength is the maximum length for chapter titles.
	MaxChapterTitleLength = 255

	// MaxVersionNameLength is the maximum length for a version display name
	// (e.g. "Draft 1", "Final").
	MaxVersionNameLength = 100

	// MaxVersionSummaryLength is the maximum length for a version summary.
	MaxVersionSummaryLength = 1000

	// MaxCommentLength is the maximum length for a story comment.
	MaxCommentLength = 2000

	// MaxPromptTitleLength is the maximum length for prompt titles.
	MaxPromptTitleLength = 255
)

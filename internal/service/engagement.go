package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"versecraft/internal/config"
	"versecraft/internal/domain"
	"versecraft/internal/domain/models"
	"versecraft/internal/domain/repositories"
	"versecraft/internal/service/nlp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// EngagementService handles comments, ratings and favorites. These writes
// tolerate last-write-wins races; only the sentiment call-out has failure
// handling worth noting, and it never blocks the comment.
type EngagementService struct {
	commentRepo  repositories.CommentRepository
	ratingRepo   repositories.RatingRepository
	favoriteRepo repositories.FavoriteRepository
	storyRepo    repositories.StoryRepository
	sentiment    nlp.SentimentClassifier
	logger       *slog.Logger
}

// NewEngagementService creates a new engagement service. sentiment may be
// nil, in which case comments land as undecided.
func NewEngagementService(
	commentRepo repositories.CommentRepository,
	ratingRepo repositories.RatingRepository,
	favoriteRepo repositories.FavoriteRepository,
	storyRepo repositories.StoryRepository,
	sentiment nlp.SentimentClassifier,
	logger *slog.Logger,
) *EngagementService {
	return &EngagementService{
		commentRepo:  commentRepo,
		ratingRepo:   ratingRepo,
		favoriteRepo: favoriteRepo,
		storyRepo:    storyRepo,
		sentiment:    sentiment,
		logger:       logger,
	}
}

// CreateComment inserts a comment, tagging it with a best-effort sentiment
// classification. A classifier failure downgrades to undecided; it never
// fails the comment.
func (s *EngagementService) CreateComment(ctx context.Context, req *models.CreateCommentRequest) (*models.Comment, error) {
	if err := validation.ValidateStruct(req,
		validation.Field(&req.StoryID, validation.Required),
		validation.Field(&req.UserID, validation.Required),
		validation.Field(&req.Text,
			validation.Required,
			validation.Length(1, config.MaxCommentLength),
		),
	); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if err := s.requireStory(ctx, req.StoryID); err != nil {
		return nil, err
	}

	sentiment := models.SentimentUndecided
	if s.sentiment != nil {
		if tag, err := s.sentiment.Classify(ctx, req.Text); err != nil {
			s.logger.Warn("sentiment classification failed", "error", err)
		} else {
			sentiment = tag
		}
	}

	comment := &models.Comment{
		StoryID:   req.StoryID,
		UserID:    req.UserID,
		Text:      strings.TrimSpace(req.Text),
		Sentiment: sentiment,
		CreatedAt: time.Now(),
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	return comment, nil
}

// ListComments lists a story's comments, newest first
func (s *EngagementService) ListComments(ctx context.Context, storyID string) ([]models.Comment, error) {
	if err := s.requireStory(ctx, storyID); err != nil {
		return nil, err
	}
	return s.commentRepo.ListByStory(ctx, storyID)
}

// SubmitRating upserts the user's rating for a story
func (s *EngagementService) SubmitRating(ctx context.Context, req *models.SubmitRatingRequest) (*models.Rating, error) {
	if req.Value < 1 || req.Value > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", domain.ErrValidation)
	}

	if err := s.requireStory(ctx, req.StoryID); err != nil {
		return nil, err
	}

	rating := &models.Rating{
		StoryID:   req.StoryID,
		UserID:    req.UserID,
		Value:     req.Value,
		UpdatedAt: time.Now(),
	}
	if err := s.ratingRepo.Upsert(ctx, rating); err != nil {
		return nil, err
	}

	return rating, nil
}

// GetRatingSummary returns the average rating and vote count for a story
func (s *EngagementService) GetRatingSummary(ctx context.Context, storyID string) (float64, int, error) {
	if err := s.requireStory(ctx, storyID); err != nil {
		return 0, 0, err
	}
	return s.ratingRepo.GetAverage(ctx, storyID)
}

// ToggleFavorite flips the favorite state for (story, user)
func (s *EngagementService) ToggleFavorite(ctx context.Context, storyID, userID string) (*models.FavoriteState, error) {
	if err := s.requireStory(ctx, storyID); err != nil {
		return nil, err
	}

	favorited, err := s.favoriteRepo.Toggle(ctx, storyID, userID)
	if err != nil {
		return nil, err
	}

	return &models.FavoriteState{StoryID: storyID, Favorited: favorited}, nil
}

// ListFavorites lists the stories the user has favorited
func (s *EngagementService) ListFavorites(ctx context.Context, userID string) ([]models.Favorite, error) {
	return s.favoriteRepo.ListByUser(ctx, userID)
}

func (s *EngagementService) requireStory(ctx context.Context, storyID string) error {
	exists, err := s.storyRepo.Exists(ctx, storyID)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("story %s: %w", storyID, domain.ErrNotFound)
	}
	return nil
}

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

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// StoryService handles story lifecycle. Deleting a story removes its
// chapters and their versions in one transaction.
type StoryService struct {
	storyRepo   repositories.StoryRepository
	chapterRepo repositories.ChapterRepository
	versionRepo repositories.VersionRepository
	txManager   repositories.TransactionManager
	logger      *slog.Logger
}

// NewStoryService creates a new story service
func NewStoryService(
	storyRepo repositories.StoryRepository,
	chapterRepo repositories.ChapterRepository,
	versionRepo repositories.VersionRepository,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) *StoryService {
	return &StoryService{
		storyRepo:   storyRepo,
		chapterRepo: chapterRepo,
		versionRepo: versionRepo,
		txManager:   txManager,
		logger:      logger,
	}
}

// CreateStory creates a new story
func (s *StoryService) CreateStory(ctx context.Context, req *models.CreateStoryRequest) (*models.Story, error) {
	if err := s.validateCreateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	now := time.Now()
	story := &models.Story{
		AuthorID:    req.AuthorID,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Genre:       req.Genre,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.storyRepo.Create(ctx, story); err != nil {
		return nil, err
	}

	s.logger.Info("story created", "id", story.ID, "author_id", story.AuthorID)
	return story, nil
}

// GetStory retrieves a story by ID
func (s *StoryService) GetStory(ctx context.Context, id string) (*models.Story, error) {
	return s.storyRepo.GetByID(ctx, id)
}

// ListStories lists the acting user's stories
func (s *StoryService) ListStories(ctx context.Context, authorID string) ([]models.Story, error) {
	return s.storyRepo.ListByAuthor(ctx, authorID)
}

// UpdateStory applies a partial update
func (s *StoryService) UpdateStory(ctx context.Context, id string, req *models.UpdateStoryRequest) (*models.Story, error) {
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		return nil, fmt.Errorf("%w: story title cannot be empty", domain.ErrValidation)
	}

	story, err := s.storyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		story.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		story.Description = *req.Description
	}
	if req.Genre != nil {
		story.Genre = *req.Genre
	}
	story.UpdatedAt = time.Now()

	if err := s.storyRepo.Update(ctx, story); err != nil {
		return nil, err
	}

	return story, nil
}

// DeleteStory removes a story, its chapters, and their versions
func (s *StoryService) DeleteStory(ctx context.Context, id string) error {
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		chapters, err := s.chapterRepo.ListByStory(txCtx, id)
		if err != nil {
			return err
		}
		for _, chapter := range chapters {
			if err := s.versionRepo.DeleteAllByChapter(txCtx, chapter.ID); err != nil {
				return err
			}
		}
		if err := s.chapterRepo.DeleteAllByStory(txCtx, id); err != nil {
			return err
		}
		return s.storyRepo.Delete(txCtx, id)
	})
	if err != nil {
		return err
	}

	s.logger.Info("story deleted", "id", id)
	return nil
}

func (s *StoryService) validateCreateRequest(req *models.CreateStoryRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.AuthorID, validation.Required),
		validation.Field(&req.Title,
			validation.Required,
			validation.Length(1, config.MaxStoryTitleLength),
		),
	)
}

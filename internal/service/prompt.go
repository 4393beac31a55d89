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

// PromptService manages model-generation conversations: prompts, their
// message history, and the generate call-out.
type PromptService struct {
	promptRepo repositories.PromptRepository
	storyRepo  repositories.StoryRepository
	generation *nlp.GenerationService
	logger     *slog.Logger
}

// NewPromptService creates a new prompt service
func NewPromptService(
	promptRepo repositories.PromptRepository,
	storyRepo repositories.StoryRepository,
	generation *nlp.GenerationService,
	logger *slog.Logger,
) *PromptService {
	return &PromptService{
		promptRepo: promptRepo,
		storyRepo:  storyRepo,
		generation: generation,
		logger:     logger,
	}
}

// CreatePrompt creates a new prompt under a story
func (s *PromptService) CreatePrompt(ctx context.Context, req *models.CreatePromptRequest) (*models.Prompt, error) {
	if err := validation.ValidateStruct(req,
		validation.Field(&req.StoryID, validation.Required),
		validation.Field(&req.Title,
			validation.Required,
			validation.Length(1, config.MaxPromptTitleLength),
		),
	); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	exists, err := s.storyRepo.Exists(ctx, req.StoryID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("story %s: %w", req.StoryID, domain.ErrNotFound)
	}

	prompt := &models.Prompt{
		StoryID:   req.StoryID,
		Title:     strings.TrimSpace(req.Title),
		CreatedAt: time.Now(),
	}
	if err := s.promptRepo.Create(ctx, prompt); err != nil {
		return nil, err
	}

	return prompt, nil
}

// ListPrompts lists a story's prompts
func (s *PromptService) ListPrompts(ctx context.Context, storyID string) ([]models.Prompt, error) {
	return s.promptRepo.ListByStory(ctx, storyID)
}

// AddMessage appends a message to a prompt's conversation
func (s *PromptService) AddMessage(ctx context.Context, req *models.CreateMessageRequest) (*models.PromptMessage, error) {
	if req.Role != models.RoleUser && req.Role != models.RoleModel {
		return nil, fmt.Errorf("%w: role must be %q or %q", domain.ErrValidation, models.RoleUser, models.RoleModel)
	}
	if strings.TrimSpace(req.Content) == "" {
		return nil, fmt.Errorf("%w: message content is required", domain.ErrValidation)
	}

	if _, err := s.promptRepo.GetByID(ctx, req.PromptID); err != nil {
		return nil, err
	}

	msg := &models.PromptMessage{
		PromptID:  req.PromptID,
		Role:      req.Role,
		Content:   req.Content,
		CreatedAt: time.Now(),
	}
	if err := s.promptRepo.AddMessage(ctx, msg); err != nil {
		return nil, err
	}

	return msg, nil
}

// ListMessages lists a prompt's messages in conversation order
func (s *PromptService) ListMessages(ctx context.Context, promptID string) ([]models.PromptMessage, error) {
	if _, err := s.promptRepo.GetByID(ctx, promptID); err != nil {
		return nil, err
	}
	return s.promptRepo.ListMessages(ctx, promptID)
}

// Generate concatenates the prompt's conversation, calls the generation
// collaborator, and appends the model reply to the history. The reply is
// the canned fallback when the collaborator stays unreachable - callers
// always get text, never an upstream error.
func (s *PromptService) Generate(ctx context.Context, promptID string) (*models.GenerateResult, error) {
	messages, err := s.ListMessages(ctx, promptID)
	if err != nil {
		return nil, err
	}
	if len(messages) == 0 {
		return nil, fmt.Errorf("%w: prompt has no messages to generate from", domain.ErrValidation)
	}

	parts := make([]string, 0, len(messages))
	for _, msg := range messages {
		parts = append(parts, msg.Content)
	}

	result := s.generation.Generate(ctx, strings.Join(parts, "\n"))

	reply := &models.PromptMessage{
		PromptID:  promptID,
		Role:      models.RoleModel,
		Content:   result.Content,
		CreatedAt: time.Now(),
	}
	if err := s.promptRepo.AddMessage(ctx, reply); err != nil {
		return nil, err
	}

	if result.Fallback {
		s.logger.Warn("generation fell back to placeholder", "prompt_id", promptID)
	}

	return &result, nil
}

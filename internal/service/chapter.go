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
	"versecraft/internal/langs"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// RevertObserver is notified when a revert overwrites live content that was
// never saved as a version. The default observer only logs; a deployment
// that wants auto-snapshot-before-revert plugs in here.
type RevertObserver interface {
	LiveContentDiscarded(ctx context.Context, chapter *models.Chapter, applied *models.ChapterVersion)
}

// ContentBroadcaster pushes a chapter's new live content to its room.
// Delivery is best effort; a broadcast failure never fails the operation
// that triggered it.
type ContentBroadcaster interface {
	BroadcastContent(chapterID, content string)
}

// ChapterService owns the live editable state of chapters and mediates all
// persistence-affecting operations: save, version creation, revert, delete.
type ChapterService struct {
	chapterRepo repositories.ChapterRepository
	versionRepo repositories.VersionRepository
	storyRepo   repositories.StoryRepository
	txManager   repositories.TransactionManager
	languages   *langs.Registry
	observer    RevertObserver
	broadcaster ContentBroadcaster
	logger      *slog.Logger
}

// NewChapterService creates a new chapter service. observer and broadcaster
// may be nil.
func NewChapterService(
	chapterRepo repositories.ChapterRepository,
	versionRepo repositories.VersionRepository,
	storyRepo repositories.StoryRepository,
	txManager repositories.TransactionManager,
	languages *langs.Registry,
	observer RevertObserver,
	broadcaster ContentBroadcaster,
	logger *slog.Logger,
) *ChapterService {
	if observer == nil {
		observer = &loggingRevertObserver{logger: logger}
	}
	return &ChapterService{
		chapterRepo: chapterRepo,
		versionRepo: versionRepo,
		storyRepo:   storyRepo,
		txManager:   txManager,
		languages:   languages,
		observer:    observer,
		broadcaster: broadcaster,
		logger:      logger,
	}
}

// CreateChapter creates a new chapter under a story
func (s *ChapterService) CreateChapter(ctx context.Context, req *models.CreateChapterRequest) (*models.Chapter, error) {
	if err := s.validateCreateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	language := req.Language
	if language == "" {
		language = s.languages.Default()
	}
	if !s.languages.Supported(language) {
		return nil, fmt.Errorf("%w: unsupported language %q", domain.ErrValidation, language)
	}

	exists, err := s.storyRepo.Exists(ctx, req.StoryID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("story %s: %w", req.StoryID, domain.ErrNotFound)
	}

	now := time.Now()
	chapter := &models.Chapter{
		StoryID:   req.StoryID,
		Title:     strings.TrimSpace(req.Title),
		Number:    req.Number,
		Content:   req.Content,
		Language:  language,
		WordCount: countWords(req.Content),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.chapterRepo.Create(ctx, chapter); err != nil {
		return nil, err
	}

	s.logger.Info("chapter created",
		"id", chapter.ID,
		"story_id", chapter.StoryID,
		"number", chapter.Number,
	)

	return chapter, nil
}

// GetChapter retrieves a chapter by ID
func (s *ChapterService) GetChapter(ctx context.Context, id string) (*models.Chapter, error) {
	return s.chapterRepo.GetByID(ctx, id)
}

// ListChapters lists a story's chapters ordered by number
func (s *ChapterService) ListChapters(ctx context.Context, storyID string) ([]models.Chapter, error) {
	exists, err := s.storyRepo.Exists(ctx, storyID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("story %s: %w", storyID, domain.ErrNotFound)
	}

	return s.chapterRepo.ListByStory(ctx, storyID)
}

// UpdateChapter applies a partial update. Only supplied fields change; a
// number collision within the story is rejected before any field is
// persisted.
func (s *ChapterService) UpdateChapter(ctx context.Context, id string, req *models.UpdateChapterRequest) (*models.Chapter, error) {
	if req.Number != nil && *req.Number < 1 {
		return nil, fmt.Errorf("%w: chapter number must be at least 1", domain.ErrValidation)
	}
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		return nil, fmt.Errorf("%w: chapter title cannot be empty", domain.ErrValidation)
	}
	if req.Language != nil && !s.languages.Supported(*req.Language) {
		return nil, fmt.Errorf("%w: unsupported language %q", domain.ErrValidation, *req.Language)
	}

	var updated *models.Chapter
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		chapter, err := s.chapterRepo.GetByIDForUpdate(txCtx, id)
		if err != nil {
			return err
		}

		if req.Title != nil {
			chapter.Title = strings.TrimSpace(*req.Title)
		}
		if req.Number != nil {
			chapter.Number = *req.Number
		}
		if req.Content != nil {
			chapter.Content = *req.Content
			chapter.WordCount = countWords(*req.Content)
		}
		if req.Language != nil {
			chapter.Language = *req.Language
		}
		chapter.UpdatedAt = time.Now()

		if err := s.chapterRepo.Update(txCtx, chapter); err != nil {
			return err
		}

		updated = chapter
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// SaveLiveContent overwrites the chapter's live draft. No version is
// created; the draft stays unversioned until an explicit snapshot.
func (s *ChapterService) SaveLiveContent(ctx context.Context, id string, req *models.SaveContentRequest) (*models.Chapter, error) {
	if req.Language != nil && !s.languages.Supported(*req.Language) {
		return nil, fmt.Errorf("%w: unsupported language %q", domain.ErrValidation, *req.Language)
	}

	var saved *models.Chapter
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		chapter, err := s.chapterRepo.GetByIDForUpdate(txCtx, id)
		if err != nil {
			return err
		}

		chapter.Content = req.Content
		chapter.WordCount = countWords(req.Content)
		if req.Language != nil {
			chapter.Language = *req.Language
		}
		chapter.UpdatedAt = time.Now()

		if err := s.chapterRepo.Update(txCtx, chapter); err != nil {
			return err
		}

		saved = chapter
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("live content saved", "chapter_id", id, "words", saved.WordCount)
	return saved, nil
}

// CreateVersionFromLive snapshots the chapter's current live content into a
// new immutable version and repoints the active-version reference. The
// chapter row is locked for the whole transaction, so the snapshot reflects
// the live content at a single consistent instant even under concurrent
// saves.
func (s *ChapterService) CreateVersionFromLive(ctx context.Context, req *models.CreateVersionRequest) (*models.ChapterVersion, error) {
	if req.CreatedBy == "" {
		return nil, fmt.Errorf("%w: version creator is required", domain.ErrValidation)
	}
	if err := validation.Validate(req.Summary, validation.Length(0, config.MaxVersionSummaryLength)); err != nil {
		return nil, fmt.Errorf("%w: summary %v", domain.ErrValidation, err)
	}
	if err := validation.Validate(req.DisplayName, validation.Length(0, config.MaxVersionNameLength)); err != nil {
		return nil, fmt.Errorf("%w: display name %v", domain.ErrValidation, err)
	}

	var version *models.ChapterVersion
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		chapter, err := s.chapterRepo.GetByIDForUpdate(txCtx, req.ChapterID)
		if err != nil {
			return err
		}

		lang, err := s.languages.Get(chapter.Language)
		if err != nil {
			return fmt.Errorf("%w: %v", domain.ErrValidation, err)
		}

		displayName := strings.TrimSpace(req.DisplayName)
		if displayName == "" {
			history, err := s.versionRepo.ListByChapter(txCtx, chapter.ID)
			if err != nil {
				return err
			}
			displayName = DefaultVersionName(lang, len(history))
		}

		v := &models.ChapterVersion{
			ChapterID:    chapter.ID,
			VersionToken: NewVersionToken(lang),
			Content:      chapter.Content,
			Language:     chapter.Language,
			Summary:      req.Summary,
			DisplayName:  displayName,
			CreatedBy:    req.CreatedBy,
			CreatedAt:    time.Now(),
		}
		if err := s.versionRepo.Create(txCtx, v); err != nil {
			return err
		}

		chapter.CurrentVersionID = &v.ID
		chapter.UpdatedAt = time.Now()
		if err := s.chapterRepo.Update(txCtx, chapter); err != nil {
			return err
		}

		version = v
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("version created",
		"chapter_id", req.ChapterID,
		"version_id", version.ID,
		"token", version.VersionToken,
		"created_by", req.CreatedBy,
	)

	return version, nil
}

// ListVersions lists a chapter's versions, newest first
func (s *ChapterService) ListVersions(ctx context.Context, chapterID string) ([]models.ChapterVersion, error) {
	if _, err := s.chapterRepo.GetByID(ctx, chapterID); err != nil {
		return nil, err
	}
	return s.versionRepo.ListByChapter(ctx, chapterID)
}

// GetVersion retrieves a version by ID
func (s *ChapterService) GetVersion(ctx context.Context, versionID string) (*models.ChapterVersion, error) {
	return s.versionRepo.GetByID(ctx, versionID)
}

// RevertToVersion copies a historical snapshot's content back onto the
// chapter's live state and repoints the active version. No version is
// deleted. Live content that was never snapshotted is lost; the observer is
// told about it before the overwrite commits.
func (s *ChapterService) RevertToVersion(ctx context.Context, chapterID, versionID string) (*models.Chapter, error) {
	var (
		reverted  *models.Chapter
		discarded *models.Chapter
		applied   *models.ChapterVersion
	)

	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		chapter, err := s.chapterRepo.GetByIDForUpdate(txCtx, chapterID)
		if err != nil {
			return err
		}

		version, err := s.versionRepo.GetByChapter(txCtx, versionID, chapterID)
		if err != nil {
			return err
		}

		if chapter.Content != version.Content {
			snapshot := *chapter
			discarded = &snapshot
			applied = version
		}

		chapter.Content = version.Content
		chapter.Language = version.Language
		chapter.WordCount = countWords(version.Content)
		chapter.CurrentVersionID = &version.ID
		chapter.UpdatedAt = time.Now()

		if err := s.chapterRepo.Update(txCtx, chapter); err != nil {
			return err
		}

		reverted = chapter
		return nil
	})
	if err != nil {
		return nil, err
	}

	if discarded != nil {
		s.observer.LiveContentDiscarded(ctx, discarded, applied)
	}

	s.logger.Info("chapter reverted", "chapter_id", chapterID, "version_id", versionID)

	if s.broadcaster != nil {
		s.broadcaster.BroadcastContent(chapterID, reverted.Content)
	}

	return reverted, nil
}

// DeleteChapter removes a chapter and all of its versions in one
// transaction. Cascading is a deliberate choice: snapshots are unreachable
// without their owning chapter.
func (s *ChapterService) DeleteChapter(ctx context.Context, id string) error {
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if _, err := s.chapterRepo.GetByIDForUpdate(txCtx, id); err != nil {
			return err
		}
		if err := s.versionRepo.DeleteAllByChapter(txCtx, id); err != nil {
			return err
		}
		return s.chapterRepo.Delete(txCtx, id)
	})
	if err != nil {
		return err
	}

	s.logger.Info("chapter deleted", "id", id)
	return nil
}

// validateCreateRequest validates chapter creation input
func (s *ChapterService) validateCreateRequest(req *models.CreateChapterRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.StoryID, validation.Required),
		validation.Field(&req.Title,
			validation.Required,
			validation.Length(1, config.MaxChapterTitleLength),
		),
		validation.Field(&req.Number,
			validation.Required,
			validation.Min(1),
		),
	)
}

// loggingRevertObserver is the default RevertObserver: it only records that
// unsaved live content was discarded.
type loggingRevertObserver struct {
	logger *slog.Logger
}

func (o *loggingRevertObserver) LiveContentDiscarded(_ context.Context, chapter *models.Chapter, applied *models.ChapterVersion) {
	o.logger.Warn("revert discarded unsaved live content",
		"chapter_id", chapter.ID,
		"applied_version", applied.ID,
		"discarded_words", chapter.WordCount,
	)
}

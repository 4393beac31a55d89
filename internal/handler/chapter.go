package handler

import (
	"log/slog"
	"net/http"

	"versecraft/internal/domain/models"
	"versecraft/internal/httputil"
	"versecraft/internal/service"
)

// ChapterHandler handles chapter and version HTTP requests
type ChapterHandler struct {
	chapterService *service.ChapterService
	logger         *slog.Logger
}

// NewChapterHandler creates a new chapter handler
func NewChapterHandler(chapterService *service.ChapterService, logger *slog.Logger) *ChapterHandler {
	return &ChapterHandler{
		chapterService: chapterService,
		logger:         logger,
	}
}

// CreateChapter creates a chapter under a story
// POST /api/stories/{storyId}/chapters
// Returns 409 when the chapter number is already taken in the story
func (h *ChapterHandler) CreateChapter(w http.ResponseWriter, r *http.Request) {
	storyID, ok := requirePathValue(w, r, "storyId", "Story ID")
	if !ok {
		return
	}

	var req models.CreateChapterRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.StoryID = storyID

	chapter, err := h.chapterService.CreateChapter(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, chapter)
}

// ListChapters retrieves a story's chapters ordered by number
// GET /api/stories/{storyId}/chapters
func (h *ChapterHandler) ListChapters(w http.ResponseWriter, r *http.Request) {
	storyID, ok := requirePathValue(w, r, "storyId", "Story ID")
	if !ok {
		return
	}

	chapters, err := h.chapterService.ListChapters(r.Context(), storyID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, chapters)
}

// GetChapter retrieves a chapter by ID
// GET /api/chapters/{id}
func (h *ChapterHandler) GetChapter(w http.ResponseWriter, r *http.Request) {
	id, ok := requirePathValue(w, r, "id", "Chapter ID")
	if !ok {
		return
	}

	chapter, err := h.chapterService.GetChapter(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, chapter)
}

// UpdateChapter updates chapter metadata or content
// PATCH /api/chapters/{id}
func (h *ChapterHandler) UpdateChapter(w http.ResponseWriter, r *http.Request) {
	id, ok := requirePathValue(w, r, "id", "Chapter ID")
	if !ok {
		return
	}

	var req models.UpdateChapterRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	chapter, err := h.chapterService.UpdateChapter(r.Context(), id, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, chapter)
}

// DeleteChapter deletes a chapter and its version history
// DELETE /api/chapters/{id}
func (h *ChapterHandler) DeleteChapter(w http.ResponseWriter, r *http.Request) {
	id, ok := requirePathValue(w, r, "id", "Chapter ID")
	if !ok {
		return
	}

	if err := h.chapterService.DeleteChapter(r.Context(), id); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SaveContent overwrites the live draft without creating a version
// PUT /api/chapters/{id}/content
func (h *ChapterHandler) SaveContent(w http.ResponseWriter, r *http.Request) {
	id, ok := requirePathValue(w, r, "id", "Chapter ID")
	if !ok {
		return
	}

	var req models.SaveContentRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	chapter, err := h.chapterService.SaveLiveContent(r.Context(), id, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, chapter)
}

// CreateVersion snapshots the live draft into the version history
// POST /api/chapters/{id}/versions
func (h *ChapterHandler) CreateVersion(w http.ResponseWriter, r *http.Request) {
	id, ok := requirePathValue(w, r, "id", "Chapter ID")
	if !ok {
		return
	}

	var req models.CreateVersionRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.ChapterID = id
	req.CreatedBy = httputil.GetUserID(r)

	version, err := h.chapterService.CreateVersionFromLive(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, version)
}

// ListVersions retrieves a chapter's version history, newest first
// GET /api/chapters/{id}/versions
func (h *ChapterHandler) ListVersions(w http.ResponseWriter, r *http.Request) {
	id, ok := requirePathValue(w, r, "id", "Chapter ID")
	if !ok {
		return
	}

	versions, err := h.chapterService.ListVersions(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, versions)
}

// GetVersion retrieves a single version snapshot
// GET /api/versions/{id}
func (h *ChapterHandler) GetVersion(w http.ResponseWriter, r *http.Request) {
	id, ok := requirePathValue(w, r, "id", "Version ID")
	if !ok {
		return
	}

	version, err := h.chapterService.GetVersion(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, version)
}

// Revert copies a version's snapshot back over the live draft
// POST /api/chapters/{id}/revert/{versionId}
// The version must belong to the chapter, otherwise 404
func (h *ChapterHandler) Revert(w http.ResponseWriter, r *http.Request) {
	chapterID, ok := requirePathValue(w, r, "id", "Chapter ID")
	if !ok {
		return
	}
	versionID, ok := requirePathValue(w, r, "versionId", "Version ID")
	if !ok {
		return
	}

	chapter, err := h.chapterService.RevertToVersion(r.Context(), chapterID, versionID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, chapter)
}

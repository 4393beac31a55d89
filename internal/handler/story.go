package handler

import (
	"log/slog"
	"net/http"

	"versecraft/internal/domain/models"
	"versecraft/internal/httputil"
	"versecraft/internal/service"
)

// StoryHandler handles story HTTP requests
type StoryHandler struct {
	storyService *service.StoryService
	logger       *slog.Logger
}

// NewStoryHandler creates a new story handler
func NewStoryHandler(storyService *service.StoryService, logger *slog.Logger) *StoryHandler {
	return &StoryHandler{
		storyService: storyService,
		logger:       logger,
	}
}

// HealthCheck responds to health probes
// GET /health
func (h *StoryHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ListStories retrieves the acting user's stories
// GET /api/stories
func (h *StoryHandler) ListStories(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)

	stories, err := h.storyService.ListStories(r.Context(), userID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, stories)
}

// CreateStory creates a new story
// POST /api/stories
func (h *StoryHandler) CreateStory(w http.ResponseWriter, r *http.Request) {
	var req models.CreateStoryRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.AuthorID = httputil.GetUserID(r)

	story, err := h.storyService.CreateStory(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, story)
}

// GetStory retrieves a story by ID
// GET /api/stories/{id}
func (h *StoryHandler) GetStory(w http.ResponseWriter, r *http.Request) {
	id, ok := requirePathValue(w, r, "id", "Story ID")
	if !ok {
		return
	}

	story, err := h.storyService.GetStory(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, story)
}

// UpdateStory updates a story
// PATCH /api/stories/{id}
func (h *StoryHandler) UpdateStory(w http.ResponseWriter, r *http.Request) {
	id, ok := requirePathValue(w, r, "id", "Story ID")
	if !ok {
		return
	}

	var req models.UpdateStoryRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	story, err := h.storyService.UpdateStory(r.Context(), id, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, story)
}

// DeleteStory deletes a story together with its chapters and their versions
// DELETE /api/stories/{id}
func (h *StoryHandler) DeleteStory(w http.ResponseWriter, r *http.Request) {
	id, ok := requirePathValue(w, r, "id", "Story ID")
	if !ok {
		return
	}

	if err := h.storyService.DeleteStory(r.Context(), id); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

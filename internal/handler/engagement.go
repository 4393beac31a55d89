package handler

import (
	"log/slog"
	"net/http"

	"versecraft/internal/domain/models"
	"versecraft/internal/httputil"
	"versecraft/internal/service"
)

// EngagementHandler handles comment, rating and favorite HTTP requests
type EngagementHandler struct {
	engagementService *service.EngagementService
	logger            *slog.Logger
}

// NewEngagementHandler creates a new engagement handler
func NewEngagementHandler(engagementService *service.EngagementService, logger *slog.Logger) *EngagementHandler {
	return &EngagementHandler{
		engagementService: engagementService,
		logger:            logger,
	}
}

// CreateComment adds a comment to a story
// POST /api/stories/{id}/comments
func (h *EngagementHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	storyID, ok := requirePathValue(w, r, "id", "Story ID")
	if !ok {
		return
	}

	var req models.CreateCommentRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.StoryID = storyID
	req.UserID = httputil.GetUserID(r)

	comment, err := h.engagementService.CreateComment(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, comment)
}

// ListComments retrieves a story's comments
// GET /api/stories/{id}/comments
func (h *EngagementHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	storyID, ok := requirePathValue(w, r, "id", "Story ID")
	if !ok {
		return
	}

	comments, err := h.engagementService.ListComments(r.Context(), storyID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, comments)
}

// SubmitRating upserts the acting user's rating for a story
// PUT /api/stories/{id}/rating
func (h *EngagementHandler) SubmitRating(w http.ResponseWriter, r *http.Request) {
	storyID, ok := requirePathValue(w, r, "id", "Story ID")
	if !ok {
		return
	}

	var req models.SubmitRatingRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.StoryID = storyID
	req.UserID = httputil.GetUserID(r)

	rating, err := h.engagementService.SubmitRating(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, rating)
}

// GetRatingSummary retrieves the average rating for a story
// GET /api/stories/{id}/rating
func (h *EngagementHandler) GetRatingSummary(w http.ResponseWriter, r *http.Request) {
	storyID, ok := requirePathValue(w, r, "id", "Story ID")
	if !ok {
		return
	}

	average, count, err := h.engagementService.GetRatingSummary(r.Context(), storyID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"average": average,
		"count":   count,
	})
}

// ToggleFavorite flips the acting user's favorite state for a story
// POST /api/stories/{id}/favorite
func (h *EngagementHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	storyID, ok := requirePathValue(w, r, "id", "Story ID")
	if !ok {
		return
	}

	state, err := h.engagementService.ToggleFavorite(r.Context(), storyID, httputil.GetUserID(r))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, state)
}

// ListFavorites retrieves the acting user's favorited stories
// GET /api/users/me/favorites
func (h *EngagementHandler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	favorites, err := h.engagementService.ListFavorites(r.Context(), httputil.GetUserID(r))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, favorites)
}

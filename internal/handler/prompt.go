package handler

import (
	"log/slog"
	"net/http"

	"versecraft/internal/domain/models"
	"versecraft/internal/httputil"
	"versecraft/internal/service"
)

// PromptHandler handles writing-prompt HTTP requests
type PromptHandler struct {
	promptService *service.PromptService
	logger        *slog.Logger
}

// NewPromptHandler creates a new prompt handler
func NewPromptHandler(promptService *service.PromptService, logger *slog.Logger) *PromptHandler {
	return &PromptHandler{
		promptService: promptService,
		logger:        logger,
	}
}

// CreatePrompt creates a writing prompt for a story
// POST /api/prompts
func (h *PromptHandler) CreatePrompt(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePromptRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	prompt, err := h.promptService.CreatePrompt(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, prompt)
}

// ListPrompts retrieves a story's prompts
// GET /api/prompts?storyId=
func (h *PromptHandler) ListPrompts(w http.ResponseWriter, r *http.Request) {
	storyID := r.URL.Query().Get("storyId")
	if storyID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "storyId query parameter is required")
		return
	}

	prompts, err := h.promptService.ListPrompts(r.Context(), storyID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, prompts)
}

// AddMessage appends a message to a prompt conversation
// POST /api/prompts/{id}/messages
func (h *PromptHandler) AddMessage(w http.ResponseWriter, r *http.Request) {
	promptID, ok := requirePathValue(w, r, "id", "Prompt ID")
	if !ok {
		return
	}

	var req models.CreateMessageRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.PromptID = promptID

	message, err := h.promptService.AddMessage(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, message)
}

// ListMessages retrieves a prompt's conversation
// GET /api/prompts/{id}/messages
func (h *PromptHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	promptID, ok := requirePathValue(w, r, "id", "Prompt ID")
	if !ok {
		return
	}

	messages, err := h.promptService.ListMessages(r.Context(), promptID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, messages)
}

// Generate runs the prompt conversation through the generation service
// POST /api/prompts/{id}/generate
// Responds 200 with fallback=true when the upstream stayed down
func (h *PromptHandler) Generate(w http.ResponseWriter, r *http.Request) {
	promptID, ok := requirePathValue(w, r, "id", "Prompt ID")
	if !ok {
		return
	}

	result, err := h.promptService.Generate(r.Context(), promptID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}

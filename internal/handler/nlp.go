package handler

import (
	"log/slog"
	"net/http"

	"versecraft/internal/httputil"
	"versecraft/internal/service/nlp"
)

// NLPHandler handles text-processing HTTP requests
type NLPHandler struct {
	proofreadService *nlp.ProofreadService
	logger           *slog.Logger
}

// NewNLPHandler creates a new NLP handler
func NewNLPHandler(proofreadService *nlp.ProofreadService, logger *slog.Logger) *NLPHandler {
	return &NLPHandler{
		proofreadService: proofreadService,
		logger:           logger,
	}
}

type proofreadRequest struct {
	Text string `json:"text"`
}

type proofreadResponse struct {
	Corrections []nlp.Correction `json:"corrections"`
}

// Proofread runs text through the grammar service sentence by sentence
// POST /api/nlp/proofread
// Sentences the service could not correct come back flagged, never dropped
func (h *NLPHandler) Proofread(w http.ResponseWriter, r *http.Request) {
	var req proofreadRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	corrections, err := h.proofreadService.Proofread(r.Context(), req.Text)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, proofreadResponse{Corrections: corrections})
}

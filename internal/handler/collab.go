package handler

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"versecraft/internal/collab"
	"versecraft/internal/httputil"
	"versecraft/internal/service"
)

// CollabHandler upgrades editor connections into the collaboration hub
type CollabHandler struct {
	hub            *collab.Hub
	chapterService *service.ChapterService
	upgrader       websocket.Upgrader
	logger         *slog.Logger
}

// NewCollabHandler creates a new collaboration handler
func NewCollabHandler(hub *collab.Hub, chapterService *service.ChapterService, logger *slog.Logger) *CollabHandler {
	return &CollabHandler{
		hub:            hub,
		chapterService: chapterService,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Browsers send Origin on ws handshakes; auth middleware has
			// already vetted the bearer token by the time we get here.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: logger,
	}
}

// Connect opens the websocket channel for a chapter's editing room
// GET /api/collab/chapters/{id}/ws
func (h *CollabHandler) Connect(w http.ResponseWriter, r *http.Request) {
	chapterID, ok := requirePathValue(w, r, "id", "Chapter ID")
	if !ok {
		return
	}

	// Reject before upgrading so the client gets a proper HTTP error.
	if _, err := h.chapterService.GetChapter(r.Context(), chapterID); err != nil {
		handleError(w, err)
		return
	}

	identity := httputil.GetIdentity(r)

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the handshake error.
		h.logger.Warn("websocket upgrade failed", "chapter_id", chapterID, "error", err)
		return
	}

	client := collab.NewClient(h.hub, conn, identity, h.logger)
	h.logger.Debug("editor connected", "chapter_id", chapterID, "conn_id", client.ID, "user_id", identity.ID)
	client.Serve()
}

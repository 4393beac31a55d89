package collab

import (
	"log/slog"
	"sync"
)

// sendBuffer is the per-client outbound queue depth. A client that cannot
// drain its queue gets messages dropped rather than stalling the room.
const sendBuffer = 64

// Hub fans room events out to connected editors. Rooms are keyed by chapter
// ID; one connection may sit in several rooms at once.
type Hub struct {
	mu       sync.RWMutex
	rooms    map[string]map[*Client]bool
	presence *PresenceTracker
	logger   *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		rooms:    make(map[string]map[*Client]bool),
		presence: NewPresenceTracker(),
		logger:   logger,
	}
}

// Join adds the client to the chapter room, records presence and broadcasts
// the updated roster to everyone in the room, the joiner included.
func (h *Hub) Join(c *Client, chapterID string, user User) {
	h.mu.Lock()
	room, ok := h.rooms[chapterID]
	if !ok {
		room = make(map[*Client]bool)
		h.rooms[chapterID] = room
	}
	room[c] = true
	h.mu.Unlock()

	roster := h.presence.Join(chapterID, c.ID, user)
	h.broadcast(chapterID, encodeRosterUpdated(chapterID, roster), nil)
}

// Leave removes the user from the chapter roster and the client from the
// room, then tells the remaining editors.
func (h *Hub) Leave(c *Client, chapterID, username string) {
	h.mu.Lock()
	if room, ok := h.rooms[chapterID]; ok {
		delete(room, c)
		if len(room) == 0 {
			delete(h.rooms, chapterID)
		}
	}
	h.mu.Unlock()

	roster := h.presence.Leave(chapterID, username)
	h.broadcast(chapterID, encodeRosterUpdated(chapterID, roster), nil)
}

// Edit relays new live content to every other editor in the room. The sender
// already has the content; echoing it back would clobber their cursor.
func (h *Hub) Edit(c *Client, chapterID, content string) {
	h.broadcast(chapterID, encodeContentChanged(chapterID, content), c)
}

// BroadcastContent pushes authoritative content to everyone in the room,
// sender included. Used when a revert rewrites the live draft server-side.
func (h *Hub) BroadcastContent(chapterID, content string) {
	h.broadcast(chapterID, encodeContentChanged(chapterID, content), nil)
}

// Disconnect sweeps the client out of every room and clears any presence it
// still owned, broadcasting fresh rosters for the chapters that changed.
func (h *Hub) Disconnect(c *Client) {
	h.mu.Lock()
	for chapterID, room := range h.rooms {
		if room[c] {
			delete(room, c)
			if len(room) == 0 {
				delete(h.rooms, chapterID)
			}
		}
	}
	h.mu.Unlock()

	for chapterID, roster := range h.presence.Disconnect(c.ID) {
		h.broadcast(chapterID, encodeRosterUpdated(chapterID, roster), nil)
	}
	c.close()
}

// Roster exposes the current presence list for a chapter.
func (h *Hub) Roster(chapterID string) []User {
	return h.presence.Roster(chapterID)
}

func (h *Hub) broadcast(chapterID string, message []byte, except *Client) {
	h.mu.RLock()
	room := h.rooms[chapterID]
	targets := make([]*Client, 0, len(room))
	for c := range room {
		if c != except {
			targets = append(targets, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range targets {
		if !c.enqueue(message) {
			h.logger.Warn("dropping room message for slow client",
				"chapter_id", chapterID, "conn_id", c.ID)
		}
	}
}

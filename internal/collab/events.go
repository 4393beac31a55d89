package collab

import (
	"encoding/json"
	"fmt"
)

// Client -> server event types.
const (
	EventJoin  = "join"
	EventLeave = "leave"
	EventEdit  = "edit"
)

// Server -> room event types.
const (
	EventRosterUpdated  = "rosterUpdated"
	EventContentChanged = "contentChanged"
)

// Envelope is the wire format for all room events. Content blobs are opaque
// strings to this layer.
type Envelope struct {
	Type      string `json:"type"`
	ChapterID string `json:"chapter_id,omitempty"`
	User      *User  `json:"user,omitempty"`
	Username  string `json:"username,omitempty"`
	Content   string `json:"content,omitempty"`
	Users     []User `json:"users,omitempty"`
}

// User is a presence roster entry as seen on the wire.
type User struct {
	Username     string `json:"username"`
	ProfileImage string `json:"profile_image,omitempty"`
}

// DecodeEnvelope parses an incoming message
func DecodeEnvelope(data []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode event: %w", err)
	}
	if env.Type == "" {
		return nil, fmt.Errorf("decode event: missing type")
	}
	return &env, nil
}

func encodeRosterUpdated(chapterID string, users []User) []byte {
	data, _ := json.Marshal(Envelope{
		Type:      EventRosterUpdated,
		ChapterID: chapterID,
		Users:     users,
	})
	return data
}

func encodeContentChanged(chapterID, content string) []byte {
	data, _ := json.Marshal(Envelope{
		Type:      EventContentChanged,
		ChapterID: chapterID,
		Content:   content,
	})
	return data
}

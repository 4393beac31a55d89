package collab

import (
	"sort"
	"sync"
)

type presenceKey struct {
	chapterID string
	username  string
}

type presenceEntry struct {
	user   User
	connID string
}

// PresenceTracker maintains which users are editing which chapters. Entries
// are indexed both by (chapter, username) and by connection so that a dropped
// connection can be swept out of every chapter it had joined.
type PresenceTracker struct {
	mu      sync.RWMutex
	entries map[presenceKey]*presenceEntry
	byConn  map[string]map[presenceKey]struct{}
}

func NewPresenceTracker() *PresenceTracker {
	return &PresenceTracker{
		entries: make(map[presenceKey]*presenceEntry),
		byConn:  make(map[string]map[presenceKey]struct{}),
	}
}

// Join records that the user is present in the chapter and returns the
// resulting roster. Joining a chapter the user is already in is a no-op for
// the roster; the entry is re-bound to the newer connection so the stale one
// no longer owns it.
func (t *PresenceTracker) Join(chapterID, connID string, user User) []User {
	t.mu.Lock()
	defer t.mu.Unlock()

	key := presenceKey{chapterID: chapterID, username: user.Username}
	if prev, ok := t.entries[key]; ok && prev.connID != connID {
		t.unindexConn(prev.connID, key)
	}
	t.entries[key] = &presenceEntry{user: user, connID: connID}

	keys, ok := t.byConn[connID]
	if !ok {
		keys = make(map[presenceKey]struct{})
		t.byConn[connID] = keys
	}
	keys[key] = struct{}{}

	return t.rosterLocked(chapterID)
}

// Leave removes the user from the chapter roster and returns what remains.
func (t *PresenceTracker) Leave(chapterID, username string) []User {
	t.mu.Lock()
	defer t.mu.Unlock()

	key := presenceKey{chapterID: chapterID, username: username}
	if entry, ok := t.entries[key]; ok {
		t.unindexConn(entry.connID, key)
		delete(t.entries, key)
	}
	return t.rosterLocked(chapterID)
}

// Disconnect removes every presence entry owned by the connection and returns
// the updated roster of each chapter that changed.
func (t *PresenceTracker) Disconnect(connID string) map[string][]User {
	t.mu.Lock()
	defer t.mu.Unlock()

	keys, ok := t.byConn[connID]
	if !ok {
		return nil
	}
	delete(t.byConn, connID)

	changed := make(map[string][]User, len(keys))
	for key := range keys {
		delete(t.entries, key)
		changed[key.chapterID] = nil
	}
	for chapterID := range changed {
		changed[chapterID] = t.rosterLocked(chapterID)
	}
	return changed
}

// Roster returns the current users in a chapter, sorted by username.
func (t *PresenceTracker) Roster(chapterID string) []User {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.rosterLocked(chapterID)
}

func (t *PresenceTracker) rosterLocked(chapterID string) []User {
	users := make([]User, 0)
	for key, entry := range t.entries {
		if key.chapterID == chapterID {
			users = append(users, entry.user)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return users
}

func (t *PresenceTracker) unindexConn(connID string, key presenceKey) {
	if keys, ok := t.byConn[connID]; ok {
		delete(keys, key)
		if len(keys) == 0 {
			delete(t.byConn, connID)
		}
	}
}

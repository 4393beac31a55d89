package httputil

import (
	"context"
	"net/http"

	"versecraft/internal/domain/models"
)

// Context key type to avoid collisions
type contextKey string

const identityKey contextKey = "identity"

// WithIdentity adds the acting user's identity to the request context
func WithIdentity(r *http.Request, identity models.Identity) *http.Request {
	ctx := context.WithValue(r.Context(), identityKey, identity)
	return r.WithContext(ctx)
}

// GetIdentity retrieves the acting user's identity from the context. The
// zero Identity is returned when auth middleware did not run.
func GetIdentity(r *http.Request) models.Identity {
	identity, _ := r.Context().Value(identityKey).(models.Identity)
	return identity
}

// GetUserID retrieves the acting user's id, or empty string
func GetUserID(r *http.Request) string {
	return GetIdentity(r).ID
}

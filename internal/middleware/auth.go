package middleware

import (
	"net/http"
	"strings"

	"versecraft/internal/auth"
	"versecraft/internal/domain/models"
	"versecraft/internal/httputil"
)

// Auth validates the bearer token and places the acting user's identity in
// the request context. The core trusts whatever identity the verified
// claims assert.
func Auth(verifier auth.JWTVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/health" {
				next.ServeHTTP(w, r)
				return
			}

			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				// Browsers cannot set headers on websocket handshakes, so
				// collab connects carry the token as a query parameter.
				token = r.URL.Query().Get("access_token")
			}
			if token == "" {
				httputil.RespondError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			claims, err := verifier.VerifyToken(token)
			if err != nil {
				httputil.RespondError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			identity := models.Identity{
				ID:        claims.Subject,
				Name:      claims.Name,
				AvatarURL: claims.AvatarURL,
			}
			if identity.Name == "" {
				identity.Name = claims.Email
			}

			next.ServeHTTP(w, httputil.WithIdentity(r, identity))
		})
	}
}

package middleware

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
	"strings"

	"github.com/phrazzld/veogen-api/internal/api/shared"
	"github.com/phrazzld/veogen-api/internal/config"
)

// sha256HexLength is the length of a hex-encoded SHA-256 digest. A stored
// secret of exactly this length is treated as a hash of the real key, so
// deployments can avoid keeping the plaintext key in the environment.
const sha256HexLength = 64

// AuthMiddleware provides bearer-token authentication for routes. Clients
// present the shared API key as "Authorization: Bearer <key>".
type AuthMiddleware struct {
	cfg config.AuthConfig
}

// NewAuthMiddleware creates a new AuthMiddleware with the given settings.
func NewAuthMiddleware(cfg config.AuthConfig) *AuthMiddleware {
	return &AuthMiddleware{cfg: cfg}
}

// Authenticate validates the bearer token from the Authorization header.
//
// Requests pass without credentials only when authentication is disabled, or
// when no key is configured and the deployment explicitly permits running
// open. A configured-but-absent key is a deployment mistake and fails
// closed.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.cfg.RequireAuth {
			next.ServeHTTP(w, r)
			return
		}

		if m.cfg.APIKey == "" {
			if m.cfg.PermitUnauthenticated {
				next.ServeHTTP(w, r)
				return
			}
			shared.RespondWithError(w, r, http.StatusUnauthorized,
				"Authentication is required but no API key is configured")
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Authorization header required")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid authorization format")
			return
		}

		if !m.tokenMatches(parts[1]) {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid API key")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// tokenMatches compares a presented token against the configured secret in
// constant time. When the stored secret looks like a SHA-256 digest, the
// presented token is hashed before comparison.
func (m *AuthMiddleware) tokenMatches(token string) bool {
	stored := m.cfg.APIKey

	if len(stored) == sha256HexLength && isHex(stored) {
		sum := sha256.Sum256([]byte(token))
		digest := hex.EncodeToString(sum[:])
		return subtle.ConstantTimeCompare([]byte(digest), []byte(strings.ToLower(stored))) == 1
	}

	return subtle.ConstantTimeCompare([]byte(token), []byte(stored)) == 1
}

func isHex(s string) bool {
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}

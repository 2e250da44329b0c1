package main

import (
	"crypto/sha256"
	"crypto/subtle"
	"net/http"
	"strings"
)

const bearerPrefix = "Bearer "

type authService struct {
	tokenHash [sha256.Size]byte
	enabled   bool
}

// newAuthService guards mutating routes with token. An empty token leaves
// every route open, which is how local development runs.
func newAuthService(token string) *authService {
	token = strings.TrimSpace(token)
	return &authService{tokenHash: sha256.Sum256([]byte(token)), enabled: token != ""}
}

// validateToken compares digests so the comparison time does not depend on
// the length of the provided token.
func (a *authService) validateToken(provided string) bool {
	if !a.enabled {
		return true
	}
	sum := sha256.Sum256([]byte(provided))
	return subtle.ConstantTimeCompare(sum[:], a.tokenHash[:]) == 1
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if len(header) < len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(bearerPrefix):])
	return token, token != ""
}

func (a *authService) isAuthenticated(r *http.Request) bool {
	if !a.enabled {
		return true
	}
	token, ok := bearerToken(r)
	if !ok {
		return false
	}
	return a.validateToken(token)
}

// authMiddleware rejects requests that do not carry the admin token.
func (s *server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.auth.isAuthenticated(r) {
			w.Header().Set("WWW-Authenticate", `Bearer realm="stsfctry"`)
			writeJSONError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

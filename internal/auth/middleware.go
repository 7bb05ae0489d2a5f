package auth

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/joestump/linkpage/internal/metrics"
)

type contextKey string

const IdentityContextKey contextKey = "identity"

// Middleware authenticates protected routes with a Bearer token. The
// identity is taken from the token alone; no store lookup happens here.
type Middleware struct {
	issuer *Issuer
	logger *slog.Logger
}

// NewMiddleware creates a new Middleware.
func NewMiddleware(issuer *Issuer, logger *slog.Logger) *Middleware {
	return &Middleware{issuer: issuer, logger: logger}
}

// RequireToken rejects the request unless it carries a valid
// "Authorization: Bearer <token>" header.
// Missing or malformed header/token: 401. Bad signature or expired: 403.
// On success the decoded Identity is stored in the request context.
func (m *Middleware) RequireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := bearerToken(r)
		if err == nil {
			var id Identity
			id, err = m.issuer.Verify(token)
			if err == nil {
				ctx := context.WithValue(r.Context(), IdentityContextKey, id)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}
		}

		status, code, reason := classify(err)
		metrics.TokenRejectionsTotal.WithLabelValues(reason).Inc()
		m.logger.WarnContext(r.Context(), "token rejected",
			slog.String("reason", reason),
			slog.String("path", r.URL.Path),
			slog.Any("error", err),
		)
		writeTokenError(w, status, err, code)
	})
}

// bearerToken extracts the token from the Authorization header.
func bearerToken(r *http.Request) (string, error) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return "", ErrMissingToken
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", ErrMalformedToken
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrMalformedToken
	}
	return token, nil
}

func classify(err error) (status int, code, reason string) {
	switch {
	case errors.Is(err, ErrMissingToken):
		return http.StatusUnauthorized, "MISSING_TOKEN", "missing"
	case errors.Is(err, ErrMalformedToken):
		return http.StatusUnauthorized, "MALFORMED_TOKEN", "malformed"
	default:
		return http.StatusForbidden, "INVALID_TOKEN", "invalid"
	}
}

// writeTokenError writes the rejection body. Only the sentinel message is
// exposed, never the parser detail.
func writeTokenError(w http.ResponseWriter, status int, err error, code string) {
	msg := ErrInvalidToken.Error()
	switch {
	case errors.Is(err, ErrMissingToken):
		msg = ErrMissingToken.Error()
	case errors.Is(err, ErrMalformedToken):
		msg = ErrMalformedToken.Error()
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg, "code": code})
}

// IdentityFromContext retrieves the authenticated identity from the context.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(IdentityContextKey).(Identity)
	return id, ok
}

package auth_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joestump/linkpage/internal/auth"
)

func setupMiddleware(t *testing.T) (*auth.Middleware, *auth.Issuer) {
	t.Helper()
	iss, err := auth.NewIssuer([]byte("test-secret-key"), 15*time.Minute)
	require.NoError(t, err)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return auth.NewMiddleware(iss, logger), iss
}

// neverCalled fails the test if the protected handler runs.
func neverCalled(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be called")
	})
}

func decodeCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body["code"]
}

func TestRequireToken_Success(t *testing.T) {
	mw, iss := setupMiddleware(t)
	token, _, err := iss.Issue(auth.Identity{UserID: "user123", Username: "testuser"})
	require.NoError(t, err)

	handler := mw.RequireToken(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := auth.IdentityFromContext(r.Context())
		require.True(t, ok, "identity should be in context")
		assert.Equal(t, "user123", id.UserID)
		assert.Equal(t, "testuser", id.Username)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/links", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireToken_SchemeIsCaseInsensitive(t *testing.T) {
	mw, iss := setupMiddleware(t)
	token, _, err := iss.Issue(auth.Identity{UserID: "user123"})
	require.NoError(t, err)

	handler := mw.RequireToken(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/links", nil)
	req.Header.Set("Authorization", "bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRequireToken_MissingHeader(t *testing.T) {
	mw, _ := setupMiddleware(t)

	req := httptest.NewRequest(http.MethodGet, "/links", nil)
	rec := httptest.NewRecorder()
	mw.RequireToken(neverCalled(t)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "MISSING_TOKEN", decodeCode(t, rec))
}

func TestRequireToken_MalformedHeader(t *testing.T) {
	mw, _ := setupMiddleware(t)

	tests := []struct {
		name   string
		header string
	}{
		{"no scheme", "just-a-token"},
		{"basic scheme", "Basic dXNlcjpwYXNz"},
		{"empty bearer", "Bearer "},
		{"bearer only", "Bearer"},
		{"not a jwt", "Bearer not-a-jwt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/links", nil)
			req.Header.Set("Authorization", tt.header)
			rec := httptest.NewRecorder()
			mw.RequireToken(neverCalled(t)).ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, "MALFORMED_TOKEN", decodeCode(t, rec))
		})
	}
}

func TestRequireToken_InvalidSignature(t *testing.T) {
	mw, _ := setupMiddleware(t)
	other, err := auth.NewIssuer([]byte("someone-elses-secret"), time.Hour)
	require.NoError(t, err)
	token, _, err := other.Issue(auth.Identity{UserID: "user123"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/links", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	mw.RequireToken(neverCalled(t)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "INVALID_TOKEN", decodeCode(t, rec))
}

func TestIdentityFromContext_Empty(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := auth.IdentityFromContext(req.Context())
	assert.False(t, ok)
}

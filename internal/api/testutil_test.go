package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/joestump/linkpage/internal/api"
	"github.com/joestump/linkpage/internal/auth"
	"github.com/joestump/linkpage/internal/store"
	"github.com/joestump/linkpage/internal/testutil"
)

const testSecret = "test-secret"

// testEnv holds the router and the real stores behind it.
type testEnv struct {
	Router    http.Handler
	UserStore *store.UserStore
	LinkStore *store.LinkStore
	Issuer    *auth.Issuer
}

// newTestEnv creates an in-memory SQLite test database, runs migrations,
// and wires up the full router with real stores.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.NewTestDB(t)

	us := store.NewUserStore(db)
	ls := store.NewLinkStore(db)
	issuer, err := auth.NewIssuer([]byte(testSecret), time.Hour)
	if err != nil {
		t.Fatalf("new issuer: %v", err)
	}

	router := api.NewRouter(api.Deps{
		Users:       us,
		Links:       ls,
		Health:      us,
		Hasher:      auth.NewHasher(bcrypt.MinCost),
		Issuer:      issuer,
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		CORSOrigins: []string{"*"},
	})
	return &testEnv{Router: router, UserStore: us, LinkStore: ls, Issuer: issuer}
}

// newRequest builds a request with an optional JSON body.
func newRequest(method, path, body string) *http.Request {
	var r io.Reader
	if body != "" {
		r = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func serve(env *testEnv, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	env.Router.ServeHTTP(rec, req)
	return rec
}

// do sends a request with an optional JSON body and bearer token.
func (env *testEnv) do(t *testing.T, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := newRequest(method, path, body)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return serve(env, req)
}

// register creates an account through the API.
func (env *testEnv) register(t *testing.T, username, password string) {
	t.Helper()
	rec := env.do(t, "POST", "/auth/register",
		`{"username":"`+username+`","password":"`+password+`"}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("register %s: status = %d; body: %s", username, rec.Code, rec.Body.String())
	}
}

// login returns a token for the given credentials.
func (env *testEnv) login(t *testing.T, username, password string) string {
	t.Helper()
	rec := env.do(t, "POST", "/auth/login",
		`{"username":"`+username+`","password":"`+password+`"}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login %s: status = %d; body: %s", username, rec.Code, rec.Body.String())
	}
	var resp api.LoginResponse
	decode(t, rec, &resp)
	return resp.Token
}

// seedUser registers and logs in a user, returning the user record and token.
func seedUser(t *testing.T, env *testEnv, username string) (*store.User, string) {
	t.Helper()
	env.register(t, username, "password123")
	token := env.login(t, username, "password123")
	u, err := env.UserStore.GetByUsername(context.Background(), username)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	return u, token
}

// seedLink creates a link directly in the store.
func seedLink(t *testing.T, env *testEnv, ownerID, title string) *store.Link {
	t.Helper()
	l, err := env.LinkStore.Create(context.Background(), &store.Link{
		UserID: ownerID,
		Title:  title,
		URL:    "https://example.com/" + title,
	})
	if err != nil {
		t.Fatalf("seed link: %v", err)
	}
	return l
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("decode: %v; body: %s", err, rec.Body.String())
	}
}

// errorCode decodes an error body and returns its code.
func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp api.ErrorResponse
	decode(t, rec, &resp)
	return resp.Code
}

func identityFor(userID, username string) auth.Identity {
	return auth.Identity{UserID: userID, Username: username}
}

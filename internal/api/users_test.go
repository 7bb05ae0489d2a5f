package api_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/joestump/linkpage/internal/api"
)

func TestMe_OK(t *testing.T) {
	env := newTestEnv(t)
	u, token := seedUser(t, env, "alice")

	rec := env.do(t, "GET", "/users/me", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; body: %s", rec.Code, rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), "password") || strings.Contains(rec.Body.String(), "$2") {
		t.Errorf("response leaks the password hash: %s", rec.Body.String())
	}
	var resp api.UserResponse
	decode(t, rec, &resp)
	if resp.ID != u.ID || resp.Username != "alice" {
		t.Errorf("got %+v, want alice (%s)", resp, u.ID)
	}
}

func TestMe_DeletedUser(t *testing.T) {
	env := newTestEnv(t)
	_, _ = seedUser(t, env, "alice")

	// A valid token for an id with no record.
	token, _, err := env.Issuer.Issue(identityFor("00000000-0000-0000-0000-000000000000", "ghost"))
	if err != nil {
		t.Fatal(err)
	}
	rec := env.do(t, "GET", "/users/me", "", token)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestUpdateMe(t *testing.T) {
	env := newTestEnv(t)
	_, token := seedUser(t, env, "alice")

	rec := env.do(t, "PUT", "/users/me", `{"name":"  Alice  ","bio":"hi there"}`, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; body: %s", rec.Code, rec.Body.String())
	}
	var resp api.UserResponse
	decode(t, rec, &resp)
	if resp.Name != "Alice" || resp.Bio != "hi there" {
		t.Errorf("got name=%q bio=%q", resp.Name, resp.Bio)
	}

	// Omitted fields are unchanged.
	rec = env.do(t, "PUT", "/users/me", `{"avatar":"https://img.example/a.png"}`, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; body: %s", rec.Code, rec.Body.String())
	}
	decode(t, rec, &resp)
	if resp.Name != "Alice" || resp.Avatar != "https://img.example/a.png" {
		t.Errorf("got name=%q avatar=%q", resp.Name, resp.Avatar)
	}
}

func TestUpdateMe_Validation(t *testing.T) {
	env := newTestEnv(t)
	_, token := seedUser(t, env, "alice")

	for _, body := range []string{
		`{"avatar":"not a url"}`,
		`{"bio":"` + strings.Repeat("b", 501) + `"}`,
		`{"name":7}`,
	} {
		rec := env.do(t, "PUT", "/users/me", body, token)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %.30s: status = %d, want 400", body, rec.Code)
		}
	}
}

func TestPublicProfile(t *testing.T) {
	env := newTestEnv(t)
	u, token := seedUser(t, env, "alice")
	seedLink(t, env, u.ID, "first")
	seedLink(t, env, u.ID, "second")
	env.do(t, "PUT", "/users/me", `{"name":"Alice"}`, token)

	rec := env.do(t, "GET", "/users/Alice", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; body: %s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	if strings.Contains(body, "email") || strings.Contains(body, "password") {
		t.Errorf("public profile leaks private fields: %s", body)
	}
	var resp api.PublicProfileResponse
	decode(t, rec, &resp)
	if resp.Username != "alice" || resp.Name != "Alice" {
		t.Errorf("got %+v", resp)
	}
	if len(resp.Links) != 2 {
		t.Errorf("links = %+v, want first and second", resp.Links)
	}
}

func TestPublicProfile_NotFound(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, "GET", "/users/nobody", "", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
	if code := errorCode(t, rec); code != "NOT_FOUND" {
		t.Errorf("code = %q, want NOT_FOUND", code)
	}
}

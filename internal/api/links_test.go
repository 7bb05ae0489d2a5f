package api_test

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/joestump/linkpage/internal/api"
)

func TestLinks_CreateListDeleteRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	_, token := seedUser(t, env, "alice")

	rec := env.do(t, "POST", "/links", `{"title":"Blog","url":"https://blog.example","image_url":"https://blog.example/i.png"}`, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("create: status = %d; body: %s", rec.Code, rec.Body.String())
	}
	var created api.LinkResponse
	decode(t, rec, &created)
	if created.ID == "" || created.Title != "Blog" || created.ImageURL != "https://blog.example/i.png" {
		t.Errorf("created = %+v", created)
	}

	rec = env.do(t, "GET", "/links", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("list: status = %d", rec.Code)
	}
	var list []api.LinkResponse
	decode(t, rec, &list)
	if len(list) != 1 || list[0].ID != created.ID {
		t.Fatalf("list = %+v, want [%s]", list, created.ID)
	}

	rec = env.do(t, "DELETE", "/links/"+created.ID, "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: status = %d; body: %s", rec.Code, rec.Body.String())
	}

	rec = env.do(t, "GET", "/links", "", token)
	decode(t, rec, &list)
	if len(list) != 0 {
		t.Errorf("list after delete = %+v, want empty", list)
	}
}

func TestLinks_ListEmptyIsArray(t *testing.T) {
	env := newTestEnv(t)
	_, token := seedUser(t, env, "alice")

	rec := env.do(t, "GET", "/links", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := rec.Body.String(); got != "[]\n" {
		t.Errorf("body = %q, want []", got)
	}
}

func TestLinks_CreateAcceptsImageURLAlias(t *testing.T) {
	env := newTestEnv(t)
	_, token := seedUser(t, env, "alice")

	rec := env.do(t, "POST", "/links", `{"title":"Blog","url":"https://blog.example","imageUrl":"https://blog.example/i.png"}`, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; body: %s", rec.Code, rec.Body.String())
	}
	var created api.LinkResponse
	decode(t, rec, &created)
	if created.ImageURL != "https://blog.example/i.png" {
		t.Errorf("image_url = %q", created.ImageURL)
	}
}

func TestLinks_CreateValidation(t *testing.T) {
	env := newTestEnv(t)
	_, token := seedUser(t, env, "alice")

	tests := []struct {
		name string
		body string
	}{
		{"missing title", `{"url":"https://x.example"}`},
		{"blank title", `{"title":"   ","url":"https://x.example"}`},
		{"missing url", `{"title":"x"}`},
		{"relative url", `{"title":"x","url":"x.example"}`},
		{"bad image url", `{"title":"x","url":"https://x.example","image_url":"ftp://x"}`},
		{"wrong type", `{"title":["x"],"url":"https://x.example"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, "POST", "/links", tt.body, token)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400; body: %s", rec.Code, rec.Body.String())
			}
			if code := errorCode(t, rec); code != "VALIDATION_ERROR" {
				t.Errorf("code = %q, want VALIDATION_ERROR", code)
			}
		})
	}
}

func TestLinks_DuplicateTitle(t *testing.T) {
	env := newTestEnv(t)
	_, token := seedUser(t, env, "alice")

	body := `{"title":"Blog","url":"https://blog.example"}`
	if rec := env.do(t, "POST", "/links", body, token); rec.Code != http.StatusOK {
		t.Fatalf("first create: %d", rec.Code)
	}
	rec := env.do(t, "POST", "/links", body, token)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if code := errorCode(t, rec); code != "CONFLICT" {
		t.Errorf("code = %q, want CONFLICT", code)
	}
}

func TestLinks_Update(t *testing.T) {
	env := newTestEnv(t)
	u, token := seedUser(t, env, "alice")
	l := seedLink(t, env, u.ID, "blog")

	rec := env.do(t, "PUT", "/links/"+l.ID, `{"url":"https://new.example"}`, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; body: %s", rec.Code, rec.Body.String())
	}
	var resp api.LinkResponse
	decode(t, rec, &resp)
	if resp.URL != "https://new.example" || resp.Title != "blog" || resp.UserID != u.ID {
		t.Errorf("updated = %+v", resp)
	}

	rec = env.do(t, "PUT", "/links/"+l.ID, `{"url":"javascript:alert(1)"}`, token)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid url: status = %d, want 400", rec.Code)
	}
}

func TestLinks_CrossUserIsolation(t *testing.T) {
	env := newTestEnv(t)
	alice, _ := seedUser(t, env, "alice")
	_, bobToken := seedUser(t, env, "bob")
	l := seedLink(t, env, alice.ID, "blog")

	// Bob sees none of Alice's links.
	rec := env.do(t, "GET", "/links", "", bobToken)
	var list []api.LinkResponse
	decode(t, rec, &list)
	if len(list) != 0 {
		t.Errorf("bob sees %d links, want 0", len(list))
	}

	// Bob cannot update or delete them; the response matches a missing id.
	rec = env.do(t, "PUT", "/links/"+l.ID, `{"title":"pwned"}`, bobToken)
	if rec.Code != http.StatusNotFound {
		t.Errorf("update foreign: status = %d, want 404", rec.Code)
	}
	rec = env.do(t, "DELETE", "/links/"+l.ID, "", bobToken)
	if rec.Code != http.StatusNotFound {
		t.Errorf("delete foreign: status = %d, want 404", rec.Code)
	}

	links, err := env.LinkStore.ListByOwner(context.Background(), alice.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(links) != 1 || links[0].Title != "blog" {
		t.Errorf("alice's links changed: %+v", links)
	}
}

func TestLinks_MissingID(t *testing.T) {
	env := newTestEnv(t)
	_, token := seedUser(t, env, "alice")

	for _, id := range []string{"does-not-exist", "00000000-0000-0000-0000-000000000000"} {
		rec := env.do(t, "PUT", "/links/"+id, `{"title":"x"}`, token)
		if rec.Code != http.StatusNotFound {
			t.Errorf("update %s: status = %d, want 404", id, rec.Code)
		}
		rec = env.do(t, "DELETE", "/links/"+id, "", token)
		if rec.Code != http.StatusNotFound {
			t.Errorf("delete %s: status = %d, want 404", id, rec.Code)
		}
	}
}

func TestLinks_ConcurrentDuplicateTitle(t *testing.T) {
	env := newTestEnv(t)
	u, token := seedUser(t, env, "alice")
	const n = 10

	codes := make([]int, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := newRequest("POST", "/links", `{"title":"Blog","url":"https://blog.example"}`)
			req.Header.Set("Authorization", "Bearer "+token)
			codes[i] = serve(env, req).Code
		}(i)
	}
	wg.Wait()

	var ok, rejected int
	for _, c := range codes {
		switch c {
		case http.StatusOK:
			ok++
		case http.StatusBadRequest:
			rejected++
		}
	}
	if ok != 1 || rejected != n-1 {
		t.Errorf("codes = %v, want one 200 and %d 400s", codes, n-1)
	}

	links, err := env.LinkStore.ListByOwner(context.Background(), u.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(links) != 1 {
		t.Errorf("stored %d links, want 1", len(links))
	}
}

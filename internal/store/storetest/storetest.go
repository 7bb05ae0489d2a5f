// Package storetest is a conformance suite shared by every store.Users and
// store.Links implementation.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joestump/linkpage/internal/store"
)

// Factory returns empty stores for one subtest.
type Factory func(t *testing.T) (store.Users, store.Links)

// Run exercises users and links against the behaviour the API relies on.
func Run(t *testing.T, newStores Factory) {
	t.Run("UserCreateAndGet", func(t *testing.T) { testUserCreateAndGet(t, newStores) })
	t.Run("UsernameTaken", func(t *testing.T) { testUsernameTaken(t, newStores) })
	t.Run("EmailTaken", func(t *testing.T) { testEmailTaken(t, newStores) })
	t.Run("EmptyEmailsDoNotCollide", func(t *testing.T) { testEmptyEmails(t, newStores) })
	t.Run("UpdateProfile", func(t *testing.T) { testUpdateProfile(t, newStores) })
	t.Run("LinkRoundTrip", func(t *testing.T) { testLinkRoundTrip(t, newStores) })
	t.Run("TitleUniquePerOwner", func(t *testing.T) { testTitleUnique(t, newStores) })
	t.Run("OwnerIsolation", func(t *testing.T) { testOwnerIsolation(t, newStores) })
	t.Run("UnknownIDs", func(t *testing.T) { testUnknownIDs(t, newStores) })
}

func newUser(t *testing.T, users store.Users, username, email string) *store.User {
	t.Helper()
	u, err := users.Create(context.Background(), &store.User{
		Username:     username,
		Email:        email,
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuuJ7rCq4gq1qD5sFk3o6d8Q0mR9Jw1sNe",
	})
	require.NoError(t, err)
	return u
}

func ptr(s string) *string { return &s }

func testUserCreateAndGet(t *testing.T, newStores Factory) {
	users, _ := newStores(t)
	ctx := context.Background()

	u := newUser(t, users, "alice", "alice@example.com")
	assert.NotEmpty(t, u.ID)
	assert.False(t, u.CreatedAt.IsZero())

	byID, err := users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.Username)
	assert.Equal(t, "alice@example.com", byID.Email)
	assert.Equal(t, u.PasswordHash, byID.PasswordHash)

	byName, err := users.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byName.ID)

	_, err = users.GetByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func testUsernameTaken(t *testing.T, newStores Factory) {
	users, _ := newStores(t)
	newUser(t, users, "alice", "")

	_, err := users.Create(context.Background(), &store.User{Username: "alice", PasswordHash: "x"})
	assert.ErrorIs(t, err, store.ErrUsernameTaken)
}

func testEmailTaken(t *testing.T, newStores Factory) {
	users, _ := newStores(t)
	newUser(t, users, "alice", "shared@example.com")

	_, err := users.Create(context.Background(), &store.User{
		Username: "bob", Email: "shared@example.com", PasswordHash: "x",
	})
	assert.ErrorIs(t, err, store.ErrEmailTaken)

	_, err = users.GetByUsername(context.Background(), "bob")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func testEmptyEmails(t *testing.T, newStores Factory) {
	users, _ := newStores(t)
	newUser(t, users, "alice", "")
	u := newUser(t, users, "bob", "")
	assert.Empty(t, u.Email)
}

func testUpdateProfile(t *testing.T, newStores Factory) {
	users, _ := newStores(t)
	ctx := context.Background()
	u := newUser(t, users, "alice", "")

	updated, err := users.UpdateProfile(ctx, u.ID, store.ProfileUpdate{
		Name: ptr("Alice"),
		Bio:  ptr("hello"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Alice", updated.Name)
	assert.Equal(t, "hello", updated.Bio)
	assert.Empty(t, updated.Avatar)

	// Absent fields keep their value.
	updated, err = users.UpdateProfile(ctx, u.ID, store.ProfileUpdate{Avatar: ptr("https://img.example/a.png")})
	require.NoError(t, err)
	assert.Equal(t, "Alice", updated.Name)
	assert.Equal(t, "https://img.example/a.png", updated.Avatar)
	assert.Equal(t, u.PasswordHash, updated.PasswordHash)

	_, err = users.UpdateProfile(ctx, missingID(u.ID), store.ProfileUpdate{Name: ptr("x")})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func testLinkRoundTrip(t *testing.T, newStores Factory) {
	users, links := newStores(t)
	ctx := context.Background()
	u := newUser(t, users, "alice", "")

	empty, err := links.ListByOwner(ctx, u.ID)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	first, err := links.Create(ctx, &store.Link{UserID: u.ID, Title: "Blog", URL: "https://blog.example"})
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)
	assert.Equal(t, u.ID, first.UserID)

	time.Sleep(2 * time.Millisecond)
	second, err := links.Create(ctx, &store.Link{UserID: u.ID, Title: "Code", URL: "https://code.example", ImageURL: "https://code.example/i.png"})
	require.NoError(t, err)

	list, err := links.ListByOwner(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, first.ID, list[0].ID)
	assert.Equal(t, second.ID, list[1].ID)
	assert.Equal(t, "https://code.example/i.png", list[1].ImageURL)

	updated, err := links.Update(ctx, first.ID, u.ID, store.LinkUpdate{URL: ptr("https://new.example")})
	require.NoError(t, err)
	assert.Equal(t, "Blog", updated.Title)
	assert.Equal(t, "https://new.example", updated.URL)
	assert.Equal(t, u.ID, updated.UserID)

	require.NoError(t, links.Delete(ctx, first.ID, u.ID))
	list, err = links.ListByOwner(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, second.ID, list[0].ID)

	assert.ErrorIs(t, links.Delete(ctx, first.ID, u.ID), store.ErrNotFound)
}

func testTitleUnique(t *testing.T, newStores Factory) {
	users, links := newStores(t)
	ctx := context.Background()
	alice := newUser(t, users, "alice", "")
	bob := newUser(t, users, "bob", "")

	_, err := links.Create(ctx, &store.Link{UserID: alice.ID, Title: "Blog", URL: "https://a.example"})
	require.NoError(t, err)

	_, err = links.Create(ctx, &store.Link{UserID: alice.ID, Title: "Blog", URL: "https://b.example"})
	assert.ErrorIs(t, err, store.ErrTitleTaken)

	// Same title under another owner is fine.
	_, err = links.Create(ctx, &store.Link{UserID: bob.ID, Title: "Blog", URL: "https://c.example"})
	require.NoError(t, err)

	other, err := links.Create(ctx, &store.Link{UserID: alice.ID, Title: "Other", URL: "https://d.example"})
	require.NoError(t, err)
	_, err = links.Update(ctx, other.ID, alice.ID, store.LinkUpdate{Title: ptr("Blog")})
	assert.ErrorIs(t, err, store.ErrTitleTaken)
}

func testOwnerIsolation(t *testing.T, newStores Factory) {
	users, links := newStores(t)
	ctx := context.Background()
	alice := newUser(t, users, "alice", "")
	bob := newUser(t, users, "bob", "")

	l, err := links.Create(ctx, &store.Link{UserID: alice.ID, Title: "Blog", URL: "https://a.example"})
	require.NoError(t, err)

	bobs, err := links.ListByOwner(ctx, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, bobs)

	_, err = links.Update(ctx, l.ID, bob.ID, store.LinkUpdate{Title: ptr("Hijacked")})
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.ErrorIs(t, links.Delete(ctx, l.ID, bob.ID), store.ErrNotFound)

	alices, err := links.ListByOwner(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, alices, 1)
	assert.Equal(t, "Blog", alices[0].Title)
}

func testUnknownIDs(t *testing.T, newStores Factory) {
	users, links := newStores(t)
	ctx := context.Background()
	u := newUser(t, users, "alice", "")

	for _, id := range []string{"not-an-id", missingID(u.ID)} {
		_, err := users.GetByID(ctx, id)
		assert.ErrorIs(t, err, store.ErrNotFound, "GetByID(%q)", id)
		_, err = links.Update(ctx, id, u.ID, store.LinkUpdate{Title: ptr("x")})
		assert.ErrorIs(t, err, store.ErrNotFound, "Update(%q)", id)
		assert.ErrorIs(t, links.Delete(ctx, id, u.ID), store.ErrNotFound, "Delete(%q)", id)
	}
}

// missingID returns an id in the same format as like that no record has.
func missingID(like string) string {
	b := []byte(like)
	for i := range b {
		switch {
		case b[i] >= '0' && b[i] <= '9', b[i] >= 'a' && b[i] <= 'f':
			b[i] = '0'
		}
	}
	return string(b)
}

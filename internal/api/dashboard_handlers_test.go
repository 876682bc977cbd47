package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/readstackapp/readstack-server/internal/domain"
)

func TestAdminDashboard(t *testing.T) {
	ts := setupTestServer(t)

	admin := ts.register(t, "admin@example.com", "Admin")
	member := ts.register(t, "member@example.com", "Member")

	resp := ts.api.Get("/api/v1/dashboard/admin")
	require.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = ts.api.Get("/api/v1/dashboard/admin", bearer(member.AccessToken))
	require.Equal(t, http.StatusForbidden, resp.Code)
	assert.Equal(t, "FORBIDDEN", decodeError(t, resp.Body.Bytes()).Code)

	author := ts.createAuthor(t, admin.AccessToken, "Ursula K. Le Guin")
	ts.createBook(t, admin.AccessToken, "The Dispossessed", 1974, author.ID)
	ts.createPost(t, admin.AccessToken, "Welcome", "hello", "news")

	resp = ts.api.Get("/api/v1/dashboard/admin", bearer(admin.AccessToken))
	require.Equal(t, http.StatusOK, resp.Code)

	var out AdminDashboardResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out))
	assert.Equal(t, 2, out.Users)
	assert.Equal(t, 1, out.Authors)
	assert.Equal(t, 1, out.Books)
	assert.Equal(t, 1, out.Posts)
	assert.Equal(t, 1, out.Tags)
	assert.Equal(t, 0, out.Libraries)
}

func TestLibrarianDashboard(t *testing.T) {
	ts := setupTestServer(t)

	admin := ts.register(t, "admin@example.com", "Admin")
	member := ts.register(t, "member@example.com", "Member")

	// The gate matches the role exactly. An admin is not a librarian.
	resp := ts.api.Get("/api/v1/dashboard/librarian", bearer(admin.AccessToken))
	require.Equal(t, http.StatusForbidden, resp.Code)

	lib := ts.createLibrary(t, admin.AccessToken, "Central Library")
	book := ts.createShelfBook(t, admin.AccessToken, shelfBookBody("Held", "9780000000001"))

	resp = ts.api.Post("/api/v1/libraries/"+lib.ID+"/books/"+book.ID, bearer(admin.AccessToken))
	require.Equal(t, http.StatusCreated, resp.Code)

	resp = ts.api.Put("/api/v1/libraries/"+lib.ID+"/librarian",
		map[string]any{"user_id": member.User.ID},
		bearer(admin.AccessToken))
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Get("/api/v1/dashboard/librarian", bearer(member.AccessToken))
	require.Equal(t, http.StatusOK, resp.Code, "dashboard failed: %s", resp.Body.String())

	var out LibrarianDashboardResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out))
	assert.Equal(t, lib.ID, out.Library.ID)
	require.Len(t, out.Books, 1)
	assert.Equal(t, "Held", out.Books[0].Title)
}

func TestLibrarianDashboard_NoAssignment(t *testing.T) {
	ts := setupTestServer(t)

	ts.register(t, "admin@example.com", "Admin")
	orphan := ts.register(t, "orphan@example.com", "Orphan")

	// A librarian role with no assignment can happen after a library is
	// deleted out from under its librarian.
	ctx := context.Background()
	user, err := ts.store.GetUser(ctx, orphan.User.ID)
	require.NoError(t, err)
	user.Role = domain.RoleLibrarian
	require.NoError(t, ts.store.UpdateUser(ctx, user))

	resp := ts.api.Get("/api/v1/dashboard/librarian", bearer(orphan.AccessToken))
	require.Equal(t, http.StatusNotFound, resp.Code)
}

func TestMemberDashboard(t *testing.T) {
	ts := setupTestServer(t)

	ts.register(t, "admin@example.com", "Admin")
	member := ts.register(t, "member@example.com", "Member")

	ts.createPost(t, member.AccessToken, "Mine", "content", "")
	ts.createPost(t, member.AccessToken, "Also mine", "content", "")

	resp := ts.api.Get("/api/v1/dashboard/member", bearer(member.AccessToken))
	require.Equal(t, http.StatusOK, resp.Code)

	var out MemberDashboardResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out))
	assert.Equal(t, member.User.ID, out.User.ID)
	assert.Equal(t, 2, out.Posts)

	resp = ts.api.Get("/api/v1/dashboard/member")
	require.Equal(t, http.StatusUnauthorized, resp.Code)
}

package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/readstackapp/readstack-server/internal/domain"
)

func (ts *testServer) createLibrary(t *testing.T, token, name string) LibraryResponse {
	t.Helper()

	resp := ts.api.Post("/api/v1/libraries", map[string]any{
		"name":     name,
		"location": "Main Street",
	}, bearer(token))
	require.Equal(t, http.StatusCreated, resp.Code, "create library failed: %s", resp.Body.String())

	var out LibraryResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out))
	return out
}

func (ts *testServer) getLibraryDetail(t *testing.T, token, libraryID string) LibraryDetailResponse {
	t.Helper()

	resp := ts.api.Get("/api/v1/libraries/"+libraryID, bearer(token))
	require.Equal(t, http.StatusOK, resp.Code, "get library failed: %s", resp.Body.String())

	var out LibraryDetailResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out))
	return out
}

func TestCreateLibrary_CapabilityGated(t *testing.T) {
	ts := setupTestServer(t)

	admin := ts.register(t, "admin@example.com", "Admin")
	member := ts.register(t, "member@example.com", "Member")

	resp := ts.api.Post("/api/v1/libraries", map[string]any{"name": "Blocked"})
	require.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = ts.api.Post("/api/v1/libraries",
		map[string]any{"name": "Blocked"},
		bearer(member.AccessToken))
	require.Equal(t, http.StatusForbidden, resp.Code)

	lib := ts.createLibrary(t, admin.AccessToken, "Central Library")
	assert.Equal(t, "Central Library", lib.Name)
	assert.Equal(t, "Main Street", lib.Location)
}

func TestLibraryBooks_AddAndRemove(t *testing.T) {
	ts := setupTestServer(t)
	admin := ts.register(t, "admin@example.com", "Admin")

	lib := ts.createLibrary(t, admin.AccessToken, "Central Library")
	book := ts.createShelfBook(t, admin.AccessToken, shelfBookBody("Held", "9780000000001"))

	resp := ts.api.Post("/api/v1/libraries/"+lib.ID+"/books/"+book.ID, bearer(admin.AccessToken))
	require.Equal(t, http.StatusCreated, resp.Code, "add book failed: %s", resp.Body.String())

	var added LibraryBookResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &added))
	assert.Equal(t, lib.ID, added.LibraryID)
	assert.Equal(t, book.ID, added.BookID)

	// The same book cannot be added to the same library twice.
	resp = ts.api.Post("/api/v1/libraries/"+lib.ID+"/books/"+book.ID, bearer(admin.AccessToken))
	require.Equal(t, http.StatusConflict, resp.Code)

	detail := ts.getLibraryDetail(t, admin.AccessToken, lib.ID)
	require.Len(t, detail.Books, 1)
	assert.Equal(t, "Held", detail.Books[0].Title)

	resp = ts.api.Delete("/api/v1/libraries/"+lib.ID+"/books/"+book.ID, bearer(admin.AccessToken))
	require.Equal(t, http.StatusNoContent, resp.Code)

	detail = ts.getLibraryDetail(t, admin.AccessToken, lib.ID)
	assert.Empty(t, detail.Books)
}

func TestAssignLibrarian_GrantsRole(t *testing.T) {
	ts := setupTestServer(t)

	admin := ts.register(t, "admin@example.com", "Admin")
	member := ts.register(t, "member@example.com", "Member")
	require.Equal(t, domain.RoleMember, member.User.Role)

	lib := ts.createLibrary(t, admin.AccessToken, "Central Library")

	resp := ts.api.Put("/api/v1/libraries/"+lib.ID+"/librarian",
		map[string]any{"user_id": member.User.ID},
		bearer(admin.AccessToken))
	require.Equal(t, http.StatusOK, resp.Code, "assign failed: %s", resp.Body.String())

	var assigned LibrarianResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &assigned))
	assert.Equal(t, member.User.ID, assigned.UserID)
	assert.Equal(t, lib.ID, assigned.LibraryID)

	// The assignment promotes the user to the librarian role.
	resp = ts.api.Get("/api/v1/users/me", bearer(member.AccessToken))
	require.Equal(t, http.StatusOK, resp.Code)

	var me UserResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &me))
	assert.Equal(t, domain.RoleLibrarian, me.Role)

	detail := ts.getLibraryDetail(t, admin.AccessToken, lib.ID)
	require.NotNil(t, detail.Librarian)
	assert.Equal(t, member.User.ID, detail.Librarian.UserID)
}

func TestAssignLibrarian_UnknownUserRejected(t *testing.T) {
	ts := setupTestServer(t)
	admin := ts.register(t, "admin@example.com", "Admin")

	lib := ts.createLibrary(t, admin.AccessToken, "Central Library")

	resp := ts.api.Put("/api/v1/libraries/"+lib.ID+"/librarian",
		map[string]any{"user_id": "user_missing"},
		bearer(admin.AccessToken))
	require.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "VALIDATION", decodeError(t, resp.Body.Bytes()).Code)
}

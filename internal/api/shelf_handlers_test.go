package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/readstackapp/readstack-server/internal/domain"
)

func (ts *testServer) createShelfBook(t *testing.T, token string, body map[string]any) ShelfBookResponse {
	t.Helper()

	resp := ts.api.Post("/api/v1/shelf/books", body, bearer(token))
	require.Equal(t, http.StatusCreated, resp.Code, "create shelf book failed: %s", resp.Body.String())

	var out ShelfBookResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out))
	return out
}

func (ts *testServer) createCategory(t *testing.T, token, name string) CategoryResponse {
	t.Helper()

	resp := ts.api.Post("/api/v1/shelf/categories", map[string]any{"name": name}, bearer(token))
	require.Equal(t, http.StatusCreated, resp.Code, "create category failed: %s", resp.Body.String())

	var out CategoryResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out))
	return out
}

func shelfBookBody(title, isbn string) map[string]any {
	return map[string]any{
		"title":          title,
		"author":         "Test Author",
		"published_year": 2001,
		"isbn":           isbn,
	}
}

func TestShelf_RequiresAuthentication(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/shelf/books")
	require.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Equal(t, "AUTH_REQUIRED", decodeError(t, resp.Body.Bytes()).Code)
}

func TestShelf_CapabilityGates(t *testing.T) {
	ts := setupTestServer(t)

	admin := ts.register(t, "admin@example.com", "Admin")
	member := ts.register(t, "member@example.com", "Member")

	// The default member capability set is view-only.
	resp := ts.api.Get("/api/v1/shelf/books", bearer(member.AccessToken))
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Post("/api/v1/shelf/books",
		shelfBookBody("Forbidden", "9780000000001"),
		bearer(member.AccessToken))
	require.Equal(t, http.StatusForbidden, resp.Code)
	assert.Equal(t, "FORBIDDEN", decodeError(t, resp.Body.Bytes()).Code)

	// The root admin carries every capability.
	book := ts.createShelfBook(t, admin.AccessToken, shelfBookBody("Allowed", "9780000000002"))
	assert.Equal(t, "Allowed", book.Title)

	resp = ts.api.Delete("/api/v1/shelf/books/"+book.ID, bearer(member.AccessToken))
	require.Equal(t, http.StatusForbidden, resp.Code)

	// A granted capability takes effect on the next request, no new
	// login needed.
	ts.grantCapabilities(t, member.User.ID, domain.AllCapabilities())

	resp = ts.api.Delete("/api/v1/shelf/books/"+book.ID, bearer(member.AccessToken))
	require.Equal(t, http.StatusNoContent, resp.Code)
}

func TestCreateShelfBook_DuplicateISBN(t *testing.T) {
	ts := setupTestServer(t)
	admin := ts.register(t, "admin@example.com", "Admin")

	ts.createShelfBook(t, admin.AccessToken, shelfBookBody("Original", "9780000000001"))

	resp := ts.api.Post("/api/v1/shelf/books",
		shelfBookBody("Duplicate", "9780000000001"),
		bearer(admin.AccessToken))
	require.Equal(t, http.StatusConflict, resp.Code)
	assert.Equal(t, "CONFLICT", decodeError(t, resp.Body.Bytes()).Code)
}

func TestCreateShelfBook_InvalidISBN(t *testing.T) {
	ts := setupTestServer(t)
	admin := ts.register(t, "admin@example.com", "Admin")

	resp := ts.api.Post("/api/v1/shelf/books",
		shelfBookBody("Bad ISBN", "978-0-00-000000"),
		bearer(admin.AccessToken))
	require.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "VALIDATION", decodeError(t, resp.Body.Bytes()).Code)
}

func TestUpdateShelfBook_CategoryAssignmentAndClear(t *testing.T) {
	ts := setupTestServer(t)
	admin := ts.register(t, "admin@example.com", "Admin")

	cat := ts.createCategory(t, admin.AccessToken, "Fiction")
	book := ts.createShelfBook(t, admin.AccessToken, shelfBookBody("Categorized", "9780000000001"))

	resp := ts.api.Patch("/api/v1/shelf/books/"+book.ID,
		map[string]any{"category_id": cat.ID},
		bearer(admin.AccessToken))
	require.Equal(t, http.StatusOK, resp.Code, "assign category failed: %s", resp.Body.String())

	var updated ShelfBookResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &updated))
	assert.Equal(t, cat.ID, updated.CategoryID)

	// An explicit empty category_id clears the assignment. The response
	// omits the cleared field, so decode into a fresh struct.
	resp = ts.api.Patch("/api/v1/shelf/books/"+book.ID,
		map[string]any{"category_id": ""},
		bearer(admin.AccessToken))
	require.Equal(t, http.StatusOK, resp.Code)

	var cleared ShelfBookResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &cleared))
	assert.Empty(t, cleared.CategoryID)
}

func TestListShelfBooks_CategoryFilterAndSearch(t *testing.T) {
	ts := setupTestServer(t)
	admin := ts.register(t, "admin@example.com", "Admin")

	cat := ts.createCategory(t, admin.AccessToken, "Fiction")

	body := shelfBookBody("The Dispossessed", "9780000000001")
	body["category_id"] = cat.ID
	ts.createShelfBook(t, admin.AccessToken, body)
	ts.createShelfBook(t, admin.AccessToken, shelfBookBody("Uncategorized", "9780000000002"))

	listShelf := func(query string) []ShelfBookResponse {
		resp := ts.api.Get("/api/v1/shelf/books"+query, bearer(admin.AccessToken))
		require.Equal(t, http.StatusOK, resp.Code, "list failed: %s", resp.Body.String())
		var out ListShelfBooksResponse
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out))
		return out.Books
	}

	assert.Len(t, listShelf(""), 2)
	assert.Len(t, listShelf("?category="+cat.ID), 1)
	assert.Len(t, listShelf("?search=dispossessed"), 1)
}

func TestDeleteCategory_BooksStayUncategorized(t *testing.T) {
	ts := setupTestServer(t)
	admin := ts.register(t, "admin@example.com", "Admin")

	cat := ts.createCategory(t, admin.AccessToken, "Doomed")
	body := shelfBookBody("Survivor", "9780000000001")
	body["category_id"] = cat.ID
	book := ts.createShelfBook(t, admin.AccessToken, body)

	resp := ts.api.Delete("/api/v1/shelf/categories/"+cat.ID, bearer(admin.AccessToken))
	require.Equal(t, http.StatusNoContent, resp.Code)

	resp = ts.api.Get("/api/v1/shelf/books/"+book.ID, bearer(admin.AccessToken))
	require.Equal(t, http.StatusOK, resp.Code)

	var out ShelfBookResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out))
	assert.Empty(t, out.CategoryID)
}

func TestCreateCategory_DuplicateName(t *testing.T) {
	ts := setupTestServer(t)
	admin := ts.register(t, "admin@example.com", "Admin")

	ts.createCategory(t, admin.AccessToken, "Fiction")

	resp := ts.api.Post("/api/v1/shelf/categories",
		map[string]any{"name": "fiction"},
		bearer(admin.AccessToken))
	require.Equal(t, http.StatusConflict, resp.Code)
	assert.Equal(t, "CONFLICT", decodeError(t, resp.Body.Bytes()).Code)
}

package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (ts *testServer) createPost(t *testing.T, token, title, content, tags string) PostResponse {
	t.Helper()

	body := map[string]any{"title": title, "content": content}
	if tags != "" {
		body["tags"] = tags
	}

	resp := ts.api.Post("/api/v1/posts", body, bearer(token))
	require.Equal(t, http.StatusCreated, resp.Code, "create post failed: %s", resp.Body.String())

	var out PostResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out))
	return out
}

func (ts *testServer) listPosts(t *testing.T, query string) []PostResponse {
	t.Helper()

	resp := ts.api.Get("/api/v1/posts" + query)
	require.Equal(t, http.StatusOK, resp.Code, "list posts failed: %s", resp.Body.String())

	var out ListPostsResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out))
	return out.Posts
}

func TestCreatePost_NormalizesTags(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/posts", map[string]any{"title": "Anon", "content": "nope"})
	require.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Equal(t, "AUTH_REQUIRED", decodeError(t, resp.Body.Bytes()).Code)

	auth := ts.register(t, "writer@example.com", "Writer")
	post := ts.createPost(t, auth.AccessToken, "Hello", "First post.", "  Go ,  go, Databases ")

	assert.Equal(t, auth.User.ID, post.AuthorID)
	assert.Equal(t, []string{"go", "databases"}, post.Tags)
	assert.False(t, post.PublishedDate.IsZero())
}

func TestListPosts_FiltersAndOrder(t *testing.T) {
	ts := setupTestServer(t)

	alice := ts.register(t, "alice@example.com", "Alice")
	bob := ts.register(t, "bob@example.com", "Bob")

	first := ts.createPost(t, alice.AccessToken, "Oldest", "alpha content", "go")
	ts.createPost(t, alice.AccessToken, "Middle", "beta content", "sql")
	ts.createPost(t, bob.AccessToken, "Newest", "gamma content", "go")

	// Newest first by default.
	all := ts.listPosts(t, "")
	require.Len(t, all, 3)
	assert.Equal(t, "Newest", all[0].Title)

	oldest := ts.listPosts(t, "?oldest_first=true")
	require.Len(t, oldest, 3)
	assert.Equal(t, first.ID, oldest[0].ID)

	assert.Len(t, ts.listPosts(t, "?author="+bob.User.ID), 1)
	assert.Len(t, ts.listPosts(t, "?tag=GO"), 2)
	assert.Len(t, ts.listPosts(t, "?search=beta"), 1)
}

func TestUpdatePost_OwnerOnly(t *testing.T) {
	ts := setupTestServer(t)

	admin := ts.register(t, "admin@example.com", "Admin")
	writer := ts.register(t, "writer@example.com", "Writer")

	post := ts.createPost(t, writer.AccessToken, "Mine", "original", "")

	// Ownership is strict. Even the root admin cannot edit another
	// author's post.
	resp := ts.api.Patch("/api/v1/posts/"+post.ID,
		map[string]any{"content": "hijacked"},
		bearer(admin.AccessToken))
	require.Equal(t, http.StatusForbidden, resp.Code)
	assert.Equal(t, "FORBIDDEN", decodeError(t, resp.Body.Bytes()).Code)

	resp = ts.api.Patch("/api/v1/posts/"+post.ID,
		map[string]any{"content": "revised", "tags": "updates"},
		bearer(writer.AccessToken))
	require.Equal(t, http.StatusOK, resp.Code, "owner edit failed: %s", resp.Body.String())

	var updated PostResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &updated))
	assert.Equal(t, "revised", updated.Content)
	assert.Equal(t, []string{"updates"}, updated.Tags)

	resp = ts.api.Delete("/api/v1/posts/"+post.ID, bearer(admin.AccessToken))
	require.Equal(t, http.StatusForbidden, resp.Code)

	resp = ts.api.Delete("/api/v1/posts/"+post.ID, bearer(writer.AccessToken))
	require.Equal(t, http.StatusNoContent, resp.Code)

	resp = ts.api.Get("/api/v1/posts/" + post.ID)
	require.Equal(t, http.StatusNotFound, resp.Code)
}

func TestComments_FlowAndOwnership(t *testing.T) {
	ts := setupTestServer(t)

	writer := ts.register(t, "writer@example.com", "Writer")
	reader := ts.register(t, "reader@example.com", "Reader")

	post := ts.createPost(t, writer.AccessToken, "Discuss", "content", "")

	resp := ts.api.Post("/api/v1/posts/"+post.ID+"/comments",
		map[string]any{"content": "First!"},
		bearer(reader.AccessToken))
	require.Equal(t, http.StatusCreated, resp.Code, "comment failed: %s", resp.Body.String())

	var comment CommentResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &comment))
	assert.Equal(t, reader.User.ID, comment.AuthorID)
	assert.Equal(t, post.ID, comment.PostID)

	// The post author does not own the comment.
	resp = ts.api.Patch("/api/v1/comments/"+comment.ID,
		map[string]any{"content": "edited by post author"},
		bearer(writer.AccessToken))
	require.Equal(t, http.StatusForbidden, resp.Code)

	resp = ts.api.Patch("/api/v1/comments/"+comment.ID,
		map[string]any{"content": "edited"},
		bearer(reader.AccessToken))
	require.Equal(t, http.StatusOK, resp.Code)

	// Comments ride along on the post detail.
	resp = ts.api.Get("/api/v1/posts/" + post.ID)
	require.Equal(t, http.StatusOK, resp.Code)

	var detail PostDetailResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &detail))
	require.Len(t, detail.Comments, 1)
	assert.Equal(t, "edited", detail.Comments[0].Content)

	resp = ts.api.Delete("/api/v1/comments/"+comment.ID, bearer(reader.AccessToken))
	require.Equal(t, http.StatusNoContent, resp.Code)
}

func TestCommentOnMissingPost(t *testing.T) {
	ts := setupTestServer(t)
	auth := ts.register(t, "reader@example.com", "Reader")

	resp := ts.api.Post("/api/v1/posts/post_missing/comments",
		map[string]any{"content": "lost"},
		bearer(auth.AccessToken))
	require.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, "NOT_FOUND", decodeError(t, resp.Body.Bytes()).Code)
}

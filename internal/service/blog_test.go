package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/readstackapp/readstack-server/internal/domain"
	domainerrors "github.com/readstackapp/readstack-server/internal/errors"
)

func TestBlogService_CreatePost_NormalizesTags(t *testing.T) {
	svc := setupServices(t)
	ctx := context.Background()

	alice := registerUser(t, svc, "alice@example.com")

	detail, err := svc.Blog.CreatePost(ctx, alice, CreatePostRequest{
		Title:   "Learning Go",
		Content: "Notes from the trenches.",
		Tags:    " Django , python , PYTHON ,,",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"django", "python"}, detail.TagNames)

	// A second post reuses the same tag rows.
	_, err = svc.Blog.CreatePost(ctx, alice, CreatePostRequest{
		Title:   "More Python",
		Content: "Follow-up.",
		Tags:    "python",
	})
	require.NoError(t, err)

	tags, err := svc.Blog.ListTags(ctx)
	require.NoError(t, err)
	assert.Len(t, tags, 2)
}

func TestBlogService_OwnershipChecks(t *testing.T) {
	svc := setupServices(t)
	ctx := context.Background()

	alice := registerUser(t, svc, "alice@example.com") // first user: root admin
	bob := registerUser(t, svc, "bob@example.com")

	post, err := svc.Blog.CreatePost(ctx, bob, CreatePostRequest{
		Title:   "Bob's Post",
		Content: "Mine.",
	})
	require.NoError(t, err)

	// A non-owner cannot edit, even a root admin.
	title := "Hijacked"
	_, err = svc.Blog.UpdatePost(ctx, alice, post.Post.ID, UpdatePostRequest{Title: &title})
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	err = svc.Blog.DeletePost(ctx, alice, post.Post.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	// Anonymous gets 401, not 403.
	err = svc.Blog.DeletePost(ctx, nil, post.Post.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrAuthRequired)

	// The owner succeeds.
	updated, err := svc.Blog.UpdatePost(ctx, bob, post.Post.ID, UpdatePostRequest{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Hijacked", updated.Post.Title)
	require.NoError(t, svc.Blog.DeletePost(ctx, bob, post.Post.ID))
}

func TestBlogService_Comments(t *testing.T) {
	svc := setupServices(t)
	ctx := context.Background()

	alice := registerUser(t, svc, "alice@example.com")
	bob := registerUser(t, svc, "bob@example.com")

	post, err := svc.Blog.CreatePost(ctx, alice, CreatePostRequest{
		Title:   "Open Thread",
		Content: "Discuss.",
	})
	require.NoError(t, err)

	comment, err := svc.Blog.CreateComment(ctx, bob, post.Post.ID, CreateCommentRequest{Content: "First!"})
	require.NoError(t, err)

	// The post author cannot edit someone else's comment.
	_, err = svc.Blog.UpdateComment(ctx, alice, comment.ID, UpdateCommentRequest{Content: "Edited"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	// The comment author can.
	updated, err := svc.Blog.UpdateComment(ctx, bob, comment.ID, UpdateCommentRequest{Content: "Edited"})
	require.NoError(t, err)
	assert.Equal(t, "Edited", updated.Content)

	// Comments show up on the post detail.
	detail, err := svc.Blog.GetPost(ctx, post.Post.ID)
	require.NoError(t, err)
	assert.Len(t, detail.Comments, 1)
}

func TestBlogService_UpdatePost_ReplacesTags(t *testing.T) {
	svc := setupServices(t)
	ctx := context.Background()

	alice := registerUser(t, svc, "alice@example.com")

	post, err := svc.Blog.CreatePost(ctx, alice, CreatePostRequest{
		Title:   "Learning Go",
		Content: "Notes.",
		Tags:    "go,web",
	})
	require.NoError(t, err)

	newTags := "go,sqlite"
	updated, err := svc.Blog.UpdatePost(ctx, alice, post.Post.ID, UpdatePostRequest{Tags: &newTags})
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "sqlite"}, updated.TagNames)

	// Omitting tags leaves them untouched.
	title := "Still Learning Go"
	kept, err := svc.Blog.UpdatePost(ctx, alice, post.Post.ID, UpdatePostRequest{Title: &title})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"go", "sqlite"}, kept.TagNames)
}

func TestBlogService_GetPostsForTag(t *testing.T) {
	svc := setupServices(t)
	ctx := context.Background()

	alice := registerUser(t, svc, "alice@example.com")

	_, err := svc.Blog.CreatePost(ctx, alice, CreatePostRequest{
		Title:   "Learning Go",
		Content: "Notes.",
		Tags:    "go",
	})
	require.NoError(t, err)
	_, err = svc.Blog.CreatePost(ctx, alice, CreatePostRequest{
		Title:   "Gardening",
		Content: "Dirt.",
		Tags:    "hobby",
	})
	require.NoError(t, err)

	posts, err := svc.Blog.GetPostsForTag(ctx, "go")
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "Learning Go", posts[0].Post.Title)

	_, err = svc.Blog.GetPostsForTag(ctx, "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestBlogService_ListPosts_FilterByAuthor(t *testing.T) {
	svc := setupServices(t)
	ctx := context.Background()

	alice := registerUser(t, svc, "alice@example.com")
	bob := registerUser(t, svc, "bob@example.com")

	_, err := svc.Blog.CreatePost(ctx, alice, CreatePostRequest{Title: "A", Content: "a"})
	require.NoError(t, err)
	_, err = svc.Blog.CreatePost(ctx, bob, CreatePostRequest{Title: "B", Content: "b"})
	require.NoError(t, err)

	posts, err := svc.Blog.ListPosts(ctx, domain.PostListOptions{AuthorID: bob.ID})
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "B", posts[0].Post.Title)
}

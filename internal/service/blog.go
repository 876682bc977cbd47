package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/readstackapp/readstack-server/internal/authz"
	"github.com/readstackapp/readstack-server/internal/domain"
	domainerrors "github.com/readstackapp/readstack-server/internal/errors"
	"github.com/readstackapp/readstack-server/internal/id"
	"github.com/readstackapp/readstack-server/internal/logger"
	"github.com/readstackapp/readstack-server/internal/store"
)

// BlogService manages posts, comments, and tags. Reads are public; writes
// require authentication, and update/delete are restricted to the stored
// author with no admin bypass.
type BlogService struct {
	store  store.Store
	logger *logger.Logger
}

// NewBlogService creates a new blog service.
func NewBlogService(s store.Store, log *logger.Logger) *BlogService {
	return &BlogService{store: s, logger: log}
}

// CreatePostRequest contains the data for a new post. Tags is a free-text
// comma-separated field; names are normalized and get-or-created.
type CreatePostRequest struct {
	Title   string `json:"title" validate:"required,max=300"`
	Content string `json:"content" validate:"required"`
	Tags    string `json:"tags,omitempty" validate:"max=500"`
}

// UpdatePostRequest contains a partial post update. A supplied Tags value
// replaces the post's tag set; an empty string clears it.
type UpdatePostRequest struct {
	Title   *string `json:"title,omitempty" validate:"omitempty,required,max=300"`
	Content *string `json:"content,omitempty" validate:"omitempty,required"`
	Tags    *string `json:"tags,omitempty" validate:"omitempty,max=500"`
}

// CreateCommentRequest contains the data for a new comment.
type CreateCommentRequest struct {
	Content string `json:"content" validate:"required,max=2000"`
}

// UpdateCommentRequest contains a comment content update.
type UpdateCommentRequest struct {
	Content string `json:"content" validate:"required,max=2000"`
}

// PostDetail is a post with its tag names, and comments on detail reads.
type PostDetail struct {
	Post     *domain.Post      `json:"post"`
	TagNames []string          `json:"tags"`
	Comments []*domain.Comment `json:"comments,omitempty"`
}

// CreatePost publishes a new post owned by the principal.
func (s *BlogService) CreatePost(ctx context.Context, principal *domain.User, req CreatePostRequest) (*PostDetail, error) {
	if err := authz.Owned(principal, authz.ActionCreate, ""); err != nil {
		return nil, err
	}
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	postID, err := id.Generate(id.PrefixPost)
	if err != nil {
		return nil, fmt.Errorf("generate post ID: %w", err)
	}

	now := time.Now()
	post := &domain.Post{
		ID:            postID,
		Title:         req.Title,
		Content:       req.Content,
		AuthorID:      principal.ID,
		PublishedDate: now,
		UpdatedAt:     now,
	}
	if err := s.store.CreatePost(ctx, post); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	tagNames, err := s.applyTags(ctx, postID, req.Tags)
	if err != nil {
		return nil, err
	}

	s.logger.Info("post created", "post_id", postID, "author_id", principal.ID)
	return &PostDetail{Post: post, TagNames: tagNames}, nil
}

// GetPost returns a post with its tags and comments.
func (s *BlogService) GetPost(ctx context.Context, postID string) (*PostDetail, error) {
	post, err := s.store.GetPost(ctx, postID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("post not found")
		}
		return nil, fmt.Errorf("get post: %w", err)
	}

	tagNames, err := s.tagNamesFor(ctx, postID)
	if err != nil {
		return nil, err
	}

	comments, err := s.store.ListCommentsForPost(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}

	return &PostDetail{Post: post, TagNames: tagNames, Comments: comments}, nil
}

// ListPosts returns posts matching the options, each with its tag names.
func (s *BlogService) ListPosts(ctx context.Context, opts domain.PostListOptions) ([]*PostDetail, error) {
	posts, err := s.store.ListPosts(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	details := make([]*PostDetail, 0, len(posts))
	for _, post := range posts {
		tagNames, err := s.tagNamesFor(ctx, post.ID)
		if err != nil {
			return nil, err
		}
		details = append(details, &PostDetail{Post: post, TagNames: tagNames})
	}
	return details, nil
}

// UpdatePost applies a partial update. Only the stored author may update;
// a non-owner gets a denial even when the post would be unchanged.
func (s *BlogService) UpdatePost(ctx context.Context, principal *domain.User, postID string, req UpdatePostRequest) (*PostDetail, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	post, err := s.store.GetPost(ctx, postID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("post not found")
		}
		return nil, fmt.Errorf("get post: %w", err)
	}

	if err := authz.Owned(principal, authz.ActionEdit, post.AuthorID); err != nil {
		return nil, err
	}

	if req.Title != nil {
		post.Title = *req.Title
	}
	if req.Content != nil {
		post.Content = *req.Content
	}
	post.UpdatedAt = time.Now()

	if err := s.store.UpdatePost(ctx, post); err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}

	var tagNames []string
	if req.Tags != nil {
		tagNames, err = s.applyTags(ctx, postID, *req.Tags)
		if err != nil {
			return nil, err
		}
	} else {
		tagNames, err = s.tagNamesFor(ctx, postID)
		if err != nil {
			return nil, err
		}
	}

	return &PostDetail{Post: post, TagNames: tagNames}, nil
}

// DeletePost removes a post. Only the stored author may delete; comments
// and tag links cascade.
func (s *BlogService) DeletePost(ctx context.Context, principal *domain.User, postID string) error {
	post, err := s.store.GetPost(ctx, postID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("post not found")
		}
		return fmt.Errorf("get post: %w", err)
	}

	if err := authz.Owned(principal, authz.ActionDelete, post.AuthorID); err != nil {
		return err
	}

	if err := s.store.DeletePost(ctx, postID); err != nil {
		return fmt.Errorf("delete post: %w", err)
	}

	s.logger.Info("post deleted", "post_id", postID, "author_id", principal.ID)
	return nil
}

// CreateComment adds a comment to a post, owned by the principal.
func (s *BlogService) CreateComment(ctx context.Context, principal *domain.User, postID string, req CreateCommentRequest) (*domain.Comment, error) {
	if err := authz.Owned(principal, authz.ActionCreate, ""); err != nil {
		return nil, err
	}
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	if _, err := s.store.GetPost(ctx, postID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("post not found")
		}
		return nil, fmt.Errorf("get post: %w", err)
	}

	commentID, err := id.Generate(id.PrefixComment)
	if err != nil {
		return nil, fmt.Errorf("generate comment ID: %w", err)
	}

	now := time.Now()
	comment := &domain.Comment{
		ID:        commentID,
		PostID:    postID,
		AuthorID:  principal.ID,
		Content:   req.Content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.CreateComment(ctx, comment); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}

	return comment, nil
}

// UpdateComment edits a comment. Only the stored author may update.
func (s *BlogService) UpdateComment(ctx context.Context, principal *domain.User, commentID string, req UpdateCommentRequest) (*domain.Comment, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	comment, err := s.store.GetComment(ctx, commentID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("comment not found")
		}
		return nil, fmt.Errorf("get comment: %w", err)
	}

	if err := authz.Owned(principal, authz.ActionEdit, comment.AuthorID); err != nil {
		return nil, err
	}

	comment.Content = req.Content
	comment.UpdatedAt = time.Now()

	if err := s.store.UpdateComment(ctx, comment); err != nil {
		return nil, fmt.Errorf("update comment: %w", err)
	}
	return comment, nil
}

// DeleteComment removes a comment. Only the stored author may delete.
func (s *BlogService) DeleteComment(ctx context.Context, principal *domain.User, commentID string) error {
	comment, err := s.store.GetComment(ctx, commentID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("comment not found")
		}
		return fmt.Errorf("get comment: %w", err)
	}

	if err := authz.Owned(principal, authz.ActionDelete, comment.AuthorID); err != nil {
		return err
	}

	if err := s.store.DeleteComment(ctx, commentID); err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	return nil
}

// ListTags returns every tag in use.
func (s *BlogService) ListTags(ctx context.Context) ([]*domain.Tag, error) {
	return s.store.ListTags(ctx)
}

// GetPostsForTag returns the posts carrying the named tag, newest first.
func (s *BlogService) GetPostsForTag(ctx context.Context, tagName string) ([]*PostDetail, error) {
	if _, err := s.store.GetTagByName(ctx, tagName); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("tag not found")
		}
		return nil, fmt.Errorf("get tag: %w", err)
	}
	return s.ListPosts(ctx, domain.PostListOptions{TagName: tagName})
}

// applyTags replaces a post's tag set from a raw comma-separated field.
// Returns the normalized names actually applied.
func (s *BlogService) applyTags(ctx context.Context, postID, raw string) ([]string, error) {
	names := domain.NormalizeTagNames(raw)

	tagIDs := make([]string, 0, len(names))
	for _, name := range names {
		tag, _, err := s.store.FindOrCreateTagByName(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("find or create tag %q: %w", name, err)
		}
		tagIDs = append(tagIDs, tag.ID)
	}

	if err := s.store.SetPostTags(ctx, postID, tagIDs); err != nil {
		return nil, fmt.Errorf("set post tags: %w", err)
	}
	return names, nil
}

// tagNamesFor returns the names of a post's tags.
func (s *BlogService) tagNamesFor(ctx context.Context, postID string) ([]string, error) {
	tags, err := s.store.GetTagsForPost(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("get post tags: %w", err)
	}
	names := make([]string, 0, len(tags))
	for _, tag := range tags {
		names = append(names, tag.Name)
	}
	return names, nil
}

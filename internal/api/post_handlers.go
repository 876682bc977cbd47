package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/readstackapp/readstack-server/internal/domain"
	"github.com/readstackapp/readstack-server/internal/service"
)

func (s *Server) registerPostRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listPosts",
		Method:      http.MethodGet,
		Path:        "/api/v1/posts",
		Summary:     "List posts",
		Description: "Returns blog posts, newest first",
		Tags:        []string{"Blog"},
	}, s.handleListPosts)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createPost",
		Method:        http.MethodPost,
		Path:          "/api/v1/posts",
		Summary:       "Create post",
		Description:   "Publishes a post owned by the authenticated user",
		Tags:          []string{"Blog"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreatePost)

	huma.Register(s.api, huma.Operation{
		OperationID: "getPost",
		Method:      http.MethodGet,
		Path:        "/api/v1/posts/{id}",
		Summary:     "Get post",
		Description: "Returns a post with its tags and comments",
		Tags:        []string{"Blog"},
	}, s.handleGetPost)

	huma.Register(s.api, huma.Operation{
		OperationID: "updatePost",
		Method:      http.MethodPatch,
		Path:        "/api/v1/posts/{id}",
		Summary:     "Update post",
		Description: "Applies a partial update. Only the author may update.",
		Tags:        []string{"Blog"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdatePost)

	huma.Register(s.api, huma.Operation{
		OperationID:   "deletePost",
		Method:        http.MethodDelete,
		Path:          "/api/v1/posts/{id}",
		Summary:       "Delete post",
		Description:   "Removes a post and its comments. Only the author may delete.",
		Tags:          []string{"Blog"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusNoContent,
	}, s.handleDeletePost)
}

// === DTOs ===

// PostResponse contains post data with its tag names.
type PostResponse struct {
	ID            string    `json:"id" doc:"Post ID"`
	Title         string    `json:"title" doc:"Title"`
	Content       string    `json:"content" doc:"Body text"`
	AuthorID      string    `json:"author_id" doc:"Author user ID"`
	Tags          []string  `json:"tags" doc:"Normalized tag names"`
	PublishedDate time.Time `json:"published_date" doc:"Publication time"`
	UpdatedAt     time.Time `json:"updated_at" doc:"Last update time"`
}

func toPostResponse(d *service.PostDetail) PostResponse {
	tags := d.TagNames
	if tags == nil {
		tags = []string{}
	}
	return PostResponse{
		ID:            d.Post.ID,
		Title:         d.Post.Title,
		Content:       d.Post.Content,
		AuthorID:      d.Post.AuthorID,
		Tags:          tags,
		PublishedDate: d.Post.PublishedDate,
		UpdatedAt:     d.Post.UpdatedAt,
	}
}

// PostDetailResponse is a post with its comments embedded.
type PostDetailResponse struct {
	PostResponse
	Comments []CommentResponse `json:"comments" doc:"Comments, oldest first"`
}

// ListPostsInput contains query parameters for listing posts.
type ListPostsInput struct {
	Author      string `query:"author" doc:"Filter by author user ID"`
	Tag         string `query:"tag" doc:"Filter by tag name, case-insensitive"`
	Search      string `query:"search" doc:"Search over title and content"`
	OldestFirst bool   `query:"oldest_first" doc:"Reverse the default newest-first order"`
}

// ListPostsResponse contains a list of posts.
type ListPostsResponse struct {
	Posts []PostResponse `json:"posts" doc:"List of posts"`
}

// ListPostsOutput wraps the list posts response for Huma.
type ListPostsOutput struct {
	Body ListPostsResponse
}

// CreatePostRequest is the request body for creating a post.
type CreatePostRequest struct {
	Title   string `json:"title" doc:"Title"`
	Content string `json:"content" doc:"Body text"`
	Tags    string `json:"tags,omitempty" doc:"Comma-separated tag names"`
}

// CreatePostInput wraps the create post request for Huma.
type CreatePostInput struct {
	Authorization string `header:"Authorization"`
	Body          CreatePostRequest
}

// PostOutput wraps the post response for Huma.
type PostOutput struct {
	Body PostResponse
}

// GetPostInput contains parameters for getting a post.
type GetPostInput struct {
	ID string `path:"id" doc:"Post ID"`
}

// PostDetailOutput wraps the post detail response for Huma.
type PostDetailOutput struct {
	Body PostDetailResponse
}

// UpdatePostRequest is the request body for updating a post. A supplied
// tags value replaces the tag set; an empty string clears it.
type UpdatePostRequest struct {
	Title   *string `json:"title,omitempty" doc:"Title"`
	Content *string `json:"content,omitempty" doc:"Body text"`
	Tags    *string `json:"tags,omitempty" doc:"Comma-separated tag names"`
}

// UpdatePostInput wraps the update post request for Huma.
type UpdatePostInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Post ID"`
	Body          UpdatePostRequest
}

// DeletePostInput contains parameters for deleting a post.
type DeletePostInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Post ID"`
}

// === Handlers ===

func (s *Server) handleListPosts(ctx context.Context, input *ListPostsInput) (*ListPostsOutput, error) {
	posts, err := s.services.Blog.ListPosts(ctx, domain.PostListOptions{
		AuthorID:    input.Author,
		TagName:     input.Tag,
		Search:      input.Search,
		OldestFirst: input.OldestFirst,
	})
	if err != nil {
		return nil, err
	}

	resp := make([]PostResponse, len(posts))
	for i, p := range posts {
		resp[i] = toPostResponse(p)
	}

	return &ListPostsOutput{Body: ListPostsResponse{Posts: resp}}, nil
}

func (s *Server) handleCreatePost(ctx context.Context, input *CreatePostInput) (*PostOutput, error) {
	principal, err := s.optionalPrincipal(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	detail, err := s.services.Blog.CreatePost(ctx, principal, service.CreatePostRequest{
		Title:   input.Body.Title,
		Content: input.Body.Content,
		Tags:    input.Body.Tags,
	})
	if err != nil {
		return nil, err
	}

	return &PostOutput{Body: toPostResponse(detail)}, nil
}

func (s *Server) handleGetPost(ctx context.Context, input *GetPostInput) (*PostDetailOutput, error) {
	detail, err := s.services.Blog.GetPost(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	comments := make([]CommentResponse, len(detail.Comments))
	for i, c := range detail.Comments {
		comments[i] = toCommentResponse(c)
	}

	return &PostDetailOutput{
		Body: PostDetailResponse{
			PostResponse: toPostResponse(detail),
			Comments:     comments,
		},
	}, nil
}

func (s *Server) handleUpdatePost(ctx context.Context, input *UpdatePostInput) (*PostOutput, error) {
	principal, err := s.optionalPrincipal(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	detail, err := s.services.Blog.UpdatePost(ctx, principal, input.ID, service.UpdatePostRequest{
		Title:   input.Body.Title,
		Content: input.Body.Content,
		Tags:    input.Body.Tags,
	})
	if err != nil {
		return nil, err
	}

	return &PostOutput{Body: toPostResponse(detail)}, nil
}

func (s *Server) handleDeletePost(ctx context.Context, input *DeletePostInput) (*struct{}, error) {
	principal, err := s.optionalPrincipal(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Blog.DeletePost(ctx, principal, input.ID); err != nil {
		return nil, err
	}
	return nil, nil
}

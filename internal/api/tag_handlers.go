package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerTagRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listTags",
		Method:      http.MethodGet,
		Path:        "/api/v1/tags",
		Summary:     "List tags",
		Description: "Returns every tag in use",
		Tags:        []string{"Blog"},
	}, s.handleListTags)

	huma.Register(s.api, huma.Operation{
		OperationID: "getTagPosts",
		Method:      http.MethodGet,
		Path:        "/api/v1/tags/{name}/posts",
		Summary:     "Get tag posts",
		Description: "Returns the posts carrying the named tag, newest first",
		Tags:        []string{"Blog"},
	}, s.handleGetTagPosts)
}

// === DTOs ===

// TagResponse contains tag data in API responses.
type TagResponse struct {
	ID        string    `json:"id" doc:"Tag ID"`
	Name      string    `json:"name" doc:"Normalized lowercase name"`
	CreatedAt time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt time.Time `json:"updated_at" doc:"Last update time"`
}

// ListTagsResponse contains a list of tags.
type ListTagsResponse struct {
	Tags []TagResponse `json:"tags" doc:"List of tags"`
}

// ListTagsOutput wraps the list tags response for Huma.
type ListTagsOutput struct {
	Body ListTagsResponse
}

// GetTagPostsInput contains parameters for listing a tag's posts.
type GetTagPostsInput struct {
	Name string `path:"name" doc:"Tag name, matched case-insensitively"`
}

// === Handlers ===

func (s *Server) handleListTags(ctx context.Context, _ *struct{}) (*ListTagsOutput, error) {
	tags, err := s.services.Blog.ListTags(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]TagResponse, len(tags))
	for i, t := range tags {
		resp[i] = TagResponse{
			ID:        t.ID,
			Name:      t.Name,
			CreatedAt: t.CreatedAt,
			UpdatedAt: t.UpdatedAt,
		}
	}

	return &ListTagsOutput{Body: ListTagsResponse{Tags: resp}}, nil
}

func (s *Server) handleGetTagPosts(ctx context.Context, input *GetTagPostsInput) (*ListPostsOutput, error) {
	posts, err := s.services.Blog.GetPostsForTag(ctx, input.Name)
	if err != nil {
		return nil, err
	}

	resp := make([]PostResponse, len(posts))
	for i, p := range posts {
		resp[i] = toPostResponse(p)
	}

	return &ListPostsOutput{Body: ListPostsResponse{Posts: resp}}, nil
}

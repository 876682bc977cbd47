package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/readstackapp/readstack-server/internal/domain"
	"github.com/readstackapp/readstack-server/internal/service"
)

func (s *Server) registerCommentRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "createComment",
		Method:        http.MethodPost,
		Path:          "/api/v1/posts/{id}/comments",
		Summary:       "Create comment",
		Description:   "Adds a comment to a post, owned by the authenticated user",
		Tags:          []string{"Blog"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateComment)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateComment",
		Method:      http.MethodPatch,
		Path:        "/api/v1/comments/{id}",
		Summary:     "Update comment",
		Description: "Edits a comment. Only the author may update.",
		Tags:        []string{"Blog"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateComment)

	huma.Register(s.api, huma.Operation{
		OperationID:   "deleteComment",
		Method:        http.MethodDelete,
		Path:          "/api/v1/comments/{id}",
		Summary:       "Delete comment",
		Description:   "Removes a comment. Only the author may delete.",
		Tags:          []string{"Blog"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusNoContent,
	}, s.handleDeleteComment)
}

// === DTOs ===

// CommentResponse contains comment data in API responses.
type CommentResponse struct {
	ID        string    `json:"id" doc:"Comment ID"`
	PostID    string    `json:"post_id" doc:"Commented post"`
	AuthorID  string    `json:"author_id" doc:"Author user ID"`
	Content   string    `json:"content" doc:"Comment text"`
	CreatedAt time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt time.Time `json:"updated_at" doc:"Last update time"`
}

func toCommentResponse(c *domain.Comment) CommentResponse {
	return CommentResponse{
		ID:        c.ID,
		PostID:    c.PostID,
		AuthorID:  c.AuthorID,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// CommentRequest is the request body for creating or editing a comment.
type CommentRequest struct {
	Content string `json:"content" doc:"Comment text"`
}

// CreateCommentInput wraps the create comment request for Huma.
type CreateCommentInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Post ID"`
	Body          CommentRequest
}

// UpdateCommentInput wraps the update comment request for Huma.
type UpdateCommentInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Comment ID"`
	Body          CommentRequest
}

// DeleteCommentInput contains parameters for deleting a comment.
type DeleteCommentInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Comment ID"`
}

// CommentOutput wraps the comment response for Huma.
type CommentOutput struct {
	Body CommentResponse
}

// === Handlers ===

func (s *Server) handleCreateComment(ctx context.Context, input *CreateCommentInput) (*CommentOutput, error) {
	principal, err := s.optionalPrincipal(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	comment, err := s.services.Blog.CreateComment(ctx, principal, input.ID, service.CreateCommentRequest{
		Content: input.Body.Content,
	})
	if err != nil {
		return nil, err
	}

	return &CommentOutput{Body: toCommentResponse(comment)}, nil
}

func (s *Server) handleUpdateComment(ctx context.Context, input *UpdateCommentInput) (*CommentOutput, error) {
	principal, err := s.optionalPrincipal(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	comment, err := s.services.Blog.UpdateComment(ctx, principal, input.ID, service.UpdateCommentRequest{
		Content: input.Body.Content,
	})
	if err != nil {
		return nil, err
	}

	return &CommentOutput{Body: toCommentResponse(comment)}, nil
}

func (s *Server) handleDeleteComment(ctx context.Context, input *DeleteCommentInput) (*struct{}, error) {
	principal, err := s.optionalPrincipal(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Blog.DeleteComment(ctx, principal, input.ID); err != nil {
		return nil, err
	}
	return nil, nil
}

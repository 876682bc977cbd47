package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/readstackapp/readstack-server/internal/domain"
	"github.com/readstackapp/readstack-server/internal/service"
)

func (s *Server) registerAuthorRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listAuthors",
		Method:      http.MethodGet,
		Path:        "/api/v1/authors",
		Summary:     "List authors",
		Description: "Returns all catalog authors, ordered by name",
		Tags:        []string{"Catalog"},
	}, s.handleListAuthors)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createAuthor",
		Method:        http.MethodPost,
		Path:          "/api/v1/authors",
		Summary:       "Create author",
		Description:   "Adds an author to the catalog",
		Tags:          []string{"Catalog"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateAuthor)

	huma.Register(s.api, huma.Operation{
		OperationID: "getAuthor",
		Method:      http.MethodGet,
		Path:        "/api/v1/authors/{id}",
		Summary:     "Get author",
		Description: "Returns an author with their books embedded",
		Tags:        []string{"Catalog"},
	}, s.handleGetAuthor)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateAuthor",
		Method:      http.MethodPatch,
		Path:        "/api/v1/authors/{id}",
		Summary:     "Update author",
		Description: "Applies a partial update to an author",
		Tags:        []string{"Catalog"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateAuthor)

	huma.Register(s.api, huma.Operation{
		OperationID:   "deleteAuthor",
		Method:        http.MethodDelete,
		Path:          "/api/v1/authors/{id}",
		Summary:       "Delete author",
		Description:   "Removes an author and, by cascade, all their books",
		Tags:          []string{"Catalog"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusNoContent,
	}, s.handleDeleteAuthor)
}

// === DTOs ===

// AuthorResponse contains author data in API responses.
type AuthorResponse struct {
	ID        string    `json:"id" doc:"Author ID"`
	Name      string    `json:"name" doc:"Author name"`
	CreatedAt time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt time.Time `json:"updated_at" doc:"Last update time"`
}

func toAuthorResponse(a *domain.Author) AuthorResponse {
	return AuthorResponse{
		ID:        a.ID,
		Name:      a.Name,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

// AuthorDetailResponse is an author with their books embedded read-only.
type AuthorDetailResponse struct {
	AuthorResponse
	Books []BookResponse `json:"books" doc:"Books by this author"`
}

// ListAuthorsResponse contains a list of authors.
type ListAuthorsResponse struct {
	Authors []AuthorResponse `json:"authors" doc:"List of authors"`
}

// ListAuthorsOutput wraps the list authors response for Huma.
type ListAuthorsOutput struct {
	Body ListAuthorsResponse
}

// CreateAuthorRequest is the request body for creating an author.
type CreateAuthorRequest struct {
	Name string `json:"name" doc:"Author name"`
}

// CreateAuthorInput wraps the create author request for Huma.
type CreateAuthorInput struct {
	Authorization string `header:"Authorization"`
	Body          CreateAuthorRequest
}

// AuthorOutput wraps the author response for Huma.
type AuthorOutput struct {
	Body AuthorResponse
}

// GetAuthorInput contains parameters for getting an author.
type GetAuthorInput struct {
	ID string `path:"id" doc:"Author ID"`
}

// AuthorDetailOutput wraps the author detail response for Huma.
type AuthorDetailOutput struct {
	Body AuthorDetailResponse
}

// UpdateAuthorRequest is the request body for updating an author.
type UpdateAuthorRequest struct {
	Name *string `json:"name,omitempty" doc:"Author name"`
}

// UpdateAuthorInput wraps the update author request for Huma.
type UpdateAuthorInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Author ID"`
	Body          UpdateAuthorRequest
}

// DeleteAuthorInput contains parameters for deleting an author.
type DeleteAuthorInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Author ID"`
}

// === Handlers ===

func (s *Server) handleListAuthors(ctx context.Context, _ *struct{}) (*ListAuthorsOutput, error) {
	authors, err := s.services.Catalog.ListAuthors(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]AuthorResponse, len(authors))
	for i, a := range authors {
		resp[i] = toAuthorResponse(a)
	}

	return &ListAuthorsOutput{Body: ListAuthorsResponse{Authors: resp}}, nil
}

func (s *Server) handleCreateAuthor(ctx context.Context, input *CreateAuthorInput) (*AuthorOutput, error) {
	principal, err := s.optionalPrincipal(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	author, err := s.services.Catalog.CreateAuthor(ctx, principal, service.CreateAuthorRequest{
		Name: input.Body.Name,
	})
	if err != nil {
		return nil, err
	}

	return &AuthorOutput{Body: toAuthorResponse(author)}, nil
}

func (s *Server) handleGetAuthor(ctx context.Context, input *GetAuthorInput) (*AuthorDetailOutput, error) {
	detail, err := s.services.Catalog.GetAuthor(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	books := make([]BookResponse, len(detail.Books))
	for i, b := range detail.Books {
		books[i] = toBookResponse(b)
	}

	return &AuthorDetailOutput{
		Body: AuthorDetailResponse{
			AuthorResponse: toAuthorResponse(detail.Author),
			Books:          books,
		},
	}, nil
}

func (s *Server) handleUpdateAuthor(ctx context.Context, input *UpdateAuthorInput) (*AuthorOutput, error) {
	principal, err := s.optionalPrincipal(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	author, err := s.services.Catalog.UpdateAuthor(ctx, principal, input.ID, service.UpdateAuthorRequest{
		Name: input.Body.Name,
	})
	if err != nil {
		return nil, err
	}

	return &AuthorOutput{Body: toAuthorResponse(author)}, nil
}

func (s *Server) handleDeleteAuthor(ctx context.Context, input *DeleteAuthorInput) (*struct{}, error) {
	principal, err := s.optionalPrincipal(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Catalog.DeleteAuthor(ctx, principal, input.ID); err != nil {
		return nil, err
	}
	return nil, nil
}

package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/readstackapp/readstack-server/internal/domain"
	"github.com/readstackapp/readstack-server/internal/service"
)

func (s *Server) registerBookRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listBooks",
		Method:      http.MethodGet,
		Path:        "/api/v1/books",
		Summary:     "List books",
		Description: "Returns catalog books with filtering, search and ordering",
		Tags:        []string{"Catalog"},
	}, s.handleListBooks)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createBook",
		Method:        http.MethodPost,
		Path:          "/api/v1/books",
		Summary:       "Create book",
		Description:   "Adds a book to the catalog",
		Tags:          []string{"Catalog"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "getBook",
		Method:      http.MethodGet,
		Path:        "/api/v1/books/{id}",
		Summary:     "Get book",
		Description: "Returns a catalog book by ID",
		Tags:        []string{"Catalog"},
	}, s.handleGetBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "replaceBook",
		Method:      http.MethodPut,
		Path:        "/api/v1/books/{id}",
		Summary:     "Replace book",
		Description: "Replaces every field of a catalog book",
		Tags:        []string{"Catalog"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleReplaceBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateBook",
		Method:      http.MethodPatch,
		Path:        "/api/v1/books/{id}",
		Summary:     "Update book",
		Description: "Applies a partial update to a catalog book",
		Tags:        []string{"Catalog"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateBook)

	huma.Register(s.api, huma.Operation{
		OperationID:   "deleteBook",
		Method:        http.MethodDelete,
		Path:          "/api/v1/books/{id}",
		Summary:       "Delete book",
		Description:   "Removes a catalog book",
		Tags:          []string{"Catalog"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusNoContent,
	}, s.handleDeleteBook)
}

// === DTOs ===

// BookResponse contains catalog book data in API responses.
type BookResponse struct {
	ID              string    `json:"id" doc:"Book ID"`
	Title           string    `json:"title" doc:"Title"`
	PublicationYear int       `json:"publication_year" doc:"Year of publication"`
	AuthorID        string    `json:"author_id" doc:"Author ID"`
	CreatedAt       time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt       time.Time `json:"updated_at" doc:"Last update time"`
}

func toBookResponse(b *domain.Book) BookResponse {
	return BookResponse{
		ID:              b.ID,
		Title:           b.Title,
		PublicationYear: b.PublicationYear,
		AuthorID:        b.AuthorID,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

// ListBooksInput contains query parameters for listing books.
type ListBooksInput struct {
	Author          string `query:"author" doc:"Filter by author ID"`
	PublicationYear int    `query:"publication_year" doc:"Filter by publication year"`
	Title           string `query:"title" doc:"Case-insensitive title contains match"`
	Search          string `query:"search" doc:"Search over title and author name"`
	Ordering        string `query:"ordering" doc:"Sort field, prefix with - for descending"`
}

// ListBooksResponse contains a list of catalog books.
type ListBooksResponse struct {
	Books []BookResponse `json:"books" doc:"List of books"`
}

// ListBooksOutput wraps the list books response for Huma.
type ListBooksOutput struct {
	Body ListBooksResponse
}

// CreateBookRequest is the request body for creating a book.
type CreateBookRequest struct {
	Title           string `json:"title" doc:"Title"`
	PublicationYear int    `json:"publication_year" doc:"Year of publication, not in the future"`
	AuthorID        string `json:"author_id" doc:"Author ID, must exist"`
}

// CreateBookInput wraps the create book request for Huma.
type CreateBookInput struct {
	Authorization string `header:"Authorization"`
	Body          CreateBookRequest
}

// BookOutput wraps the book response for Huma.
type BookOutput struct {
	Body BookResponse
}

// GetBookInput contains parameters for getting a book.
type GetBookInput struct {
	ID string `path:"id" doc:"Book ID"`
}

// ReplaceBookInput wraps the full-replace book request for Huma.
type ReplaceBookInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Book ID"`
	Body          CreateBookRequest
}

// UpdateBookRequest is the request body for updating a book.
type UpdateBookRequest struct {
	Title           *string `json:"title,omitempty" doc:"Title"`
	PublicationYear *int    `json:"publication_year,omitempty" doc:"Year of publication"`
	AuthorID        *string `json:"author_id,omitempty" doc:"Author ID"`
}

// UpdateBookInput wraps the update book request for Huma.
type UpdateBookInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Book ID"`
	Body          UpdateBookRequest
}

// DeleteBookInput contains parameters for deleting a book.
type DeleteBookInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Book ID"`
}

// parseOrdering splits an ordering parameter into field and direction.
// A leading "-" means descending.
func parseOrdering(ordering string) (field string, descending bool) {
	if strings.HasPrefix(ordering, "-") {
		return ordering[1:], true
	}
	return ordering, false
}

// === Handlers ===

func (s *Server) handleListBooks(ctx context.Context, input *ListBooksInput) (*ListBooksOutput, error) {
	orderBy, descending := parseOrdering(input.Ordering)

	books, err := s.services.Catalog.ListBooks(ctx, domain.BookListOptions{
		AuthorID:        input.Author,
		PublicationYear: input.PublicationYear,
		Title:           input.Title,
		Search:          input.Search,
		OrderBy:         orderBy,
		Descending:      descending,
	})
	if err != nil {
		return nil, err
	}

	resp := make([]BookResponse, len(books))
	for i, b := range books {
		resp[i] = toBookResponse(b)
	}

	return &ListBooksOutput{Body: ListBooksResponse{Books: resp}}, nil
}

func (s *Server) handleCreateBook(ctx context.Context, input *CreateBookInput) (*BookOutput, error) {
	principal, err := s.optionalPrincipal(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	book, err := s.services.Catalog.CreateBook(ctx, principal, service.CreateBookRequest{
		Title:           input.Body.Title,
		PublicationYear: input.Body.PublicationYear,
		AuthorID:        input.Body.AuthorID,
	})
	if err != nil {
		return nil, err
	}

	return &BookOutput{Body: toBookResponse(book)}, nil
}

func (s *Server) handleGetBook(ctx context.Context, input *GetBookInput) (*BookOutput, error) {
	book, err := s.services.Catalog.GetBook(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &BookOutput{Body: toBookResponse(book)}, nil
}

func (s *Server) handleReplaceBook(ctx context.Context, input *ReplaceBookInput) (*BookOutput, error) {
	principal, err := s.optionalPrincipal(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	book, err := s.services.Catalog.UpdateBook(ctx, principal, input.ID, service.UpdateBookRequest{
		Title:           &input.Body.Title,
		PublicationYear: &input.Body.PublicationYear,
		AuthorID:        &input.Body.AuthorID,
	})
	if err != nil {
		return nil, err
	}

	return &BookOutput{Body: toBookResponse(book)}, nil
}

func (s *Server) handleUpdateBook(ctx context.Context, input *UpdateBookInput) (*BookOutput, error) {
	principal, err := s.optionalPrincipal(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	book, err := s.services.Catalog.UpdateBook(ctx, principal, input.ID, service.UpdateBookRequest{
		Title:           input.Body.Title,
		PublicationYear: input.Body.PublicationYear,
		AuthorID:        input.Body.AuthorID,
	})
	if err != nil {
		return nil, err
	}

	return &BookOutput{Body: toBookResponse(book)}, nil
}

func (s *Server) handleDeleteBook(ctx context.Context, input *DeleteBookInput) (*struct{}, error) {
	principal, err := s.optionalPrincipal(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Catalog.DeleteBook(ctx, principal, input.ID); err != nil {
		return nil, err
	}
	return nil, nil
}

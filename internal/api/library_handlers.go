package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/readstackapp/readstack-server/internal/domain"
	"github.com/readstackapp/readstack-server/internal/service"
)

func (s *Server) registerLibraryRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listLibraries",
		Method:      http.MethodGet,
		Path:        "/api/v1/libraries",
		Summary:     "List libraries",
		Description: "Returns all libraries. Requires the view capability.",
		Tags:        []string{"Libraries"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListLibraries)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createLibrary",
		Method:        http.MethodPost,
		Path:          "/api/v1/libraries",
		Summary:       "Create library",
		Description:   "Adds a library. Requires the create capability.",
		Tags:          []string{"Libraries"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateLibrary)

	huma.Register(s.api, huma.Operation{
		OperationID: "getLibrary",
		Method:      http.MethodGet,
		Path:        "/api/v1/libraries/{id}",
		Summary:     "Get library",
		Description: "Returns a library with its holdings and librarian",
		Tags:        []string{"Libraries"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetLibrary)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateLibrary",
		Method:      http.MethodPatch,
		Path:        "/api/v1/libraries/{id}",
		Summary:     "Update library",
		Description: "Applies a partial update. Requires the edit capability.",
		Tags:        []string{"Libraries"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateLibrary)

	huma.Register(s.api, huma.Operation{
		OperationID:   "deleteLibrary",
		Method:        http.MethodDelete,
		Path:          "/api/v1/libraries/{id}",
		Summary:       "Delete library",
		Description:   "Removes a library. Its shelf books stay on the shelf.",
		Tags:          []string{"Libraries"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusNoContent,
	}, s.handleDeleteLibrary)

	huma.Register(s.api, huma.Operation{
		OperationID:   "addBookToLibrary",
		Method:        http.MethodPost,
		Path:          "/api/v1/libraries/{id}/books/{bookID}",
		Summary:       "Add book to library",
		Description:   "Records a shelf book as held by a library",
		Tags:          []string{"Libraries"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusCreated,
	}, s.handleAddBookToLibrary)

	huma.Register(s.api, huma.Operation{
		OperationID:   "removeBookFromLibrary",
		Method:        http.MethodDelete,
		Path:          "/api/v1/libraries/{id}/books/{bookID}",
		Summary:       "Remove book from library",
		Description:   "Removes a holding. The shelf book itself is untouched.",
		Tags:          []string{"Libraries"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusNoContent,
	}, s.handleRemoveBookFromLibrary)

	huma.Register(s.api, huma.Operation{
		OperationID: "assignLibrarian",
		Method:      http.MethodPut,
		Path:        "/api/v1/libraries/{id}/librarian",
		Summary:     "Assign librarian",
		Description: "Puts a user in charge of a library. One librarian per library, one library per user.",
		Tags:        []string{"Libraries"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleAssignLibrarian)
}

// === DTOs ===

// LibraryResponse contains library data in API responses.
type LibraryResponse struct {
	ID        string    `json:"id" doc:"Library ID"`
	Name      string    `json:"name" doc:"Library name"`
	Location  string    `json:"location,omitempty" doc:"Physical location"`
	CreatedAt time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt time.Time `json:"updated_at" doc:"Last update time"`
}

func toLibraryResponse(l *domain.Library) LibraryResponse {
	return LibraryResponse{
		ID:        l.ID,
		Name:      l.Name,
		Location:  l.Location,
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
}

// LibrarianResponse contains librarian assignment data.
type LibrarianResponse struct {
	ID        string    `json:"id" doc:"Assignment ID"`
	UserID    string    `json:"user_id" doc:"Assigned user"`
	LibraryID string    `json:"library_id" doc:"Managed library"`
	CreatedAt time.Time `json:"created_at" doc:"Assignment time"`
}

func toLibrarianResponse(l *domain.Librarian) LibrarianResponse {
	return LibrarianResponse{
		ID:        l.ID,
		UserID:    l.UserID,
		LibraryID: l.LibraryID,
		CreatedAt: l.CreatedAt,
	}
}

// LibraryDetailResponse is a library with its holdings and librarian.
type LibraryDetailResponse struct {
	LibraryResponse
	Books     []ShelfBookResponse `json:"books" doc:"Shelf books held by this library"`
	Librarian *LibrarianResponse  `json:"librarian,omitempty" doc:"Assigned librarian"`
}

// ListLibrariesInput contains parameters for listing libraries.
type ListLibrariesInput struct {
	Authorization string `header:"Authorization"`
}

// ListLibrariesResponse contains a list of libraries.
type ListLibrariesResponse struct {
	Libraries []LibraryResponse `json:"libraries" doc:"List of libraries"`
}

// ListLibrariesOutput wraps the list libraries response for Huma.
type ListLibrariesOutput struct {
	Body ListLibrariesResponse
}

// CreateLibraryRequest is the request body for creating a library.
type CreateLibraryRequest struct {
	Name     string `json:"name" doc:"Library name"`
	Location string `json:"location,omitempty" doc:"Physical location"`
}

// CreateLibraryInput wraps the create library request for Huma.
type CreateLibraryInput struct {
	Authorization string `header:"Authorization"`
	Body          CreateLibraryRequest
}

// LibraryOutput wraps the library response for Huma.
type LibraryOutput struct {
	Body LibraryResponse
}

// GetLibraryInput contains parameters for getting a library.
type GetLibraryInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Library ID"`
}

// LibraryDetailOutput wraps the library detail response for Huma.
type LibraryDetailOutput struct {
	Body LibraryDetailResponse
}

// UpdateLibraryRequest is the request body for updating a library.
type UpdateLibraryRequest struct {
	Name     *string `json:"name,omitempty" doc:"Library name"`
	Location *string `json:"location,omitempty" doc:"Physical location"`
}

// UpdateLibraryInput wraps the update library request for Huma.
type UpdateLibraryInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Library ID"`
	Body          UpdateLibraryRequest
}

// DeleteLibraryInput contains parameters for deleting a library.
type DeleteLibraryInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Library ID"`
}

// LibraryBookInput identifies a library/book pair.
type LibraryBookInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Library ID"`
	BookID        string `path:"bookID" doc:"Shelf book ID"`
}

// LibraryBookResponse contains holding data in API responses.
type LibraryBookResponse struct {
	ID        string    `json:"id" doc:"Holding ID"`
	LibraryID string    `json:"library_id" doc:"Library ID"`
	BookID    string    `json:"book_id" doc:"Shelf book ID"`
	DateAdded time.Time `json:"date_added" doc:"When the book was added"`
}

// LibraryBookOutput wraps the holding response for Huma.
type LibraryBookOutput struct {
	Body LibraryBookResponse
}

// AssignLibrarianRequest is the request body for assigning a librarian.
type AssignLibrarianRequest struct {
	UserID string `json:"user_id" doc:"User to put in charge"`
}

// AssignLibrarianInput wraps the assign librarian request for Huma.
type AssignLibrarianInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Library ID"`
	Body          AssignLibrarianRequest
}

// LibrarianOutput wraps the librarian response for Huma.
type LibrarianOutput struct {
	Body LibrarianResponse
}

// === Handlers ===

func (s *Server) handleListLibraries(ctx context.Context, input *ListLibrariesInput) (*ListLibrariesOutput, error) {
	principal, err := s.optionalPrincipal(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	libraries, err := s.services.Library.ListLibraries(ctx, principal)
	if err != nil {
		return nil, err
	}

	resp := make([]LibraryResponse, len(libraries))
	for i, l := range libraries {
		resp[i] = toLibraryResponse(l)
	}

	return &ListLibrariesOutput{Body: ListLibrariesResponse{Libraries: resp}}, nil
}

func (s *Server) handleCreateLibrary(ctx context.Context, input *CreateLibraryInput) (*LibraryOutput, error) {
	principal, err := s.optionalPrincipal(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	library, err := s.services.Library.CreateLibrary(ctx, principal, service.CreateLibraryRequest{
		Name:     input.Body.Name,
		Location: input.Body.Location,
	})
	if err != nil {
		return nil, err
	}

	return &LibraryOutput{Body: toLibraryResponse(library)}, nil
}

func (s *Server) handleGetLibrary(ctx context.Context, input *GetLibraryInput) (*LibraryDetailOutput, error) {
	principal, err := s.optionalPrincipal(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	detail, err := s.services.Library.GetLibrary(ctx, principal, input.ID)
	if err != nil {
		return nil, err
	}

	books := make([]ShelfBookResponse, len(detail.Books))
	for i, b := range detail.Books {
		books[i] = toShelfBookResponse(b)
	}

	body := LibraryDetailResponse{
		LibraryResponse: toLibraryResponse(detail.Library),
		Books:           books,
	}
	if detail.Librarian != nil {
		librarian := toLibrarianResponse(detail.Librarian)
		body.Librarian = &librarian
	}

	return &LibraryDetailOutput{Body: body}, nil
}

func (s *Server) handleUpdateLibrary(ctx context.Context, input *UpdateLibraryInput) (*LibraryOutput, error) {
	principal, err := s.optionalPrincipal(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	library, err := s.services.Library.UpdateLibrary(ctx, principal, input.ID, service.UpdateLibraryRequest{
		Name:     input.Body.Name,
		Location: input.Body.Location,
	})
	if err != nil {
		return nil, err
	}

	return &LibraryOutput{Body: toLibraryResponse(library)}, nil
}

func (s *Server) handleDeleteLibrary(ctx context.Context, input *DeleteLibraryInput) (*struct{}, error) {
	principal, err := s.optionalPrincipal(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Library.DeleteLibrary(ctx, principal, input.ID); err != nil {
		return nil, err
	}
	return nil, nil
}

func (s *Server) handleAddBookToLibrary(ctx context.Context, input *LibraryBookInput) (*LibraryBookOutput, error) {
	principal, err := s.optionalPrincipal(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	row, err := s.services.Library.AddBook(ctx, principal, input.ID, input.BookID)
	if err != nil {
		return nil, err
	}

	return &LibraryBookOutput{
		Body: LibraryBookResponse{
			ID:        row.ID,
			LibraryID: row.LibraryID,
			BookID:    row.BookID,
			DateAdded: row.DateAdded,
		},
	}, nil
}

func (s *Server) handleRemoveBookFromLibrary(ctx context.Context, input *LibraryBookInput) (*struct{}, error) {
	principal, err := s.optionalPrincipal(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Library.RemoveBook(ctx, principal, input.ID, input.BookID); err != nil {
		return nil, err
	}
	return nil, nil
}

func (s *Server) handleAssignLibrarian(ctx context.Context, input *AssignLibrarianInput) (*LibrarianOutput, error) {
	principal, err := s.optionalPrincipal(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	librarian, err := s.services.Library.AssignLibrarian(ctx, principal, input.ID, service.AssignLibrarianRequest{
		UserID: input.Body.UserID,
	})
	if err != nil {
		return nil, err
	}

	return &LibrarianOutput{Body: toLibrarianResponse(librarian)}, nil
}

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/readstackapp/readstack-server/internal/domain"
	"github.com/readstackapp/readstack-server/internal/service"
)

func (s *Server) registerShelfRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listShelfBooks",
		Method:      http.MethodGet,
		Path:        "/api/v1/shelf/books",
		Summary:     "List shelf books",
		Description: "Returns shelf books. Requires the view capability.",
		Tags:        []string{"Bookshelf"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListShelfBooks)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createShelfBook",
		Method:        http.MethodPost,
		Path:          "/api/v1/shelf/books",
		Summary:       "Create shelf book",
		Description:   "Adds a book to the shelf. Requires the create capability.",
		Tags:          []string{"Bookshelf"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateShelfBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "getShelfBook",
		Method:      http.MethodGet,
		Path:        "/api/v1/shelf/books/{id}",
		Summary:     "Get shelf book",
		Description: "Returns a shelf book. Requires the view capability.",
		Tags:        []string{"Bookshelf"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetShelfBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateShelfBook",
		Method:      http.MethodPatch,
		Path:        "/api/v1/shelf/books/{id}",
		Summary:     "Update shelf book",
		Description: "Applies a partial update. Requires the edit capability.",
		Tags:        []string{"Bookshelf"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateShelfBook)

	huma.Register(s.api, huma.Operation{
		OperationID:   "deleteShelfBook",
		Method:        http.MethodDelete,
		Path:          "/api/v1/shelf/books/{id}",
		Summary:       "Delete shelf book",
		Description:   "Removes a shelf book. Requires the delete capability.",
		Tags:          []string{"Bookshelf"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusNoContent,
	}, s.handleDeleteShelfBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "listCategories",
		Method:      http.MethodGet,
		Path:        "/api/v1/shelf/categories",
		Summary:     "List categories",
		Description: "Returns shelf categories. Requires the view capability.",
		Tags:        []string{"Bookshelf"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListCategories)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createCategory",
		Method:        http.MethodPost,
		Path:          "/api/v1/shelf/categories",
		Summary:       "Create category",
		Description:   "Adds a shelf category. Requires the create capability.",
		Tags:          []string{"Bookshelf"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateCategory)

	huma.Register(s.api, huma.Operation{
		OperationID:   "deleteCategory",
		Method:        http.MethodDelete,
		Path:          "/api/v1/shelf/categories/{id}",
		Summary:       "Delete category",
		Description:   "Removes a category. Its books stay, uncategorized.",
		Tags:          []string{"Bookshelf"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusNoContent,
	}, s.handleDeleteCategory)
}

// === DTOs ===

// ShelfBookResponse contains shelf book data in API responses.
type ShelfBookResponse struct {
	ID            string    `json:"id" doc:"Shelf book ID"`
	Title         string    `json:"title" doc:"Title"`
	Author        string    `json:"author" doc:"Author, free text"`
	PublishedYear int       `json:"published_year" doc:"Year of publication"`
	ISBN          string    `json:"isbn" doc:"ISBN, digits only, unique"`
	CategoryID    string    `json:"category_id,omitempty" doc:"Category ID"`
	CreatedAt     time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt     time.Time `json:"updated_at" doc:"Last update time"`
}

func toShelfBookResponse(b *domain.ShelfBook) ShelfBookResponse {
	return ShelfBookResponse{
		ID:            b.ID,
		Title:         b.Title,
		Author:        b.Author,
		PublishedYear: b.PublishedYear,
		ISBN:          b.ISBN,
		CategoryID:    b.CategoryID,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

// CategoryResponse contains category data in API responses.
type CategoryResponse struct {
	ID        string    `json:"id" doc:"Category ID"`
	Name      string    `json:"name" doc:"Category name, unique case-insensitively"`
	CreatedAt time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt time.Time `json:"updated_at" doc:"Last update time"`
}

func toCategoryResponse(c *domain.Category) CategoryResponse {
	return CategoryResponse{
		ID:        c.ID,
		Name:      c.Name,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// ListShelfBooksInput contains query parameters for listing shelf books.
type ListShelfBooksInput struct {
	Authorization string `header:"Authorization"`
	Category      string `query:"category" doc:"Filter by category ID"`
	Search        string `query:"search" doc:"Search over title and author"`
	Ordering      string `query:"ordering" doc:"Sort field, prefix with - for descending"`
}

// ListShelfBooksResponse contains a list of shelf books.
type ListShelfBooksResponse struct {
	Books []ShelfBookResponse `json:"books" doc:"List of shelf books"`
}

// ListShelfBooksOutput wraps the list shelf books response for Huma.
type ListShelfBooksOutput struct {
	Body ListShelfBooksResponse
}

// CreateShelfBookRequest is the request body for creating a shelf book.
type CreateShelfBookRequest struct {
	Title         string `json:"title" doc:"Title"`
	Author        string `json:"author" doc:"Author, free text"`
	PublishedYear int    `json:"published_year" doc:"Year of publication, not in the future"`
	ISBN          string `json:"isbn" doc:"ISBN, 10 to 13 digits"`
	CategoryID    string `json:"category_id,omitempty" doc:"Category ID, must exist when set"`
}

// CreateShelfBookInput wraps the create shelf book request for Huma.
type CreateShelfBookInput struct {
	Authorization string `header:"Authorization"`
	Body          CreateShelfBookRequest
}

// ShelfBookOutput wraps the shelf book response for Huma.
type ShelfBookOutput struct {
	Body ShelfBookResponse
}

// GetShelfBookInput contains parameters for getting a shelf book.
type GetShelfBookInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Shelf book ID"`
}

// UpdateShelfBookRequest is the request body for updating a shelf book.
// A supplied empty category_id clears the category.
type UpdateShelfBookRequest struct {
	Title         *string `json:"title,omitempty" doc:"Title"`
	Author        *string `json:"author,omitempty" doc:"Author"`
	PublishedYear *int    `json:"published_year,omitempty" doc:"Year of publication"`
	ISBN          *string `json:"isbn,omitempty" doc:"ISBN, 10 to 13 digits"`
	CategoryID    *string `json:"category_id,omitempty" doc:"Category ID, empty clears"`
}

// UpdateShelfBookInput wraps the update shelf book request for Huma.
type UpdateShelfBookInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Shelf book ID"`
	Body          UpdateShelfBookRequest
}

// DeleteShelfBookInput contains parameters for deleting a shelf book.
type DeleteShelfBookInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Shelf book ID"`
}

// ListCategoriesInput contains parameters for listing categories.
type ListCategoriesInput struct {
	Authorization string `header:"Authorization"`
}

// ListCategoriesResponse contains a list of categories.
type ListCategoriesResponse struct {
	Categories []CategoryResponse `json:"categories" doc:"List of categories"`
}

// ListCategoriesOutput wraps the list categories response for Huma.
type ListCategoriesOutput struct {
	Body ListCategoriesResponse
}

// CreateCategoryRequest is the request body for creating a category.
type CreateCategoryRequest struct {
	Name string `json:"name" doc:"Category name"`
}

// CreateCategoryInput wraps the create category request for Huma.
type CreateCategoryInput struct {
	Authorization string `header:"Authorization"`
	Body          CreateCategoryRequest
}

// CategoryOutput wraps the category response for Huma.
type CategoryOutput struct {
	Body CategoryResponse
}

// DeleteCategoryInput contains parameters for deleting a category.
type DeleteCategoryInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Category ID"`
}

// === Handlers ===

func (s *Server) handleListShelfBooks(ctx context.Context, input *ListShelfBooksInput) (*ListShelfBooksOutput, error) {
	principal, err := s.optionalPrincipal(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	orderBy, descending := parseOrdering(input.Ordering)
	books, err := s.services.Shelf.ListShelfBooks(ctx, principal, domain.ShelfBookListOptions{
		CategoryID: input.Category,
		Search:     input.Search,
		OrderBy:    orderBy,
		Descending: descending,
	})
	if err != nil {
		return nil, err
	}

	resp := make([]ShelfBookResponse, len(books))
	for i, b := range books {
		resp[i] = toShelfBookResponse(b)
	}

	return &ListShelfBooksOutput{Body: ListShelfBooksResponse{Books: resp}}, nil
}

func (s *Server) handleCreateShelfBook(ctx context.Context, input *CreateShelfBookInput) (*ShelfBookOutput, error) {
	principal, err := s.optionalPrincipal(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	book, err := s.services.Shelf.CreateShelfBook(ctx, principal, service.CreateShelfBookRequest{
		Title:         input.Body.Title,
		Author:        input.Body.Author,
		PublishedYear: input.Body.PublishedYear,
		ISBN:          input.Body.ISBN,
		CategoryID:    input.Body.CategoryID,
	})
	if err != nil {
		return nil, err
	}

	return &ShelfBookOutput{Body: toShelfBookResponse(book)}, nil
}

func (s *Server) handleGetShelfBook(ctx context.Context, input *GetShelfBookInput) (*ShelfBookOutput, error) {
	principal, err := s.optionalPrincipal(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	book, err := s.services.Shelf.GetShelfBook(ctx, principal, input.ID)
	if err != nil {
		return nil, err
	}

	return &ShelfBookOutput{Body: toShelfBookResponse(book)}, nil
}

func (s *Server) handleUpdateShelfBook(ctx context.Context, input *UpdateShelfBookInput) (*ShelfBookOutput, error) {
	principal, err := s.optionalPrincipal(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	book, err := s.services.Shelf.UpdateShelfBook(ctx, principal, input.ID, service.UpdateShelfBookRequest{
		Title:         input.Body.Title,
		Author:        input.Body.Author,
		PublishedYear: input.Body.PublishedYear,
		ISBN:          input.Body.ISBN,
		CategoryID:    input.Body.CategoryID,
	})
	if err != nil {
		return nil, err
	}

	return &ShelfBookOutput{Body: toShelfBookResponse(book)}, nil
}

func (s *Server) handleDeleteShelfBook(ctx context.Context, input *DeleteShelfBookInput) (*struct{}, error) {
	principal, err := s.optionalPrincipal(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Shelf.DeleteShelfBook(ctx, principal, input.ID); err != nil {
		return nil, err
	}
	return nil, nil
}

func (s *Server) handleListCategories(ctx context.Context, input *ListCategoriesInput) (*ListCategoriesOutput, error) {
	principal, err := s.optionalPrincipal(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	categories, err := s.services.Shelf.ListCategories(ctx, principal)
	if err != nil {
		return nil, err
	}

	resp := make([]CategoryResponse, len(categories))
	for i, c := range categories {
		resp[i] = toCategoryResponse(c)
	}

	return &ListCategoriesOutput{Body: ListCategoriesResponse{Categories: resp}}, nil
}

func (s *Server) handleCreateCategory(ctx context.Context, input *CreateCategoryInput) (*CategoryOutput, error) {
	principal, err := s.optionalPrincipal(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	category, err := s.services.Shelf.CreateCategory(ctx, principal, service.CreateCategoryRequest{
		Name: input.Body.Name,
	})
	if err != nil {
		return nil, err
	}

	return &CategoryOutput{Body: toCategoryResponse(category)}, nil
}

func (s *Server) handleDeleteCategory(ctx context.Context, input *DeleteCategoryInput) (*struct{}, error) {
	principal, err := s.optionalPrincipal(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Shelf.DeleteCategory(ctx, principal, input.ID); err != nil {
		return nil, err
	}
	return nil, nil
}

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

// ShelfService manages the capability-gated bookshelf: shelf books and
// categories. Every operation, including reads, requires the matching
// capability on the principal.
type ShelfService struct {
	store  store.Store
	logger *logger.Logger
}

// NewShelfService creates a new bookshelf service.
func NewShelfService(s store.Store, log *logger.Logger) *ShelfService {
	return &ShelfService{store: s, logger: log}
}

// CreateShelfBookRequest contains the data for a new shelf book.
type CreateShelfBookRequest struct {
	Title         string `json:"title" validate:"required,max=300"`
	Author        string `json:"author" validate:"required,max=200"`
	PublishedYear int    `json:"published_year" validate:"required,pastyear"`
	ISBN          string `json:"isbn" validate:"required,isbn,min=10,max=13"`
	CategoryID    string `json:"category_id,omitempty"`
}

// UpdateShelfBookRequest contains a partial shelf book update. A supplied
// empty CategoryID clears the category.
type UpdateShelfBookRequest struct {
	Title         *string `json:"title,omitempty" validate:"omitempty,required,max=300"`
	Author        *string `json:"author,omitempty" validate:"omitempty,required,max=200"`
	PublishedYear *int    `json:"published_year,omitempty" validate:"omitempty,pastyear"`
	ISBN          *string `json:"isbn,omitempty" validate:"omitempty,isbn,min=10,max=13"`
	CategoryID    *string `json:"category_id,omitempty"`
}

// CreateCategoryRequest contains the data for a new category.
type CreateCategoryRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

// CreateShelfBook adds a book to the shelf. Requires the create capability.
func (s *ShelfService) CreateShelfBook(ctx context.Context, principal *domain.User, req CreateShelfBookRequest) (*domain.ShelfBook, error) {
	if err := authz.Shelf(principal, authz.ActionCreate); err != nil {
		return nil, err
	}
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	if req.CategoryID != "" {
		if _, err := s.store.GetCategory(ctx, req.CategoryID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, domainerrors.Validation("category does not exist")
			}
			return nil, fmt.Errorf("get category: %w", err)
		}
	}

	bookID, err := id.Generate(id.PrefixShelfBook)
	if err != nil {
		return nil, fmt.Errorf("generate shelf book ID: %w", err)
	}

	now := time.Now()
	book := &domain.ShelfBook{
		ID:            bookID,
		Title:         req.Title,
		Author:        req.Author,
		PublishedYear: req.PublishedYear,
		ISBN:          req.ISBN,
		CategoryID:    req.CategoryID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.store.CreateShelfBook(ctx, book); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.Conflict("a book with this ISBN already exists")
		}
		return nil, fmt.Errorf("create shelf book: %w", err)
	}

	s.logger.Info("shelf book created", "book_id", bookID, "isbn", book.ISBN, "user_id", principal.ID)
	return book, nil
}

// GetShelfBook returns a shelf book. Requires the view capability.
func (s *ShelfService) GetShelfBook(ctx context.Context, principal *domain.User, bookID string) (*domain.ShelfBook, error) {
	if err := authz.Shelf(principal, authz.ActionView); err != nil {
		return nil, err
	}

	book, err := s.store.GetShelfBook(ctx, bookID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("shelf book not found")
		}
		return nil, fmt.Errorf("get shelf book: %w", err)
	}
	return book, nil
}

// ListShelfBooks returns shelf books. Requires the view capability; a
// principal without it gets a denial, never an empty list.
func (s *ShelfService) ListShelfBooks(ctx context.Context, principal *domain.User, opts domain.ShelfBookListOptions) ([]*domain.ShelfBook, error) {
	if err := authz.Shelf(principal, authz.ActionView); err != nil {
		return nil, err
	}
	if opts.OrderBy != "" && !domain.ShelfBookOrderFields[opts.OrderBy] {
		return nil, domainerrors.Validationf("unknown ordering field %q", opts.OrderBy)
	}
	return s.store.ListShelfBooks(ctx, opts)
}

// UpdateShelfBook applies a partial update. Requires the edit capability.
func (s *ShelfService) UpdateShelfBook(ctx context.Context, principal *domain.User, bookID string, req UpdateShelfBookRequest) (*domain.ShelfBook, error) {
	if err := authz.Shelf(principal, authz.ActionEdit); err != nil {
		return nil, err
	}
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	book, err := s.store.GetShelfBook(ctx, bookID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("shelf book not found")
		}
		return nil, fmt.Errorf("get shelf book: %w", err)
	}

	if req.Title != nil {
		book.Title = *req.Title
	}
	if req.Author != nil {
		book.Author = *req.Author
	}
	if req.PublishedYear != nil {
		book.PublishedYear = *req.PublishedYear
	}
	if req.ISBN != nil {
		book.ISBN = *req.ISBN
	}
	if req.CategoryID != nil {
		if *req.CategoryID != "" {
			if _, err := s.store.GetCategory(ctx, *req.CategoryID); err != nil {
				if errors.Is(err, store.ErrNotFound) {
					return nil, domainerrors.Validation("category does not exist")
				}
				return nil, fmt.Errorf("get category: %w", err)
			}
		}
		book.CategoryID = *req.CategoryID
	}
	book.UpdatedAt = time.Now()

	if err := s.store.UpdateShelfBook(ctx, book); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.Conflict("a book with this ISBN already exists")
		}
		return nil, fmt.Errorf("update shelf book: %w", err)
	}
	return book, nil
}

// DeleteShelfBook removes a shelf book. Requires the delete capability.
func (s *ShelfService) DeleteShelfBook(ctx context.Context, principal *domain.User, bookID string) error {
	if err := authz.Shelf(principal, authz.ActionDelete); err != nil {
		return err
	}

	if err := s.store.DeleteShelfBook(ctx, bookID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("shelf book not found")
		}
		return fmt.Errorf("delete shelf book: %w", err)
	}

	s.logger.Info("shelf book deleted", "book_id", bookID, "user_id", principal.ID)
	return nil
}

// CreateCategory adds a shelf category. Requires the create capability.
func (s *ShelfService) CreateCategory(ctx context.Context, principal *domain.User, req CreateCategoryRequest) (*domain.Category, error) {
	if err := authz.Shelf(principal, authz.ActionCreate); err != nil {
		return nil, err
	}
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	categoryID, err := id.Generate(id.PrefixCategory)
	if err != nil {
		return nil, fmt.Errorf("generate category ID: %w", err)
	}

	now := time.Now()
	category := &domain.Category{
		ID:        categoryID,
		Name:      req.Name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.CreateCategory(ctx, category); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.Conflict("category name already exists")
		}
		return nil, fmt.Errorf("create category: %w", err)
	}

	return category, nil
}

// ListCategories returns all categories. Requires the view capability.
func (s *ShelfService) ListCategories(ctx context.Context, principal *domain.User) ([]*domain.Category, error) {
	if err := authz.Shelf(principal, authz.ActionView); err != nil {
		return nil, err
	}
	return s.store.ListCategories(ctx)
}

// DeleteCategory removes a category; books referencing it keep existing
// with the category cleared. Requires the delete capability.
func (s *ShelfService) DeleteCategory(ctx context.Context, principal *domain.User, categoryID string) error {
	if err := authz.Shelf(principal, authz.ActionDelete); err != nil {
		return err
	}

	if err := s.store.DeleteCategory(ctx, categoryID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("category not found")
		}
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

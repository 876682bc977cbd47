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

// CatalogService manages the open catalog of authors and books.
// Reads are public; writes require an authenticated principal.
type CatalogService struct {
	store  store.Store
	logger *logger.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(s store.Store, log *logger.Logger) *CatalogService {
	return &CatalogService{store: s, logger: log}
}

// CreateAuthorRequest contains the data for a new author.
type CreateAuthorRequest struct {
	Name string `json:"name" validate:"required,max=200"`
}

// UpdateAuthorRequest contains a partial author update. Only supplied
// fields are validated and applied.
type UpdateAuthorRequest struct {
	Name *string `json:"name,omitempty" validate:"omitempty,required,max=200"`
}

// AuthorDetail is an author together with their books.
type AuthorDetail struct {
	Author *domain.Author `json:"author"`
	Books  []*domain.Book `json:"books"`
}

// CreateBookRequest contains the data for a new catalog book.
type CreateBookRequest struct {
	Title           string `json:"title" validate:"required,max=300"`
	PublicationYear int    `json:"publication_year" validate:"required,pastyear"`
	AuthorID        string `json:"author_id" validate:"required"`
}

// UpdateBookRequest contains a partial book update.
type UpdateBookRequest struct {
	Title           *string `json:"title,omitempty" validate:"omitempty,required,max=300"`
	PublicationYear *int    `json:"publication_year,omitempty" validate:"omitempty,pastyear"`
	AuthorID        *string `json:"author_id,omitempty" validate:"omitempty,required"`
}

// CreateAuthor adds an author to the catalog.
func (s *CatalogService) CreateAuthor(ctx context.Context, principal *domain.User, req CreateAuthorRequest) (*domain.Author, error) {
	if err := authz.Catalog(principal, authz.ActionCreate); err != nil {
		return nil, err
	}
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	authorID, err := id.Generate(id.PrefixAuthor)
	if err != nil {
		return nil, fmt.Errorf("generate author ID: %w", err)
	}

	now := time.Now()
	author := &domain.Author{
		ID:        authorID,
		Name:      req.Name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.CreateAuthor(ctx, author); err != nil {
		return nil, fmt.Errorf("create author: %w", err)
	}

	s.logger.Info("author created", "author_id", authorID, "name", author.Name)
	return author, nil
}

// GetAuthor returns an author with their books embedded.
func (s *CatalogService) GetAuthor(ctx context.Context, id string) (*AuthorDetail, error) {
	author, err := s.store.GetAuthor(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("author not found")
		}
		return nil, fmt.Errorf("get author: %w", err)
	}

	books, err := s.store.GetBooksByAuthor(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get author books: %w", err)
	}

	return &AuthorDetail{Author: author, Books: books}, nil
}

// ListAuthors returns all catalog authors.
func (s *CatalogService) ListAuthors(ctx context.Context) ([]*domain.Author, error) {
	return s.store.ListAuthors(ctx)
}

// UpdateAuthor applies a partial update to an author.
func (s *CatalogService) UpdateAuthor(ctx context.Context, principal *domain.User, authorID string, req UpdateAuthorRequest) (*domain.Author, error) {
	if err := authz.Catalog(principal, authz.ActionEdit); err != nil {
		return nil, err
	}
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	author, err := s.store.GetAuthor(ctx, authorID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("author not found")
		}
		return nil, fmt.Errorf("get author: %w", err)
	}

	if req.Name != nil {
		author.Name = *req.Name
	}
	author.UpdatedAt = time.Now()

	if err := s.store.UpdateAuthor(ctx, author); err != nil {
		return nil, fmt.Errorf("update author: %w", err)
	}
	return author, nil
}

// DeleteAuthor removes an author and, by cascade, all their books.
func (s *CatalogService) DeleteAuthor(ctx context.Context, principal *domain.User, authorID string) error {
	if err := authz.Catalog(principal, authz.ActionDelete); err != nil {
		return err
	}

	if err := s.store.DeleteAuthor(ctx, authorID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("author not found")
		}
		return fmt.Errorf("delete author: %w", err)
	}

	s.logger.Info("author deleted", "author_id", authorID)
	return nil
}

// CreateBook adds a book to the catalog. The referenced author must exist.
func (s *CatalogService) CreateBook(ctx context.Context, principal *domain.User, req CreateBookRequest) (*domain.Book, error) {
	if err := authz.Catalog(principal, authz.ActionCreate); err != nil {
		return nil, err
	}
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	if _, err := s.store.GetAuthor(ctx, req.AuthorID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.Validation("author does not exist")
		}
		return nil, fmt.Errorf("get author: %w", err)
	}

	bookID, err := id.Generate(id.PrefixBook)
	if err != nil {
		return nil, fmt.Errorf("generate book ID: %w", err)
	}

	now := time.Now()
	book := &domain.Book{
		ID:              bookID,
		Title:           req.Title,
		PublicationYear: req.PublicationYear,
		AuthorID:        req.AuthorID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.store.CreateBook(ctx, book); err != nil {
		return nil, fmt.Errorf("create book: %w", err)
	}

	s.logger.Info("book created", "book_id", bookID, "title", book.Title)
	return book, nil
}

// GetBook returns a catalog book by ID.
func (s *CatalogService) GetBook(ctx context.Context, bookID string) (*domain.Book, error) {
	book, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("book not found")
		}
		return nil, fmt.Errorf("get book: %w", err)
	}
	return book, nil
}

// ListBooks returns catalog books with filtering, search and ordering.
// An unknown ordering field is rejected before touching the store.
func (s *CatalogService) ListBooks(ctx context.Context, opts domain.BookListOptions) ([]*domain.Book, error) {
	if opts.OrderBy != "" && !domain.BookOrderFields[opts.OrderBy] {
		return nil, domainerrors.Validationf("unknown ordering field %q", opts.OrderBy)
	}
	return s.store.ListBooks(ctx, opts)
}

// UpdateBook applies a partial update to a catalog book.
func (s *CatalogService) UpdateBook(ctx context.Context, principal *domain.User, bookID string, req UpdateBookRequest) (*domain.Book, error) {
	if err := authz.Catalog(principal, authz.ActionEdit); err != nil {
		return nil, err
	}
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	book, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("book not found")
		}
		return nil, fmt.Errorf("get book: %w", err)
	}

	if req.Title != nil {
		book.Title = *req.Title
	}
	if req.PublicationYear != nil {
		book.PublicationYear = *req.PublicationYear
	}
	if req.AuthorID != nil {
		if _, err := s.store.GetAuthor(ctx, *req.AuthorID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, domainerrors.Validation("author does not exist")
			}
			return nil, fmt.Errorf("get author: %w", err)
		}
		book.AuthorID = *req.AuthorID
	}
	book.UpdatedAt = time.Now()

	if err := s.store.UpdateBook(ctx, book); err != nil {
		return nil, fmt.Errorf("update book: %w", err)
	}
	return book, nil
}

// DeleteBook removes a catalog book.
func (s *CatalogService) DeleteBook(ctx context.Context, principal *domain.User, bookID string) error {
	if err := authz.Catalog(principal, authz.ActionDelete); err != nil {
		return err
	}

	if err := s.store.DeleteBook(ctx, bookID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("book not found")
		}
		return fmt.Errorf("delete book: %w", err)
	}

	s.logger.Info("book deleted", "book_id", bookID)
	return nil
}

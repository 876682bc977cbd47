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

// LibraryService manages libraries, their book holdings, and librarian
// assignments. Libraries are part of the capability-gated bookshelf.
type LibraryService struct {
	store  store.Store
	logger *logger.Logger
}

// NewLibraryService creates a new library service.
func NewLibraryService(s store.Store, log *logger.Logger) *LibraryService {
	return &LibraryService{store: s, logger: log}
}

// CreateLibraryRequest contains the data for a new library.
type CreateLibraryRequest struct {
	Name     string `json:"name" validate:"required,max=200"`
	Location string `json:"location" validate:"max=300"`
}

// UpdateLibraryRequest contains a partial library update.
type UpdateLibraryRequest struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,required,max=200"`
	Location *string `json:"location,omitempty" validate:"omitempty,max=300"`
}

// AssignLibrarianRequest names the user to put in charge of a library.
type AssignLibrarianRequest struct {
	UserID string `json:"user_id" validate:"required"`
}

// LibraryDetail is a library together with its holdings and librarian.
type LibraryDetail struct {
	Library   *domain.Library     `json:"library"`
	Books     []*domain.ShelfBook `json:"books"`
	Librarian *domain.Librarian   `json:"librarian,omitempty"`
}

// CreateLibrary adds a library. Requires the create capability.
func (s *LibraryService) CreateLibrary(ctx context.Context, principal *domain.User, req CreateLibraryRequest) (*domain.Library, error) {
	if err := authz.Shelf(principal, authz.ActionCreate); err != nil {
		return nil, err
	}
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	libraryID, err := id.Generate(id.PrefixLibrary)
	if err != nil {
		return nil, fmt.Errorf("generate library ID: %w", err)
	}

	now := time.Now()
	library := &domain.Library{
		ID:        libraryID,
		Name:      req.Name,
		Location:  req.Location,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.CreateLibrary(ctx, library); err != nil {
		return nil, fmt.Errorf("create library: %w", err)
	}

	s.logger.Info("library created", "library_id", libraryID, "name", library.Name)
	return library, nil
}

// GetLibrary returns a library with its holdings and librarian.
// Requires the view capability.
func (s *LibraryService) GetLibrary(ctx context.Context, principal *domain.User, libraryID string) (*LibraryDetail, error) {
	if err := authz.Shelf(principal, authz.ActionView); err != nil {
		return nil, err
	}

	library, err := s.store.GetLibrary(ctx, libraryID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("library not found")
		}
		return nil, fmt.Errorf("get library: %w", err)
	}

	books, err := s.store.ListLibraryBooks(ctx, libraryID)
	if err != nil {
		return nil, fmt.Errorf("list library books: %w", err)
	}

	detail := &LibraryDetail{Library: library, Books: books}

	librarian, err := s.store.GetLibrarianForLibrary(ctx, libraryID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("get librarian: %w", err)
	}
	if err == nil {
		detail.Librarian = librarian
	}

	return detail, nil
}

// ListLibraries returns all libraries. Requires the view capability.
func (s *LibraryService) ListLibraries(ctx context.Context, principal *domain.User) ([]*domain.Library, error) {
	if err := authz.Shelf(principal, authz.ActionView); err != nil {
		return nil, err
	}
	return s.store.ListLibraries(ctx)
}

// UpdateLibrary applies a partial update. Requires the edit capability.
func (s *LibraryService) UpdateLibrary(ctx context.Context, principal *domain.User, libraryID string, req UpdateLibraryRequest) (*domain.Library, error) {
	if err := authz.Shelf(principal, authz.ActionEdit); err != nil {
		return nil, err
	}
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	library, err := s.store.GetLibrary(ctx, libraryID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("library not found")
		}
		return nil, fmt.Errorf("get library: %w", err)
	}

	if req.Name != nil {
		library.Name = *req.Name
	}
	if req.Location != nil {
		library.Location = *req.Location
	}
	library.UpdatedAt = time.Now()

	if err := s.store.UpdateLibrary(ctx, library); err != nil {
		return nil, fmt.Errorf("update library: %w", err)
	}
	return library, nil
}

// DeleteLibrary removes a library. Holdings and the librarian assignment
// cascade; the shelf books themselves survive. Requires the delete capability.
func (s *LibraryService) DeleteLibrary(ctx context.Context, principal *domain.User, libraryID string) error {
	if err := authz.Shelf(principal, authz.ActionDelete); err != nil {
		return err
	}

	if err := s.store.DeleteLibrary(ctx, libraryID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("library not found")
		}
		return fmt.Errorf("delete library: %w", err)
	}

	s.logger.Info("library deleted", "library_id", libraryID)
	return nil
}

// AddBook places a shelf book into a library. Requires the edit capability.
func (s *LibraryService) AddBook(ctx context.Context, principal *domain.User, libraryID, bookID string) (*domain.LibraryBook, error) {
	if err := authz.Shelf(principal, authz.ActionEdit); err != nil {
		return nil, err
	}

	if _, err := s.store.GetLibrary(ctx, libraryID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("library not found")
		}
		return nil, fmt.Errorf("get library: %w", err)
	}
	if _, err := s.store.GetShelfBook(ctx, bookID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("shelf book not found")
		}
		return nil, fmt.Errorf("get shelf book: %w", err)
	}

	rowID, err := id.Generate(id.PrefixLibraryBook)
	if err != nil {
		return nil, fmt.Errorf("generate join row ID: %w", err)
	}

	row := &domain.LibraryBook{
		ID:        rowID,
		LibraryID: libraryID,
		BookID:    bookID,
		DateAdded: time.Now(),
	}
	if err := s.store.AddBookToLibrary(ctx, row); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.Conflict("book is already in this library")
		}
		return nil, fmt.Errorf("add book to library: %w", err)
	}

	return row, nil
}

// RemoveBook takes a shelf book out of a library. The book itself is not
// deleted. Requires the edit capability.
func (s *LibraryService) RemoveBook(ctx context.Context, principal *domain.User, libraryID, bookID string) error {
	if err := authz.Shelf(principal, authz.ActionEdit); err != nil {
		return err
	}

	if err := s.store.RemoveBookFromLibrary(ctx, libraryID, bookID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("book is not in this library")
		}
		return fmt.Errorf("remove book from library: %w", err)
	}
	return nil
}

// AssignLibrarian puts a user in charge of a library. Each library has one
// librarian and a user manages at most one library; a second assignment on
// either side is a conflict. The user's role is switched to librarian.
func (s *LibraryService) AssignLibrarian(ctx context.Context, principal *domain.User, libraryID string, req AssignLibrarianRequest) (*domain.Librarian, error) {
	if err := authz.Shelf(principal, authz.ActionEdit); err != nil {
		return nil, err
	}
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	if _, err := s.store.GetLibrary(ctx, libraryID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("library not found")
		}
		return nil, fmt.Errorf("get library: %w", err)
	}

	user, err := s.store.GetUser(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.Validation("user does not exist")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	librarianID, err := id.Generate(id.PrefixLibrarian)
	if err != nil {
		return nil, fmt.Errorf("generate librarian ID: %w", err)
	}

	librarian := &domain.Librarian{
		ID:        librarianID,
		UserID:    user.ID,
		LibraryID: libraryID,
		CreatedAt: time.Now(),
	}
	if err := s.store.AssignLibrarian(ctx, librarian); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.Conflict("librarian assignment already exists")
		}
		return nil, fmt.Errorf("assign librarian: %w", err)
	}

	// The assignment grants the librarian role.
	if user.Role != domain.RoleLibrarian {
		user.Role = domain.RoleLibrarian
		user.UpdatedAt = time.Now()
		if err := s.store.UpdateUser(ctx, user); err != nil {
			return nil, fmt.Errorf("update user role: %w", err)
		}
	}

	s.logger.Info("librarian assigned", "library_id", libraryID, "user_id", user.ID)
	return librarian, nil
}

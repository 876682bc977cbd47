package sqlite

import (
	"context"
	"database/sql"

	"github.com/readstackapp/readstack-server/internal/domain"
	"github.com/readstackapp/readstack-server/internal/store"
)

const libraryColumns = `id, name, location, created_at, updated_at`

func scanLibrary(scanner interface{ Scan(dest ...any) error }) (*domain.Library, error) {
	var l domain.Library

	var createdAt, updatedAt string

	err := scanner.Scan(&l.ID, &l.Name, &l.Location, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	l.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	l.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &l, nil
}

// CreateLibrary inserts a new library.
func (s *Store) CreateLibrary(ctx context.Context, library *domain.Library) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO libraries (id, name, location, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		library.ID,
		library.Name,
		library.Location,
		formatTime(library.CreatedAt),
		formatTime(library.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetLibrary retrieves a library by ID.
// Returns store.ErrLibraryNotFound if the library does not exist.
func (s *Store) GetLibrary(ctx context.Context, id string) (*domain.Library, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+libraryColumns+` FROM libraries WHERE id = ?`, id)

	l, err := scanLibrary(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrLibraryNotFound
	}
	if err != nil {
		return nil, err
	}
	return l, nil
}

// ListLibraries returns all libraries ordered by name.
func (s *Store) ListLibraries(ctx context.Context) ([]*domain.Library, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+libraryColumns+` FROM libraries ORDER BY name COLLATE NOCASE ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var libraries []*domain.Library
	for rows.Next() {
		l, err := scanLibrary(rows)
		if err != nil {
			return nil, err
		}
		libraries = append(libraries, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return libraries, nil
}

// UpdateLibrary performs a full row update on an existing library.
// Returns store.ErrLibraryNotFound if the library does not exist.
func (s *Store) UpdateLibrary(ctx context.Context, library *domain.Library) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE libraries SET name = ?, location = ?, updated_at = ? WHERE id = ?`,
		library.Name,
		library.Location,
		formatTime(library.UpdatedAt),
		library.ID,
	)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrLibraryNotFound
	}
	return nil
}

// DeleteLibrary removes a library. Join rows and the librarian assignment
// cascade at the schema level.
// Returns store.ErrLibraryNotFound if the library does not exist.
func (s *Store) DeleteLibrary(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM libraries WHERE id = ?`, id)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrLibraryNotFound
	}
	return nil
}

// AddBookToLibrary inserts a dated join row between a library and a shelf book.
// Returns store.ErrAlreadyExists if the book is already in the library.
func (s *Store) AddBookToLibrary(ctx context.Context, row *domain.LibraryBook) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO library_books (id, library_id, book_id, date_added)
		VALUES (?, ?, ?, ?)`,
		row.ID,
		row.LibraryID,
		row.BookID,
		formatTime(row.DateAdded),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists.WithMessage("book is already in this library")
		}
		return err
	}
	return nil
}

// RemoveBookFromLibrary deletes the join row between a library and a shelf book.
// Returns store.ErrNotFound if the book is not in the library.
func (s *Store) RemoveBookFromLibrary(ctx context.Context, libraryID, bookID string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM library_books WHERE library_id = ? AND book_id = ?`,
		libraryID, bookID)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound.WithMessage("book is not in this library")
	}
	return nil
}

// ListLibraryBooks returns the shelf books held by a library, ordered by the
// date they were added.
func (s *Store) ListLibraryBooks(ctx context.Context, libraryID string) ([]*domain.ShelfBook, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT b.id, b.title, b.author, b.published_year, b.isbn, b.category_id, b.created_at, b.updated_at
		FROM shelf_books b
		JOIN library_books lb ON lb.book_id = b.id
		WHERE lb.library_id = ?
		ORDER BY lb.date_added ASC`,
		libraryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []*domain.ShelfBook
	for rows.Next() {
		b, err := scanShelfBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return books, nil
}

// AssignLibrarian records a librarian assignment. The schema enforces one
// librarian per library and one library per user.
// Returns store.ErrAlreadyExists if either side is already assigned.
func (s *Store) AssignLibrarian(ctx context.Context, librarian *domain.Librarian) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO librarians (id, user_id, library_id, created_at)
		VALUES (?, ?, ?, ?)`,
		librarian.ID,
		librarian.UserID,
		librarian.LibraryID,
		formatTime(librarian.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists.WithMessage("librarian assignment already exists")
		}
		return err
	}
	return nil
}

// GetLibrarianForLibrary returns the librarian assigned to a library.
// Returns store.ErrLibrarianNotFound if the library has no librarian.
func (s *Store) GetLibrarianForLibrary(ctx context.Context, libraryID string) (*domain.Librarian, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, library_id, created_at FROM librarians WHERE library_id = ?`,
		libraryID)

	var l domain.Librarian
	var createdAt string

	err := row.Scan(&l.ID, &l.UserID, &l.LibraryID, &createdAt)
	if err == sql.ErrNoRows {
		return nil, store.ErrLibrarianNotFound
	}
	if err != nil {
		return nil, err
	}

	l.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// GetLibrarianForUser returns the librarian assignment for a user.
// Returns store.ErrLibrarianNotFound if the user manages no library.
func (s *Store) GetLibrarianForUser(ctx context.Context, userID string) (*domain.Librarian, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, library_id, created_at FROM librarians WHERE user_id = ?`,
		userID)

	var l domain.Librarian
	var createdAt string

	err := row.Scan(&l.ID, &l.UserID, &l.LibraryID, &createdAt)
	if err == sql.ErrNoRows {
		return nil, store.ErrLibrarianNotFound
	}
	if err != nil {
		return nil, err
	}

	l.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/readstackapp/readstack-server/internal/domain"
	"github.com/readstackapp/readstack-server/internal/store"
)

const shelfBookColumns = `id, title, author, published_year, isbn, category_id, created_at, updated_at`

func scanShelfBook(scanner interface{ Scan(dest ...any) error }) (*domain.ShelfBook, error) {
	var b domain.ShelfBook

	var (
		categoryID sql.NullString
		createdAt  string
		updatedAt  string
	)

	err := scanner.Scan(
		&b.ID,
		&b.Title,
		&b.Author,
		&b.PublishedYear,
		&b.ISBN,
		&categoryID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if categoryID.Valid {
		b.CategoryID = categoryID.String
	}

	b.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	b.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &b, nil
}

// CreateShelfBook inserts a new shelf book.
// Returns store.ErrAlreadyExists if the ISBN is already in use.
func (s *Store) CreateShelfBook(ctx context.Context, book *domain.ShelfBook) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO shelf_books (id, title, author, published_year, isbn, category_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		book.ID,
		book.Title,
		book.Author,
		book.PublishedYear,
		book.ISBN,
		nullString(book.CategoryID),
		formatTime(book.CreatedAt),
		formatTime(book.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists.WithMessage("a book with this ISBN already exists")
		}
		return err
	}
	return nil
}

// GetShelfBook retrieves a shelf book by ID.
// Returns store.ErrShelfBookNotFound if the book does not exist.
func (s *Store) GetShelfBook(ctx context.Context, id string) (*domain.ShelfBook, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+shelfBookColumns+` FROM shelf_books WHERE id = ?`, id)

	b, err := scanShelfBook(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrShelfBookNotFound
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// ListShelfBooks returns shelf books matching the given options.
// Search is a case-insensitive contains match over title and author.
func (s *Store) ListShelfBooks(ctx context.Context, opts domain.ShelfBookListOptions) ([]*domain.ShelfBook, error) {
	query := `SELECT ` + shelfBookColumns + ` FROM shelf_books`

	var (
		where []string
		args  []any
	)

	if opts.CategoryID != "" {
		where = append(where, "category_id = ?")
		args = append(args, opts.CategoryID)
	}
	if opts.Search != "" {
		pattern := "%" + escapeLike(opts.Search) + "%"
		where = append(where, "(title LIKE ? ESCAPE '\\' OR author LIKE ? ESCAPE '\\')")
		args = append(args, pattern, pattern)
	}

	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY " + shelfBookOrderClause(opts.OrderBy, opts.Descending)

	rows, err := s.db.QueryContext(ctx, query, args...)
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

func shelfBookOrderClause(orderBy string, descending bool) string {
	var col string
	switch orderBy {
	case "author":
		col = "author COLLATE NOCASE"
	case "published_year":
		col = "published_year"
	default:
		col = "title COLLATE NOCASE"
	}
	if descending {
		return col + " DESC"
	}
	return col + " ASC"
}

// UpdateShelfBook performs a full row update on an existing shelf book.
// Returns store.ErrShelfBookNotFound if the book does not exist.
func (s *Store) UpdateShelfBook(ctx context.Context, book *domain.ShelfBook) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE shelf_books SET
			title = ?,
			author = ?,
			published_year = ?,
			isbn = ?,
			category_id = ?,
			updated_at = ?
		WHERE id = ?`,
		book.Title,
		book.Author,
		book.PublishedYear,
		book.ISBN,
		nullString(book.CategoryID),
		formatTime(book.UpdatedAt),
		book.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists.WithMessage("a book with this ISBN already exists")
		}
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrShelfBookNotFound
	}
	return nil
}

// DeleteShelfBook removes a shelf book. Library join rows cascade at the
// schema level.
// Returns store.ErrShelfBookNotFound if the book does not exist.
func (s *Store) DeleteShelfBook(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM shelf_books WHERE id = ?`, id)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrShelfBookNotFound
	}
	return nil
}

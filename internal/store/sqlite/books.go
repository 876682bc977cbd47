package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/readstackapp/readstack-server/internal/domain"
	"github.com/readstackapp/readstack-server/internal/store"
)

const bookColumns = `b.id, b.title, b.publication_year, b.author_id, b.created_at, b.updated_at`

func scanBook(scanner interface{ Scan(dest ...any) error }) (*domain.Book, error) {
	var b domain.Book

	var createdAt, updatedAt string

	err := scanner.Scan(
		&b.ID,
		&b.Title,
		&b.PublicationYear,
		&b.AuthorID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
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

// CreateBook inserts a new catalog book.
func (s *Store) CreateBook(ctx context.Context, book *domain.Book) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO books (id, title, publication_year, author_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		book.ID,
		book.Title,
		book.PublicationYear,
		book.AuthorID,
		formatTime(book.CreatedAt),
		formatTime(book.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetBook retrieves a catalog book by ID.
// Returns store.ErrBookNotFound if the book does not exist.
func (s *Store) GetBook(ctx context.Context, id string) (*domain.Book, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+bookColumns+` FROM books b WHERE b.id = ?`, id)

	b, err := scanBook(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrBookNotFound
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// ListBooks returns catalog books matching the given options. Filters are
// AND-combined; Search is a case-insensitive contains match OR-combined
// over the book title and the author name.
func (s *Store) ListBooks(ctx context.Context, opts domain.BookListOptions) ([]*domain.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books b
		JOIN authors a ON a.id = b.author_id`

	var (
		where []string
		args  []any
	)

	if opts.AuthorID != "" {
		where = append(where, "b.author_id = ?")
		args = append(args, opts.AuthorID)
	}
	if opts.PublicationYear != 0 {
		where = append(where, "b.publication_year = ?")
		args = append(args, opts.PublicationYear)
	}
	if opts.Title != "" {
		where = append(where, "b.title LIKE ? ESCAPE '\\'")
		args = append(args, "%"+escapeLike(opts.Title)+"%")
	}
	if opts.Search != "" {
		pattern := "%" + escapeLike(opts.Search) + "%"
		where = append(where, "(b.title LIKE ? ESCAPE '\\' OR a.name LIKE ? ESCAPE '\\')")
		args = append(args, pattern, pattern)
	}

	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY " + bookOrderClause(opts.OrderBy, opts.Descending)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []*domain.Book
	for rows.Next() {
		b, err := scanBook(rows)
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

// bookOrderClause maps a validated sort key to an ORDER BY clause.
// Unknown keys fall back to the default title ordering.
func bookOrderClause(orderBy string, descending bool) string {
	var col string
	switch orderBy {
	case "publication_year":
		col = "b.publication_year"
	case "created_at":
		col = "b.created_at"
	default:
		col = "b.title COLLATE NOCASE"
	}
	if descending {
		return col + " DESC"
	}
	return col + " ASC"
}

// escapeLike escapes LIKE wildcards in user-supplied search text.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}

// GetBooksByAuthor returns all books by the given author, ordered by title.
func (s *Store) GetBooksByAuthor(ctx context.Context, authorID string) ([]*domain.Book, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+bookColumns+` FROM books b WHERE b.author_id = ? ORDER BY b.title COLLATE NOCASE ASC`,
		authorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []*domain.Book
	for rows.Next() {
		b, err := scanBook(rows)
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

// UpdateBook performs a full row update on an existing catalog book.
// Returns store.ErrBookNotFound if the book does not exist.
func (s *Store) UpdateBook(ctx context.Context, book *domain.Book) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE books SET
			title = ?,
			publication_year = ?,
			author_id = ?,
			updated_at = ?
		WHERE id = ?`,
		book.Title,
		book.PublicationYear,
		book.AuthorID,
		formatTime(book.UpdatedAt),
		book.ID,
	)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrBookNotFound
	}
	return nil
}

// DeleteBook removes a catalog book.
// Returns store.ErrBookNotFound if the book does not exist.
func (s *Store) DeleteBook(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM books WHERE id = ?`, id)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrBookNotFound
	}
	return nil
}

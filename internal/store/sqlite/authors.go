package sqlite

import (
	"context"
	"database/sql"

	"github.com/readstackapp/readstack-server/internal/domain"
	"github.com/readstackapp/readstack-server/internal/store"
)

const authorColumns = `id, name, created_at, updated_at`

func scanAuthor(scanner interface{ Scan(dest ...any) error }) (*domain.Author, error) {
	var a domain.Author

	var createdAt, updatedAt string

	err := scanner.Scan(&a.ID, &a.Name, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	a.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	a.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &a, nil
}

// CreateAuthor inserts a new author.
func (s *Store) CreateAuthor(ctx context.Context, author *domain.Author) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO authors (id, name, created_at, updated_at)
		VALUES (?, ?, ?, ?)`,
		author.ID,
		author.Name,
		formatTime(author.CreatedAt),
		formatTime(author.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetAuthor retrieves an author by ID.
// Returns store.ErrAuthorNotFound if the author does not exist.
func (s *Store) GetAuthor(ctx context.Context, id string) (*domain.Author, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+authorColumns+` FROM authors WHERE id = ?`, id)

	a, err := scanAuthor(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrAuthorNotFound
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// ListAuthors returns all authors ordered by name.
func (s *Store) ListAuthors(ctx context.Context) ([]*domain.Author, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+authorColumns+` FROM authors ORDER BY name COLLATE NOCASE ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var authors []*domain.Author
	for rows.Next() {
		a, err := scanAuthor(rows)
		if err != nil {
			return nil, err
		}
		authors = append(authors, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return authors, nil
}

// UpdateAuthor performs a full row update on an existing author.
// Returns store.ErrAuthorNotFound if the author does not exist.
func (s *Store) UpdateAuthor(ctx context.Context, author *domain.Author) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE authors SET name = ?, updated_at = ? WHERE id = ?`,
		author.Name,
		formatTime(author.UpdatedAt),
		author.ID,
	)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrAuthorNotFound
	}
	return nil
}

// DeleteAuthor removes an author. Their books cascade at the schema level.
// Returns store.ErrAuthorNotFound if the author does not exist.
func (s *Store) DeleteAuthor(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM authors WHERE id = ?`, id)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrAuthorNotFound
	}
	return nil
}

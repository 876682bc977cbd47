package sqlite

import (
	"context"
	"database/sql"

	"github.com/readstackapp/readstack-server/internal/domain"
	"github.com/readstackapp/readstack-server/internal/store"
)

const commentColumns = `id, post_id, author_id, content, created_at, updated_at`

func scanComment(scanner interface{ Scan(dest ...any) error }) (*domain.Comment, error) {
	var c domain.Comment

	var createdAt, updatedAt string

	err := scanner.Scan(
		&c.ID,
		&c.PostID,
		&c.AuthorID,
		&c.Content,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	c.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	c.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &c, nil
}

// CreateComment inserts a new comment.
func (s *Store) CreateComment(ctx context.Context, comment *domain.Comment) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO comments (id, post_id, author_id, content, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		comment.ID,
		comment.PostID,
		comment.AuthorID,
		comment.Content,
		formatTime(comment.CreatedAt),
		formatTime(comment.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetComment retrieves a comment by ID.
// Returns store.ErrCommentNotFound if the comment does not exist.
func (s *Store) GetComment(ctx context.Context, id string) (*domain.Comment, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+commentColumns+` FROM comments WHERE id = ?`, id)

	c, err := scanComment(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrCommentNotFound
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// ListCommentsForPost returns a post's comments, oldest first.
func (s *Store) ListCommentsForPost(ctx context.Context, postID string) ([]*domain.Comment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+commentColumns+` FROM comments WHERE post_id = ? ORDER BY created_at ASC`,
		postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []*domain.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return comments, nil
}

// UpdateComment updates a comment's content.
// Returns store.ErrCommentNotFound if the comment does not exist.
func (s *Store) UpdateComment(ctx context.Context, comment *domain.Comment) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE comments SET content = ?, updated_at = ? WHERE id = ?`,
		comment.Content,
		formatTime(comment.UpdatedAt),
		comment.ID,
	)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrCommentNotFound
	}
	return nil
}

// DeleteComment removes a comment.
// Returns store.ErrCommentNotFound if the comment does not exist.
func (s *Store) DeleteComment(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM comments WHERE id = ?`, id)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrCommentNotFound
	}
	return nil
}

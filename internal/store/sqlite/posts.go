package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/readstackapp/readstack-server/internal/domain"
	"github.com/readstackapp/readstack-server/internal/store"
)

const postColumns = `p.id, p.title, p.content, p.author_id, p.published_date, p.updated_at`

func scanPost(scanner interface{ Scan(dest ...any) error }) (*domain.Post, error) {
	var p domain.Post

	var publishedDate, updatedAt string

	err := scanner.Scan(
		&p.ID,
		&p.Title,
		&p.Content,
		&p.AuthorID,
		&publishedDate,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.PublishedDate, err = parseTime(publishedDate)
	if err != nil {
		return nil, err
	}
	p.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &p, nil
}

// CreatePost inserts a new blog post.
func (s *Store) CreatePost(ctx context.Context, post *domain.Post) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO posts (id, title, content, author_id, published_date, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		post.ID,
		post.Title,
		post.Content,
		post.AuthorID,
		formatTime(post.PublishedDate),
		formatTime(post.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetPost retrieves a post by ID.
// Returns store.ErrPostNotFound if the post does not exist.
func (s *Store) GetPost(ctx context.Context, id string) (*domain.Post, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+postColumns+` FROM posts p WHERE p.id = ?`, id)

	p, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrPostNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ListPosts returns posts matching the given options, newest first unless
// OldestFirst is set. TagName joins through post_tags; Search is a
// case-insensitive contains match over title and content.
func (s *Store) ListPosts(ctx context.Context, opts domain.PostListOptions) ([]*domain.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts p`

	var (
		where []string
		args  []any
	)

	if opts.TagName != "" {
		query += ` JOIN post_tags pt ON pt.post_id = p.id
			JOIN tags t ON t.id = pt.tag_id`
		where = append(where, "t.name = ?")
		args = append(args, strings.ToLower(strings.TrimSpace(opts.TagName)))
	}
	if opts.AuthorID != "" {
		where = append(where, "p.author_id = ?")
		args = append(args, opts.AuthorID)
	}
	if opts.Search != "" {
		pattern := "%" + escapeLike(opts.Search) + "%"
		where = append(where, "(p.title LIKE ? ESCAPE '\\' OR p.content LIKE ? ESCAPE '\\')")
		args = append(args, pattern, pattern)
	}

	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	if opts.OldestFirst {
		query += " ORDER BY p.published_date ASC"
	} else {
		query += " ORDER BY p.published_date DESC"
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []*domain.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return posts, nil
}

// UpdatePost performs a full row update on an existing post.
// Returns store.ErrPostNotFound if the post does not exist.
func (s *Store) UpdatePost(ctx context.Context, post *domain.Post) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE posts SET title = ?, content = ?, updated_at = ? WHERE id = ?`,
		post.Title,
		post.Content,
		formatTime(post.UpdatedAt),
		post.ID,
	)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrPostNotFound
	}
	return nil
}

// DeletePost removes a post. Comments and tag join rows cascade at the
// schema level.
// Returns store.ErrPostNotFound if the post does not exist.
func (s *Store) DeletePost(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrPostNotFound
	}
	return nil
}

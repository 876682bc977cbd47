package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/readstackapp/readstack-server/internal/domain"
	"github.com/readstackapp/readstack-server/internal/id"
	"github.com/readstackapp/readstack-server/internal/store"
)

const tagColumns = `id, name, created_at, updated_at`

func scanTag(scanner interface{ Scan(dest ...any) error }) (*domain.Tag, error) {
	var t domain.Tag

	var createdAt, updatedAt string

	err := scanner.Scan(&t.ID, &t.Name, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	t.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	t.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &t, nil
}

// FindOrCreateTagByName returns the tag with the given normalized name,
// creating it if it does not exist. The second return value reports whether
// a new tag row was created. Names are matched case-insensitively, so
// concurrent creates of "go" and "Go" converge on one row.
func (s *Store) FindOrCreateTagByName(ctx context.Context, name string) (*domain.Tag, bool, error) {
	name = strings.ToLower(strings.TrimSpace(name))

	tag, err := s.GetTagByName(ctx, name)
	if err == nil {
		return tag, false, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, false, err
	}

	now := time.Now()
	tagID, err := id.Generate(id.PrefixTag)
	if err != nil {
		return nil, false, err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO tags (id, name, created_at, updated_at)
		VALUES (?, ?, ?, ?)`,
		tagID, name, formatTime(now), formatTime(now))
	if err != nil {
		if isUniqueViolation(err) {
			// Lost a create race; the row exists now.
			tag, err := s.GetTagByName(ctx, name)
			return tag, false, err
		}
		return nil, false, err
	}

	return &domain.Tag{
		ID:        tagID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}, true, nil
}

// GetTagByName retrieves a tag by its normalized name (case-insensitive).
// Returns store.ErrTagNotFound if the tag does not exist.
func (s *Store) GetTagByName(ctx context.Context, name string) (*domain.Tag, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+tagColumns+` FROM tags WHERE name = ?`,
		strings.ToLower(strings.TrimSpace(name)))

	t, err := scanTag(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrTagNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// ListTags returns all tags ordered by name.
func (s *Store) ListTags(ctx context.Context) ([]*domain.Tag, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+tagColumns+` FROM tags ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []*domain.Tag
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tags, nil
}

// SetPostTags replaces the post's tag set with the given tag IDs in one
// transaction.
func (s *Store) SetPostTags(ctx context.Context, postID string, tagIDs []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM post_tags WHERE post_id = ?`, postID); err != nil {
		return err
	}

	now := formatTime(time.Now())
	for _, tagID := range tagIDs {
		if _, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO post_tags (post_id, tag_id, created_at)
			VALUES (?, ?, ?)`,
			postID, tagID, now); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetTagsForPost returns a post's tags ordered by name.
func (s *Store) GetTagsForPost(ctx context.Context, postID string) ([]*domain.Tag, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.id, t.name, t.created_at, t.updated_at
		FROM tags t
		JOIN post_tags pt ON pt.tag_id = t.id
		WHERE pt.post_id = ?
		ORDER BY t.name ASC`,
		postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []*domain.Tag
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tags, nil
}

// GetPostIDsForTag returns the IDs of posts carrying the given tag.
func (s *Store) GetPostIDsForTag(ctx context.Context, tagID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT post_id FROM post_tags WHERE tag_id = ?`, tagID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var postID string
		if err := rows.Scan(&postID); err != nil {
			return nil, err
		}
		ids = append(ids, postID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

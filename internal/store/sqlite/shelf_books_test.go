package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/readstackapp/readstack-server/internal/domain"
	"github.com/readstackapp/readstack-server/internal/store"
)

func insertTestCategory(t *testing.T, s *Store, id, name string) {
	t.Helper()
	c := &domain.Category{
		ID:        id,
		Name:      name,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := s.CreateCategory(context.Background(), c); err != nil {
		t.Fatalf("insert test category: %v", err)
	}
}

func insertTestShelfBook(t *testing.T, s *Store, id, title, author, isbn, categoryID string) {
	t.Helper()
	b := &domain.ShelfBook{
		ID:            id,
		Title:         title,
		Author:        author,
		PublishedYear: 2000,
		ISBN:          isbn,
		CategoryID:    categoryID,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	if err := s.CreateShelfBook(context.Background(), b); err != nil {
		t.Fatalf("insert test shelf book: %v", err)
	}
}

func TestCreateShelfBook_DuplicateISBN(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestShelfBook(t, s, "shb_1", "Dune", "Frank Herbert", "9780441013593", "")

	dup := &domain.ShelfBook{
		ID:            "shb_2",
		Title:         "Dune (another copy)",
		Author:        "Frank Herbert",
		PublishedYear: 1965,
		ISBN:          "9780441013593",
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	err := s.CreateShelfBook(ctx, dup)
	if !errors.Is(err, store.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestShelfBook_NullableCategory(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestShelfBook(t, s, "shb_1", "Dune", "Frank Herbert", "9780441013593", "")

	got, err := s.GetShelfBook(ctx, "shb_1")
	if err != nil {
		t.Fatalf("GetShelfBook: %v", err)
	}
	if got.CategoryID != "" {
		t.Errorf("expected empty category, got %q", got.CategoryID)
	}
}

func TestDeleteCategory_ClearsShelfBookReference(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestCategory(t, s, "cat_1", "Science Fiction")
	insertTestShelfBook(t, s, "shb_1", "Dune", "Frank Herbert", "9780441013593", "cat_1")

	if err := s.DeleteCategory(ctx, "cat_1"); err != nil {
		t.Fatalf("DeleteCategory: %v", err)
	}

	// ON DELETE SET NULL: the book survives, category cleared.
	got, err := s.GetShelfBook(ctx, "shb_1")
	if err != nil {
		t.Fatalf("GetShelfBook after category delete: %v", err)
	}
	if got.CategoryID != "" {
		t.Errorf("category should be cleared, got %q", got.CategoryID)
	}
}

func TestCreateCategory_DuplicateNameCaseInsensitive(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestCategory(t, s, "cat_1", "Fantasy")

	dup := &domain.Category{
		ID:        "cat_2",
		Name:      "FANTASY",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	err := s.CreateCategory(ctx, dup)
	if !errors.Is(err, store.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestListShelfBooks_FilterAndSearch(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestCategory(t, s, "cat_1", "Science Fiction")
	insertTestShelfBook(t, s, "shb_1", "Dune", "Frank Herbert", "9780441013593", "cat_1")
	insertTestShelfBook(t, s, "shb_2", "Hyperion", "Dan Simmons", "9780553283686", "cat_1")
	insertTestShelfBook(t, s, "shb_3", "Circe", "Madeline Miller", "9780316556347", "")

	byCategory, err := s.ListShelfBooks(ctx, domain.ShelfBookListOptions{CategoryID: "cat_1"})
	if err != nil {
		t.Fatalf("ListShelfBooks by category: %v", err)
	}
	if len(byCategory) != 2 {
		t.Fatalf("expected 2 books in category, got %d", len(byCategory))
	}

	byAuthor, err := s.ListShelfBooks(ctx, domain.ShelfBookListOptions{Search: "simmons"})
	if err != nil {
		t.Fatalf("ListShelfBooks search: %v", err)
	}
	if len(byAuthor) != 1 || byAuthor[0].ID != "shb_2" {
		t.Fatalf("search over author failed, got %v", byAuthor)
	}
}

func TestListShelfBooks_Ordering(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestShelfBook(t, s, "shb_1", "Zorba the Greek", "Nikos Kazantzakis", "111", "")
	insertTestShelfBook(t, s, "shb_2", "Anna Karenina", "Leo Tolstoy", "222", "")

	got, err := s.ListShelfBooks(ctx, domain.ShelfBookListOptions{})
	if err != nil {
		t.Fatalf("ListShelfBooks: %v", err)
	}
	if got[0].Title != "Anna Karenina" {
		t.Errorf("default title ordering broken, got %q first", got[0].Title)
	}

	desc, err := s.ListShelfBooks(ctx, domain.ShelfBookListOptions{OrderBy: "title", Descending: true})
	if err != nil {
		t.Fatalf("ListShelfBooks desc: %v", err)
	}
	if desc[0].Title != "Zorba the Greek" {
		t.Errorf("descending title ordering broken, got %q first", desc[0].Title)
	}
}

package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/readstackapp/readstack-server/internal/domain"
	domainerrors "github.com/readstackapp/readstack-server/internal/errors"
)

func TestCatalogService_AnonymousReadsAllowed(t *testing.T) {
	svc := setupServices(t)
	ctx := context.Background()

	user := registerUser(t, svc, "alice@example.com")
	author, err := svc.Catalog.CreateAuthor(ctx, user, CreateAuthorRequest{Name: "Ursula K. Le Guin"})
	require.NoError(t, err)

	// nil principal: reads are open.
	authors, err := svc.Catalog.ListAuthors(ctx)
	require.NoError(t, err)
	assert.Len(t, authors, 1)

	detail, err := svc.Catalog.GetAuthor(ctx, author.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ursula K. Le Guin", detail.Author.Name)
}

func TestCatalogService_AnonymousWritesDenied(t *testing.T) {
	svc := setupServices(t)
	ctx := context.Background()

	_, err := svc.Catalog.CreateAuthor(ctx, nil, CreateAuthorRequest{Name: "Nobody"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrAuthRequired)

	err = svc.Catalog.DeleteAuthor(ctx, nil, "auth-x")
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrAuthRequired)
}

func TestCatalogService_CreateBook_FutureYearRejected(t *testing.T) {
	svc := setupServices(t)
	ctx := context.Background()

	user := registerUser(t, svc, "alice@example.com")
	author, err := svc.Catalog.CreateAuthor(ctx, user, CreateAuthorRequest{Name: "Ursula K. Le Guin"})
	require.NoError(t, err)

	_, err = svc.Catalog.CreateBook(ctx, user, CreateBookRequest{
		Title:           "From the Future",
		PublicationYear: time.Now().Year() + 1,
		AuthorID:        author.ID,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	// The current year is fine.
	book, err := svc.Catalog.CreateBook(ctx, user, CreateBookRequest{
		Title:           "Fresh Off the Press",
		PublicationYear: time.Now().Year(),
		AuthorID:        author.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, time.Now().Year(), book.PublicationYear)
}

func TestCatalogService_CreateBook_UnknownAuthor(t *testing.T) {
	svc := setupServices(t)
	ctx := context.Background()

	user := registerUser(t, svc, "alice@example.com")

	_, err := svc.Catalog.CreateBook(ctx, user, CreateBookRequest{
		Title:           "Orphan Book",
		PublicationYear: 2001,
		AuthorID:        "auth-missing",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestCatalogService_GetAuthor_EmbedsBooks(t *testing.T) {
	svc := setupServices(t)
	ctx := context.Background()

	user := registerUser(t, svc, "alice@example.com")
	author, err := svc.Catalog.CreateAuthor(ctx, user, CreateAuthorRequest{Name: "Ursula K. Le Guin"})
	require.NoError(t, err)

	for _, title := range []string{"The Dispossessed", "The Left Hand of Darkness"} {
		_, err := svc.Catalog.CreateBook(ctx, user, CreateBookRequest{
			Title:           title,
			PublicationYear: 1974,
			AuthorID:        author.ID,
		})
		require.NoError(t, err)
	}

	detail, err := svc.Catalog.GetAuthor(ctx, author.ID)
	require.NoError(t, err)
	assert.Len(t, detail.Books, 2)
}

func TestCatalogService_UpdateBook_Partial(t *testing.T) {
	svc := setupServices(t)
	ctx := context.Background()

	user := registerUser(t, svc, "alice@example.com")
	author, err := svc.Catalog.CreateAuthor(ctx, user, CreateAuthorRequest{Name: "Ursula K. Le Guin"})
	require.NoError(t, err)
	book, err := svc.Catalog.CreateBook(ctx, user, CreateBookRequest{
		Title:           "The Disposessed",
		PublicationYear: 1974,
		AuthorID:        author.ID,
	})
	require.NoError(t, err)

	fixed := "The Dispossessed"
	updated, err := svc.Catalog.UpdateBook(ctx, user, book.ID, UpdateBookRequest{Title: &fixed})
	require.NoError(t, err)
	assert.Equal(t, fixed, updated.Title)
	// Untouched fields survive.
	assert.Equal(t, 1974, updated.PublicationYear)
	assert.Equal(t, author.ID, updated.AuthorID)
}

func TestCatalogService_ListBooks_UnknownOrdering(t *testing.T) {
	svc := setupServices(t)
	ctx := context.Background()

	_, err := svc.Catalog.ListBooks(ctx, domain.BookListOptions{OrderBy: "price"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestCatalogService_DeleteAuthor_CascadesBooks(t *testing.T) {
	svc := setupServices(t)
	ctx := context.Background()

	user := registerUser(t, svc, "alice@example.com")
	author, err := svc.Catalog.CreateAuthor(ctx, user, CreateAuthorRequest{Name: "Ursula K. Le Guin"})
	require.NoError(t, err)
	book, err := svc.Catalog.CreateBook(ctx, user, CreateBookRequest{
		Title:           "The Dispossessed",
		PublicationYear: 1974,
		AuthorID:        author.ID,
	})
	require.NoError(t, err)

	require.NoError(t, svc.Catalog.DeleteAuthor(ctx, user, author.ID))

	_, err = svc.Catalog.GetBook(ctx, book.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

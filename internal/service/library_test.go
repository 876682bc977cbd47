package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/readstackapp/readstack-server/internal/domain"
	domainerrors "github.com/readstackapp/readstack-server/internal/errors"
)

func setupLibraryTest(t *testing.T) (*Services, *domain.User) {
	t.Helper()
	svc := setupServices(t)
	member := registerUser(t, svc, "editor@example.com")
	return svc, withCapabilities(member, domain.AllCapabilities())
}

func TestLibraryService_AddAndRemoveBook(t *testing.T) {
	svc, editor := setupLibraryTest(t)
	ctx := context.Background()

	library, err := svc.Library.CreateLibrary(ctx, editor, CreateLibraryRequest{
		Name:     "Central Library",
		Location: "Main St 1",
	})
	require.NoError(t, err)

	book, err := svc.Shelf.CreateShelfBook(ctx, editor, CreateShelfBookRequest{
		Title:         "Dune",
		Author:        "Frank Herbert",
		PublishedYear: 1965,
		ISBN:          "9780441013593",
	})
	require.NoError(t, err)

	row, err := svc.Library.AddBook(ctx, editor, library.ID, book.ID)
	require.NoError(t, err)
	assert.False(t, row.DateAdded.IsZero())

	// Same pair again is a conflict.
	_, err = svc.Library.AddBook(ctx, editor, library.ID, book.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrConflict)

	detail, err := svc.Library.GetLibrary(ctx, editor, library.ID)
	require.NoError(t, err)
	assert.Len(t, detail.Books, 1)

	require.NoError(t, svc.Library.RemoveBook(ctx, editor, library.ID, book.ID))

	// The shelf book survives removal from the library.
	_, err = svc.Shelf.GetShelfBook(ctx, editor, book.ID)
	require.NoError(t, err)
}

func TestLibraryService_AssignLibrarian(t *testing.T) {
	svc, editor := setupLibraryTest(t)
	ctx := context.Background()

	other := registerUser(t, svc, "librarian@example.com")

	library, err := svc.Library.CreateLibrary(ctx, editor, CreateLibraryRequest{Name: "Central Library"})
	require.NoError(t, err)
	second, err := svc.Library.CreateLibrary(ctx, editor, CreateLibraryRequest{Name: "East Branch"})
	require.NoError(t, err)

	librarian, err := svc.Library.AssignLibrarian(ctx, editor, library.ID, AssignLibrarianRequest{UserID: other.ID})
	require.NoError(t, err)
	assert.Equal(t, other.ID, librarian.UserID)

	// The assignment switches the user's role.
	assigned, err := svc.Auth.GetUser(ctx, other.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleLibrarian, assigned.Role)

	// One librarian per library.
	_, err = svc.Library.AssignLibrarian(ctx, editor, library.ID, AssignLibrarianRequest{UserID: editor.ID})
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrConflict)

	// One library per user.
	_, err = svc.Library.AssignLibrarian(ctx, editor, second.ID, AssignLibrarianRequest{UserID: other.ID})
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrConflict)
}

func TestLibraryService_DeleteLibrary_KeepsShelfBooks(t *testing.T) {
	svc, editor := setupLibraryTest(t)
	ctx := context.Background()

	library, err := svc.Library.CreateLibrary(ctx, editor, CreateLibraryRequest{Name: "Central Library"})
	require.NoError(t, err)
	book, err := svc.Shelf.CreateShelfBook(ctx, editor, CreateShelfBookRequest{
		Title:         "Dune",
		Author:        "Frank Herbert",
		PublishedYear: 1965,
		ISBN:          "9780441013593",
	})
	require.NoError(t, err)
	_, err = svc.Library.AddBook(ctx, editor, library.ID, book.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Library.DeleteLibrary(ctx, editor, library.ID))

	_, err = svc.Shelf.GetShelfBook(ctx, editor, book.ID)
	require.NoError(t, err)
}

// Package store defines the persistence interface for the ReadStack server.
package store

import (
	"context"
	"time"

	"github.com/readstackapp/readstack-server/internal/domain"
)

// Store defines the interface for all persistence operations.
type Store interface {
	// Lifecycle
	Ping(ctx context.Context) error
	Close() error

	// Users
	CreateUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateUser(ctx context.Context, user *domain.User) error
	ListUsers(ctx context.Context) ([]*domain.User, error)
	DeleteUser(ctx context.Context, id string) error

	// Auth sessions
	CreateSession(ctx context.Context, session *domain.Session) error
	GetSessionByRefreshToken(ctx context.Context, tokenHash string) (*domain.Session, error)
	UpdateSession(ctx context.Context, session *domain.Session) error
	DeleteSession(ctx context.Context, id string) error
	DeleteAllUserSessions(ctx context.Context, userID string) error
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int, error)

	// Catalog authors
	CreateAuthor(ctx context.Context, author *domain.Author) error
	GetAuthor(ctx context.Context, id string) (*domain.Author, error)
	ListAuthors(ctx context.Context) ([]*domain.Author, error)
	UpdateAuthor(ctx context.Context, author *domain.Author) error
	DeleteAuthor(ctx context.Context, id string) error

	// Catalog books
	CreateBook(ctx context.Context, book *domain.Book) error
	GetBook(ctx context.Context, id string) (*domain.Book, error)
	ListBooks(ctx context.Context, opts domain.BookListOptions) ([]*domain.Book, error)
	GetBooksByAuthor(ctx context.Context, authorID string) ([]*domain.Book, error)
	UpdateBook(ctx context.Context, book *domain.Book) error
	DeleteBook(ctx context.Context, id string) error

	// Shelf categories
	CreateCategory(ctx context.Context, category *domain.Category) error
	GetCategory(ctx context.Context, id string) (*domain.Category, error)
	ListCategories(ctx context.Context) ([]*domain.Category, error)
	DeleteCategory(ctx context.Context, id string) error

	// Shelf books
	CreateShelfBook(ctx context.Context, book *domain.ShelfBook) error
	GetShelfBook(ctx context.Context, id string) (*domain.ShelfBook, error)
	ListShelfBooks(ctx context.Context, opts domain.ShelfBookListOptions) ([]*domain.ShelfBook, error)
	UpdateShelfBook(ctx context.Context, book *domain.ShelfBook) error
	DeleteShelfBook(ctx context.Context, id string) error

	// Libraries
	CreateLibrary(ctx context.Context, library *domain.Library) error
	GetLibrary(ctx context.Context, id string) (*domain.Library, error)
	ListLibraries(ctx context.Context) ([]*domain.Library, error)
	UpdateLibrary(ctx context.Context, library *domain.Library) error
	DeleteLibrary(ctx context.Context, id string) error
	AddBookToLibrary(ctx context.Context, row *domain.LibraryBook) error
	RemoveBookFromLibrary(ctx context.Context, libraryID, bookID string) error
	ListLibraryBooks(ctx context.Context, libraryID string) ([]*domain.ShelfBook, error)
	AssignLibrarian(ctx context.Context, librarian *domain.Librarian) error
	GetLibrarianForLibrary(ctx context.Context, libraryID string) (*domain.Librarian, error)
	GetLibrarianForUser(ctx context.Context, userID string) (*domain.Librarian, error)

	// Blog posts
	CreatePost(ctx context.Context, post *domain.Post) error
	GetPost(ctx context.Context, id string) (*domain.Post, error)
	ListPosts(ctx context.Context, opts domain.PostListOptions) ([]*domain.Post, error)
	UpdatePost(ctx context.Context, post *domain.Post) error
	DeletePost(ctx context.Context, id string) error

	// Comments
	CreateComment(ctx context.Context, comment *domain.Comment) error
	GetComment(ctx context.Context, id string) (*domain.Comment, error)
	ListCommentsForPost(ctx context.Context, postID string) ([]*domain.Comment, error)
	UpdateComment(ctx context.Context, comment *domain.Comment) error
	DeleteComment(ctx context.Context, id string) error

	// Tags
	FindOrCreateTagByName(ctx context.Context, name string) (*domain.Tag, bool, error)
	GetTagByName(ctx context.Context, name string) (*domain.Tag, error)
	ListTags(ctx context.Context) ([]*domain.Tag, error)
	SetPostTags(ctx context.Context, postID string, tagIDs []string) error
	GetTagsForPost(ctx context.Context, postID string) ([]*domain.Tag, error)
	GetPostIDsForTag(ctx context.Context, tagID string) ([]string, error)
}

// Package main provides a tool to seed the database with demo data.
//
// It creates a demo admin, librarian, and member, a small catalog, a
// categorized bookshelf with one library, and a handful of tagged posts.
//
// Usage:
//
//	DATA_DIR=~/ReadStack go run ./cmd/seed
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/readstackapp/readstack-server/internal/auth"
	"github.com/readstackapp/readstack-server/internal/domain"
	"github.com/readstackapp/readstack-server/internal/id"
	"github.com/readstackapp/readstack-server/internal/logger"
	"github.com/readstackapp/readstack-server/internal/store/sqlite"
)

var password = flag.String("password", "readstack-demo", "Password for every seeded user")

func main() {
	flag.Parse()

	dataDir := os.Getenv("DATA_DIR")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			log.Fatalf("Failed to resolve home directory: %v", err)
		}
		dataDir = filepath.Join(home, "ReadStack")
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		log.Fatalf("Failed to create data dir: %v", err)
	}

	dbPath := filepath.Join(dataDir, "readstack.db")
	fmt.Printf("Opening database at: %s\n", dbPath)

	quiet := logger.New(logger.Config{Writer: os.Stderr, Level: logger.ParseLevel("error")})
	s, err := sqlite.Open(dbPath, quiet)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	ctx := context.Background()

	admin := seedUser(ctx, s, "admin@readstack.local", "Demo Admin", domain.RoleAdmin, true, domain.AllCapabilities())
	librarian := seedUser(ctx, s, "librarian@readstack.local", "Demo Librarian", domain.RoleLibrarian, false, domain.AllCapabilities())
	member := seedUser(ctx, s, "member@readstack.local", "Demo Member", domain.RoleMember, false, domain.DefaultCapabilities())

	seedCatalog(ctx, s)
	libraryID := seedShelf(ctx, s)
	seedLibrarian(ctx, s, librarian.ID, libraryID)
	seedBlog(ctx, s, admin.ID, member.ID)

	fmt.Println("Seed complete.")
	fmt.Printf("Login with admin@readstack.local / %s\n", *password)
}

func seedUser(ctx context.Context, s *sqlite.Store, email, name string, role domain.Role, root bool, caps domain.Capabilities) *domain.User {
	hash, err := auth.HashPassword(*password)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	userID := id.MustGenerate(id.PrefixUser)
	now := time.Now()
	user := &domain.User{
		ID:           userID,
		Email:        email,
		PasswordHash: hash,
		DisplayName:  name,
		Role:         role,
		IsRoot:       root,
		Capabilities: caps,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.CreateUser(ctx, user); err != nil {
		log.Fatalf("Failed to create user %s: %v", email, err)
	}

	fmt.Printf("Created %s user: %s\n", role, email)
	return user
}

func seedCatalog(ctx context.Context, s *sqlite.Store) {
	books := map[string][]struct {
		title string
		year  int
	}{
		"Ursula K. Le Guin": {
			{"A Wizard of Earthsea", 1968},
			{"The Dispossessed", 1974},
		},
		"Italo Calvino": {
			{"Invisible Cities", 1972},
		},
		"Octavia E. Butler": {
			{"Kindred", 1979},
			{"Parable of the Sower", 1993},
		},
	}

	now := time.Now()
	for name, titles := range books {
		author := &domain.Author{
			ID:        id.MustGenerate(id.PrefixAuthor),
			Name:      name,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.CreateAuthor(ctx, author); err != nil {
			log.Fatalf("Failed to create author %s: %v", name, err)
		}

		for _, b := range titles {
			book := &domain.Book{
				ID:              id.MustGenerate(id.PrefixBook),
				Title:           b.title,
				PublicationYear: b.year,
				AuthorID:        author.ID,
				CreatedAt:       now,
				UpdatedAt:       now,
			}
			if err := s.CreateBook(ctx, book); err != nil {
				log.Fatalf("Failed to create book %s: %v", b.title, err)
			}
		}
	}

	fmt.Println("Seeded catalog authors and books")
}

func seedShelf(ctx context.Context, s *sqlite.Store) string {
	now := time.Now()

	fiction := &domain.Category{
		ID:        id.MustGenerate(id.PrefixCategory),
		Name:      "fiction",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.CreateCategory(ctx, fiction); err != nil {
		log.Fatalf("Failed to create category: %v", err)
	}

	shelfBooks := []*domain.ShelfBook{
		{
			ID:            id.MustGenerate(id.PrefixShelfBook),
			Title:         "The Left Hand of Darkness",
			Author:        "Ursula K. Le Guin",
			PublishedYear: 1969,
			ISBN:          "9780441478125",
			CategoryID:    fiction.ID,
		},
		{
			ID:            id.MustGenerate(id.PrefixShelfBook),
			Title:         "If on a winter's night a traveler",
			Author:        "Italo Calvino",
			PublishedYear: 1979,
			ISBN:          "9780156439619",
			CategoryID:    fiction.ID,
		},
	}
	for _, b := range shelfBooks {
		b.CreatedAt = now
		b.UpdatedAt = now
		if err := s.CreateShelfBook(ctx, b); err != nil {
			log.Fatalf("Failed to create shelf book %s: %v", b.Title, err)
		}
	}

	library := &domain.Library{
		ID:        id.MustGenerate(id.PrefixLibrary),
		Name:      "Main Street Library",
		Location:  "12 Main Street",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.CreateLibrary(ctx, library); err != nil {
		log.Fatalf("Failed to create library: %v", err)
	}

	for _, b := range shelfBooks {
		row := &domain.LibraryBook{
			ID:        id.MustGenerate(id.PrefixLibraryBook),
			LibraryID: library.ID,
			BookID:    b.ID,
			DateAdded: now,
		}
		if err := s.AddBookToLibrary(ctx, row); err != nil {
			log.Fatalf("Failed to add book to library: %v", err)
		}
	}

	fmt.Println("Seeded shelf, category, and library")
	return library.ID
}

func seedLibrarian(ctx context.Context, s *sqlite.Store, userID, libraryID string) {
	librarian := &domain.Librarian{
		ID:        id.MustGenerate(id.PrefixLibrarian),
		UserID:    userID,
		LibraryID: libraryID,
		CreatedAt: time.Now(),
	}
	if err := s.AssignLibrarian(ctx, librarian); err != nil {
		log.Fatalf("Failed to assign librarian: %v", err)
	}

	fmt.Println("Assigned demo librarian")
}

func seedBlog(ctx context.Context, s *sqlite.Store, adminID, memberID string) {
	now := time.Now()

	post := &domain.Post{
		ID:            id.MustGenerate(id.PrefixPost),
		Title:         "Welcome to ReadStack",
		Content:       "A catalog, a bookshelf, and a blog, all in one place.",
		AuthorID:      adminID,
		PublishedDate: now,
		UpdatedAt:     now,
	}
	if err := s.CreatePost(ctx, post); err != nil {
		log.Fatalf("Failed to create post: %v", err)
	}

	var tagIDs []string
	for _, name := range []string{"announcements", "reading"} {
		tag, _, err := s.FindOrCreateTagByName(ctx, name)
		if err != nil {
			log.Fatalf("Failed to create tag %s: %v", name, err)
		}
		tagIDs = append(tagIDs, tag.ID)
	}
	if err := s.SetPostTags(ctx, post.ID, tagIDs); err != nil {
		log.Fatalf("Failed to tag post: %v", err)
	}

	comment := &domain.Comment{
		ID:        id.MustGenerate(id.PrefixComment),
		PostID:    post.ID,
		AuthorID:  memberID,
		Content:   "Looking forward to it!",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.CreateComment(ctx, comment); err != nil {
		log.Fatalf("Failed to create comment: %v", err)
	}

	fmt.Println("Seeded blog post, tags, and comment")
}


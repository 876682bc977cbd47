package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/readstackapp/readstack-server/internal/authz"
	"github.com/readstackapp/readstack-server/internal/domain"
	"github.com/readstackapp/readstack-server/internal/store"
)

// Dashboards are role-gated pages: the principal's role must exactly match,
// so an admin asking for the librarian dashboard gets a 403. They read the
// store directly because the numbers they show cut across services.

func (s *Server) registerDashboardRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "adminDashboard",
		Method:      http.MethodGet,
		Path:        "/api/v1/dashboard/admin",
		Summary:     "Admin dashboard",
		Description: "Returns instance-wide counts. Requires the admin role.",
		Tags:        []string{"Dashboards"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleAdminDashboard)

	huma.Register(s.api, huma.Operation{
		OperationID: "librarianDashboard",
		Method:      http.MethodGet,
		Path:        "/api/v1/dashboard/librarian",
		Summary:     "Librarian dashboard",
		Description: "Returns the caller's managed library. Requires the librarian role.",
		Tags:        []string{"Dashboards"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleLibrarianDashboard)

	huma.Register(s.api, huma.Operation{
		OperationID: "memberDashboard",
		Method:      http.MethodGet,
		Path:        "/api/v1/dashboard/member",
		Summary:     "Member dashboard",
		Description: "Returns the caller's profile and activity. Requires the member role.",
		Tags:        []string{"Dashboards"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleMemberDashboard)
}

// === DTOs ===

// DashboardInput contains parameters for the dashboard endpoints.
type DashboardInput struct {
	Authorization string `header:"Authorization"`
}

// AdminDashboardResponse contains instance-wide counts.
type AdminDashboardResponse struct {
	Users      int `json:"users" doc:"Registered users"`
	Authors    int `json:"authors" doc:"Catalog authors"`
	Books      int `json:"books" doc:"Catalog books"`
	ShelfBooks int `json:"shelf_books" doc:"Books on the shelf"`
	Categories int `json:"categories" doc:"Shelf categories"`
	Libraries  int `json:"libraries" doc:"Libraries"`
	Posts      int `json:"posts" doc:"Blog posts"`
	Tags       int `json:"tags" doc:"Tags in use"`
}

// AdminDashboardOutput wraps the admin dashboard response for Huma.
type AdminDashboardOutput struct {
	Body AdminDashboardResponse
}

// LibrarianDashboardResponse contains the caller's managed library.
type LibrarianDashboardResponse struct {
	Library LibraryResponse     `json:"library" doc:"Managed library"`
	Books   []ShelfBookResponse `json:"books" doc:"Holdings of the managed library"`
}

// LibrarianDashboardOutput wraps the librarian dashboard response for Huma.
type LibrarianDashboardOutput struct {
	Body LibrarianDashboardResponse
}

// MemberDashboardResponse contains the caller's profile and activity.
type MemberDashboardResponse struct {
	User  UserResponse `json:"user" doc:"Caller's profile"`
	Posts int          `json:"posts" doc:"Posts written by the caller"`
}

// MemberDashboardOutput wraps the member dashboard response for Huma.
type MemberDashboardOutput struct {
	Body MemberDashboardResponse
}

// === Handlers ===

func (s *Server) handleAdminDashboard(ctx context.Context, input *DashboardInput) (*AdminDashboardOutput, error) {
	principal, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}
	if err := authz.RoleGate(principal, domain.RoleAdmin); err != nil {
		return nil, err
	}

	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	authors, err := s.store.ListAuthors(ctx)
	if err != nil {
		return nil, err
	}
	books, err := s.store.ListBooks(ctx, domain.BookListOptions{})
	if err != nil {
		return nil, err
	}
	shelfBooks, err := s.store.ListShelfBooks(ctx, domain.ShelfBookListOptions{})
	if err != nil {
		return nil, err
	}
	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	libraries, err := s.store.ListLibraries(ctx)
	if err != nil {
		return nil, err
	}
	posts, err := s.store.ListPosts(ctx, domain.PostListOptions{})
	if err != nil {
		return nil, err
	}
	tags, err := s.store.ListTags(ctx)
	if err != nil {
		return nil, err
	}

	return &AdminDashboardOutput{
		Body: AdminDashboardResponse{
			Users:      len(users),
			Authors:    len(authors),
			Books:      len(books),
			ShelfBooks: len(shelfBooks),
			Categories: len(categories),
			Libraries:  len(libraries),
			Posts:      len(posts),
			Tags:       len(tags),
		},
	}, nil
}

func (s *Server) handleLibrarianDashboard(ctx context.Context, input *DashboardInput) (*LibrarianDashboardOutput, error) {
	principal, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}
	if err := authz.RoleGate(principal, domain.RoleLibrarian); err != nil {
		return nil, err
	}

	assignment, err := s.store.GetLibrarianForUser(ctx, principal.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, huma.Error404NotFound("no library assigned")
		}
		return nil, err
	}

	library, err := s.store.GetLibrary(ctx, assignment.LibraryID)
	if err != nil {
		return nil, err
	}

	holdings, err := s.store.ListLibraryBooks(ctx, library.ID)
	if err != nil {
		return nil, err
	}

	books := make([]ShelfBookResponse, len(holdings))
	for i, b := range holdings {
		books[i] = toShelfBookResponse(b)
	}

	return &LibrarianDashboardOutput{
		Body: LibrarianDashboardResponse{
			Library: toLibraryResponse(library),
			Books:   books,
		},
	}, nil
}

func (s *Server) handleMemberDashboard(ctx context.Context, input *DashboardInput) (*MemberDashboardOutput, error) {
	principal, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}
	if err := authz.RoleGate(principal, domain.RoleMember); err != nil {
		return nil, err
	}

	posts, err := s.store.ListPosts(ctx, domain.PostListOptions{AuthorID: principal.ID})
	if err != nil {
		return nil, err
	}

	return &MemberDashboardOutput{
		Body: MemberDashboardResponse{
			User:  toUserResponse(principal),
			Posts: len(posts),
		},
	}, nil
}

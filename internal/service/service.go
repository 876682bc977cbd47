// Package service contains the business logic for the ReadStack server.
// Services validate requests, evaluate access rules, and orchestrate the
// store. Handlers stay thin and never mutate on a denial.
package service

import (
	"github.com/readstackapp/readstack-server/internal/auth"
	"github.com/readstackapp/readstack-server/internal/logger"
	"github.com/readstackapp/readstack-server/internal/store"
	"github.com/readstackapp/readstack-server/internal/validation"
)

// validate is the shared request validator. It knows the JSON tag names and
// the custom pastyear/isbn rules.
var validate = validation.New()

// Services bundles all services for dependency injection.
type Services struct {
	Auth    *AuthService
	Catalog *CatalogService
	Shelf   *ShelfService
	Library *LibraryService
	Blog    *BlogService
}

// New creates all services sharing the same store and logger.
func New(s store.Store, tokens *auth.TokenService, log *logger.Logger) *Services {
	return &Services{
		Auth:    NewAuthService(s, tokens, log),
		Catalog: NewCatalogService(s, log),
		Shelf:   NewShelfService(s, log),
		Library: NewLibraryService(s, log),
		Blog:    NewBlogService(s, log),
	}
}

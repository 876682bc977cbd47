package api

import (
	"context"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/readstackapp/readstack-server/internal/domain"
)

// authenticateRequest validates the Authorization header and returns the
// authenticated user. Every failure maps to a 401.
func (s *Server) authenticateRequest(ctx context.Context, authHeader string) (*domain.User, error) {
	if authHeader == "" {
		return nil, huma.Error401Unauthorized("Missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, huma.Error401Unauthorized("Invalid authorization header format")
	}

	user, err := s.services.Auth.VerifyAccessToken(ctx, parts[1])
	if err != nil {
		return nil, huma.Error401Unauthorized("Invalid or expired token")
	}

	return user, nil
}

// optionalPrincipal resolves the Authorization header on endpoints that are
// open to anonymous callers. A missing header yields a nil principal rather
// than an error; a present but invalid token is still rejected so a caller
// never silently downgrades to anonymous.
func (s *Server) optionalPrincipal(ctx context.Context, authHeader string) (*domain.User, error) {
	if authHeader == "" {
		return nil, nil
	}
	return s.authenticateRequest(ctx, authHeader)
}

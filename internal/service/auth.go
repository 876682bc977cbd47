package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/readstackapp/readstack-server/internal/auth"
	"github.com/readstackapp/readstack-server/internal/domain"
	domainerrors "github.com/readstackapp/readstack-server/internal/errors"
	"github.com/readstackapp/readstack-server/internal/id"
	"github.com/readstackapp/readstack-server/internal/logger"
	"github.com/readstackapp/readstack-server/internal/store"
)

// AuthService handles registration, login, and refresh-token sessions.
type AuthService struct {
	store  store.Store
	tokens *auth.TokenService
	logger *logger.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(s store.Store, tokens *auth.TokenService, log *logger.Logger) *AuthService {
	return &AuthService{
		store:  s,
		tokens: tokens,
		logger: log,
	}
}

// RegisterRequest contains user registration data.
type RegisterRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8,max=1024"`
	DisplayName string `json:"display_name" validate:"required,max=150"`
	Bio         string `json:"bio" validate:"max=500"`
}

// LoginRequest contains user credentials.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest carries the opaque refresh token.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// LogoutRequest carries the refresh token of the session to end.
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
	All          bool   `json:"all,omitempty"` // End every session for the user
}

// AuthResponse contains tokens and the authenticated user.
type AuthResponse struct {
	User         *domain.User `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int64        `json:"expires_in"` // Access token lifetime in seconds
}

// Register creates a new member account with default capabilities.
// The first account ever created becomes the root admin.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	existing, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	userID, err := id.Generate(id.PrefixUser)
	if err != nil {
		return nil, fmt.Errorf("generate user ID: %w", err)
	}

	now := time.Now()
	user := &domain.User{
		ID:           userID,
		Email:        req.Email,
		PasswordHash: passwordHash,
		DisplayName:  req.DisplayName,
		Bio:          req.Bio,
		Role:         domain.RoleMember,
		Capabilities: domain.DefaultCapabilities(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// First user bootstraps the instance as root admin.
	if len(existing) == 0 {
		user.IsRoot = true
		user.Role = domain.RoleAdmin
		user.Capabilities = domain.AllCapabilities()
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.AlreadyExists("email already in use")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("user registered", "user_id", userID, "email", user.Email, "root", user.IsRoot)

	return s.issueTokens(ctx, user)
}

// Login authenticates a user and starts a new session.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.store.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Don't leak whether the email exists.
			return nil, domainerrors.InvalidCredentials("invalid email or password")
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	valid, err := auth.VerifyPassword(user.PasswordHash, req.Password)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !valid {
		return nil, domainerrors.InvalidCredentials("invalid email or password")
	}

	s.logger.Info("user logged in", "user_id", user.ID)

	return s.issueTokens(ctx, user)
}

// Refresh rotates a refresh token and issues a fresh access token.
// The presented token is invalidated even though its session survives.
func (s *AuthService) Refresh(ctx context.Context, req RefreshRequest) (*AuthResponse, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	session, err := s.store.GetSessionByRefreshToken(ctx, auth.HashRefreshToken(req.RefreshToken))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.InvalidCredentials("invalid refresh token")
		}
		return nil, fmt.Errorf("lookup session: %w", err)
	}

	now := time.Now()
	if session.Expired(now) {
		// Expired sessions are cleaned up lazily on use.
		_ = s.store.DeleteSession(ctx, session.ID)
		return nil, domainerrors.TokenExpired("refresh token expired")
	}

	user, err := s.store.GetUser(ctx, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	accessToken, err := s.tokens.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	// Rotate the refresh token.
	refreshToken, err := s.tokens.GenerateRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	session.RefreshTokenHash = auth.HashRefreshToken(refreshToken)
	session.ExpiresAt = now.Add(s.tokens.RefreshTokenDuration())
	session.LastUsedAt = now
	if err := s.store.UpdateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("update session: %w", err)
	}

	return &AuthResponse{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.tokens.AccessTokenDuration().Seconds()),
	}, nil
}

// Logout ends the session identified by the refresh token, or every session
// of its user when All is set.
func (s *AuthService) Logout(ctx context.Context, req LogoutRequest) error {
	if err := validate.Validate(req); err != nil {
		return err
	}

	session, err := s.store.GetSessionByRefreshToken(ctx, auth.HashRefreshToken(req.RefreshToken))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Already gone; logout is idempotent.
			return nil
		}
		return fmt.Errorf("lookup session: %w", err)
	}

	if req.All {
		if err := s.store.DeleteAllUserSessions(ctx, session.UserID); err != nil {
			return fmt.Errorf("delete sessions: %w", err)
		}
		s.logger.Info("all sessions ended", "user_id", session.UserID)
		return nil
	}

	if err := s.store.DeleteSession(ctx, session.ID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// VerifyAccessToken resolves an access token to its user.
// Used by the API layer to authenticate requests.
func (s *AuthService) VerifyAccessToken(ctx context.Context, token string) (*domain.User, error) {
	claims, err := s.tokens.VerifyAccessToken(token)
	if err != nil {
		return nil, err
	}

	user, err := s.store.GetUser(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.AuthRequired("account no longer exists")
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	return user, nil
}

// GetUser returns a user profile by ID.
func (s *AuthService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("user not found")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// CleanupExpiredSessions removes sessions past their expiry. Meant to be
// run periodically by the server.
func (s *AuthService) CleanupExpiredSessions(ctx context.Context) (int, error) {
	return s.store.DeleteExpiredSessions(ctx, time.Now())
}

// issueTokens creates a new session and returns the token pair.
func (s *AuthService) issueTokens(ctx context.Context, user *domain.User) (*AuthResponse, error) {
	accessToken, err := s.tokens.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	refreshToken, err := s.tokens.GenerateRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	sessionID, err := id.Generate(id.PrefixSession)
	if err != nil {
		return nil, fmt.Errorf("generate session ID: %w", err)
	}

	now := time.Now()
	session := &domain.Session{
		ID:               sessionID,
		UserID:           user.ID,
		RefreshTokenHash: auth.HashRefreshToken(refreshToken),
		ExpiresAt:        now.Add(s.tokens.RefreshTokenDuration()),
		CreatedAt:        now,
		LastUsedAt:       now,
	}
	if err := s.store.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	return &AuthResponse{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.tokens.AccessTokenDuration().Seconds()),
	}, nil
}

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/readstackapp/readstack-server/internal/domain"
	"github.com/readstackapp/readstack-server/internal/service"
)

func (s *Server) registerAuthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "register",
		Method:        http.MethodPost,
		Path:          "/api/v1/auth/register",
		Summary:       "Register",
		Description:   "Creates a member account. The first account becomes the root admin.",
		Tags:          []string{"Auth"},
		DefaultStatus: http.StatusCreated,
	}, s.handleRegister)

	huma.Register(s.api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/login",
		Summary:     "Login",
		Description: "Authenticates a user and starts a session",
		Tags:        []string{"Auth"},
	}, s.handleLogin)

	huma.Register(s.api, huma.Operation{
		OperationID: "refresh",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/refresh",
		Summary:     "Refresh tokens",
		Description: "Rotates a refresh token and issues a new access token",
		Tags:        []string{"Auth"},
	}, s.handleRefresh)

	huma.Register(s.api, huma.Operation{
		OperationID:   "logout",
		Method:        http.MethodPost,
		Path:          "/api/v1/auth/logout",
		Summary:       "Logout",
		Description:   "Ends the session for a refresh token. Idempotent.",
		Tags:          []string{"Auth"},
		DefaultStatus: http.StatusNoContent,
	}, s.handleLogout)
}

func (s *Server) registerUserRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getCurrentUser",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/me",
		Summary:     "Get current user",
		Description: "Returns the authenticated user's profile",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetCurrentUser)
}

// === DTOs ===

// UserResponse contains user data in API responses. The password hash
// never leaves the service layer through this type.
type UserResponse struct {
	ID           string              `json:"id" doc:"User ID"`
	Email        string              `json:"email" doc:"Email address"`
	DisplayName  string              `json:"display_name" doc:"Display name"`
	Bio          string              `json:"bio,omitempty" doc:"Short biography"`
	Role         domain.Role         `json:"role" doc:"Role: admin, librarian, or member"`
	IsRoot       bool                `json:"is_root" doc:"Whether this is the root admin"`
	Capabilities domain.Capabilities `json:"capabilities" doc:"Bookshelf capabilities"`
	CreatedAt    time.Time           `json:"created_at" doc:"Creation time"`
	UpdatedAt    time.Time           `json:"updated_at" doc:"Last update time"`
}

func toUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:           u.ID,
		Email:        u.Email,
		DisplayName:  u.DisplayName,
		Bio:          u.Bio,
		Role:         u.Role,
		IsRoot:       u.IsRoot,
		Capabilities: u.Capabilities,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

// AuthResponse contains tokens and the authenticated user.
type AuthResponse struct {
	User         UserResponse `json:"user" doc:"Authenticated user"`
	AccessToken  string       `json:"access_token" doc:"PASETO access token"`
	RefreshToken string       `json:"refresh_token" doc:"Opaque refresh token"`
	ExpiresIn    int64        `json:"expires_in" doc:"Access token lifetime in seconds"`
}

func toAuthResponse(r *service.AuthResponse) AuthResponse {
	return AuthResponse{
		User:         toUserResponse(r.User),
		AccessToken:  r.AccessToken,
		RefreshToken: r.RefreshToken,
		ExpiresIn:    r.ExpiresIn,
	}
}

// RegisterRequest is the request body for registration.
type RegisterRequest struct {
	Email       string `json:"email" doc:"Email address, unique case-insensitively"`
	Password    string `json:"password" doc:"Password, at least 8 characters"`
	DisplayName string `json:"display_name" doc:"Display name"`
	Bio         string `json:"bio,omitempty" doc:"Short biography"`
}

// RegisterInput wraps the registration request for Huma.
type RegisterInput struct {
	Body RegisterRequest
}

// LoginRequest is the request body for login.
type LoginRequest struct {
	Email    string `json:"email" doc:"Email address"`
	Password string `json:"password" doc:"Password"`
}

// LoginInput wraps the login request for Huma.
type LoginInput struct {
	Body LoginRequest
}

// RefreshRequest is the request body for token refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" doc:"Refresh token to rotate"`
}

// RefreshInput wraps the refresh request for Huma.
type RefreshInput struct {
	Body RefreshRequest
}

// LogoutRequest is the request body for logout.
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token" doc:"Refresh token of the session to end"`
	All          bool   `json:"all,omitempty" doc:"End every session for the user"`
}

// LogoutInput wraps the logout request for Huma.
type LogoutInput struct {
	Body LogoutRequest
}

// AuthOutput wraps the auth response for Huma.
type AuthOutput struct {
	Body AuthResponse
}

// GetCurrentUserInput contains parameters for the current-user endpoint.
type GetCurrentUserInput struct {
	Authorization string `header:"Authorization"`
}

// UserOutput wraps the user response for Huma.
type UserOutput struct {
	Body UserResponse
}

// === Handlers ===

func (s *Server) handleRegister(ctx context.Context, input *RegisterInput) (*AuthOutput, error) {
	resp, err := s.services.Auth.Register(ctx, service.RegisterRequest{
		Email:       input.Body.Email,
		Password:    input.Body.Password,
		DisplayName: input.Body.DisplayName,
		Bio:         input.Body.Bio,
	})
	if err != nil {
		return nil, err
	}

	return &AuthOutput{Body: toAuthResponse(resp)}, nil
}

func (s *Server) handleLogin(ctx context.Context, input *LoginInput) (*AuthOutput, error) {
	resp, err := s.services.Auth.Login(ctx, service.LoginRequest{
		Email:    input.Body.Email,
		Password: input.Body.Password,
	})
	if err != nil {
		return nil, err
	}

	return &AuthOutput{Body: toAuthResponse(resp)}, nil
}

func (s *Server) handleRefresh(ctx context.Context, input *RefreshInput) (*AuthOutput, error) {
	resp, err := s.services.Auth.Refresh(ctx, service.RefreshRequest{
		RefreshToken: input.Body.RefreshToken,
	})
	if err != nil {
		return nil, err
	}

	return &AuthOutput{Body: toAuthResponse(resp)}, nil
}

func (s *Server) handleLogout(ctx context.Context, input *LogoutInput) (*struct{}, error) {
	err := s.services.Auth.Logout(ctx, service.LogoutRequest{
		RefreshToken: input.Body.RefreshToken,
		All:          input.Body.All,
	})
	if err != nil {
		return nil, err
	}
	return nil, nil
}

func (s *Server) handleGetCurrentUser(ctx context.Context, input *GetCurrentUserInput) (*UserOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	return &UserOutput{Body: toUserResponse(user)}, nil
}

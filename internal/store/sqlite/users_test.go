package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/readstackapp/readstack-server/internal/domain"
	"github.com/readstackapp/readstack-server/internal/store"
)

func TestCreateAndGetUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	now := time.Now()
	u := &domain.User{
		ID:           "user_1",
		Email:        "alice@example.com",
		PasswordHash: "$argon2id$...",
		DisplayName:  "Alice",
		Bio:          "Reader of everything",
		Role:         domain.RoleMember,
		Capabilities: domain.Capabilities{CanView: true, CanCreate: true},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.CreateUser(ctx, u); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	got, err := s.GetUser(ctx, "user_1")
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if got.Email != "alice@example.com" {
		t.Errorf("email: got %q", got.Email)
	}
	if got.Role != domain.RoleMember {
		t.Errorf("role: got %q", got.Role)
	}
	if !got.Capabilities.CanView || !got.Capabilities.CanCreate {
		t.Errorf("capabilities not round-tripped: %+v", got.Capabilities)
	}
	if got.Capabilities.CanEdit || got.Capabilities.CanDelete {
		t.Errorf("unexpected capabilities granted: %+v", got.Capabilities)
	}
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "user_1", "alice@example.com")

	dup := &domain.User{
		ID:           "user_2",
		Email:        "Alice@Example.com", // NOCASE collation
		PasswordHash: "x",
		Role:         domain.RoleMember,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	err := s.CreateUser(ctx, dup)
	if !errors.Is(err, store.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestGetUserByEmail(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "user_1", "alice@example.com")

	got, err := s.GetUserByEmail(ctx, "ALICE@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if got.ID != "user_1" {
		t.Errorf("got user %q", got.ID)
	}

	if _, err := s.GetUserByEmail(ctx, "nobody@example.com"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "user_1", "alice@example.com")

	u, err := s.GetUser(ctx, "user_1")
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}

	u.DisplayName = "Alice Cooper"
	u.Role = domain.RoleLibrarian
	u.Capabilities = domain.AllCapabilities()
	u.UpdatedAt = time.Now()

	if err := s.UpdateUser(ctx, u); err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}

	got, err := s.GetUser(ctx, "user_1")
	if err != nil {
		t.Fatalf("GetUser after update: %v", err)
	}
	if got.DisplayName != "Alice Cooper" {
		t.Errorf("display name: got %q", got.DisplayName)
	}
	if got.Role != domain.RoleLibrarian {
		t.Errorf("role: got %q", got.Role)
	}
	if !got.Capabilities.CanDelete {
		t.Error("capabilities not updated")
	}
}

func TestDeleteUser_CascadesSessions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "user_1", "alice@example.com")

	sess := &domain.Session{
		ID:               "sess_1",
		UserID:           "user_1",
		RefreshTokenHash: "hash1",
		ExpiresAt:        time.Now().Add(time.Hour),
		CreatedAt:        time.Now(),
		LastUsedAt:       time.Now(),
	}
	if err := s.CreateSession(ctx, sess); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	if err := s.DeleteUser(ctx, "user_1"); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}

	if _, err := s.GetSessionByRefreshToken(ctx, "hash1"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("session should cascade on user delete, got %v", err)
	}
}

func TestDeleteExpiredSessions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "user_1", "alice@example.com")

	now := time.Now()
	for _, sess := range []*domain.Session{
		{ID: "sess_old", UserID: "user_1", RefreshTokenHash: "h1", ExpiresAt: now.Add(-time.Hour), CreatedAt: now, LastUsedAt: now},
		{ID: "sess_new", UserID: "user_1", RefreshTokenHash: "h2", ExpiresAt: now.Add(time.Hour), CreatedAt: now, LastUsedAt: now},
	} {
		if err := s.CreateSession(ctx, sess); err != nil {
			t.Fatalf("CreateSession %s: %v", sess.ID, err)
		}
	}

	n, err := s.DeleteExpiredSessions(ctx, now)
	if err != nil {
		t.Fatalf("DeleteExpiredSessions: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 expired session removed, got %d", n)
	}

	if _, err := s.GetSessionByRefreshToken(ctx, "h2"); err != nil {
		t.Errorf("live session should survive: %v", err)
	}
}

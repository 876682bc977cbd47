package service

import (
	"context"
	"encoding/hex"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/readstackapp/readstack-server/internal/auth"
	"github.com/readstackapp/readstack-server/internal/domain"
	"github.com/readstackapp/readstack-server/internal/logger"
	"github.com/readstackapp/readstack-server/internal/store/sqlite"
)

// setupServices creates the full service bundle on a temporary database.
func setupServices(t *testing.T) *Services {
	t.Helper()

	tmpDir := t.TempDir()
	log := logger.New(logger.Config{Writer: io.Discard, Level: slog.LevelError})

	s, err := sqlite.Open(filepath.Join(tmpDir, "test.db"), log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	authKey, err := auth.LoadOrGenerateKey(tmpDir)
	require.NoError(t, err)

	tokens, err := auth.NewTokenService(
		hex.EncodeToString(authKey),
		15*time.Minute,
		30*24*time.Hour,
	)
	require.NoError(t, err)

	return New(s, tokens, log)
}

// registerUser creates a user through the normal registration flow and
// returns the stored user.
func registerUser(t *testing.T, svc *Services, email string) *domain.User {
	t.Helper()
	resp, err := svc.Auth.Register(context.Background(), RegisterRequest{
		Email:       email,
		Password:    "correct-horse-battery",
		DisplayName: "Test User",
	})
	require.NoError(t, err)
	return resp.User
}

// withCapabilities returns a copy of the user carrying the given capability
// set. Access rules evaluate the principal as presented, so tests can grant
// capabilities without a round trip through the store.
func withCapabilities(user *domain.User, caps domain.Capabilities) *domain.User {
	u := *user
	u.Capabilities = caps
	return &u
}

package api

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/readstackapp/readstack-server/internal/auth"
	"github.com/readstackapp/readstack-server/internal/domain"
	"github.com/readstackapp/readstack-server/internal/logger"
	"github.com/readstackapp/readstack-server/internal/service"
	"github.com/readstackapp/readstack-server/internal/store/sqlite"
)

// testServer wraps the API server for handler tests. Requests issued
// through api go through the full chi middleware stack.
type testServer struct {
	*Server
	api humatest.TestAPI
}

// setupTestServer creates a server on a temporary database.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	tmpDir := t.TempDir()
	log := logger.New(logger.Config{Writer: io.Discard, Level: slog.LevelError})

	st, err := sqlite.Open(filepath.Join(tmpDir, "test.db"), log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	authKey, err := auth.LoadOrGenerateKey(tmpDir)
	require.NoError(t, err)

	tokens, err := auth.NewTokenService(
		hex.EncodeToString(authKey),
		15*time.Minute,
		30*24*time.Hour,
	)
	require.NoError(t, err)

	services := service.New(st, tokens, log)
	s := NewServer(st, services, log)

	return &testServer{
		Server: s,
		api:    humatest.Wrap(t, s.api),
	}
}

// register creates a user through the registration endpoint. The first
// user on a fresh database becomes the root admin.
func (ts *testServer) register(t *testing.T, email, displayName string) AuthResponse {
	t.Helper()

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"email":        email,
		"password":     "correct-horse-battery",
		"display_name": displayName,
	})
	require.Equal(t, http.StatusCreated, resp.Code, "register failed: %s", resp.Body.String())

	var out AuthResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out))
	return out
}

// grantCapabilities rewrites a user's capability set in the store. The
// principal is loaded fresh on every request, so the change takes effect
// without a new login.
func (ts *testServer) grantCapabilities(t *testing.T, userID string, caps domain.Capabilities) {
	t.Helper()

	ctx := context.Background()
	user, err := ts.store.GetUser(ctx, userID)
	require.NoError(t, err)

	user.Capabilities = caps
	require.NoError(t, ts.store.UpdateUser(ctx, user))
}

// bearer formats an Authorization header for humatest.
func bearer(token string) string {
	return "Authorization: Bearer " + token
}

// apiError mirrors the JSON shape produced by RegisterErrorHandler.
type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// decodeError unpacks an error response body.
func decodeError(t *testing.T, body []byte) apiError {
	t.Helper()
	var e apiError
	require.NoError(t, json.Unmarshal(body, &e))
	return e
}

func TestHealthCheck(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/health")
	require.Equal(t, http.StatusOK, resp.Code)

	var out HealthResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out))

	assert.Equal(t, "healthy", out.Status)
	assert.Equal(t, "healthy", out.Components["database"].Status)
}

package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthRateLimit(t *testing.T) {
	ts := setupTestServer(t)
	ts.register(t, "user@example.com", "User")

	// Hammer the login endpoint past the burst allowance. Wrong
	// credentials still count against the limit.
	var limited, denied int
	for i := 0; i < 15; i++ {
		resp := ts.api.Post("/api/v1/auth/login", map[string]any{
			"email":    "user@example.com",
			"password": "wrong-password-here",
		})
		switch resp.Code {
		case http.StatusTooManyRequests:
			limited++
			assert.Equal(t, "RATE_LIMITED", decodeError(t, resp.Body.Bytes()).Code)
		case http.StatusUnauthorized:
			denied++
		default:
			t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
		}
	}

	assert.Greater(t, limited, 0, "expected the limiter to kick in")
	assert.Greater(t, denied, 0, "expected some attempts to reach the handler")
}

func TestAuthRateLimit_DoesNotTouchOtherRoutes(t *testing.T) {
	ts := setupTestServer(t)

	// Well past the auth burst. Catalog reads are never rate limited.
	for i := 0; i < 30; i++ {
		resp := ts.api.Get("/api/v1/authors")
		require.Equal(t, http.StatusOK, resp.Code)
	}
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{
			name:       "remote addr with port",
			remoteAddr: "10.0.0.1:52431",
			want:       "10.0.0.1",
		},
		{
			name:       "x-forwarded-for single",
			remoteAddr: "10.0.0.1:52431",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.7"},
			want:       "203.0.113.7",
		},
		{
			name:       "x-forwarded-for chain takes first",
			remoteAddr: "10.0.0.1:52431",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.2"},
			want:       "203.0.113.7",
		},
		{
			name:       "x-real-ip",
			remoteAddr: "10.0.0.1:52431",
			headers:    map[string]string{"X-Real-IP": "203.0.113.9"},
			want:       "203.0.113.9",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, getClientIP(r))
		})
	}
}

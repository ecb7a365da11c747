package authenticate

import (
	"CalAssist/entity"
	"CalAssist/internal/lib/api/cont"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAuth struct {
	key string
}

func (a *stubAuth) AuthenticateByToken(token string) (*entity.UserAuth, error) {
	if token != a.key {
		return nil, fmt.Errorf("unknown token")
	}
	return &entity.UserAuth{Username: "jo", Key: token}, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func run(t *testing.T, header string) (*httptest.ResponseRecorder, *entity.UserAuth) {
	t.Helper()

	var seen *entity.UserAuth
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = cont.GetUser(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/appointments", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()

	New(testLogger(), &stubAuth{key: "valid-key"})(next).ServeHTTP(rec, req)
	return rec, seen
}

func TestAuthenticateValidToken(t *testing.T) {
	rec, seen := run(t, "Bearer valid-key")

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, seen, "authenticated user must reach the handler context")
	assert.Equal(t, "jo", seen.Username)
	assert.Equal(t, "jo", rec.Header().Get("X-User"))
}

func TestAuthenticateMissingHeader(t *testing.T) {
	rec, seen := run(t, "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, seen)
}

func TestAuthenticateWrongToken(t *testing.T) {
	rec, seen := run(t, "Bearer stolen-key")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, seen)
}

func TestAuthenticateWrongScheme(t *testing.T) {
	rec, seen := run(t, "Basic dXNlcjpwYXNz")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, seen)
}

func TestBearerTokenParsing(t *testing.T) {
	testCases := []struct {
		name   string
		header string
		want   string
	}{
		{"standard", "Bearer abc", "abc"},
		{"lowercase scheme", "bearer abc", "abc"},
		{"no token", "Bearer", ""},
		{"empty", "", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			assert.Equal(t, tc.want, bearerToken(req))
		})
	}
}

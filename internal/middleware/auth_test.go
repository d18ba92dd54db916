package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vidtube/internal/domain"
	"vidtube/internal/service/auth"
	"vidtube/pkg/logger"
)

func setupAuthTest(t *testing.T) (func(http.Handler) http.Handler, func(http.Handler) http.Handler, string) {
	t.Helper()

	log, err := logger.New("error")
	require.NoError(t, err)

	authService := auth.NewService("access-secret", "refresh-secret", 15*time.Minute, 240*time.Hour, log)
	pair, err := authService.IssueTokenPair(&domain.User{ID: "user-1", Username: "alice"})
	require.NoError(t, err)

	return Auth(authService, log), OptionalAuth(authService, log), pair.AccessToken
}

func claimsEcho() (http.Handler, *[]*domain.AuthClaims) {
	var seen []*domain.AuthClaims
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, ClaimsFromContext(r.Context()))
		w.WriteHeader(http.StatusOK)
	})
	return h, &seen
}

func TestAuthValidToken(t *testing.T) {
	authMw, _, token := setupAuthTest(t)
	next, seen := claimsEcho()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	authMw(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, *seen, 1)
	claims := (*seen)[0]
	require.NotNil(t, claims)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "alice", claims.Username)
}

func TestAuthRejections(t *testing.T) {
	authMw, _, _ := setupAuthTest(t)

	tests := []struct {
		name   string
		header string
	}{
		{name: "missing header", header: ""},
		{name: "wrong scheme", header: "Basic abc123"},
		{name: "empty token", header: "Bearer "},
		{name: "garbage token", header: "Bearer not.a.token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, seen := claimsEcho()
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			authMw(next).ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Empty(t, *seen)

			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, false, body["success"])
			assert.Equal(t, float64(http.StatusUnauthorized), body["statusCode"])
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	_, optionalMw, token := setupAuthTest(t)

	t.Run("anonymous request passes through", func(t *testing.T) {
		next, seen := claimsEcho()
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)

		optionalMw(next).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		require.Len(t, *seen, 1)
		assert.Nil(t, (*seen)[0])
	})

	t.Run("valid token attaches claims", func(t *testing.T) {
		next, seen := claimsEcho()
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		optionalMw(next).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		require.Len(t, *seen, 1)
		require.NotNil(t, (*seen)[0])
		assert.Equal(t, "user-1", (*seen)[0].UserID)
	})

	t.Run("invalid token is still rejected", func(t *testing.T) {
		next, seen := claimsEcho()
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer bogus")

		optionalMw(next).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Empty(t, *seen)
	})
}

func TestRequestID(t *testing.T) {
	log, err := logger.New("error")
	require.NoError(t, err)

	var captured string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured, _ = r.Context().Value(RequestIDContextKey).(string)
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	RequestID(log)(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.NotEmpty(t, captured)
	assert.Equal(t, captured, rec.Header().Get("X-Request-ID"))
}

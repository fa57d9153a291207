package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"condoadmin-backend/internal/domain"
	"condoadmin-backend/internal/server/authctx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func accessToken(t *testing.T, userID string, roles []string) string {
	return signToken(t, jwt.MapClaims{
		"sub":        userID,
		"email":      "user@example.com",
		"roles":      roles,
		"token_type": "access",
		"exp":        time.Now().Add(time.Hour).Unix(),
		"iat":        time.Now().Unix(),
	})
}

func TestAuthMiddlewareSetsCurrentUser(t *testing.T) {
	var captured *authctx.CurrentUser
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = authctx.FromContext(r.Context())
	})
	h := AuthMiddleware(testSecret)(next)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+accessToken(t, "7", []string{"ADMIN"}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, captured)
	assert.Equal(t, int64(7), captured.ID)
	assert.Equal(t, "user@example.com", captured.Email)
	assert.True(t, captured.HasRole(domain.RoleAdmin))
}

func TestAuthMiddlewareMissingToken(t *testing.T) {
	h := AuthMiddleware(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddlewareWrongSecret(t *testing.T) {
	h := AuthMiddleware("other-secret")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+accessToken(t, "7", nil))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddlewareRejectsRefreshToken(t *testing.T) {
	h := AuthMiddleware(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	refresh := signToken(t, jwt.MapClaims{
		"sub":        "7",
		"token_type": "refresh",
		"exp":        time.Now().Add(time.Hour).Unix(),
	})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+refresh)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddlewareExpiredToken(t *testing.T) {
	h := AuthMiddleware(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	expired := signToken(t, jwt.MapClaims{
		"sub":        "7",
		"token_type": "access",
		"exp":        time.Now().Add(-time.Hour).Unix(),
	})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+expired)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRole(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	t.Run("allows matching role", func(t *testing.T) {
		h := RequireRole(domain.RoleAdmin, domain.RoleSuperAdmin)(ok)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(authctx.WithCurrentUser(req.Context(), authctx.CurrentUser{
			ID:    1,
			Roles: []domain.UserRole{domain.RoleAdmin},
		}))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("rejects missing role", func(t *testing.T) {
		h := RequireRole(domain.RoleSuperAdmin)(ok)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(authctx.WithCurrentUser(req.Context(), authctx.CurrentUser{
			ID:    1,
			Roles: []domain.UserRole{domain.RoleUser},
		}))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("rejects anonymous", func(t *testing.T) {
		h := RequireRole(domain.RoleUser)(ok)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

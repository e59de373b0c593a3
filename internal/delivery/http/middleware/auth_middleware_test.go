package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"repairmate-backend/config"
	"repairmate-backend/internal/domain/entity"
	"repairmate-backend/pkg/jwt"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService() *jwt.JWTService {
	return jwt.NewJWTService(config.JWTConfig{
		Secret:        "test-secret-key",
		AccessExpiry:  15 * time.Minute,
		RefreshExpiry: 24 * time.Hour,
	})
}

func okHandler() (http.Handler, *bool) {
	called := false
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}), &called
}

func TestAuthenticate(t *testing.T) {
	jwtService := newTestJWTService()
	userID := uuid.New()

	t.Run("valid token passes user info downstream", func(t *testing.T) {
		redisClient, mock := redismock.NewClientMock()
		m := NewAuthMiddleware(jwtService, redisClient)

		token, tokenID, err := jwtService.GenerateAccessToken(userID, "tech@example.com", entity.RoleIDTechnician)
		require.NoError(t, err)

		mock.ExpectExists(fmt.Sprintf("access_token:%s:%s", userID, tokenID)).SetVal(1)

		var gotUserID uuid.UUID
		var gotRoleID int
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotUserID, _ = GetUserIDFromContext(r.Context())
			gotRoleID, _ = GetRoleIDFromContext(r.Context())
			w.WriteHeader(http.StatusOK)
		})

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		m.Authenticate(next).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, userID, gotUserID)
		assert.Equal(t, entity.RoleIDTechnician, gotRoleID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing header", func(t *testing.T) {
		redisClient, _ := redismock.NewClientMock()
		m := NewAuthMiddleware(jwtService, redisClient)
		next, called := okHandler()

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()

		m.Authenticate(next).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, *called)
	})

	t.Run("malformed header", func(t *testing.T) {
		redisClient, _ := redismock.NewClientMock()
		m := NewAuthMiddleware(jwtService, redisClient)
		next, called := okHandler()

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Token abc")
		rec := httptest.NewRecorder()

		m.Authenticate(next).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, *called)
	})

	t.Run("refresh token rejected on protected route", func(t *testing.T) {
		redisClient, _ := redismock.NewClientMock()
		m := NewAuthMiddleware(jwtService, redisClient)
		next, called := okHandler()

		token, _, err := jwtService.GenerateRefreshToken(userID, "tech@example.com", entity.RoleIDTechnician)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		m.Authenticate(next).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, *called)
	})

	t.Run("revoked token", func(t *testing.T) {
		redisClient, mock := redismock.NewClientMock()
		m := NewAuthMiddleware(jwtService, redisClient)
		next, called := okHandler()

		token, tokenID, err := jwtService.GenerateAccessToken(userID, "tech@example.com", entity.RoleIDTechnician)
		require.NoError(t, err)

		mock.ExpectExists(fmt.Sprintf("access_token:%s:%s", userID, tokenID)).SetVal(0)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		m.Authenticate(next).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, *called)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

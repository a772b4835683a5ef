package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	identityapp "github.com/workforce/backend/internal/application/identity"
	"github.com/workforce/backend/internal/domain/identity"
	"github.com/workforce/backend/internal/infrastructure/auth"
	"github.com/workforce/backend/internal/infrastructure/config"
)

func newAuthTestRouter(t *testing.T, userRepo *memUserRepository, roleRepo *memRoleRepository) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                "test-secret",
		AccessTokenExpiration: time.Hour,
		Issuer:                "workforce-test",
	})
	hasher := auth.NewPasswordHasher()
	authService := identityapp.NewAuthService(userRepo, jwtService, hasher, zap.NewNop())
	accessService := identityapp.NewAccessService(userRepo, roleRepo, stubScopeResolver{}, zap.NewNop())
	h := NewAuthHandler(authService, accessService)

	router := gin.New()
	router.POST("/auth/login", h.Login)
	return router
}

type stubScopeResolver struct{}

func (stubScopeResolver) EffectiveScopeFor(ctx context.Context, user *identity.User, role *identity.Role) (identity.EffectiveScope, error) {
	return identity.UnrestrictedScope(), nil
}

func seedAccount(t *testing.T, email, password, roleName string) *identity.User {
	t.Helper()
	hash, err := auth.NewPasswordHasher().Hash(password)
	require.NoError(t, err)
	user, err := identity.NewUser(email, "Test Account", hash, roleName)
	require.NoError(t, err)
	return user
}

func TestAuthHandler_Login(t *testing.T) {
	user := seedAccount(t, "ops@example.com", "secret123", "user")
	router := newAuthTestRouter(t, newMemUserRepository(user), newMemRoleRepository())

	body, _ := json.Marshal(LoginRequest{Email: "ops@example.com", Password: "secret123"})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool          `json:"success"`
		Data    LoginResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.Data.Token.AccessToken)
	assert.Equal(t, "Bearer", resp.Data.Token.TokenType)
	assert.Equal(t, "ops@example.com", resp.Data.User.Email)
	assert.Equal(t, "user", resp.Data.User.RoleName)
}

func TestAuthHandler_Login_WrongPassword(t *testing.T) {
	user := seedAccount(t, "ops@example.com", "secret123", "user")
	router := newAuthTestRouter(t, newMemUserRepository(user), newMemRoleRepository())

	body, _ := json.Marshal(LoginRequest{Email: "ops@example.com", Password: "wrong"})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var resp struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "INVALID_CREDENTIALS", resp.Error.Code)
}

func TestAuthHandler_Login_UnknownEmail(t *testing.T) {
	router := newAuthTestRouter(t, newMemUserRepository(), newMemRoleRepository())

	body, _ := json.Marshal(LoginRequest{Email: "nobody@example.com", Password: "whatever"})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	// Same error as a wrong password so callers cannot probe emails.
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_Login_MalformedBody(t *testing.T) {
	router := newAuthTestRouter(t, newMemUserRepository(), newMemRoleRepository())

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/login", bytes.NewReader([]byte(`{"email":"not-an-email"}`)))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

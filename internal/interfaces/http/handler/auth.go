package handler

import (
	"github.com/gin-gonic/gin"

	identityapp "github.com/workforce/backend/internal/application/identity"
	"github.com/workforce/backend/internal/interfaces/http/middleware"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	BaseHandler
	authService   *identityapp.AuthService
	accessService *identityapp.AccessService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *identityapp.AuthService, accessService *identityapp.AccessService) *AuthHandler {
	return &AuthHandler{
		authService:   authService,
		accessService: accessService,
	}
}

// Login godoc
//
//	@Summary	User login
//	@Tags		auth
//	@Accept		json
//	@Produce	json
//	@Param		request	body		LoginRequest	true	"Login credentials"
//	@Success	200		{object}	dto.Response{data=LoginResponse}
//	@Failure	401		{object}	dto.Response{error=dto.ErrorInfo}
//	@Router		/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), identityapp.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, LoginResponse{
		Token: TokenResponse{
			AccessToken: result.AccessToken,
			ExpiresAt:   result.ExpiresAt,
			TokenType:   result.TokenType,
		},
		User: userResponseFrom(result.User),
	})
}

// GetCurrentUser godoc
//
//	@Summary	Current account with role, permissions, and scope
//	@Tags		auth
//	@Produce	json
//	@Success	200	{object}	dto.Response{data=CurrentUserResponse}
//	@Security	BearerAuth
//	@Router		/auth/me [get]
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	profile, err := h.accessService.Profile(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, CurrentUserResponse{
		User:        userResponseFrom(profile.User),
		Role:        roleResponseFrom(profile.Role),
		Scope:       scopeResponseFrom(profile.Scope),
		Permissions: permissionPayloadFrom(profile.Role.Permissions),
	})
}

// ChangePassword godoc
//
//	@Summary	Change own password
//	@Tags		auth
//	@Accept		json
//	@Produce	json
//	@Param		request	body	ChangePasswordRequest	true	"Password change"
//	@Success	204
//	@Security	BearerAuth
//	@Router		/auth/password [put]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	if err := h.authService.ChangePassword(c.Request.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

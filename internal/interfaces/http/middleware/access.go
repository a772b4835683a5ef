package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/workforce/backend/internal/domain/identity"
	"github.com/workforce/backend/internal/domain/shared"
	"github.com/workforce/backend/internal/infrastructure/logger"
	"github.com/workforce/backend/internal/interfaces/http/dto"
)

// PermissionSource resolves a role name to its permission map.
type PermissionSource interface {
	PermissionsFor(ctx context.Context, roleName string) (identity.PermissionMap, error)
}

// RequireAdmin gates a route on the caller holding the admin role.
// Runs after JWTAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		roleName := GetJWTRoleName(c)
		if roleName == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewErrorResponse(dto.ErrCodeUnauthorized, "Authentication required"))
			return
		}
		if identity.ClassifyRoleName(roleName) != identity.RoleKindAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.NewErrorResponse(dto.ErrCodeForbidden, "Administrator role required"))
			return
		}
		c.Next()
	}
}

// RequireAccess gates a route on the caller's role permissions for a
// module and, optionally, a set of features (OR semantics). Runs after
// JWTAuth; a missing role name denies as unauthenticated.
func RequireAccess(source PermissionSource, module identity.ModuleID, features ...identity.FeatureID) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := identity.Actor{RoleName: GetJWTRoleName(c)}

		// Admins never need the lookup; everyone else does.
		if actor.RoleName != "" && identity.ClassifyRoleName(actor.RoleName) != identity.RoleKindAdmin {
			perms, err := source.PermissionsFor(c.Request.Context(), actor.RoleName)
			switch {
			case err == nil:
				actor.Permissions = perms
			case errors.Is(err, shared.ErrNotFound):
				// Role deleted after the token was issued. The empty
				// permission map denies module access below.
			default:
				logger.L(c.Request.Context()).Error("Permission lookup failed")
				c.AbortWithStatusJSON(http.StatusInternalServerError,
					dto.NewErrorResponse(dto.ErrCodeInternal, "Permission lookup failed"))
				return
			}
		}

		decision := identity.CheckAccess(actor, identity.AccessRequest{
			Module:   module,
			Features: features,
		})
		if err := decision.Err(); err != nil {
			var domainErr *shared.DomainError
			if errors.As(err, &domainErr) {
				c.AbortWithStatusJSON(dto.GetHTTPStatus(domainErr.Code),
					dto.NewErrorResponse(domainErr.Code, domainErr.Message))
				return
			}
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.NewErrorResponse(dto.ErrCodeForbidden, "Access denied"))
			return
		}

		c.Next()
	}
}

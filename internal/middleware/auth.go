package middleware

import (
	"errors"
	"net/http"

	"github.com/dsnakex/Biotech-Dashboard/internal/auth"
	"github.com/dsnakex/Biotech-Dashboard/internal/constant"
	"github.com/dsnakex/Biotech-Dashboard/internal/util"
	"github.com/gin-gonic/gin"
)

func (m Middleware) AuthMiddleware(ctx *gin.Context) {
	token, err := util.ReadBearerToken(ctx)
	if err != nil {
		m.app.Logger.Debugf("Failed to read token: %v", err)
		util.ResponseFailed(ctx, http.StatusUnauthorized, "Unauthorized", util.GenerateErrorMessages(err, "unauthorized"), nil)
		return
	}

	claim, err := m.app.JWTService.VerifyJwtToken(token, constant.JWT_TYPE_ACCESS)
	if err != nil {
		m.app.Logger.Debugf("Failed to verify token: %v", err)
		util.ResponseFailed(ctx, http.StatusUnauthorized, "Invalid token", util.GenerateErrorMessages(err, "unauthorized"), nil)
		return
	}

	ctx.Set(constant.CTX_AUTH_USER, claim.User)
	ctx.Next()
}

// RequirePermission rejects the request with 403 unless the role of the
// authenticated user grants every permission. Use it after AuthMiddleware.
func (m Middleware) RequirePermission(permissions ...constant.Permission) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		user, ok := AuthUser(ctx)
		if !ok {
			util.ResponseFailed(ctx, http.StatusUnauthorized, "Unauthorized", util.GenerateErrorMessages(errors.New("user not found in context"), "unauthorized"), nil)
			return
		}

		if !util.HasPermission(user.Role, permissions...) {
			m.app.Logger.Debugf("User %d with role %s lacks %v", user.ID, user.Role, permissions)
			util.ResponseFailed(ctx, http.StatusForbidden, "Forbidden", util.GenerateErrorMessages(errors.New("you do not have permission to perform this action"), "permission"), nil)
			return
		}

		ctx.Next()
	}
}

// AuthUser returns the payload stored by AuthMiddleware.
func AuthUser(ctx *gin.Context) (*auth.JWTPayload, bool) {
	value, exists := ctx.Get(constant.CTX_AUTH_USER)
	if !exists {
		return nil, false
	}

	user, ok := value.(auth.JWTPayload)
	if !ok {
		return nil, false
	}
	return &user, true
}

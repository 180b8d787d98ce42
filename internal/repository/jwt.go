package repository

import (
	"context"

	"github.com/dsnakex/Biotech-Dashboard/internal/auth"
	"github.com/dsnakex/Biotech-Dashboard/internal/constant"
	"github.com/dsnakex/Biotech-Dashboard/internal/model"
	"gorm.io/gorm"
)

type JWTRepository struct {
	*baseRepository
	user *UserRepository
}

func toJWTPayload(user model.User) auth.JWTPayload {
	return auth.JWTPayload{
		ID:       user.ID,
		Email:    user.Email,
		FullName: user.FullName,
		Role:     user.Role,
	}
}

func (jr JWTRepository) GenRefreshAndAccessToken(ctx context.Context, tx *gorm.DB, user model.User) (*string, *string, error) {
	jr.logger.Debugf("Generate refresh and access token for userId: %d \n", user.ID)

	return jr.jwtService.GenerateRefreshAndAccessToken(toJWTPayload(user))
}

/*
 * Refresh token by verifying the refresh token, reloading the user so that
 * role changes take effect, and generating a new refresh and access token.
 */
func (jr JWTRepository) RefreshToken(ctx context.Context, tx *gorm.DB, refreshToken string) (*string, *string, error) {
	jr.logger.Debug("Refresh token")

	claims, err := jr.jwtService.VerifyJwtToken(refreshToken, constant.JWT_TYPE_REFRESH)
	if err != nil {
		return nil, nil, err
	}

	user, err := jr.user.GetById(ctx, tx, claims.User.ID)
	if err != nil {
		return nil, nil, err
	}

	return jr.GenRefreshAndAccessToken(ctx, tx, *user)
}

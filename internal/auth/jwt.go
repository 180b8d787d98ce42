package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dsnakex/Biotech-Dashboard/internal/config"
	"github.com/dsnakex/Biotech-Dashboard/internal/constant"
	"github.com/dsnakex/Biotech-Dashboard/internal/util"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type JWT struct {
	logger     *zap.SugaredLogger
	jwtSecret  string
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

type JWTInterface interface {
	GenerateRefreshAndAccessToken(payload JWTPayload) (*string, *string, error)
	VerifyJwtToken(token string, tokenType string) (*JWTClaims, error)
}

func NewJwt(cfg config.AuthConfig, logger *zap.SugaredLogger) *JWT {
	// For unit test
	if logger == nil {
		logger = util.NewLogger("test")
	}

	return &JWT{
		jwtSecret:  cfg.JWT_SECRET,
		accessTTL:  cfg.AccessTokenTTL,
		refreshTTL: cfg.RefreshTokenTTL,
		logger:     logger,
		now:        time.Now,
	}
}

type JWTPayload struct {
	ID       uint              `json:"id"`
	Email    string            `json:"email"`
	FullName string            `json:"full_name"`
	Role     constant.UserRole `json:"role"`
}

type JWTClaims struct {
	User JWTPayload `json:"user"`
	Type string     `json:"type"`
	jwt.RegisteredClaims
}

func (j JWT) sign(payload JWTPayload, tokenType string, ttl time.Duration) (string, error) {
	now := j.now()
	claims := JWTClaims{
		User: payload,
		Type: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   fmt.Sprint(payload.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(j.jwtSecret))
}

// Return refreshToken, accessToken, error
func (j JWT) GenerateRefreshAndAccessToken(payload JWTPayload) (*string, *string, error) {
	j.logger.Debugf("Generate refresh and access token with payload: %v", payload)

	refreshToken, err := j.sign(payload, constant.JWT_TYPE_REFRESH, j.refreshTTL)
	if err != nil {
		return nil, nil, err
	}

	accessToken, err := j.sign(payload, constant.JWT_TYPE_ACCESS, j.accessTTL)
	if err != nil {
		return nil, nil, err
	}

	return &refreshToken, &accessToken, nil
}

// VerifyJwtToken checks signature, expiry and that the token is of tokenType.
func (j JWT) VerifyJwtToken(token string, tokenType string) (*JWTClaims, error) {
	claims := &JWTClaims{}
	parsedToken, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(j.jwtSecret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(j.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		j.logger.Debugf("Failed to verify jwt token. Error: %v", err)
		return nil, err
	}

	if !parsedToken.Valid {
		j.logger.Debug("Jwt token is not valid")
		return nil, errors.New("jwt token is not valid")
	}

	if claims.Type != tokenType {
		return nil, fmt.Errorf("invalid token type %q; expected %q", claims.Type, tokenType)
	}

	if claims.User.ID == 0 {
		return nil, errors.New("invalid token: user field is missing or malformed")
	}

	return claims, nil
}

package util

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
)

// ReadAuthorization returns the credentials of the Authorization header when
// it uses scheme, e.g. "Authorization: Bearer <token>". The scheme is
// matched case-insensitively.
func ReadAuthorization(ctx *gin.Context, scheme string) (string, error) {
	header := strings.TrimSpace(ctx.GetHeader("Authorization"))
	if header == "" {
		return "", errors.New("no authorization header specified")
	}

	got, token, found := strings.Cut(header, " ")
	if !found {
		return "", errors.New("wrong authorization header format")
	}
	if !strings.EqualFold(got, scheme) {
		return "", fmt.Errorf("invalid token type; expected '%s'", scheme)
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return "", errors.New("token is empty")
	}
	return token, nil
}

func ReadBearerToken(ctx *gin.Context) (string, error) {
	return ReadAuthorization(ctx, "Bearer")
}

// ReadRefreshToken reads "Authorization: Refresh <token>", the header the
// refresh endpoint expects.
func ReadRefreshToken(ctx *gin.Context) (string, error) {
	return ReadAuthorization(ctx, "Refresh")
}

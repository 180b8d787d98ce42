package middleware

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/dsnakex/Biotech-Dashboard/internal/util"
	"github.com/gin-gonic/gin"
)

func (m Middleware) RateLimiterMiddleware(ctx *gin.Context) {
	if m.rateLimiter == nil || !m.rateLimiter.Enabled() {
		ctx.Next()
		return
	}

	if allowed, retryAfter := m.rateLimiter.Allow(ctx.ClientIP()); !allowed {
		ctx.Header("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
		util.ResponseFailed(ctx, http.StatusTooManyRequests, "Too many requests", util.GenerateErrorMessages(errors.New("rate limit exceeded, retry later"), "rateLimit"), nil)
		return
	}

	ctx.Next()
}

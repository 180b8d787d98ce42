package middleware

import (
	"time"

	"github.com/dsnakex/Biotech-Dashboard/internal/constant"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

// RequestLogger tags each request with an id and logs it once it completes.
func (m Middleware) RequestLogger(ctx *gin.Context) {
	start := time.Now()

	requestID := ctx.GetHeader(requestIDHeader)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	ctx.Set(constant.CTX_REQUEST_ID, requestID)
	ctx.Header(requestIDHeader, requestID)

	ctx.Next()

	fields := []any{
		"requestId", requestID,
		"method", ctx.Request.Method,
		"path", ctx.FullPath(),
		"status", ctx.Writer.Status(),
		"latency", time.Since(start),
		"clientIp", ctx.ClientIP(),
	}
	if len(ctx.Errors) > 0 {
		fields = append(fields, "errors", ctx.Errors.String())
	}

	switch status := ctx.Writer.Status(); {
	case status >= 500:
		m.app.Logger.Errorw("Request failed", fields...)
	case status >= 400:
		m.app.Logger.Infow("Request rejected", fields...)
	default:
		m.app.Logger.Debugw("Request served", fields...)
	}
}

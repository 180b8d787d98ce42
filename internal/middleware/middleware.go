// Package middleware holds the gin handlers that run before the controllers:
// request logging, rate limiting, authentication and permission checks.
package middleware

import (
	appcontext "github.com/dsnakex/Biotech-Dashboard/internal/app_context"
	ratelimiter "github.com/dsnakex/Biotech-Dashboard/internal/rate_limiter"
)

type Middleware struct {
	// nil disables rate limiting
	rateLimiter ratelimiter.Limiter
	app         *appcontext.Application
}

func NewMiddleware(app *appcontext.Application, rateLimiter ratelimiter.Limiter) *Middleware {
	return &Middleware{app: app, rateLimiter: rateLimiter}
}

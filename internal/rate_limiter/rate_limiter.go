package ratelimiter

import (
	"time"

	"github.com/dsnakex/Biotech-Dashboard/internal/config"
	"github.com/dsnakex/Biotech-Dashboard/internal/util"
	"go.uber.org/zap"
)

// Limiter decides whether a client identified by its IP may make another request.
type Limiter interface {
	Enabled() bool
	// Allow counts a request and, when it is rejected, reports how long
	// the client has to wait.
	Allow(ip string) (bool, time.Duration)
}

// NewRateLimiter returns the fixed window limiter configured by cfg.
func NewRateLimiter(cfg config.RateLimiterConfig, logger *zap.SugaredLogger) *FixedWindowRateLimiter {
	// For unit test
	if logger == nil {
		logger = util.NewLogger("test")
	}

	limiter := NewFixedWindowLimiter(cfg, logger)
	if limiter.Enabled() {
		logger.Infof("Rate limiter: %d requests per %s per client", cfg.RequestsPerTimeFrame, cfg.TimeFrame)
	} else {
		logger.Info("Rate limiter disabled")
	}
	return limiter
}

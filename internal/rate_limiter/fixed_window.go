package ratelimiter

import (
	"sync"
	"time"

	"github.com/dsnakex/Biotech-Dashboard/internal/config"
	"go.uber.org/zap"
)

type window struct {
	start time.Time
	count int
}

// FixedWindowRateLimiter allows a fixed number of requests per client in
// each time frame. Counters reset when a client's frame expires.
type FixedWindowRateLimiter struct {
	sync.Mutex
	clients   map[string]*window
	limit     int
	timeFrame time.Duration
	enabled   bool
	logger    *zap.SugaredLogger
	now       func() time.Time
	lastSweep time.Time
}

func NewFixedWindowLimiter(cfg config.RateLimiterConfig, logger *zap.SugaredLogger) *FixedWindowRateLimiter {
	return &FixedWindowRateLimiter{
		clients:   make(map[string]*window),
		limit:     cfg.RequestsPerTimeFrame,
		timeFrame: cfg.TimeFrame,
		enabled:   cfg.Enabled && cfg.RequestsPerTimeFrame > 0 && cfg.TimeFrame > 0,
		logger:    logger,
		now:       time.Now,
	}
}

func (rl *FixedWindowRateLimiter) Enabled() bool {
	return rl.enabled
}

// Allow records a request from ip. When the limit is reached it returns
// false and how long the client has to wait.
func (rl *FixedWindowRateLimiter) Allow(ip string) (bool, time.Duration) {
	if !rl.enabled {
		return true, 0
	}

	rl.Lock()
	defer rl.Unlock()

	now := rl.now()
	rl.sweep(now)

	w, exists := rl.clients[ip]
	if !exists || now.Sub(w.start) >= rl.timeFrame {
		rl.clients[ip] = &window{start: now, count: 1}
		return true, 0
	}

	if w.count >= rl.limit {
		retryAfter := w.start.Add(rl.timeFrame).Sub(now)
		rl.logger.Debugf("Rate limit reached for %s, retry after %s", ip, retryAfter)
		return false, retryAfter
	}

	w.count++
	return true, 0
}

// sweep drops expired windows once per time frame so idle clients do not
// accumulate.
func (rl *FixedWindowRateLimiter) sweep(now time.Time) {
	if now.Sub(rl.lastSweep) < rl.timeFrame {
		return
	}
	for ip, w := range rl.clients {
		if now.Sub(w.start) >= rl.timeFrame {
			delete(rl.clients, ip)
		}
	}
	rl.lastSweep = now
}

package ratelimit

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/robalyx/squadpledge/internal/rest/middleware/identity"
	"github.com/robalyx/squadpledge/internal/setup/config"
	"github.com/uptrace/bunrouter"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	errBlocked    = "temporarily blocked for repeated rate limit violations"
	errRateLimit  = "rate limit exceeded"
	headerRetryAt = "Retry-After"
)

type limiterState struct {
	mu           sync.Mutex
	limiter      *rate.Limiter
	strikes      int       // Consecutive rejected requests
	blockedUntil time.Time // Time until the caller is blocked for repeated violations
}

// Middleware limits the request rate of each caller. Callers are keyed by identity,
// anonymous callers by remote address.
type Middleware struct {
	limiters *ttlMap[string, *limiterState]
	config   *config.RateLimit
	logger   *zap.Logger
}

// New creates a new rate limiting middleware.
func New(cfg *config.RateLimit, logger *zap.Logger) *Middleware {
	ttl := time.Duration(max(cfg.BurstSize*2, cfg.BlockDuration*2, 1)) * time.Second

	return &Middleware{
		limiters: newTTLMap[string, *limiterState](ttl),
		config:   cfg,
		logger:   logger.Named("ratelimit_middleware"),
	}
}

// AsRESTMiddleware returns a bunrouter middleware handler for rate limiting.
func (m *Middleware) AsRESTMiddleware(next bunrouter.HandlerFunc) bunrouter.HandlerFunc {
	return func(w http.ResponseWriter, req bunrouter.Request) error {
		key := identity.FromContext(req.Context())
		if key == "" {
			key = "addr:" + req.RemoteAddr
		}

		if allowed, retryAfter, msg := m.check(key, time.Now()); !allowed {
			if retryAfter > 0 {
				w.Header().Set(headerRetryAt, fmt.Sprintf("%.0f", retryAfter.Seconds()))
			}
			http.Error(w, msg, http.StatusTooManyRequests)
			return nil
		}

		return next(w, req)
	}
}

// check reports whether the caller may proceed, and otherwise how long to wait.
func (m *Middleware) check(key string, now time.Time) (bool, time.Duration, string) {
	if m.config.RequestsPerSecond <= 0 {
		return true, 0, ""
	}

	state := m.limiters.GetOrCreate(key, func() *limiterState {
		return &limiterState{
			limiter: rate.NewLimiter(rate.Limit(m.config.RequestsPerSecond), max(m.config.BurstSize, 1)),
		}
	})

	state.mu.Lock()
	defer state.mu.Unlock()

	if now.Before(state.blockedUntil) {
		return false, state.blockedUntil.Sub(now).Round(time.Second), errBlocked
	}

	reservation := state.limiter.ReserveN(now, 1)
	if reservation.OK() {
		delay := reservation.DelayFrom(now)
		if delay == 0 {
			state.strikes = 0
			return true, 0, ""
		}
		reservation.CancelAt(now)

		state.strikes++
		if m.config.StrikeLimit > 0 && state.strikes >= m.config.StrikeLimit {
			block := time.Duration(m.config.BlockDuration) * time.Second
			state.blockedUntil = now.Add(block)
			state.strikes = 0

			m.logger.Debug("Caller exceeded strike limit and is now blocked",
				zap.String("caller", key),
				zap.Duration("block_duration", block))

			return false, block, errBlocked
		}

		m.logger.Debug("Rate limit exceeded",
			zap.String("caller", key),
			zap.Int("strikes", state.strikes))

		return false, delay, errRateLimit
	}

	return false, 0, errRateLimit
}

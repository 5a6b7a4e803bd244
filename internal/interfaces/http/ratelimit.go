package http

import (
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"

	"github.com/jhoicas/Inmobiliaria-crm/internal/application/dto"
)

// RateLimiter mantiene un limiter por clave con expiración simple.
type RateLimiter struct {
	limit  rate.Limit
	burst  int
	maxAge time.Duration
	now    func() time.Time

	mu    sync.Mutex
	store map[string]*limiterEntry
}

type limiterEntry struct {
	limiter *rate.Limiter
	updated time.Time
}

// NewRateLimiter crea el limitador: reqPerSec sostenido con ráfagas de burst.
func NewRateLimiter(reqPerSec float64, burst int) *RateLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &RateLimiter{
		limit:  rate.Limit(reqPerSec),
		burst:  burst,
		maxAge: 10 * time.Minute,
		now:    time.Now,
		store:  make(map[string]*limiterEntry),
	}
}

// Allow consume un token de la clave indicada.
func (r *RateLimiter) Allow(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	entry, ok := r.store[key]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(r.limit, r.burst)}
		r.store[key] = entry
		for k, e := range r.store {
			if now.Sub(e.updated) > r.maxAge {
				delete(r.store, k)
			}
		}
	}
	entry.updated = now
	return entry.limiter.AllowN(now, 1)
}

// IPRateLimit aplica el límite usando la IP remota como clave.
func IPRateLimit(r *RateLimiter) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !r.Allow(c.IP()) {
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(1))
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{Code: "RATE_LIMIT", Message: "demasiados intentos, espere un momento"})
		}
		return c.Next()
	}
}

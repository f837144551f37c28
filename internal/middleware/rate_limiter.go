package middleware

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/Josmarcito/sistema-durtron/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// ipEntry tracks request counts per IP within a fixed window.
type ipEntry struct {
	count     int
	windowEnd time.Time
}

// RateLimiter is a per-IP fixed-window limiter. Separate instances guard the
// login endpoint and the public price check.
type RateLimiter struct {
	limit   int
	window  time.Duration
	mensaje string

	mu      sync.Mutex
	entries map[string]*ipEntry
	now     func() time.Time
}

func NewRateLimiter(limit int, window time.Duration, mensaje string) *RateLimiter {
	return &RateLimiter{
		limit:   limit,
		window:  window,
		mensaje: mensaje,
		entries: make(map[string]*ipEntry),
		now:     time.Now,
	}
}

// LoginRateLimiter limits login attempts to 20 per minute per IP.
func LoginRateLimiter() *RateLimiter {
	return NewRateLimiter(20, time.Minute, "Demasiados intentos de login. Intente en 1 minuto.")
}

// allow registers one hit for ip and returns the window end when over limit.
func (l *RateLimiter) allow(ip string) (bool, time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	e, ok := l.entries[ip]
	if !ok || now.After(e.windowEnd) {
		e = &ipEntry{windowEnd: now.Add(l.window)}
		l.entries[ip] = e
	}
	e.count++
	return e.count <= l.limit, e.windowEnd
}

func (l *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, fin := l.allow(c.ClientIP())
		if !ok {
			secs := int(time.Until(fin).Seconds()) + 1
			c.Header("Retry-After", strconv.Itoa(secs))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New(l.mensaje))
			return
		}
		c.Next()
	}
}

// Purge drops expired windows and returns how many were removed.
func (l *RateLimiter) Purge() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	n := 0
	for ip, e := range l.entries {
		if now.After(e.windowEnd) {
			delete(l.entries, ip)
			n++
		}
	}
	return n
}

// StartPurge runs Purge every interval until ctx is cancelled, so IPs that
// never return do not accumulate.
func (l *RateLimiter) StartPurge(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := l.Purge(); n > 0 {
					log.Debug().Int("purgadas", n).Msg("rate limiter: entradas expiradas eliminadas")
				}
			}
		}
	}()
}

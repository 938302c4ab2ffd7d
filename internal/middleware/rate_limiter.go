package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"shopmate/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const purgeInterval = 5 * time.Minute

// rateEntry tracks request counts per IP within one window.
type rateEntry struct {
	count     int
	windowEnd time.Time
}

// ipLimiter is a fixed-window request counter keyed by client IP. Expired
// entries are purged on the request path at most once per purgeInterval.
type ipLimiter struct {
	mu        sync.Mutex
	limit     int
	window    time.Duration
	entries   map[string]*rateEntry
	lastPurge time.Time
	now       func() time.Time
}

func newIPLimiter(limit int, window time.Duration) *ipLimiter {
	return &ipLimiter{
		limit:   limit,
		window:  window,
		entries: make(map[string]*rateEntry),
		now:     time.Now,
	}
}

// allow counts one request for ip and reports whether it is within the limit
// together with the time left in the current window.
func (l *ipLimiter) allow(ip string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastPurge) >= purgeInterval {
		l.purgeLocked(now)
	}

	entry, ok := l.entries[ip]
	if !ok || now.After(entry.windowEnd) {
		entry = &rateEntry{windowEnd: now.Add(l.window)}
		l.entries[ip] = entry
	}
	entry.count++
	return entry.count <= l.limit, entry.windowEnd.Sub(now)
}

func (l *ipLimiter) purgeLocked(now time.Time) {
	purged := 0
	for ip, entry := range l.entries {
		if now.After(entry.windowEnd) {
			delete(l.entries, ip)
			purged++
		}
	}
	l.lastPurge = now
	if purged > 0 {
		log.Debug().Int("purged", purged).Int("remaining", len(l.entries)).Msg("rate limiter entries purged")
	}
}

// RateLimiter allows limit requests per window for each client IP.
func RateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	return rateLimit(newIPLimiter(limit, window))
}

func rateLimit(l *ipLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, left := l.allow(c.ClientIP())
		if !ok {
			c.Header("Retry-After", strconv.Itoa(int(left.Seconds())+1))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("too many requests, try again shortly"))
			return
		}
		c.Next()
	}
}

package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/veilcall/core/internal/pkg/response"
)

type windowState struct {
	start time.Time
	count int
}

// Limiter is a fixed-window per-IP request limiter held in process memory.
type Limiter struct {
	mu      sync.Mutex
	windows map[string]*windowState
	max     int
	window  time.Duration
	message string
	now     func() time.Time
}

// NewLimiter creates a limiter allowing max requests per window per client IP.
func NewLimiter(max int, window time.Duration, message string) *Limiter {
	return &Limiter{
		windows: make(map[string]*windowState),
		max:     max,
		window:  window,
		message: message,
		now:     time.Now,
	}
}

// Allow records a request for the key and reports whether it is within limits.
func (l *Limiter) Allow(key string) bool {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	ws, ok := l.windows[key]
	if !ok || now.Sub(ws.start) >= l.window {
		l.windows[key] = &windowState{start: now, count: 1}
		l.pruneLocked(now)
		return true
	}
	ws.count++
	return ws.count <= l.max
}

// pruneLocked drops stale windows so the map does not grow with client churn.
func (l *Limiter) pruneLocked(now time.Time) {
	if len(l.windows) < 1024 {
		return
	}
	for key, ws := range l.windows {
		if now.Sub(ws.start) >= l.window {
			delete(l.windows, key)
		}
	}
}

// Middleware adapts the limiter to gin, keyed by client IP.
func (l *Limiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if ip == "" || l.Allow(ip) {
			c.Next()
			return
		}
		response.TooManyRequests(c, l.message)
	}
}

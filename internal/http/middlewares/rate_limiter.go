package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
)

type window struct {
	count int
	start time.Time
}

// RateLimiter is the in-process fixed-window limiter, keyed by client IP.
// It is the default when no redis address is configured; state is lost on
// restart, which is fine for a single-process deployment.
func RateLimiter(limit int, windowSize time.Duration) echo.MiddlewareFunc {
	var (
		mu      sync.Mutex
		windows = make(map[string]*window)
	)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			now := time.Now()
			key := c.RealIP()

			mu.Lock()
			w, ok := windows[key]
			if !ok || now.Sub(w.start) > windowSize {
				w = &window{start: now}
				windows[key] = w
			}
			if w.count >= limit {
				mu.Unlock()
				return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
			}
			w.count++
			mu.Unlock()

			return next(c)
		}
	}
}

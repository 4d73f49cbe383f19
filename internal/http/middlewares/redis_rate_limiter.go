package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/rueidis"
	"go.uber.org/zap"
)

// RedisRateLimiter is the fixed-window limiter backed by redis so the
// window survives restarts and can be shared by replicas. INCR creates the
// window, EXPIRE bounds it. Redis failures fail open: losing rate limiting
// is preferable to refusing traffic.
func RedisRateLimiter(client rueidis.Client, limit int, windowSize time.Duration, logger *zap.Logger) echo.MiddlewareFunc {
	seconds := int64(windowSize.Seconds())

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			key := fmt.Sprintf("rl:%d:%s", seconds, c.RealIP())

			count, err := client.Do(ctx, client.B().Incr().Key(key).Build()).AsInt64()
			if err != nil {
				logger.Warn("rate limiter redis error", zap.Error(err))
				return next(c)
			}
			if count == 1 {
				cmd := client.B().Expire().Key(key).Seconds(seconds).Build()
				if err := client.Do(ctx, cmd).Error(); err != nil {
					logger.Warn("rate limiter expire failed", zap.Error(err))
				}
			}
			if count > int64(limit) {
				return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
			}
			return next(c)
		}
	}
}

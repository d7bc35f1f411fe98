package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"garage-booking/internal/handler/httperr"
	"garage-booking/internal/pkg/config"
	"garage-booking/internal/pkg/errs"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

var ErrUnexpectedScriptResult = errs.New("unexpected rate limit script result")

// WindowCounter increments the hit counter of key within the current window.
type WindowCounter interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

var fixedWindowScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return current
`)

type RedisWindowCounter struct {
	rdb redis.Scripter
}

func NewRedisWindowCounter(rdb redis.Scripter) *RedisWindowCounter {
	return &RedisWindowCounter{rdb: rdb}
}

func (r *RedisWindowCounter) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	ms := window.Milliseconds()
	if ms <= 0 {
		ms = time.Minute.Milliseconds()
	}
	res, err := fixedWindowScript.Run(ctx, r.rdb, []string{key}, ms).Result()
	if err != nil {
		return 0, errs.Wrap(err, "rate limit script failed")
	}
	switch v := res.(type) {
	case int64:
		return v, nil
	case string:
		return strconv.ParseInt(v, 10, 64)
	default:
		return 0, errs.Wrap(ErrUnexpectedScriptResult, fmt.Sprintf("got %T", res))
	}
}

type RateLimiter struct {
	counter  WindowCounter
	limit    int
	window   time.Duration
	prefix   string
	failOpen bool
	logger   *slog.Logger
}

// NewRateLimiter returns a limiter that lets everything through when counter is nil.
func NewRateLimiter(counter WindowCounter, cfg config.RedisConfig, prefix string, logger *slog.Logger) *RateLimiter {
	limit := cfg.BookingLimit
	if limit <= 0 {
		limit = 10
	}
	window := cfg.BookingWindow
	if window <= 0 {
		window = time.Minute
	}
	return &RateLimiter{
		counter:  counter,
		limit:    limit,
		window:   window,
		prefix:   prefix,
		failOpen: cfg.FailOpen,
		logger:   logger,
	}
}

func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.counter == nil {
			c.Next()
			return
		}

		count, err := rl.counter.Incr(c.Request.Context(), rl.key(c), rl.window)
		if err != nil {
			rl.logger.Warn("rate limiter unavailable", "error", err, "fail_open", rl.failOpen)
			if rl.failOpen {
				c.Next()
				return
			}
			httperr.AbortWithError(c, http.StatusServiceUnavailable, err, "Rate limiter unavailable", nil)
			return
		}

		if count > int64(rl.limit) {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(rl.window.Seconds()))))
			httperr.AbortWithError(c, http.StatusTooManyRequests, nil, "Too many booking attempts", nil)
			return
		}
		c.Next()
	}
}

// authenticated callers are limited per user, anonymous ones per address
func (rl *RateLimiter) key(c *gin.Context) string {
	if userID, ok := GetUserID(c); ok {
		return rl.prefix + ":user:" + userID.String()
	}
	return rl.prefix + ":ip:" + c.ClientIP()
}

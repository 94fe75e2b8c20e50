package ratelimit

import (
	"fieldjobs/common"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

type Config struct {
	RPS   float64
	Burst int
}

// ParseConfigFromEnv reads RATE_LIMIT_RPS and RATE_LIMIT_BURST, a zero RPS disables limiting.
func ParseConfigFromEnv() (*Config, error) {
	c := &Config{}
	if v := os.Getenv("RATE_LIMIT_RPS"); v != "" {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, err
		}
		c.RPS = rps
	}
	c.Burst = int(c.RPS)
	if v := os.Getenv("RATE_LIMIT_BURST"); v != "" {
		burst, err := strconv.Atoi(v)
		if err != nil {
			return nil, err
		}
		c.Burst = burst
	}
	if c.Burst < 1 {
		c.Burst = 1
	}
	return c, nil
}

// Limiter keeps one token bucket per client address, idle buckets expire.
type Limiter struct {
	config   Config
	limiters *cache.Cache
}

func NewLimiter(c Config) *Limiter {
	return &Limiter{config: c, limiters: cache.New(10*time.Minute, 20*time.Minute)}
}

func (l *Limiter) Allow(client string) bool {
	if l.config.RPS <= 0 {
		return true
	}
	v, found := l.limiters.Get(client)
	if !found {
		// Add fails when a concurrent request created the bucket first.
		_ = l.limiters.Add(client, rate.NewLimiter(rate.Limit(l.config.RPS), l.config.Burst), cache.DefaultExpiration)
		v, _ = l.limiters.Get(client)
	}
	limiter, ok := v.(*rate.Limiter)
	if !ok {
		return true
	}
	return limiter.Allow()
}

func (l *Limiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		client := c.ClientIP()
		if !l.Allow(client) {
			logrus.WithField("client", client).Warn("rate limit exceeded")
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				&common.ErrorBody{Code: "common.too_many_requests", Message: "too many requests"})
			return
		}
		c.Next()
	}
}

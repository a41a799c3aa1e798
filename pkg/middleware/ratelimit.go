package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"trainer-booking/pkg/utils"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	maxTrackedClients = 10000
	clientIdleTTL     = 10 * time.Minute
)

// RateLimiter keeps one token bucket per client IP. Buckets live in a
// bounded LRU and expire after clientIdleTTL without traffic.
type RateLimiter struct {
	mu      sync.Mutex
	clients *expirable.LRU[string, *rate.Limiter]
	limit   rate.Limit
	burst   int
	log     *zap.Logger
}

func NewRateLimiter(config utils.RateLimitConfig, logger *zap.Logger) *RateLimiter {
	limit := rate.Inf
	if config.PerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(config.PerMinute))
	}
	burst := config.Burst
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		clients: expirable.NewLRU[string, *rate.Limiter](maxTrackedClients, nil, clientIdleTTL),
		limit:   limit,
		burst:   burst,
		log:     logger.With(zap.String("middleware", "ratelimit")),
	}
}

func (l *RateLimiter) limiter(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	limiter, ok := l.clients.Get(ip)
	if !ok {
		limiter = rate.NewLimiter(l.limit, l.burst)
	}
	// Re-adding refreshes the idle TTL.
	l.clients.Add(ip, limiter)
	return limiter
}

func (l *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		if !l.limiter(ip).Allow() {
			l.log.Warn("Rate limit exceeded", zap.String("ip", ip), zap.String("path", r.URL.Path))
			utils.ResponseTooManyRequests(w, "Rate limit exceeded. Try again later.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP keys on the connection peer. Forwarding headers only count
// when the router rewrote RemoteAddr from them, which it does solely
// behind a trusted proxy.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/ramakrishnanyadav/legalaid-backend/internal/api/response"
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter applies a per-client token bucket to the routes it wraps.
// Used on the credential endpoints; exceeding the limit maps to the
// too-many-requests credential error on the client.
type RateLimiter struct {
	perMin int
	burst  int

	mu      sync.Mutex
	clients map[string]*clientLimiter
}

// NewRateLimiter creates a RateLimiter allowing perMin requests per minute
// with the given burst per client address. Idle client entries are swept in
// the background until stop is closed.
func NewRateLimiter(perMin, burst int, stop <-chan struct{}) *RateLimiter {
	rl := &RateLimiter{
		perMin:  perMin,
		burst:   burst,
		clients: make(map[string]*clientLimiter),
	}
	go rl.sweep(stop)
	return rl
}

// Limit is the middleware.
func (rl *RateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := GetRequestID(r.Context())

		if !rl.allow(clientAddr(r)) {
			response.Err(w, http.StatusTooManyRequests, "TOO_MANY_REQUESTS",
				"Too many attempts, try again later", requestID)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) allow(addr string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cl, ok := rl.clients[addr]
	if !ok {
		cl = &clientLimiter{
			limiter: rate.NewLimiter(rate.Limit(float64(rl.perMin)/60.0), rl.burst),
		}
		rl.clients[addr] = cl
	}
	cl.lastSeen = time.Now()
	return cl.limiter.Allow()
}

func (rl *RateLimiter) sweep(stop <-chan struct{}) {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-10 * time.Minute)
			rl.mu.Lock()
			for addr, cl := range rl.clients {
				if cl.lastSeen.Before(cutoff) {
					delete(rl.clients, addr)
				}
			}
			rl.mu.Unlock()
		}
	}
}

func clientAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

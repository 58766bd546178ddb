package middleware

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"tradehub-be/internal/utils"

	"golang.org/x/time/rate"
)

// InternalAuthHeader carries the shared secret of trusted internal callers.
const InternalAuthHeader = "X-Service-Auth"

// Rate limit tiers
const (
	// Sign-in and sign-up
	limitStrict = rate.Limit(2)
	burstStrict = 5

	limitGeneral = rate.Limit(10)
	burstGeneral = 20

	// Frontend-heavy clients
	limitFrontend = rate.Limit(20)
	burstFrontend = 40

	// Trusted internal services
	limitInternal = rate.Limit(100)
	burstInternal = 200

	visitorTTL = 3 * time.Minute
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per identity and tier.
type RateLimiter struct {
	internalKey string

	mu       sync.Mutex
	visitors map[string]*visitor
	now      func() time.Time
}

// NewRateLimiter builds a limiter. Requests carrying internalKey in
// X-Service-Auth get the internal tier; an empty key disables that tier.
func NewRateLimiter(internalKey string) *RateLimiter {
	return &RateLimiter{internalKey: internalKey, visitors: make(map[string]*visitor), now: time.Now}
}

// Run evicts idle visitors every interval until ctx is done.
func (l *RateLimiter) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.cleanup()
		}
	}
}

func (l *RateLimiter) cleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for key, v := range l.visitors {
		if l.now().Sub(v.lastSeen) > visitorTTL {
			delete(l.visitors, key)
		}
	}
}

func (l *RateLimiter) visitor(key string, r rate.Limit, b int) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	v, ok := l.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(r, b)}
		l.visitors[key] = v
	}
	v.lastSeen = l.now()
	return v.limiter
}

func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		limit, burst, tier := l.tier(r)
		key := fmt.Sprintf("%s:%s", identity(r), tier)

		if !l.visitor(key, limit, burst).Allow() {
			w.Header().Set("Retry-After", "1")
			utils.WriteJSONError(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (l *RateLimiter) tier(r *http.Request) (rate.Limit, int, string) {
	if l.internalKey != "" && r.Header.Get(InternalAuthHeader) == l.internalKey {
		return limitInternal, burstInternal, "internal"
	}
	if strings.HasPrefix(r.URL.Path, "/auth/sign") {
		return limitStrict, burstStrict, "strict"
	}
	if r.Header.Get("X-Client-Type") == "frontend-heavy" {
		return limitFrontend, burstFrontend, "frontend"
	}
	return limitGeneral, burstGeneral, "general"
}

// identity prefers the signed-in user, then a client device id, then the
// remote address.
func identity(r *http.Request) string {
	if a := ActorFrom(r.Context()); !a.IsAnonymous() {
		return "user:" + a.UserID
	}
	if deviceID := r.Header.Get("X-Device-ID"); deviceID != "" {
		return "device:" + deviceID
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}
	return "ip:" + ip
}

package web

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net"
	"net/http"
	"net/netip"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Every client gets one token bucket for all requests. Farmer writes draw
// from a second bucket per client and write route, so a run of creates does
// not use up the budget for updates or deactivations.

const (
	limiterIdleTTL     = 3 * time.Minute
	limiterSweepPeriod = 5 * time.Minute
	retryAfterSeconds  = 60

	MsgTooManyRequests = "Too many requests, please try again later"
)

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// clientBuckets holds token buckets by key. Idle buckets are swept in the background.
type clientBuckets struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	limit   rate.Limit
	burst   int
	cancel  context.CancelFunc
}

func newClientBuckets(rps float64, burst int) *clientBuckets {
	ctx, cancel := context.WithCancel(context.Background())
	b := &clientBuckets{
		buckets: make(map[string]*bucket),
		limit:   rate.Limit(rps),
		burst:   burst,
		cancel:  cancel,
	}
	go b.sweepEvery(ctx, limiterSweepPeriod)
	return b
}

// allow spends one token from the bucket of key, creating it full on first use.
func (b *clientBuckets) allow(key string) bool {
	now := time.Now()

	b.mu.Lock()
	bk, ok := b.buckets[key]
	if !ok {
		bk = &bucket{limiter: rate.NewLimiter(b.limit, b.burst)}
		b.buckets[key] = bk
	}
	bk.lastSeen = now
	b.mu.Unlock()

	return bk.limiter.AllowN(now, 1)
}

// sweep drops the buckets not used since cutoff and returns how many went.
func (b *clientBuckets) sweep(cutoff time.Time) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	removed := 0
	for key, bk := range b.buckets {
		if bk.lastSeen.Before(cutoff) {
			delete(b.buckets, key)
			removed++
		}
	}
	return removed
}

func (b *clientBuckets) sweepEvery(ctx context.Context, period time.Duration) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			b.sweep(time.Now().Add(-limiterIdleTTL))
		case <-ctx.Done():
			return
		}
	}
}

func (b *clientBuckets) stop() {
	b.cancel()
}

// clientIP returns the address of the caller. Forwarding headers are only
// believed when the direct peer is one of trustedProxies.
func clientIP(r *http.Request, trustedProxies []string) string {
	peer, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		peer = r.RemoteAddr
	}
	if !slices.Contains(trustedProxies, peer) {
		return peer
	}

	// X-Forwarded-For is "client, proxy1, proxy2"
	if first, _, _ := strings.Cut(r.Header.Get("X-Forwarded-For"), ","); first != "" {
		if addr, err := netip.ParseAddr(strings.TrimSpace(first)); err == nil {
			return addr.String()
		}
	}
	if addr, err := netip.ParseAddr(strings.TrimSpace(r.Header.Get("X-Real-IP"))); err == nil {
		return addr.String()
	}
	return peer
}

// clientKey identifies a caller without keeping its address in memory.
func (m *Middleware) clientKey(r *http.Request) string {
	sum := sha256.Sum256([]byte(clientIP(r, m.conf.Security.TrustedProxies)))
	return hex.EncodeToString(sum[:8])
}

// RateLimit applies the per-client limit to every request.
func (m *Middleware) RateLimit(next http.Handler) http.Handler {
	if m.globalLimiter == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.globalLimiter.allow(m.clientKey(r)) {
			m.rejectRateLimited(w, "global")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RateLimitWrites limits farmer mutations per client and write route. It must
// wrap a handler registered on the mux so the matched pattern is known.
func (m *Middleware) RateLimitWrites(next http.Handler) http.Handler {
	if m.writeLimiter == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := r.Pattern
		if route == "" {
			route = r.Method
		}
		if !m.writeLimiter.allow(m.clientKey(r) + " " + route) {
			m.rejectRateLimited(w, route)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (m *Middleware) rejectRateLimited(w http.ResponseWriter, endpoint string) {
	m.metrics.RecordRateLimitHit(endpoint)
	w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds))
	ErrorResponse(w, MsgTooManyRequests, http.StatusTooManyRequests)
}

package restapi

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
	"timetable.transitboard.org/internal/utils"
)

// RateLimitMiddleware limits requests per valid API key, or per client address for
// anonymous board readers and unknown keys.
type RateLimitMiddleware struct {
	limiters    map[string]*limiterEntry
	validKey    func(key string) bool
	mu          sync.Mutex
	rateLimit   rate.Limit
	burstSize   int
	idleTimeout time.Duration
	done        chan struct{}
	stopOnce    sync.Once
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimitMiddleware allows ratePerSecond requests per interval per client.
// A non-positive rate disables limiting. Only keys accepted by validKey get their own
// bucket; a nil validKey buckets every request by address.
func NewRateLimitMiddleware(ratePerSecond float64, interval time.Duration, validKey func(key string) bool) *RateLimitMiddleware {
	rl := &RateLimitMiddleware{
		limiters:    make(map[string]*limiterEntry),
		validKey:    validKey,
		rateLimit:   rate.Inf,
		burstSize:   1,
		idleTimeout: 10 * time.Minute,
		done:        make(chan struct{}),
	}
	if ratePerSecond > 0 {
		rl.rateLimit = rate.Limit(ratePerSecond / interval.Seconds())
		rl.burstSize = int(math.Max(1, math.Ceil(ratePerSecond)))
	}

	go rl.cleanup(5 * time.Minute)
	return rl
}

// getLimiter gets or creates a rate limiter for the given client
func (rl *RateLimitMiddleware) getLimiter(client string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	entry, exists := rl.limiters[client]
	if !exists {
		entry = &limiterEntry{limiter: rate.NewLimiter(rl.rateLimit, rl.burstSize)}
		rl.limiters[client] = entry
	}
	entry.lastSeen = time.Now()
	return entry.limiter
}

// Handler is the HTTP middleware function
func (rl *RateLimitMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rl.rateLimit == rate.Inf {
			next.ServeHTTP(w, r)
			return
		}

		if !rl.getLimiter(rl.clientKey(r)).Allow() {
			rl.sendRateLimitExceeded(w)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimitMiddleware) clientKey(r *http.Request) string {
	if key := utils.APIKey(r); key != "" && rl.validKey != nil && rl.validKey(key) {
		return "key:" + key
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "addr:" + host
}

// sendRateLimitExceeded sends a 429 Too Many Requests response
func (rl *RateLimitMiddleware) sendRateLimitExceeded(w http.ResponseWriter) {
	retryAfter := math.Ceil(1 / float64(rl.rateLimit))

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Retry-After", strconv.Itoa(int(math.Max(1, retryAfter))))
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rl.burstSize))
	w.Header().Set("X-RateLimit-Remaining", "0")
	w.WriteHeader(http.StatusTooManyRequests)

	_, _ = w.Write([]byte(`{"code":429,"text":"Rate limit exceeded. Please try again later.","version":1}` + "\n"))
}

// cleanup periodically drops limiters of clients that have gone quiet
func (rl *RateLimitMiddleware) cleanup(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-rl.done:
			return
		case now := <-ticker.C:
			rl.mu.Lock()
			for key, entry := range rl.limiters {
				if now.Sub(entry.lastSeen) > rl.idleTimeout {
					delete(rl.limiters, key)
				}
			}
			rl.mu.Unlock()
		}
	}
}

// Stop stops the cleanup goroutine
func (rl *RateLimitMiddleware) Stop() {
	rl.stopOnce.Do(func() { close(rl.done) })
}

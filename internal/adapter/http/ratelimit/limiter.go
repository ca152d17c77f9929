package ratelimit

import (
	"encoding/json"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

type clientRecord struct {
	count        int
	windowStart  time.Time
	blockedUntil time.Time
	violations   int
}

// ClientLimiter allows a fixed number of requests per client per window.
// A client that goes over is blocked, and each further violation within
// the record's lifetime lengthens the block according to the backoff.
type ClientLimiter struct {
	mu       sync.Mutex
	clients  map[string]*clientRecord
	limit    int
	window   time.Duration
	backoff  *Backoff
	now      func() time.Time
	stop     chan struct{}
	stopOnce sync.Once
}

func NewClientLimiter(limit int, window time.Duration, backoff *Backoff) *ClientLimiter {
	if backoff == nil {
		backoff = &Backoff{Min: window, Max: window, Factor: 1}
	}
	l := &ClientLimiter{
		clients: make(map[string]*clientRecord),
		limit:   limit,
		window:  window,
		backoff: backoff,
		now:     time.Now,
		stop:    make(chan struct{}),
	}

	go l.cleanup()

	return l
}

// Allow records one request from clientID. When it is refused, the second
// value is how long the client must wait.
func (l *ClientLimiter) Allow(clientID string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	rec, ok := l.clients[clientID]
	if !ok {
		rec = &clientRecord{windowStart: now}
		l.clients[clientID] = rec
	}

	if now.Before(rec.blockedUntil) {
		return false, rec.blockedUntil.Sub(now)
	}

	if now.Sub(rec.windowStart) >= l.window {
		rec.count = 0
		rec.windowStart = now
	}

	rec.count++
	if rec.count > l.limit {
		rec.violations++
		block := l.backoff.Duration(rec.violations)
		rec.blockedUntil = now.Add(block)
		rec.count = 0
		rec.windowStart = rec.blockedUntil
		return false, block
	}

	return true, 0
}

func (l *ClientLimiter) Reset(clientID string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.clients, clientID)
}

// Close stops the background cleanup.
func (l *ClientLimiter) Close() {
	l.stopOnce.Do(func() { close(l.stop) })
}

func (l *ClientLimiter) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.sweep()
		case <-l.stop:
			return
		}
	}
}

// sweep drops idle, unblocked clients, which also forgets their violations.
func (l *ClientLimiter) sweep() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for id, rec := range l.clients {
		if now.Sub(rec.windowStart) > 2*l.window && !now.Before(rec.blockedUntil) {
			delete(l.clients, id)
		}
	}
}

// Middleware refuses over-limit requests with 429 and a Retry-After header.
func (l *ClientLimiter) Middleware(clientID func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			allowed, wait := l.Allow(clientID(r))
			if !allowed {
				w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": "Too many requests"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ClientIP returns the caller's address. The first X-Forwarded-For entry is
// trusted only when behindProxy is set.
func ClientIP(r *http.Request, behindProxy bool) string {
	if behindProxy {
		if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
			first, _, _ := strings.Cut(fwd, ",")
			if ip := strings.TrimSpace(first); ip != "" {
				return ip
			}
		}
		if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
			return ip
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

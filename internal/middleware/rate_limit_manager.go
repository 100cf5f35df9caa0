package middleware

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const visitorIdleTimeout = 3 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimitManager keeps one token bucket per client IP and evicts idle ones
// until its context is cancelled.
type RateLimitManager struct {
	requestsPerWindow int
	window            time.Duration

	visitors   map[string]*visitor
	visitorsMu sync.Mutex

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	now    func() time.Time
}

// NewRateLimitManager allows requestsPerWindow requests per window for each
// IP. A non-positive request count disables limiting.
func NewRateLimitManager(ctx context.Context, requestsPerWindow int, window time.Duration) *RateLimitManager {
	managerCtx, cancel := context.WithCancel(ctx)
	if window <= 0 {
		window = time.Minute
	}

	m := &RateLimitManager{
		requestsPerWindow: requestsPerWindow,
		window:            window,
		visitors:          make(map[string]*visitor),
		ctx:               managerCtx,
		cancel:            cancel,
		now:               time.Now,
	}

	m.wg.Add(1)
	go m.cleanupLoop()

	return m
}

// GetVisitor retrieves or creates the limiter for ip. It returns nil when
// limiting is disabled.
func (m *RateLimitManager) GetVisitor(ip string) *rate.Limiter {
	if m == nil || m.requestsPerWindow <= 0 {
		return nil
	}

	m.visitorsMu.Lock()
	defer m.visitorsMu.Unlock()

	if v, ok := m.visitors[ip]; ok {
		v.lastSeen = m.now()
		return v.limiter
	}

	limit := rate.Limit(float64(m.requestsPerWindow) / m.window.Seconds())
	limiter := rate.NewLimiter(limit, m.requestsPerWindow)
	m.visitors[ip] = &visitor{limiter: limiter, lastSeen: m.now()}
	return limiter
}

func (m *RateLimitManager) cleanupLoop() {
	defer m.wg.Done()

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			return
		case <-ticker.C:
			m.cleanup()
		}
	}
}

func (m *RateLimitManager) cleanup() {
	m.visitorsMu.Lock()
	defer m.visitorsMu.Unlock()

	now := m.now()
	for ip, v := range m.visitors {
		if now.Sub(v.lastSeen) > visitorIdleTimeout {
			delete(m.visitors, ip)
		}
	}
}

func (m *RateLimitManager) size() int {
	m.visitorsMu.Lock()
	defer m.visitorsMu.Unlock()
	return len(m.visitors)
}

// Shutdown stops the cleanup goroutine and waits for it to finish
func (m *RateLimitManager) Shutdown() error {
	m.cancel()
	m.wg.Wait()
	return nil
}

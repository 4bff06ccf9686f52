package rate_limiter

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Visitors hands out one token bucket per client key.
type Visitors struct {
	mu       sync.Mutex
	visitors map[string]*clientLimiter
	limit    rate.Limit
	burst    int
	now      func() time.Time
}

func NewVisitors(rps float64, burst int) *Visitors {
	return &Visitors{
		visitors: make(map[string]*clientLimiter),
		limit:    rate.Limit(rps),
		burst:    burst,
		now:      time.Now,
	}
}

func (v *Visitors) GetVisitor(ip string) *rate.Limiter {
	v.mu.Lock()
	defer v.mu.Unlock()

	c, exists := v.visitors[ip]
	if !exists {
		limiter := rate.NewLimiter(v.limit, v.burst)
		v.visitors[ip] = &clientLimiter{limiter, v.now()}
		return limiter
	}

	c.lastSeen = v.now()
	return c.limiter
}

// Cleanup forgets clients idle for longer than maxIdle and returns how many were dropped.
func (v *Visitors) Cleanup(maxIdle time.Duration) int {
	v.mu.Lock()
	defer v.mu.Unlock()

	dropped := 0
	for ip, c := range v.visitors {
		if v.now().Sub(c.lastSeen) > maxIdle {
			delete(v.visitors, ip)
			dropped++
		}
	}
	return dropped
}

func (v *Visitors) Len() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.visitors)
}

func (v *Visitors) Reset() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.visitors = make(map[string]*clientLimiter)
}

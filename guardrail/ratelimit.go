package guardrail

import (
	"sync"

	"golang.org/x/time/rate"
)

// ========================================
// 会话限流器 (Session Rate Limiter)
// ========================================

// RateLimiter 按会话粒度的令牌桶限流器
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

// NewRateLimiter 创建限流器，limit 为每秒补充的令牌数，burst 为桶容量
func NewRateLimiter(limit float64, burst int) *RateLimiter {
	return &RateLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Limit(limit),
		burst:    burst,
	}
}

// Allow 判断会话当前是否允许发起请求
func (r *RateLimiter) Allow(sessionID string) bool {
	r.mu.Lock()
	limiter, ok := r.limiters[sessionID]
	if !ok {
		limiter = rate.NewLimiter(r.limit, r.burst)
		r.limiters[sessionID] = limiter
	}
	r.mu.Unlock()
	return limiter.Allow()
}

// Forget 清除会话的限流状态
func (r *RateLimiter) Forget(sessionID string) {
	r.mu.Lock()
	delete(r.limiters, sessionID)
	r.mu.Unlock()
}

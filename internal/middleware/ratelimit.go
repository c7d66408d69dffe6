// 包 middleware：入口限流与通用响应头
package middleware

import (
	"net/http"
	"sync"
	"time"
)

// 文档注释：按秒重置的令牌桶
// 约束：不排队，超出即返回 429；所有请求共享一个桶
type TokenBucket struct {
	capacity int
	tokens   int
	lastSec  int64
	now      func() time.Time
	mu       sync.Mutex
}

func NewTokenBucket(qps int) *TokenBucket {
	if qps <= 0 {
		qps = 200
	}
	return &TokenBucket{capacity: qps, tokens: qps, lastSec: time.Now().Unix(), now: time.Now}
}

func (tb *TokenBucket) Allow() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	sec := tb.now().Unix()
	if tb.lastSec != sec {
		tb.lastSec = sec
		tb.tokens = tb.capacity
	}
	if tb.tokens > 0 {
		tb.tokens--
		return true
	}
	return false
}

// Options：中间件开关
type Options struct {
	RateLimit bool
	QPS       int
}

// Wrap：设置 nosniff 头，并在开启时套上令牌桶限流
func Wrap(next http.Handler, o Options) http.Handler {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("x-content-type-options", "nosniff")
		next.ServeHTTP(w, r)
	})
	if !o.RateLimit {
		return h
	}
	tb := NewTokenBucket(o.QPS)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !tb.Allow() {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		h.ServeHTTP(w, r)
	})
}

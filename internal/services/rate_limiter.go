package services

import (
	"fmt"
	"sync"
	"time"

	"councilboard/internal/models"
	"councilboard/internal/utils"
)

const (
	DefaultCommentLimit  = 5
	DefaultCommentWindow = time.Minute
)

// RateLimiter 滑动窗口限流：按 (identity, target) 记录窗口内的评论时间戳。
// 窗口存放在注入的 TTL 缓存里，缓存丢失时视为空窗口。
type RateLimiter struct {
	cache     utils.Cache
	clock     utils.Clock
	threshold int
	period    time.Duration

	mu sync.Mutex
}

func NewRateLimiter(cache utils.Cache, clock utils.Clock, threshold int, period time.Duration) *RateLimiter {
	if clock == nil {
		clock = utils.SystemClock()
	}
	if threshold <= 0 {
		threshold = DefaultCommentLimit
	}
	if period <= 0 {
		period = DefaultCommentWindow
	}
	return &RateLimiter{cache: cache, clock: clock, threshold: threshold, period: period}
}

func windowKey(identity string, kind models.TargetKind, id uint) string {
	return fmt.Sprintf("ratelimit:%s:%d:%s", kind, id, identity)
}

// Admit records an attempt and returns ErrRateLimited once threshold
// attempts already sit inside the trailing period. Only entries older than
// now-period are dropped; one exactly at the boundary still counts.
// Rejected attempts are not recorded.
func (l *RateLimiter) Admit(identity string, kind models.TargetKind, id uint) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	key := windowKey(identity, kind, id)
	now := l.clock.Now()
	cutoff := now.Add(-l.period)

	var stored []time.Time
	if v, ok := l.cache.Get(key); ok {
		stored, _ = v.([]time.Time)
	}

	recent := make([]time.Time, 0, len(stored)+1)
	for _, t := range stored {
		if !t.Before(cutoff) {
			recent = append(recent, t)
		}
	}

	if len(recent) >= l.threshold {
		l.cache.Set(key, recent, l.entryTTL())
		return ErrRateLimited
	}

	recent = append(recent, now)
	l.cache.Set(key, recent, l.entryTTL())
	return nil
}

// 缓存过期只负责回收内存，窗口判断以时间戳为准，所以 TTL 要比窗口长
func (l *RateLimiter) entryTTL() time.Duration {
	return 2 * l.period
}

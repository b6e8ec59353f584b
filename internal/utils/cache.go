package utils

import (
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Clock 提供当前时间，测试中可替换为可控时钟
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock 返回真实的系统时钟
func SystemClock() Clock {
	return systemClock{}
}

// Cache 是限流器等组件依赖的短 TTL 缓存抽象
type Cache interface {
	Get(key string) (interface{}, bool)
	Set(key string, data interface{}, ttl time.Duration)
	Delete(key string)
}

// CacheItem 包装缓存数据和过期时间
type CacheItem struct {
	Data      interface{}
	ExpiresAt time.Time
}

// TTLCache 基于 LRU 的本地缓存，每个条目带独立过期时间
type TTLCache struct {
	lruCache *lru.Cache[string, CacheItem]
	clock    Clock
	mu       sync.Mutex
}

// NewTTLCache 创建容量为 size 的缓存；clock 为 nil 时使用系统时钟
func NewTTLCache(size int, clock Clock) (*TTLCache, error) {
	l, err := lru.New[string, CacheItem](size)
	if err != nil {
		return nil, fmt.Errorf("create lru cache: %w", err)
	}
	if clock == nil {
		clock = SystemClock()
	}
	return &TTLCache{lruCache: l, clock: clock}, nil
}

// Set 设置缓存，TTL 为过期时间
func (c *TTLCache) Set(key string, data interface{}, ttl time.Duration) {
	c.lruCache.Add(key, CacheItem{
		Data:      data,
		ExpiresAt: c.clock.Now().Add(ttl),
	})
}

// Get 获取缓存，若不存在或已过期则返回 false
func (c *TTLCache) Get(key string) (interface{}, bool) {
	val, ok := c.lruCache.Get(key)
	if !ok {
		return nil, false
	}

	// 检查过期
	if !c.clock.Now().Before(val.ExpiresAt) {
		c.lruCache.Remove(key)
		return nil, false
	}

	return val.Data, true
}

// Delete 删除指定缓存
func (c *TTLCache) Delete(key string) {
	c.lruCache.Remove(key)
}

// Len 返回当前条目数（包含尚未清理的过期条目）
func (c *TTLCache) Len() int {
	return c.lruCache.Len()
}

// PurgeExpired 清理所有已过期条目，返回清理数量
func (c *TTLCache) PurgeExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	removed := 0
	for _, key := range c.lruCache.Keys() {
		item, ok := c.lruCache.Peek(key)
		if ok && !now.Before(item.ExpiresAt) {
			c.lruCache.Remove(key)
			removed++
		}
	}
	return removed
}

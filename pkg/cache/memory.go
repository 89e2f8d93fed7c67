package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryCache 进程内缓存
// 使用 sync.Map 保证并发安全，过期条目懒删除
type MemoryCache struct {
	store sync.Map
}

// cacheItem 内部结构，包含值和过期时间
type cacheItem struct {
	value      string
	expiration int64 // UnixNano，0 表示不过期
}

// NewMemoryCache 创建内存缓存
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{}
}

var _ Cache = (*MemoryCache)(nil)

func (c *MemoryCache) Get(_ context.Context, key string) (string, bool) {
	val, ok := c.store.Load(key)
	if !ok {
		return "", false
	}

	item := val.(cacheItem)

	// 检查是否过期
	if item.expiration > 0 && time.Now().UnixNano() > item.expiration {
		c.store.Delete(key) // 懒删除
		return "", false
	}

	return item.value, true
}

func (c *MemoryCache) Set(_ context.Context, key, value string, ttl time.Duration) error {
	var exp int64
	if ttl > 0 {
		exp = time.Now().Add(ttl).UnixNano()
	}

	c.store.Store(key, cacheItem{
		value:      value,
		expiration: exp,
	})
	return nil
}

func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.store.Delete(key)
	return nil
}

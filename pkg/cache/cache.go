package cache

import (
	"context"
	"time"
)

// Cache 字符串键值缓存
// 询价结果等短时缓存的统一入口，部署单实例用内存实现，多实例切 Redis
type Cache interface {
	// Get 读取缓存，未命中或已过期返回 ("", false)
	Get(ctx context.Context, key string) (string, bool)
	// Set 写入缓存，ttl<=0 表示不过期
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	// Delete 删除缓存
	Delete(ctx context.Context, key string) error
}

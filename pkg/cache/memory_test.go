package cache

import (
	"context"
	"testing"
	"time"
)

func TestMemoryCache_SetGet(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	if _, ok := c.Get(ctx, "missing"); ok {
		t.Error("未写入的键不应命中")
	}

	if err := c.Set(ctx, "k1", "v1", 0); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	val, ok := c.Get(ctx, "k1")
	if !ok || val != "v1" {
		t.Errorf("Get() = %q, %v, want v1, true", val, ok)
	}

	// 覆盖写
	_ = c.Set(ctx, "k1", "v2", 0)
	if val, _ := c.Get(ctx, "k1"); val != "v2" {
		t.Errorf("覆盖后 Get() = %q, want v2", val)
	}
}

func TestMemoryCache_TTLExpiry(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	_ = c.Set(ctx, "short", "v", 20*time.Millisecond)
	if _, ok := c.Get(ctx, "short"); !ok {
		t.Fatal("过期前应命中")
	}

	time.Sleep(30 * time.Millisecond)
	if _, ok := c.Get(ctx, "short"); ok {
		t.Error("过期后不应命中")
	}

	// ttl<=0 表示不过期
	_ = c.Set(ctx, "forever", "v", 0)
	time.Sleep(30 * time.Millisecond)
	if _, ok := c.Get(ctx, "forever"); !ok {
		t.Error("无过期时间的键不应失效")
	}
}

func TestMemoryCache_Delete(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	_ = c.Set(ctx, "k", "v", 0)
	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if _, ok := c.Get(ctx, "k"); ok {
		t.Error("删除后不应命中")
	}

	// 删除不存在的键不报错
	if err := c.Delete(ctx, "missing"); err != nil {
		t.Errorf("删除不存在键 error: %v", err)
	}
}

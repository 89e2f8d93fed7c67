package middleware

import (
	"fmt"
	"sync"
	"time"
)

// ==================== OpRateLimiter 操作限流器 ====================

// OpRateLimiter 重操作限流器
// 防止频繁触发全量导入/报价整体替换等重写操作压垮数据库
type OpRateLimiter struct {
	locks sync.Map // key -> *lockEntry
}

// lockEntry 锁条目
type lockEntry struct {
	lastTime time.Time
	mu       sync.Mutex
}

// 全局限流器实例
var globalLimiter = &OpRateLimiter{}

// GetLimiter 获取全局限流器
func GetLimiter() *OpRateLimiter {
	return globalLimiter
}

// ==================== 限流检查 ====================

// CheckResult 检查结果
type CheckResult struct {
	Allowed    bool          // 是否允许
	RetryAfter time.Duration // 剩余冷却时间
}

// Check 检查是否允许执行
// key: 限流键，如 "user:123:pincode_import"
// interval: 冷却间隔
func (r *OpRateLimiter) Check(key string, interval time.Duration) CheckResult {
	// 获取或创建锁条目
	actual, _ := r.locks.LoadOrStore(key, &lockEntry{})
	entry := actual.(*lockEntry)

	entry.mu.Lock()
	defer entry.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(entry.lastTime)

	if elapsed < interval {
		return CheckResult{
			Allowed:    false,
			RetryAfter: interval - elapsed,
		}
	}

	// 更新最后执行时间
	entry.lastTime = now
	return CheckResult{
		Allowed:    true,
		RetryAfter: 0,
	}
}

// CheckOnly 仅检查，不更新时间
func (r *OpRateLimiter) CheckOnly(key string, interval time.Duration) CheckResult {
	actual, ok := r.locks.Load(key)
	if !ok {
		return CheckResult{Allowed: true}
	}

	entry := actual.(*lockEntry)
	entry.mu.Lock()
	defer entry.mu.Unlock()

	elapsed := time.Since(entry.lastTime)
	if elapsed < interval {
		return CheckResult{
			Allowed:    false,
			RetryAfter: interval - elapsed,
		}
	}

	return CheckResult{Allowed: true}
}

// Reset 重置指定 key 的限流
func (r *OpRateLimiter) Reset(key string) {
	r.locks.Delete(key)
}

// ==================== Key 生成工具 ====================

// OpType 操作类型
type OpType string

const (
	OpTypePincodeImport OpType = "pincode_import"
	OpTypePlanReplace   OpType = "plan_replace"
	OpTypePincodeSync   OpType = "pincode_sync"
)

// UserOpKey 生成用户级操作 Key
func UserOpKey(userID int64, opType OpType) string {
	return fmt.Sprintf("user:%d:%s", userID, opType)
}

// GlobalOpKey 生成全局操作 Key
func GlobalOpKey(opType OpType) string {
	return fmt.Sprintf("global:%s", opType)
}

// ==================== 默认限流间隔 ====================

// DefaultIntervals 默认限流间隔配置
var DefaultIntervals = map[OpType]time.Duration{
	OpTypePincodeImport: 1 * time.Minute,  // 邮编批量导入
	OpTypePlanReplace:   10 * time.Second, // 方案报价整体替换
	OpTypePincodeSync:   5 * time.Minute,  // 外部目录手动刷新
}

// GetInterval 获取操作类型的默认间隔
func GetInterval(opType OpType) time.Duration {
	if interval, ok := DefaultIntervals[opType]; ok {
		return interval
	}
	return 1 * time.Minute
}

package task

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"courier_rate_v1_202608/internal/repository"
)

// ==================== RateLogCleanupTask 询价流水清理任务 ====================

// RateLogCleanupTask 定期清理过期的询价流水
// 流水只用于排障和对账，过了保留期直接物理删除
type RateLogCleanupTask struct {
	rateLogRepo repository.RateLogRepository
	cron        *cron.Cron

	retention time.Duration // 保留期
}

// NewRateLogCleanupTask 创建询价流水清理任务
func NewRateLogCleanupTask(rateLogRepo repository.RateLogRepository) *RateLogCleanupTask {
	return &RateLogCleanupTask{
		rateLogRepo: rateLogRepo,
		cron:        cron.New(cron.WithSeconds()),
		retention:   90 * 24 * time.Hour,
	}
}

// SetRetention 调整保留期
func (t *RateLogCleanupTask) SetRetention(retention time.Duration) {
	if retention > 0 {
		t.retention = retention
	}
}

// Start 启动定时任务
func (t *RateLogCleanupTask) Start() {
	// 每天凌晨3点清理
	_, err := t.cron.AddFunc("0 0 3 * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()
		t.cleanupJob(ctx)
	})
	if err != nil {
		log.Fatalf("[RateLogCleanupTask] 无法启动流水清理任务: %v", err)
	}

	t.cron.Start()
	log.Println("[RateLogCleanupTask] 询价流水清理任务已启动 (每天凌晨3点)")
}

// Stop 停止定时任务
func (t *RateLogCleanupTask) Stop() {
	t.cron.Stop()
	log.Println("[RateLogCleanupTask] 已停止")
}

// cleanupJob 删除超过保留期的流水
func (t *RateLogCleanupTask) cleanupJob(ctx context.Context) {
	cutoff := time.Now().Add(-t.retention)

	deleted, err := t.rateLogRepo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		log.Printf("[RateLogCleanupTask] 清理询价流水失败: %v", err)
		return
	}
	if deleted > 0 {
		log.Printf("[RateLogCleanupTask] 清理询价流水 %d 条 (早于 %s)", deleted, cutoff.Format("2006-01-02"))
	}
}

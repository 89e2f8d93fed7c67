package task

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// ==================== 外部依赖接口 ====================

// PincodeRefresher 邮编刷新接口
type PincodeRefresher interface {
	RefreshStale(ctx context.Context, olderThan time.Duration, limit int) (int, error)
}

// ==================== PincodeRefreshTask 邮编刷新任务 ====================

// PincodeRefreshTask 定时用外部目录刷新陈旧的邮编参考数据
type PincodeRefreshTask struct {
	refresher PincodeRefresher
	cron      *cron.Cron

	staleAfter time.Duration // 多久未刷新算陈旧
	batchSize  int           // 每轮刷新条数上限
}

// NewPincodeRefreshTask 创建邮编刷新任务
func NewPincodeRefreshTask(refresher PincodeRefresher) *PincodeRefreshTask {
	return &PincodeRefreshTask{
		refresher:  refresher,
		cron:       cron.New(cron.WithSeconds()),
		staleAfter: 30 * 24 * time.Hour,
		batchSize:  500,
	}
}

// SetPolicy 调整陈旧判定与批大小
func (t *PincodeRefreshTask) SetPolicy(staleAfter time.Duration, batchSize int) {
	if staleAfter > 0 {
		t.staleAfter = staleAfter
	}
	if batchSize > 0 {
		t.batchSize = batchSize
	}
}

// Start 启动定时任务
func (t *PincodeRefreshTask) Start() {
	// 每6小时刷新一批（错开整点，避开高峰询价）
	_, err := t.cron.AddFunc("0 30 2/6 * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
		defer cancel()
		t.refreshJob(ctx)
	})
	if err != nil {
		log.Fatalf("[PincodeRefreshTask] 无法启动邮编刷新任务: %v", err)
	}

	t.cron.Start()
	log.Println("[PincodeRefreshTask] 邮编刷新任务已启动 (每6小时)")
}

// Stop 停止定时任务
func (t *PincodeRefreshTask) Stop() {
	t.cron.Stop()
	log.Println("[PincodeRefreshTask] 已停止")
}

// RefreshNow 手动触发一轮刷新
func (t *PincodeRefreshTask) RefreshNow(ctx context.Context) (int, error) {
	return t.refresher.RefreshStale(ctx, t.staleAfter, t.batchSize)
}

// refreshJob 刷新一批陈旧邮编
func (t *PincodeRefreshTask) refreshJob(ctx context.Context) {
	refreshed, err := t.refresher.RefreshStale(ctx, t.staleAfter, t.batchSize)
	if err != nil {
		log.Printf("[PincodeRefreshTask] 邮编刷新失败: %v", err)
		return
	}
	if refreshed > 0 {
		log.Printf("[PincodeRefreshTask] 本轮刷新 %d 条邮编", refreshed)
	}
}

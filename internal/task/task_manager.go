package task

import (
	"context"
	"log"
	"time"

	"courier_rate_v1_202608/internal/repository"
)

// ==================== TaskManager 后台任务管理器 ====================

// TaskManager 统一管理后台定时任务
// 管理范围：邮编参考数据刷新、询价流水清理
type TaskManager struct {
	pincodeTask *PincodeRefreshTask
	rateLogTask *RateLogCleanupTask
}

// TaskManagerDeps 任务管理器依赖
type TaskManagerDeps struct {
	PincodeRefresher PincodeRefresher
	RateLogRepo      repository.RateLogRepository
}

// TaskManagerConfig 任务管理器配置
type TaskManagerConfig struct {
	// 邮编刷新
	PincodeEnabled    bool
	PincodeStaleAfter time.Duration
	PincodeBatchSize  int

	// 流水清理
	RateLogEnabled   bool
	RateLogRetention time.Duration
}

// DefaultConfig 默认配置
func DefaultConfig() *TaskManagerConfig {
	return &TaskManagerConfig{
		PincodeEnabled:    true,
		PincodeStaleAfter: 30 * 24 * time.Hour,
		PincodeBatchSize:  500,

		RateLogEnabled:   true,
		RateLogRetention: 90 * 24 * time.Hour,
	}
}

// NewTaskManager 创建任务管理器
func NewTaskManager(deps *TaskManagerDeps, cfg *TaskManagerConfig) *TaskManager {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	tm := &TaskManager{}

	// 邮编刷新任务
	if cfg.PincodeEnabled && deps.PincodeRefresher != nil {
		tm.pincodeTask = NewPincodeRefreshTask(deps.PincodeRefresher)
		tm.pincodeTask.SetPolicy(cfg.PincodeStaleAfter, cfg.PincodeBatchSize)
	}

	// 流水清理任务
	if cfg.RateLogEnabled && deps.RateLogRepo != nil {
		tm.rateLogTask = NewRateLogCleanupTask(deps.RateLogRepo)
		tm.rateLogTask.SetRetention(cfg.RateLogRetention)
	}

	return tm
}

// ==================== 生命周期管理 ====================

// Start 启动所有任务
func (tm *TaskManager) Start() {
	log.Println("[TaskManager] 正在启动后台任务...")

	if tm.pincodeTask != nil {
		tm.pincodeTask.Start()
	}
	if tm.rateLogTask != nil {
		tm.rateLogTask.Start()
	}

	log.Println("[TaskManager] 后台任务已全部启动")
}

// Stop 停止所有任务
func (tm *TaskManager) Stop() {
	log.Println("[TaskManager] 正在停止后台任务...")

	if tm.pincodeTask != nil {
		tm.pincodeTask.Stop()
	}
	if tm.rateLogTask != nil {
		tm.rateLogTask.Stop()
	}

	log.Println("[TaskManager] 后台任务已全部停止")
}

// ==================== 手动触发接口 ====================

// TriggerPincodeRefresh 手动触发一轮邮编刷新
func (tm *TaskManager) TriggerPincodeRefresh(ctx context.Context) (int, error) {
	if tm.pincodeTask == nil {
		return 0, ErrTaskDisabled
	}
	return tm.pincodeTask.RefreshNow(ctx)
}

// ==================== 状态查询 ====================

// Status 获取任务状态
func (tm *TaskManager) Status() map[string]bool {
	return map[string]bool{
		"pincode_refresh": tm.pincodeTask != nil,
		"ratelog_cleanup": tm.rateLogTask != nil,
	}
}

// ==================== 错误定义 ====================

type TaskError string

func (e TaskError) Error() string { return string(e) }

const (
	ErrTaskDisabled TaskError = "task is disabled"
)

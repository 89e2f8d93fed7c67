package task

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"courier_rate_v1_202608/internal/model"
	"courier_rate_v1_202608/internal/repository"
)

// ==================== 辅助 ====================

func setupTaskTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("连接测试数据库失败: %v", err)
	}

	if err := db.AutoMigrate(&model.RateLog{}); err != nil {
		t.Fatalf("数据库迁移失败: %v", err)
	}
	return db
}

// stubRefresher 记录调用参数的刷新器
type stubRefresher struct {
	mu         sync.Mutex
	calls      int
	lastOlder  time.Duration
	lastLimit  int
	refreshed  int
	returnErr  error
}

func (s *stubRefresher) RefreshStale(_ context.Context, olderThan time.Duration, limit int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.lastOlder = olderThan
	s.lastLimit = limit
	return s.refreshed, s.returnErr
}

// ==================== PincodeRefreshTask 测试 ====================

func TestPincodeRefreshTask_RefreshNow(t *testing.T) {
	stub := &stubRefresher{refreshed: 7}
	task := NewPincodeRefreshTask(stub)
	task.SetPolicy(48*time.Hour, 100)

	refreshed, err := task.RefreshNow(context.Background())
	if err != nil {
		t.Fatalf("RefreshNow() error: %v", err)
	}
	if refreshed != 7 {
		t.Errorf("refreshed = %d, want 7", refreshed)
	}
	if stub.lastOlder != 48*time.Hour || stub.lastLimit != 100 {
		t.Errorf("策略未透传: olderThan=%v limit=%d", stub.lastOlder, stub.lastLimit)
	}
}

func TestPincodeRefreshTask_SetPolicyIgnoresZero(t *testing.T) {
	stub := &stubRefresher{}
	task := NewPincodeRefreshTask(stub)

	// 0 值不覆盖默认策略
	task.SetPolicy(0, 0)
	task.RefreshNow(context.Background())

	if stub.lastOlder != 30*24*time.Hour {
		t.Errorf("olderThan = %v, want 默认 30 天", stub.lastOlder)
	}
	if stub.lastLimit != 500 {
		t.Errorf("limit = %d, want 默认 500", stub.lastLimit)
	}
}

// ==================== RateLogCleanupTask 测试 ====================

func TestRateLogCleanupTask_Cleanup(t *testing.T) {
	db := setupTaskTestDB(t)
	repo := repository.NewRateLogRepository(db)

	now := time.Now()
	logs := []model.RateLog{
		{RequestID: uuid.NewString(), UserID: 1, Outcome: model.RateOutcomeQuoted},
		{RequestID: uuid.NewString(), UserID: 1, Outcome: model.RateOutcomeQuoted},
		{RequestID: uuid.NewString(), UserID: 2, Outcome: model.RateOutcomeNoPlan},
	}
	for i := range logs {
		if err := db.Create(&logs[i]).Error; err != nil {
			t.Fatalf("预置流水失败: %v", err)
		}
	}
	// 前两条改成 100 天前
	old := now.Add(-100 * 24 * time.Hour)
	db.Model(&model.RateLog{}).Where("id IN ?", []int64{logs[0].ID, logs[1].ID}).
		Update("created_at", old)

	task := NewRateLogCleanupTask(repo)
	task.SetRetention(90 * 24 * time.Hour)
	task.cleanupJob(context.Background())

	var count int64
	db.Unscoped().Model(&model.RateLog{}).Count(&count)
	if count != 1 {
		t.Errorf("清理后剩余 %d 条, want 1", count)
	}

	// 剩下的是保留期内那条
	var remaining model.RateLog
	db.First(&remaining)
	if remaining.RequestID != logs[2].RequestID {
		t.Errorf("保留的流水不对: %s", remaining.RequestID)
	}
}

func TestRateLogCleanupTask_SetRetentionIgnoresZero(t *testing.T) {
	task := NewRateLogCleanupTask(repository.NewRateLogRepository(setupTaskTestDB(t)))
	task.SetRetention(0)
	if task.retention != 90*24*time.Hour {
		t.Errorf("retention = %v, want 默认 90 天", task.retention)
	}
}

// ==================== TaskManager 测试 ====================

func TestTaskManager_TriggerPincodeRefresh(t *testing.T) {
	stub := &stubRefresher{refreshed: 3}
	tm := NewTaskManager(&TaskManagerDeps{
		PincodeRefresher: stub,
		RateLogRepo:      repository.NewRateLogRepository(setupTaskTestDB(t)),
	}, nil)

	refreshed, err := tm.TriggerPincodeRefresh(context.Background())
	if err != nil {
		t.Fatalf("TriggerPincodeRefresh() error: %v", err)
	}
	if refreshed != 3 {
		t.Errorf("refreshed = %d, want 3", refreshed)
	}
}

func TestTaskManager_DisabledTask(t *testing.T) {
	// 邮编任务关闭时手动触发应报错
	tm := NewTaskManager(&TaskManagerDeps{
		PincodeRefresher: &stubRefresher{},
	}, &TaskManagerConfig{PincodeEnabled: false})

	if _, err := tm.TriggerPincodeRefresh(context.Background()); !errors.Is(err, ErrTaskDisabled) {
		t.Errorf("err = %v, want ErrTaskDisabled", err)
	}
}

func TestTaskManager_Status(t *testing.T) {
	tm := NewTaskManager(&TaskManagerDeps{
		PincodeRefresher: &stubRefresher{},
	}, nil)

	status := tm.Status()
	if !status["pincode_refresh"] {
		t.Error("pincode_refresh 应为启用")
	}
	if status["ratelog_cleanup"] {
		t.Error("未注入流水仓储时 ratelog_cleanup 应为关闭")
	}
}

func TestTaskManager_StartStop(t *testing.T) {
	tm := NewTaskManager(&TaskManagerDeps{
		PincodeRefresher: &stubRefresher{},
		RateLogRepo:      repository.NewRateLogRepository(setupTaskTestDB(t)),
	}, nil)

	tm.Start()
	tm.Stop()
}

package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"courier_rate_v1_202608/internal/model"
)

// ==================== RateLog 接口定义 ====================

// RateLogRepository 询价流水仓储接口
type RateLogRepository interface {
	Create(ctx context.Context, entry *model.RateLog) error
	GetByRequestID(ctx context.Context, requestID string) (*model.RateLog, error)
	ListByUser(ctx context.Context, userID int64, limit int) ([]model.RateLog, error)
	// DeleteOlderThan 清理过期流水，返回删除行数
	DeleteOlderThan(ctx context.Context, before time.Time) (int64, error)
}

// ==================== RateLog 实现 ====================

type rateLogRepo struct {
	db *gorm.DB
}

// NewRateLogRepository 创建询价流水仓储
func NewRateLogRepository(db *gorm.DB) RateLogRepository {
	return &rateLogRepo{db: db}
}

func (r *rateLogRepo) Create(ctx context.Context, entry *model.RateLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *rateLogRepo) GetByRequestID(ctx context.Context, requestID string) (*model.RateLog, error) {
	var entry model.RateLog
	err := r.db.WithContext(ctx).Where("request_id = ?", requestID).First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *rateLogRepo) ListByUser(ctx context.Context, userID int64, limit int) ([]model.RateLog, error) {
	var list []model.RateLog
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id DESC").
		Limit(limit).
		Find(&list).Error
	return list, err
}

func (r *rateLogRepo) DeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Unscoped().
		Where("created_at < ?", before).
		Delete(&model.RateLog{})
	return result.RowsAffected, result.Error
}

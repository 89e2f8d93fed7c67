package repository

import (
	"context"

	"gorm.io/gorm"

	"courier_rate_v1_202608/internal/model"
)

// ==================== Courier 接口定义 ====================

// CourierRepository 快递商仓储接口
type CourierRepository interface {
	Create(ctx context.Context, courier *model.Courier) error
	GetByID(ctx context.Context, id int64) (*model.Courier, error)
	GetByCode(ctx context.Context, code string) (*model.Courier, error)
	Update(ctx context.Context, courier *model.Courier) error
	UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error
	Delete(ctx context.Context, id int64) error

	List(ctx context.Context, status *int) ([]model.Courier, error)
	Count(ctx context.Context) (int64, error)
}

// ==================== Courier 实现 ====================

type courierRepo struct {
	db *gorm.DB
}

// NewCourierRepository 创建快递商仓储
func NewCourierRepository(db *gorm.DB) CourierRepository {
	return &courierRepo{db: db}
}

func (r *courierRepo) Create(ctx context.Context, courier *model.Courier) error {
	return r.db.WithContext(ctx).Create(courier).Error
}

func (r *courierRepo) GetByID(ctx context.Context, id int64) (*model.Courier, error) {
	var courier model.Courier
	err := r.db.WithContext(ctx).First(&courier, id).Error
	if err != nil {
		return nil, err
	}
	return &courier, nil
}

func (r *courierRepo) GetByCode(ctx context.Context, code string) (*model.Courier, error) {
	var courier model.Courier
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&courier).Error
	if err != nil {
		return nil, err
	}
	return &courier, nil
}

func (r *courierRepo) Update(ctx context.Context, courier *model.Courier) error {
	return r.db.WithContext(ctx).Save(courier).Error
}

func (r *courierRepo) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&model.Courier{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *courierRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.Courier{}, id).Error
}

func (r *courierRepo) List(ctx context.Context, status *int) ([]model.Courier, error) {
	var list []model.Courier
	query := r.db.WithContext(ctx).Order("id ASC")
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	err := query.Find(&list).Error
	return list, err
}

func (r *courierRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Courier{}).Count(&count).Error
	return count, err
}

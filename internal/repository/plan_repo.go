package repository

import (
	"context"

	"gorm.io/gorm"

	"courier_rate_v1_202608/internal/model"
)

// ==================== Plan 接口定义 ====================

// PlanRepository 计价方案仓储接口
type PlanRepository interface {
	Create(ctx context.Context, plan *model.Plan) error
	GetByID(ctx context.Context, id int64) (*model.Plan, error)
	// GetByIDWithPricing 带快递商报价与分区报价的完整方案
	// 报价按 id 升序预加载，保证询价输出顺序稳定
	GetByIDWithPricing(ctx context.Context, id int64) (*model.Plan, error)
	GetDefault(ctx context.Context) (*model.Plan, error)
	Update(ctx context.Context, plan *model.Plan) error
	UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]model.Plan, error)

	// ReplacePricings 整体替换方案下全部报价（先删后建，事务内完成）
	// 方案更新从不做局部修改，避免分区行残留
	ReplacePricings(ctx context.Context, planID int64, pricings []model.CourierPricing) error
}

// ==================== Plan 实现 ====================

type planRepo struct {
	db *gorm.DB
}

// NewPlanRepository 创建计价方案仓储
func NewPlanRepository(db *gorm.DB) PlanRepository {
	return &planRepo{db: db}
}

func (r *planRepo) Create(ctx context.Context, plan *model.Plan) error {
	return r.db.WithContext(ctx).Create(plan).Error
}

func (r *planRepo) GetByID(ctx context.Context, id int64) (*model.Plan, error) {
	var plan model.Plan
	err := r.db.WithContext(ctx).First(&plan, id).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *planRepo) GetByIDWithPricing(ctx context.Context, id int64) (*model.Plan, error) {
	var plan model.Plan
	err := r.db.WithContext(ctx).
		Preload("CourierPricings", func(db *gorm.DB) *gorm.DB {
			return db.Order("courier_pricings.id ASC")
		}).
		Preload("CourierPricings.Courier").
		Preload("CourierPricings.ZonePricings", func(db *gorm.DB) *gorm.DB {
			return db.Order("zone_pricings.id ASC")
		}).
		First(&plan, id).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *planRepo) GetDefault(ctx context.Context) (*model.Plan, error) {
	var plan model.Plan
	err := r.db.WithContext(ctx).
		Where("is_default = ? AND status = ?", true, model.PlanStatusActive).
		Order("id ASC").
		First(&plan).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *planRepo) Update(ctx context.Context, plan *model.Plan) error {
	return r.db.WithContext(ctx).Save(plan).Error
}

func (r *planRepo) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&model.Plan{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *planRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deletePricingsTx(tx, id); err != nil {
			return err
		}
		return tx.Delete(&model.Plan{}, id).Error
	})
}

func (r *planRepo) List(ctx context.Context) ([]model.Plan, error) {
	var list []model.Plan
	err := r.db.WithContext(ctx).Order("id ASC").Find(&list).Error
	return list, err
}

func (r *planRepo) ReplacePricings(ctx context.Context, planID int64, pricings []model.CourierPricing) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deletePricingsTx(tx, planID); err != nil {
			return err
		}

		for i := range pricings {
			pricings[i].PlanID = planID
			pricings[i].ID = 0
			for j := range pricings[i].ZonePricings {
				pricings[i].ZonePricings[j].ID = 0
			}
		}
		if len(pricings) == 0 {
			return nil
		}
		return tx.Create(&pricings).Error
	})
}

// deletePricingsTx 事务内删除方案下全部报价及分区行
func deletePricingsTx(tx *gorm.DB, planID int64) error {
	var pricingIDs []int64
	if err := tx.Model(&model.CourierPricing{}).
		Where("plan_id = ?", planID).
		Pluck("id", &pricingIDs).Error; err != nil {
		return err
	}

	if len(pricingIDs) > 0 {
		if err := tx.Unscoped().
			Where("courier_pricing_id IN ?", pricingIDs).
			Delete(&model.ZonePricing{}).Error; err != nil {
			return err
		}
	}

	return tx.Unscoped().
		Where("plan_id = ?", planID).
		Delete(&model.CourierPricing{}).Error
}

package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"courier_rate_v1_202608/internal/model"
)

// ==================== Pincode 接口定义 ====================

// PincodeRepository 邮编参考数据仓储接口
type PincodeRepository interface {
	GetByPincode(ctx context.Context, pincode string) (*model.Pincode, error)
	Upsert(ctx context.Context, row *model.Pincode) error
	// BatchUpsert 批量导入，按邮编冲突更新
	BatchUpsert(ctx context.Context, rows []model.Pincode) error
	// ListStale 取外部目录刷新时间早于 before 的记录（含从未刷新的）
	ListStale(ctx context.Context, before time.Time, limit int) ([]model.Pincode, error)
	Count(ctx context.Context) (int64, error)
}

// ==================== Pincode 实现 ====================

type pincodeRepo struct {
	db *gorm.DB
}

// NewPincodeRepository 创建邮编仓储
func NewPincodeRepository(db *gorm.DB) PincodeRepository {
	return &pincodeRepo{db: db}
}

func (r *pincodeRepo) GetByPincode(ctx context.Context, pincode string) (*model.Pincode, error) {
	var row model.Pincode
	err := r.db.WithContext(ctx).Where("pincode = ?", pincode).First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *pincodeRepo) Upsert(ctx context.Context, row *model.Pincode) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "pincode"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"city", "state", "district", "is_metro", "refreshed_at", "updated_at",
			}),
		}).
		Create(row).Error
}

func (r *pincodeRepo) BatchUpsert(ctx context.Context, rows []model.Pincode) error {
	if len(rows) == 0 {
		return nil
	}
	// 分批写入，避免单条 SQL 参数超限
	const batchSize = 500
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "pincode"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"city", "state", "district", "is_metro", "updated_at",
			}),
		}).
		CreateInBatches(rows, batchSize).Error
}

func (r *pincodeRepo) ListStale(ctx context.Context, before time.Time, limit int) ([]model.Pincode, error) {
	var list []model.Pincode
	err := r.db.WithContext(ctx).
		Where("refreshed_at IS NULL OR refreshed_at < ?", before).
		Order("id ASC").
		Limit(limit).
		Find(&list).Error
	return list, err
}

func (r *pincodeRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Pincode{}).Count(&count).Error
	return count, err
}

// ==================== ZoneConfig 接口定义 ====================

// ZoneConfigRepository 区域划分配置仓储接口
type ZoneConfigRepository interface {
	GetByName(ctx context.Context, name string) (*model.ZoneConfig, error)
	Save(ctx context.Context, cfg *model.ZoneConfig) error
	// EnsureDefault 默认配置不存在时写入内置默认值
	EnsureDefault(ctx context.Context) error
}

// ==================== ZoneConfig 实现 ====================

type zoneConfigRepo struct {
	db *gorm.DB
}

// NewZoneConfigRepository 创建区域配置仓储
func NewZoneConfigRepository(db *gorm.DB) ZoneConfigRepository {
	return &zoneConfigRepo{db: db}
}

func (r *zoneConfigRepo) GetByName(ctx context.Context, name string) (*model.ZoneConfig, error) {
	var cfg model.ZoneConfig
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&cfg).Error
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (r *zoneConfigRepo) Save(ctx context.Context, cfg *model.ZoneConfig) error {
	return r.db.WithContext(ctx).Save(cfg).Error
}

func (r *zoneConfigRepo) EnsureDefault(ctx context.Context) error {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&model.ZoneConfig{}).
		Where("name = ?", model.ZoneConfigDefault).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(model.DefaultZoneConfig()).Error
}

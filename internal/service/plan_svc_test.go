package service

import (
	"context"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"courier_rate_v1_202608/internal/api/dto"
	"courier_rate_v1_202608/internal/model"
	"courier_rate_v1_202608/internal/repository"
)

// ==================== 测试辅助 ====================

func setupPlanTest(t *testing.T) (*gorm.DB, *PlanService) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("连接测试数据库失败: %v", err)
	}

	if err := db.AutoMigrate(
		&model.Courier{},
		&model.Plan{}, &model.CourierPricing{}, &model.ZonePricing{},
	); err != nil {
		t.Fatalf("自动建表失败: %v", err)
	}

	svc := NewPlanService(repository.NewPlanRepository(db), repository.NewCourierRepository(db))
	return db, svc
}

func seedTestCourier(t *testing.T, db *gorm.DB, code string) *model.Courier {
	courier := &model.Courier{Name: code, Code: code, Status: model.CourierStatusActive, PickupCutoff: "14:00:00"}
	if err := db.Create(courier).Error; err != nil {
		t.Fatalf("创建快递商失败: %v", err)
	}
	return courier
}

// ==================== 创建方案 ====================

func TestCreatePlan_LegacyZoneMigration(t *testing.T) {
	db, svc := setupPlanTest(t)
	courier := seedTestCourier(t, db, "BlueDart")

	// 旧版命名制区域 + 全区统一续重价
	req := dto.PlanCreateReq{
		Name: "旧版迁移方案",
		CourierPricings: []dto.CourierPricingReq{{
			CourierID:       courier.ID,
			WeightSlab:      0.5,
			IncrementWeight: 0.5,
			IncrementPrice:  25, // 旧版统一续重价
			ZonePricings: []dto.ZonePricingReq{
				{Zone: "withinCity", BasePrice: 30},
				{Zone: "withinState", BasePrice: 35},
				{Zone: "metroToMetro", BasePrice: 40},
				{Zone: "restOfIndia", BasePrice: 45, IncrementPrice: 50}, // 显式续重价不被覆盖
				{Zone: "northEast", BasePrice: 60},
			},
		}},
	}

	resp, err := svc.CreatePlan(context.Background(), req, 1)
	if err != nil {
		t.Fatalf("CreatePlan() error: %v", err)
	}

	detail, err := svc.GetPlanDetail(context.Background(), resp.ID)
	if err != nil {
		t.Fatalf("GetPlanDetail() error: %v", err)
	}
	if len(detail.CourierPricings) != 1 {
		t.Fatalf("报价数 = %d, want 1", len(detail.CourierPricings))
	}

	zones := map[model.Zone]dto.ZonePricingResp{}
	for _, zp := range detail.CourierPricings[0].ZonePricings {
		zones[zp.Zone] = zp
	}

	// 命名制全部迁移为字母制
	for _, zone := range model.AllZones {
		if _, ok := zones[zone]; !ok {
			t.Errorf("缺少区域 %s", zone)
		}
	}
	// 缺失续重价的分区用旧版统一价填充
	if zones[model.ZoneA].IncrementPrice != 25 {
		t.Errorf("Z_A incrementPrice = %v, want 25", zones[model.ZoneA].IncrementPrice)
	}
	// 显式续重价保留
	if zones[model.ZoneD].IncrementPrice != 50 {
		t.Errorf("Z_D incrementPrice = %v, want 50", zones[model.ZoneD].IncrementPrice)
	}
}

func TestCreatePlan_RejectsUnknownZone(t *testing.T) {
	db, svc := setupPlanTest(t)
	courier := seedTestCourier(t, db, "BlueDart")

	req := dto.PlanCreateReq{
		Name: "坏方案",
		CourierPricings: []dto.CourierPricingReq{{
			CourierID:    courier.ID,
			ZonePricings: []dto.ZonePricingReq{{Zone: "Z_X", BasePrice: 30}},
		}},
	}
	if _, err := svc.CreatePlan(context.Background(), req, 1); err == nil {
		t.Error("未知区域标识应报错")
	}
}

func TestCreatePlan_RejectsDuplicateZone(t *testing.T) {
	db, svc := setupPlanTest(t)
	courier := seedTestCourier(t, db, "BlueDart")

	// Z_B 与 withinState 归一化后撞同一区域
	req := dto.PlanCreateReq{
		Name: "重复区域",
		CourierPricings: []dto.CourierPricingReq{{
			CourierID: courier.ID,
			ZonePricings: []dto.ZonePricingReq{
				{Zone: "Z_B", BasePrice: 30},
				{Zone: "withinState", BasePrice: 35},
			},
		}},
	}
	if _, err := svc.CreatePlan(context.Background(), req, 1); err == nil {
		t.Error("重复区域报价应报错")
	}
}

func TestCreatePlan_RejectsUnknownCourier(t *testing.T) {
	_, svc := setupPlanTest(t)

	req := dto.PlanCreateReq{
		Name:            "无此快递商",
		CourierPricings: []dto.CourierPricingReq{{CourierID: 999}},
	}
	if _, err := svc.CreatePlan(context.Background(), req, 1); err == nil {
		t.Error("未知快递商应报错")
	}
}

// ==================== 更新方案 ====================

func TestUpdatePlan_ReplacesPricingsWholesale(t *testing.T) {
	db, svc := setupPlanTest(t)
	c1 := seedTestCourier(t, db, "BlueDart")
	c2 := seedTestCourier(t, db, "Delhivery")

	created, err := svc.CreatePlan(context.Background(), dto.PlanCreateReq{
		Name: "原方案",
		CourierPricings: []dto.CourierPricingReq{{
			CourierID: c1.ID,
			ZonePricings: []dto.ZonePricingReq{
				{Zone: "Z_A", BasePrice: 30},
				{Zone: "Z_B", BasePrice: 35},
			},
		}},
	}, 1)
	if err != nil {
		t.Fatalf("CreatePlan() error: %v", err)
	}

	// 整体替换为另一快递商的单区报价
	err = svc.UpdatePlan(context.Background(), created.ID, dto.PlanUpdateReq{
		CourierPricings: []dto.CourierPricingReq{{
			CourierID:    c2.ID,
			ZonePricings: []dto.ZonePricingReq{{Zone: "Z_C", BasePrice: 80}},
		}},
	}, 1)
	if err != nil {
		t.Fatalf("UpdatePlan() error: %v", err)
	}

	detail, err := svc.GetPlanDetail(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetPlanDetail() error: %v", err)
	}
	if len(detail.CourierPricings) != 1 {
		t.Fatalf("替换后报价数 = %d, want 1", len(detail.CourierPricings))
	}
	if detail.CourierPricings[0].CourierID != c2.ID {
		t.Errorf("courierID = %d, want %d", detail.CourierPricings[0].CourierID, c2.ID)
	}
	if len(detail.CourierPricings[0].ZonePricings) != 1 {
		t.Errorf("分区数 = %d, want 1", len(detail.CourierPricings[0].ZonePricings))
	}

	// 旧分区行物理删除，不残留
	var zoneCount int64
	db.Model(&model.ZonePricing{}).Count(&zoneCount)
	if zoneCount != 1 {
		t.Errorf("zone_pricings 总行数 = %d, want 1", zoneCount)
	}
}

func TestUpdatePlan_BasicFieldsWithoutPricings(t *testing.T) {
	db, svc := setupPlanTest(t)
	courier := seedTestCourier(t, db, "BlueDart")

	created, err := svc.CreatePlan(context.Background(), dto.PlanCreateReq{
		Name: "原方案",
		CourierPricings: []dto.CourierPricingReq{{
			CourierID:    courier.ID,
			ZonePricings: []dto.ZonePricingReq{{Zone: "Z_A", BasePrice: 30}},
		}},
	}, 1)
	if err != nil {
		t.Fatalf("CreatePlan() error: %v", err)
	}

	status := model.PlanStatusInactive
	if err := svc.UpdatePlan(context.Background(), created.ID, dto.PlanUpdateReq{
		Name:   "改名",
		Status: &status,
	}, 1); err != nil {
		t.Fatalf("UpdatePlan() error: %v", err)
	}

	detail, _ := svc.GetPlanDetail(context.Background(), created.ID)
	if detail.Name != "改名" || detail.Status != model.PlanStatusInactive {
		t.Errorf("基础字段更新失败: %+v", detail.PlanResp)
	}
	// 未携带报价时原报价保留
	if len(detail.CourierPricings) != 1 {
		t.Errorf("报价不应被清空")
	}
}

// ==================== 删除方案 ====================

func TestDeletePlan_CascadesPricings(t *testing.T) {
	db, svc := setupPlanTest(t)
	courier := seedTestCourier(t, db, "BlueDart")

	created, err := svc.CreatePlan(context.Background(), dto.PlanCreateReq{
		Name: "待删方案",
		CourierPricings: []dto.CourierPricingReq{{
			CourierID: courier.ID,
			ZonePricings: []dto.ZonePricingReq{
				{Zone: "Z_A", BasePrice: 30},
				{Zone: "Z_D", BasePrice: 45},
			},
		}},
	}, 1)
	if err != nil {
		t.Fatalf("CreatePlan() error: %v", err)
	}

	if err := svc.DeletePlan(context.Background(), created.ID); err != nil {
		t.Fatalf("DeletePlan() error: %v", err)
	}

	var pricingCount, zoneCount int64
	db.Model(&model.CourierPricing{}).Count(&pricingCount)
	db.Unscoped().Model(&model.ZonePricing{}).Where("deleted_at IS NULL").Count(&zoneCount)
	if pricingCount != 0 || zoneCount != 0 {
		t.Errorf("删除方案后残留报价: pricings=%d zones=%d", pricingCount, zoneCount)
	}
}

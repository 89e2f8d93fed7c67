package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"courier_rate_v1_202608/internal/api/dto"
	"courier_rate_v1_202608/internal/model"
	"courier_rate_v1_202608/internal/repository"
)

// PlanService 计价方案服务
type PlanService struct {
	planRepo    repository.PlanRepository
	courierRepo repository.CourierRepository
}

// NewPlanService 创建计价方案服务
func NewPlanService(planRepo repository.PlanRepository, courierRepo repository.CourierRepository) *PlanService {
	return &PlanService{
		planRepo:    planRepo,
		courierRepo: courierRepo,
	}
}

// ==================== 查询方法 ====================

// GetPlanList 获取方案列表
func (s *PlanService) GetPlanList(ctx context.Context) (*dto.PlanListResp, error) {
	list, err := s.planRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	respList := make([]dto.PlanResp, 0, len(list))
	for _, plan := range list {
		respList = append(respList, s.convertPlanToResp(&plan))
	}

	return &dto.PlanListResp{
		Total: int64(len(respList)),
		List:  respList,
	}, nil
}

// GetPlanDetail 获取方案详情（含快递商报价与分区报价）
func (s *PlanService) GetPlanDetail(ctx context.Context, id int64) (*dto.PlanDetailResp, error) {
	plan, err := s.planRepo.GetByIDWithPricing(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("计价方案不存在")
		}
		return nil, err
	}

	resp := &dto.PlanDetailResp{
		PlanResp: s.convertPlanToResp(plan),
	}

	resp.CourierPricings = make([]dto.CourierPricingResp, 0, len(plan.CourierPricings))
	for i := range plan.CourierPricings {
		resp.CourierPricings = append(resp.CourierPricings, s.convertPricingToResp(&plan.CourierPricings[i]))
	}

	return resp, nil
}

// ==================== 写入方法 ====================

// CreatePlan 创建方案
func (s *PlanService) CreatePlan(ctx context.Context, req dto.PlanCreateReq, operatorID int64) (*dto.PlanResp, error) {
	pricings, err := s.buildPricings(ctx, req.CourierPricings)
	if err != nil {
		return nil, err
	}

	plan := &model.Plan{
		Name:            req.Name,
		Status:          model.PlanStatusActive,
		IsDefault:       req.IsDefault,
		CourierPricings: pricings,
	}
	plan.CreatedBy = operatorID

	if err := s.planRepo.Create(ctx, plan); err != nil {
		return nil, fmt.Errorf("创建计价方案失败: %v", err)
	}

	resp := s.convertPlanToResp(plan)
	return &resp, nil
}

// UpdatePlan 更新方案
// 报价列表非空时整体替换（先删后建），从不做局部修改
func (s *PlanService) UpdatePlan(ctx context.Context, id int64, req dto.PlanUpdateReq, operatorID int64) error {
	if _, err := s.planRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("计价方案不存在")
		}
		return err
	}

	fields := map[string]interface{}{
		"updated_by": operatorID,
	}
	if req.Name != "" {
		fields["name"] = req.Name
	}
	if req.Status != nil {
		fields["status"] = *req.Status
	}
	if req.IsDefault != nil {
		fields["is_default"] = *req.IsDefault
	}
	if err := s.planRepo.UpdateFields(ctx, id, fields); err != nil {
		return fmt.Errorf("更新计价方案失败: %v", err)
	}

	if len(req.CourierPricings) > 0 {
		pricings, err := s.buildPricings(ctx, req.CourierPricings)
		if err != nil {
			return err
		}
		if err := s.planRepo.ReplacePricings(ctx, id, pricings); err != nil {
			return fmt.Errorf("替换方案报价失败: %v", err)
		}
	}

	return nil
}

// DeletePlan 删除方案（连带报价与分区行）
func (s *PlanService) DeletePlan(ctx context.Context, id int64) error {
	if _, err := s.planRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("计价方案不存在")
		}
		return err
	}
	return s.planRepo.Delete(ctx, id)
}

// ==================== 辅助方法 ====================

// buildPricings 将报价参数转为模型，并完成旧版命名制区域迁移
func (s *PlanService) buildPricings(ctx context.Context, reqs []dto.CourierPricingReq) ([]model.CourierPricing, error) {
	pricings := make([]model.CourierPricing, 0, len(reqs))

	for _, item := range reqs {
		if _, err := s.courierRepo.GetByID(ctx, item.CourierID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("快递商 %d 不存在", item.CourierID)
			}
			return nil, err
		}

		seen := make(map[model.Zone]bool, len(item.ZonePricings))
		zonePricings := make([]model.ZonePricing, 0, len(item.ZonePricings))
		for _, zp := range item.ZonePricings {
			zone, ok := model.NormalizeZone(zp.Zone)
			if !ok {
				return nil, fmt.Errorf("无法识别的区域标识: %s", zp.Zone)
			}
			if seen[zone] {
				return nil, fmt.Errorf("快递商 %d 的区域 %s 报价重复", item.CourierID, zone)
			}
			seen[zone] = true

			incrementPrice := zp.IncrementPrice
			if incrementPrice == 0 {
				// 旧版命名制报价只有统一续重价，迁移时填充到分区
				incrementPrice = item.IncrementPrice
			}

			zonePricings = append(zonePricings, model.ZonePricing{
				Zone:              zone,
				BasePrice:         zp.BasePrice,
				IncrementPrice:    incrementPrice,
				IsRTOSameAsFW:     zp.IsRTOSameAsFW,
				RTOBasePrice:      zp.RTOBasePrice,
				RTOIncrementPrice: zp.RTOIncrementPrice,
				FlatRTOCharge:     zp.FlatRTOCharge,
			})
		}

		pricings = append(pricings, model.CourierPricing{
			CourierID:               item.CourierID,
			WeightSlab:              item.WeightSlab,
			IncrementWeight:         item.IncrementWeight,
			IncrementPrice:          item.IncrementPrice,
			CODChargeHard:           item.CODChargeHard,
			CODChargePercent:        item.CODChargePercent,
			IsCODApplicable:         item.IsCODApplicable,
			IsFWApplicable:          item.IsFWApplicable,
			IsRTOApplicable:         item.IsRTOApplicable,
			IsCODReversalApplicable: item.IsCODReversalApplicable,
			ZonePricings:            zonePricings,
		})
	}

	return pricings, nil
}

// ==================== DTO 转换方法 ====================

func (s *PlanService) convertPlanToResp(plan *model.Plan) dto.PlanResp {
	return dto.PlanResp{
		ID:        plan.ID,
		Name:      plan.Name,
		Status:    plan.Status,
		IsDefault: plan.IsDefault,
		CreatedAt: plan.CreatedAt,
		UpdatedAt: plan.UpdatedAt,
	}
}

func (s *PlanService) convertPricingToResp(cp *model.CourierPricing) dto.CourierPricingResp {
	resp := dto.CourierPricingResp{
		ID:                      cp.ID,
		CourierID:               cp.CourierID,
		WeightSlab:              cp.WeightSlab,
		IncrementWeight:         cp.IncrementWeight,
		CODChargeHard:           cp.CODChargeHard,
		CODChargePercent:        cp.CODChargePercent,
		IsCODApplicable:         cp.IsCODApplicable,
		IsFWApplicable:          cp.IsFWApplicable,
		IsRTOApplicable:         cp.IsRTOApplicable,
		IsCODReversalApplicable: cp.IsCODReversalApplicable,
	}
	if cp.Courier != nil {
		resp.CourierName = cp.Courier.Name
	}

	resp.ZonePricings = make([]dto.ZonePricingResp, 0, len(cp.ZonePricings))
	for _, zp := range cp.ZonePricings {
		resp.ZonePricings = append(resp.ZonePricings, dto.ZonePricingResp{
			Zone:              zp.Zone,
			BasePrice:         zp.BasePrice,
			IncrementPrice:    zp.IncrementPrice,
			IsRTOSameAsFW:     zp.IsRTOSameAsFW,
			RTOBasePrice:      zp.RTOBasePrice,
			RTOIncrementPrice: zp.RTOIncrementPrice,
			FlatRTOCharge:     zp.FlatRTOCharge,
		})
	}

	return resp
}

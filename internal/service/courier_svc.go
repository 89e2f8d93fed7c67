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

// CourierService 快递商服务
type CourierService struct {
	courierRepo repository.CourierRepository
}

// NewCourierService 创建快递商服务
func NewCourierService(courierRepo repository.CourierRepository) *CourierService {
	return &CourierService{courierRepo: courierRepo}
}

// ==================== 查询方法 ====================

// GetCourierList 获取快递商列表
func (s *CourierService) GetCourierList(ctx context.Context, status *int) (*dto.CourierListResp, error) {
	list, err := s.courierRepo.List(ctx, status)
	if err != nil {
		return nil, err
	}

	respList := make([]dto.CourierResp, 0, len(list))
	for i := range list {
		respList = append(respList, s.convertToResp(&list[i]))
	}

	return &dto.CourierListResp{
		Total: int64(len(respList)),
		List:  respList,
	}, nil
}

// GetCourierDetail 获取快递商详情
func (s *CourierService) GetCourierDetail(ctx context.Context, id int64) (*dto.CourierResp, error) {
	courier, err := s.courierRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("快递商不存在")
		}
		return nil, err
	}

	resp := s.convertToResp(courier)
	return &resp, nil
}

// ==================== 写入方法 ====================

// CreateCourier 创建快递商
func (s *CourierService) CreateCourier(ctx context.Context, req dto.CourierCreateReq, operatorID int64) (*dto.CourierResp, error) {
	cutoff := req.PickupCutoff
	if cutoff == "" {
		cutoff = "14:00:00"
	}
	if err := ValidatePickupCutoff(cutoff); err != nil {
		return nil, err
	}

	if _, err := s.courierRepo.GetByCode(ctx, req.Code); err == nil {
		return nil, fmt.Errorf("快递商编码 %s 已存在", req.Code)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	courier := &model.Courier{
		Name:              req.Name,
		Code:              req.Code,
		Status:            model.CourierStatusActive,
		PickupCutoff:      cutoff,
		IsReversedCourier: req.IsReversedCourier,
		TrackingURL:       req.TrackingURL,
	}
	courier.CreatedBy = operatorID

	if err := s.courierRepo.Create(ctx, courier); err != nil {
		return nil, fmt.Errorf("创建快递商失败: %v", err)
	}

	resp := s.convertToResp(courier)
	return &resp, nil
}

// UpdateCourier 更新快递商
func (s *CourierService) UpdateCourier(ctx context.Context, id int64, req dto.CourierUpdateReq, operatorID int64) error {
	if _, err := s.courierRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("快递商不存在")
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
	if req.PickupCutoff != "" {
		if err := ValidatePickupCutoff(req.PickupCutoff); err != nil {
			return err
		}
		fields["pickup_cutoff"] = req.PickupCutoff
	}
	if req.IsReversedCourier != nil {
		fields["is_reversed_courier"] = *req.IsReversedCourier
	}
	if req.TrackingURL != "" {
		fields["tracking_url"] = req.TrackingURL
	}

	return s.courierRepo.UpdateFields(ctx, id, fields)
}

// DeleteCourier 删除快递商
func (s *CourierService) DeleteCourier(ctx context.Context, id int64) error {
	if _, err := s.courierRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("快递商不存在")
		}
		return err
	}
	return s.courierRepo.Delete(ctx, id)
}

// ==================== DTO 转换方法 ====================

func (s *CourierService) convertToResp(courier *model.Courier) dto.CourierResp {
	statusText := "停用"
	if courier.Status == model.CourierStatusActive {
		statusText = "正常"
	}

	return dto.CourierResp{
		ID:                courier.ID,
		Name:              courier.Name,
		Code:              courier.Code,
		Status:            courier.Status,
		StatusText:        statusText,
		PickupCutoff:      courier.PickupCutoff,
		IsReversedCourier: courier.IsReversedCourier,
		TrackingURL:       courier.TrackingURL,
		CreatedAt:         courier.CreatedAt,
		UpdatedAt:         courier.UpdatedAt,
	}
}

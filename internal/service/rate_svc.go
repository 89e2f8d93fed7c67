package service

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"courier_rate_v1_202608/internal/api/dto"
	"courier_rate_v1_202608/internal/model"
	"courier_rate_v1_202608/internal/repository"
)

// ==================== 业务结果文案 ====================

// 四类业务性结果（对外返回结构化消息，不作为系统错误抛出）
const (
	MsgNotServiceable       = "Invalid or not serviceable pincode"
	MsgNoPlan               = "No active plan"
	MsgNoCouriers           = "No couriers configured on plan"
	MsgNoServiceableCourier = "No serviceable couriers"
)

// ==================== RateService ====================

// RateService 询价聚合服务
// 引擎本体无状态：每次询价独立计算，除两次邮编分类外无副作用
// （询价流水为旁路记录，写失败不影响结果）
type RateService struct {
	planRepo    repository.PlanRepository
	userRepo    repository.UserRepository
	rateLogRepo repository.RateLogRepository // 可为 nil（关闭流水）
	classifier  PincodeClassifier
	zoneCfg     ZoneConfigProvider
}

// NewRateService 创建询价服务
func NewRateService(
	planRepo repository.PlanRepository,
	userRepo repository.UserRepository,
	rateLogRepo repository.RateLogRepository,
	classifier PincodeClassifier,
	zoneCfg ZoneConfigProvider,
) *RateService {
	return &RateService{
		planRepo:    planRepo,
		userRepo:    userRepo,
		rateLogRepo: rateLogRepo,
		classifier:  classifier,
		zoneCfg:     zoneCfg,
	}
}

// CalculateRates 为用户方案下的全部快递商计算报价
//
// 约定：业务性失败（校验不通过/邮编不可达/无方案/无可用快递商）写在响应的
// Message/Errors 里正常返回；只有系统故障（库查询失败、分类服务异常）才返回 error
//
// 结果顺序与方案下报价的存储顺序一致（按 id 升序），同一输入重复询价结果逐字节一致
func (s *RateService) CalculateRates(ctx context.Context, userID int64, req *dto.RateRequest) (*dto.CalculateRatesResp, error) {
	resp := &dto.CalculateRatesResp{RequestID: uuid.NewString()}

	// 1. 参数校验
	if errs := ValidateRateRequest(req); len(errs) > 0 {
		resp.Errors = errs
		s.writeLog(ctx, userID, 0, req, resp, "", model.RateOutcomeValidationFailed)
		return resp, nil
	}

	// 2. 解析用户方案
	plan, err := s.resolvePlan(ctx, userID)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		resp.Message = MsgNoPlan
		s.writeLog(ctx, userID, 0, req, resp, "", model.RateOutcomeNoPlan)
		return resp, nil
	}
	if len(plan.CourierPricings) == 0 {
		resp.Message = MsgNoCouriers
		s.writeLog(ctx, userID, plan.ID, req, resp, "", model.RateOutcomeNoPlan)
		return resp, nil
	}

	// 3. 并发分类揽收/派送邮编（两次外部查询互不依赖，并行后汇合）
	pickup, delivery, err := s.classifyBoth(ctx, req.PickupPincode, req.DeliveryPincode)
	if err != nil {
		if errors.Is(err, ErrPincodeNotFound) {
			resp.Message = MsgNotServiceable
			s.writeLog(ctx, userID, plan.ID, req, resp, "", model.RateOutcomeNotServiceable)
			return resp, nil
		}
		return nil, err
	}

	cfg, err := s.zoneCfg.GetZoneConfig(ctx)
	if err != nil {
		return nil, err
	}

	// 4. 区域解析 + 逐快递商计价
	zone := ResolveZone(pickup, delivery, cfg)
	now := time.Now()

	quotes := make([]dto.RateQuote, 0, len(plan.CourierPricings))
	for i := range plan.CourierPricings {
		cp := &plan.CourierPricings[i]

		// 快递商停用：跳过
		if cp.Courier == nil || cp.Courier.Status != model.CourierStatusActive {
			continue
		}
		// 正逆向严格匹配：逆向快递只接逆向单，反之亦然
		if cp.Courier.IsReversedCourier != req.IsReversedOrder {
			continue
		}

		finalWeight, volumetricWeight := NormalizeWeight(req, cp)
		quote, ok := CalculateCharge(finalWeight, volumetricWeight, zone, cp, req, now)
		if !ok {
			// 该快递商不覆盖此区域
			continue
		}
		quotes = append(quotes, *quote)
	}

	if len(quotes) == 0 {
		resp.Message = MsgNoServiceableCourier
		s.writeLog(ctx, userID, plan.ID, req, resp, zone, model.RateOutcomeNoCourier)
		return resp, nil
	}

	resp.Quotes = quotes
	s.writeLog(ctx, userID, plan.ID, req, resp, zone, model.RateOutcomeQuoted)
	return resp, nil
}

// resolvePlan 解析用户绑定方案，未绑定时回退默认方案
// 返回 (nil, nil) 表示无可用方案（业务性结果）
func (s *RateService) resolvePlan(ctx context.Context, userID int64) (*model.Plan, error) {
	planID := int64(0)

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if user != nil {
		planID = user.PlanID
	}

	if planID == 0 {
		defaultPlan, err := s.planRepo.GetDefault(ctx)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil
			}
			return nil, err
		}
		planID = defaultPlan.ID
	}

	plan, err := s.planRepo.GetByIDWithPricing(ctx, planID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if plan.Status != model.PlanStatusActive {
		return nil, nil
	}
	return plan, nil
}

// classifyResult 单次分类结果
type classifyResult struct {
	info *model.PincodeInfo
	err  error
}

// classifyBoth 并发分类两个邮编，全部完成后汇合
// 任一邮编未命中即返回 ErrPincodeNotFound
func (s *RateService) classifyBoth(ctx context.Context, pickupPincode, deliveryPincode string) (*model.PincodeInfo, *model.PincodeInfo, error) {
	pickupCh := make(chan classifyResult, 1)
	deliveryCh := make(chan classifyResult, 1)

	go func() {
		info, err := s.classifier.Classify(ctx, pickupPincode)
		pickupCh <- classifyResult{info: info, err: err}
	}()
	go func() {
		info, err := s.classifier.Classify(ctx, deliveryPincode)
		deliveryCh <- classifyResult{info: info, err: err}
	}()

	pickup := <-pickupCh
	delivery := <-deliveryCh

	// 未命中优先于系统错误上报，两个邮编都查完才返回
	if errors.Is(pickup.err, ErrPincodeNotFound) || errors.Is(delivery.err, ErrPincodeNotFound) {
		return nil, nil, ErrPincodeNotFound
	}
	if pickup.err != nil {
		return nil, nil, pickup.err
	}
	if delivery.err != nil {
		return nil, nil, delivery.err
	}

	return pickup.info, delivery.info, nil
}

// writeLog 旁路写询价流水，失败只打日志
func (s *RateService) writeLog(ctx context.Context, userID, planID int64, req *dto.RateRequest, resp *dto.CalculateRatesResp, zone model.Zone, outcome string) {
	if s.rateLogRepo == nil {
		return
	}

	reqPayload, _ := json.Marshal(req)
	respPayload, _ := json.Marshal(resp)

	entry := &model.RateLog{
		RequestID:       resp.RequestID,
		UserID:          userID,
		PlanID:          planID,
		PickupPincode:   req.PickupPincode,
		DeliveryPincode: req.DeliveryPincode,
		Zone:            zone,
		Outcome:         outcome,
		QuoteCount:      len(resp.Quotes),
		RequestPayload:  datatypes.JSON(reqPayload),
		ResponsePayload: datatypes.JSON(respPayload),
	}

	if err := s.rateLogRepo.Create(ctx, entry); err != nil {
		log.Printf("[Rate] 写询价流水失败 (request_id=%s): %v", resp.RequestID, err)
	}
}

// ListLogs 查询用户最近的询价流水
func (s *RateService) ListLogs(ctx context.Context, userID int64, limit int) (*dto.RateLogListResp, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	list, err := s.rateLogRepo.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, err
	}

	respList := make([]dto.RateLogResp, 0, len(list))
	for _, entry := range list {
		respList = append(respList, dto.RateLogResp{
			RequestID:       entry.RequestID,
			PickupPincode:   entry.PickupPincode,
			DeliveryPincode: entry.DeliveryPincode,
			Zone:            entry.Zone,
			Outcome:         entry.Outcome,
			QuoteCount:      entry.QuoteCount,
			CreatedAt:       entry.CreatedAt,
		})
	}

	return &dto.RateLogListResp{
		Total: int64(len(respList)),
		List:  respList,
	}, nil
}

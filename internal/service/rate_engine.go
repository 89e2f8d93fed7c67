package service

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"courier_rate_v1_202608/internal/api/dto"
	"courier_rate_v1_202608/internal/model"
)

// ==================== 计价常量 ====================

// 体积重换算除数（行业通用标准）
// 体积重(KG) = 长 * 宽 * 高 / 除数，厘米制除 5000，英寸制除 5
const (
	VolumetricDivisorCM   = 5000.0
	VolumetricDivisorInch = 5.0
)

// 单位标识
const (
	WeightUnitKG = "kg"
	WeightUnitG  = "g"
	SizeUnitCM   = "cm"
	SizeUnitInch = "in"
)

// 预计揽收时间
const (
	PickupToday    = "Today"
	PickupTomorrow = "Tomorrow"
)

var pincodePattern = regexp.MustCompile(`^[0-9]{6}$`)

// ==================== 请求校验 ====================

// ValidateRateRequest 校验询价请求，返回全部校验错误
// 校验不通过的请求不会进入邮编分类与报价查询
func ValidateRateRequest(req *dto.RateRequest) []string {
	var errs []string

	if !pincodePattern.MatchString(req.PickupPincode) {
		errs = append(errs, "pickup_pincode must be a 6-digit pincode")
	}
	if !pincodePattern.MatchString(req.DeliveryPincode) {
		errs = append(errs, "delivery_pincode must be a 6-digit pincode")
	}

	if req.Weight <= 0 {
		errs = append(errs, "weight must be greater than 0")
	}
	switch strings.ToLower(req.WeightUnit) {
	case "", WeightUnitKG, WeightUnitG:
	default:
		errs = append(errs, "weight_unit must be kg or g")
	}

	if req.BoxLength <= 0 || req.BoxWidth <= 0 || req.BoxHeight <= 0 {
		errs = append(errs, "box dimensions must be greater than 0")
	}
	switch strings.ToLower(req.SizeUnit) {
	case "", SizeUnitCM, SizeUnitInch:
	default:
		errs = append(errs, "size_unit must be cm or in")
	}

	switch req.PaymentType {
	case dto.PaymentTypePrepaid:
	case dto.PaymentTypeCOD:
		if req.CollectableAmount == nil || *req.CollectableAmount < 0 {
			errs = append(errs, "collectable_amount is required and must be non-negative for COD orders")
		}
	default:
		errs = append(errs, "payment_type must be 0 (prepaid) or 1 (COD)")
	}

	return errs
}

// ==================== 区域解析 ====================

// ResolveZone 根据揽收/派送邮编分类结果解析配送区域
//
// 规则按优先级匹配，先命中先生效（后面的规则覆盖面更广，会遮蔽前面的）：
//  1. 行政区相同        -> Z_A
//  2. 州相同            -> Z_B
//  3. 双方均为大都市    -> Z_C
//  4. 任一方在东北部    -> Z_E（在大都市规则之后检查，东北部的大都市互寄仍按 Z_C）
//  5. 其他              -> Z_D
//
// 第 3/4 条的先后顺序是既有线上行为，调整前需产品确认
func ResolveZone(pickup, delivery *model.PincodeInfo, cfg *model.ZoneConfig) model.Zone {
	if pickup.District != "" && strings.EqualFold(pickup.District, delivery.District) {
		return model.ZoneA
	}
	if pickup.State != "" && strings.EqualFold(pickup.State, delivery.State) {
		return model.ZoneB
	}
	if isMetro(pickup, cfg) && isMetro(delivery, cfg) {
		return model.ZoneC
	}
	if isNorthEastState(pickup.State, cfg) || isNorthEastState(delivery.State, cfg) {
		return model.ZoneE
	}
	return model.ZoneD
}

// isMetro 大都市判定：邮编表标记或城市在配置列表中
func isMetro(info *model.PincodeInfo, cfg *model.ZoneConfig) bool {
	if info.IsMetro {
		return true
	}
	for _, city := range cfg.MetroCities {
		if strings.EqualFold(info.City, city) {
			return true
		}
	}
	return false
}

func isNorthEastState(state string, cfg *model.ZoneConfig) bool {
	for _, s := range cfg.NorthEastStates {
		if strings.EqualFold(state, s) {
			return true
		}
	}
	return false
}

// ==================== 重量归一 ====================

// NormalizeWeight 计算体积重并与实际重量、最低计费重量取齐
//
// 全程以 KG 为单位做小数运算，只在体积重一步做四舍五入（round-half-up），
// 避免舍入误差层层放大到计费环节
func NormalizeWeight(req *dto.RateRequest, cp *model.CourierPricing) (finalWeight, volumetricWeight float64) {
	actualKG := req.Weight
	if strings.ToLower(req.WeightUnit) == WeightUnitG {
		actualKG = req.Weight / 1000
	}

	divisor := VolumetricDivisorCM
	if strings.ToLower(req.SizeUnit) == SizeUnitInch {
		divisor = VolumetricDivisorInch
	}

	volume := req.BoxLength * req.BoxWidth * req.BoxHeight / divisor
	volumetricWeight = math.Floor(volume + 0.5)

	finalWeight = math.Max(volumetricWeight, actualKG)
	if finalWeight < cp.WeightSlab {
		// 不足最低计费重量按最低计费重量算
		finalWeight = cp.WeightSlab
	}
	return finalWeight, volumetricWeight
}

// ==================== 费用计算 ====================

// CalculateCharge 按分区报价计算单个快递商的完整费用明细
//
// 返回 ok=false 表示该快递商没有对应区域的分区报价，
// 不覆盖该区域（聚合时过滤掉，不算错误）
func CalculateCharge(finalWeight, volumetricWeight float64, zone model.Zone, cp *model.CourierPricing, req *dto.RateRequest, now time.Time) (*dto.RateQuote, bool) {
	zp := cp.ZonePricingFor(zone)
	if zp == nil {
		return nil, false
	}

	// 续重段数：不足步长按一段算，低于最低计费重量不收续重
	var increments float64
	if cp.IncrementWeight > 0 {
		increments = math.Ceil((finalWeight - cp.WeightSlab) / cp.IncrementWeight)
		if increments < 0 {
			increments = 0
		}
	}

	weightCharges := zp.IncrementPrice * increments
	basePrice := zp.BasePrice

	// COD 手续费：固定下限和比例费二者取大，防止小额 COD 单收费过低
	var codCharges float64
	if req.PaymentType == dto.PaymentTypeCOD && cp.IsCODApplicable {
		var collectable float64
		if req.CollectableAmount != nil {
			collectable = *req.CollectableAmount
		}
		codCharges = math.Max(cp.CODChargeHard, cp.CODChargePercent/100*collectable)
	}

	subtotal := basePrice + weightCharges + codCharges

	// RTO 费用：镜像正向时扣除 COD（退回件不产生代收），否则走独立 RTO 价目
	var rtoCharges float64
	if cp.IsRTOApplicable {
		if zp.IsRTOSameAsFW {
			rtoCharges = subtotal - codCharges
		} else {
			rtoCharges = zp.RTOBasePrice + zp.RTOIncrementPrice*increments
		}
	}

	// 不支持正向运输的快递商报价为 0（仅展示/RTO 场景），RTO 费用照常给出
	totalPrice := subtotal
	if !cp.IsFWApplicable {
		totalPrice = 0
	}

	quote := &dto.RateQuote{
		CourierID:        cp.CourierID,
		Zone:             zone,
		FinalWeight:      finalWeight,
		VolumetricWeight: volumetricWeight,
		BasePrice:        basePrice,
		WeightCharges:    weightCharges,
		CODCharges:       codCharges,
		RTOCharges:       rtoCharges,
		TotalPrice:       totalPrice,
	}

	if cp.Courier != nil {
		quote.CourierName = cp.Courier.Name
		quote.IsReversedCourier = cp.Courier.IsReversedCourier
		quote.ExpectedPickup = expectedPickup(cp.Courier.PickupCutoff, now)
	}

	return quote, true
}

// expectedPickup 根据快递商每日截单时间判断预计揽收日
func expectedPickup(cutoff string, now time.Time) string {
	t, err := time.Parse("15:04:05", cutoff)
	if err != nil {
		// 截单时间配置非法时保守按当日可揽
		return PickupToday
	}

	cutoffToday := time.Date(now.Year(), now.Month(), now.Day(), t.Hour(), t.Minute(), t.Second(), 0, now.Location())
	if now.After(cutoffToday) {
		return PickupTomorrow
	}
	return PickupToday
}

// ValidatePickupCutoff 校验截单时间格式
func ValidatePickupCutoff(cutoff string) error {
	if _, err := time.Parse("15:04:05", cutoff); err != nil {
		return fmt.Errorf("截单时间格式错误，应为 HH:MM:SS: %v", err)
	}
	return nil
}

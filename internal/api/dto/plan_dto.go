package dto

import (
	"time"

	"courier_rate_v1_202608/internal/model"
)

// ==================== 请求 DTO ====================

// ZonePricingReq 分区报价参数
// Zone 接受字母制（Z_A..Z_E）或旧版命名制（withinCity/withinState/metroToMetro/northEast/restOfIndia）
type ZonePricingReq struct {
	Zone              string  `json:"zone" binding:"required"`
	BasePrice         float64 `json:"base_price"`
	IncrementPrice    float64 `json:"increment_price"`
	IsRTOSameAsFW     bool    `json:"is_rto_same_as_fw"`
	RTOBasePrice      float64 `json:"rto_base_price"`
	RTOIncrementPrice float64 `json:"rto_increment_price"`
	FlatRTOCharge     float64 `json:"flat_rto_charge"`
}

// CourierPricingReq 快递商报价参数
type CourierPricingReq struct {
	CourierID       int64   `json:"courier_id" binding:"required"`
	WeightSlab      float64 `json:"weight_slab"`
	IncrementWeight float64 `json:"increment_weight"`
	IncrementPrice  float64 `json:"increment_price"` // 旧版统一续重单价，仅迁移用

	CODChargeHard    float64 `json:"cod_charge_hard"`
	CODChargePercent float64 `json:"cod_charge_percent"`

	IsCODApplicable         bool `json:"is_cod_applicable"`
	IsFWApplicable          bool `json:"is_fw_applicable"`
	IsRTOApplicable         bool `json:"is_rto_applicable"`
	IsCODReversalApplicable bool `json:"is_cod_reversal_applicable"`

	ZonePricings []ZonePricingReq `json:"zone_pricings"`
}

// PlanCreateReq 创建方案请求
type PlanCreateReq struct {
	Name            string              `json:"name" binding:"required"`
	IsDefault       bool                `json:"is_default"`
	CourierPricings []CourierPricingReq `json:"courier_pricings"`
}

// PlanUpdateReq 更新方案请求
// CourierPricings 非空时整体替换原有报价
type PlanUpdateReq struct {
	Name            string              `json:"name"`
	Status          *int                `json:"status"`
	IsDefault       *bool               `json:"is_default"`
	CourierPricings []CourierPricingReq `json:"courier_pricings"`
}

// ==================== 响应 DTO ====================

// ZonePricingResp 分区报价
type ZonePricingResp struct {
	Zone              model.Zone `json:"zone"`
	BasePrice         float64    `json:"base_price"`
	IncrementPrice    float64    `json:"increment_price"`
	IsRTOSameAsFW     bool       `json:"is_rto_same_as_fw"`
	RTOBasePrice      float64    `json:"rto_base_price"`
	RTOIncrementPrice float64    `json:"rto_increment_price"`
	FlatRTOCharge     float64    `json:"flat_rto_charge"`
}

// CourierPricingResp 快递商报价
type CourierPricingResp struct {
	ID              int64   `json:"id"`
	CourierID       int64   `json:"courier_id"`
	CourierName     string  `json:"courier_name,omitempty"`
	WeightSlab      float64 `json:"weight_slab"`
	IncrementWeight float64 `json:"increment_weight"`

	CODChargeHard    float64 `json:"cod_charge_hard"`
	CODChargePercent float64 `json:"cod_charge_percent"`

	IsCODApplicable         bool `json:"is_cod_applicable"`
	IsFWApplicable          bool `json:"is_fw_applicable"`
	IsRTOApplicable         bool `json:"is_rto_applicable"`
	IsCODReversalApplicable bool `json:"is_cod_reversal_applicable"`

	ZonePricings []ZonePricingResp `json:"zone_pricings"`
}

// PlanResp 方案
type PlanResp struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Status    int       `json:"status"`
	IsDefault bool      `json:"is_default"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PlanDetailResp 方案详情（含报价）
type PlanDetailResp struct {
	PlanResp
	CourierPricings []CourierPricingResp `json:"courier_pricings"`
}

// PlanListResp 方案列表
type PlanListResp struct {
	Total int64      `json:"total"`
	List  []PlanResp `json:"list"`
}

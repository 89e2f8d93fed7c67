package dto

import "courier_rate_v1_202608/internal/model"

// ==================== 请求 DTO ====================

// 付款方式
const (
	PaymentTypePrepaid = 0 // 预付
	PaymentTypeCOD     = 1 // 货到付款
)

// RateRequest 询价请求
type RateRequest struct {
	PickupPincode   string `json:"pickup_pincode" binding:"required"`   // 揽收邮编，6位数字
	DeliveryPincode string `json:"delivery_pincode" binding:"required"` // 派送邮编，6位数字

	Weight     float64 `json:"weight"`      // 实际重量
	WeightUnit string  `json:"weight_unit"` // kg / g，默认 kg

	BoxLength float64 `json:"box_length"` // 包装长
	BoxWidth  float64 `json:"box_width"`  // 包装宽
	BoxHeight float64 `json:"box_height"` // 包装高
	SizeUnit  string  `json:"size_unit"`  // cm / in，默认 cm

	PaymentType int `json:"payment_type"` // 0 预付 1 COD

	// COD 代收金额，payment_type=1 时必填且不能为负
	CollectableAmount *float64 `json:"collectable_amount"`

	// 是否逆向订单（退货取件），只匹配逆向快递
	IsReversedOrder bool `json:"is_reversed_order"`
}

// ==================== 响应 DTO ====================

// RateQuote 单个快递商的报价
type RateQuote struct {
	CourierID   int64      `json:"courier_id"`
	CourierName string     `json:"courier_name"`
	Zone        model.Zone `json:"zone"`

	FinalWeight      float64 `json:"final_weight"`      // 计费重量 KG
	VolumetricWeight float64 `json:"volumetric_weight"` // 体积重 KG

	BasePrice     float64 `json:"base_price"`     // 首重价
	WeightCharges float64 `json:"weight_charges"` // 续重费
	CODCharges    float64 `json:"cod_charges"`    // COD 手续费
	RTOCharges    float64 `json:"rto_charges"`    // RTO 费用
	TotalPrice    float64 `json:"total_price"`    // 正向总价

	ExpectedPickup    string `json:"expected_pickup"` // Today / Tomorrow
	IsReversedCourier bool   `json:"is_reversed_courier"`
}

// CalculateRatesResp 询价响应
// Quotes 与 Message/Errors 互斥：正常报价时只有 Quotes，
// 业务性失败（校验不通过/邮编不可达/无可用快递商）时只有 Message 或 Errors
type CalculateRatesResp struct {
	RequestID string      `json:"request_id"`
	Quotes    []RateQuote `json:"quotes,omitempty"`
	Message   string      `json:"message,omitempty"`
	Errors    []string    `json:"errors,omitempty"`
}

package model

import "gorm.io/datatypes"

// 询价结果类型
const (
	RateOutcomeQuoted           = "quoted"            // 正常报价
	RateOutcomeValidationFailed = "validation_failed" // 参数校验失败
	RateOutcomeNotServiceable   = "not_serviceable"   // 邮编不可达
	RateOutcomeNoPlan           = "no_plan"           // 无可用方案
	RateOutcomeNoCourier        = "no_courier"        // 无可用快递商
)

// RateLog 询价流水
// 每次询价落一条流水，原始请求/响应存 jsonb，用于重量争议与计费争议回溯
type RateLog struct {
	BaseModel

	RequestID string `gorm:"size:36;uniqueIndex;not null;comment:请求ID(UUID)"`
	UserID    int64  `gorm:"index;comment:发起用户ID"`
	PlanID    int64  `gorm:"index;comment:命中方案ID"`

	PickupPincode   string `gorm:"size:6;comment:揽收邮编"`
	DeliveryPincode string `gorm:"size:6;comment:派送邮编"`
	Zone            Zone   `gorm:"size:8;comment:解析出的区域"`

	Outcome    string `gorm:"size:32;index;comment:询价结果类型"`
	QuoteCount int    `gorm:"default:0;comment:返回报价条数"`

	RequestPayload  datatypes.JSON `gorm:"type:jsonb;comment:原始请求"`
	ResponsePayload datatypes.JSON `gorm:"type:jsonb;comment:原始响应"`
}

func (RateLog) TableName() string {
	return "rate_logs"
}

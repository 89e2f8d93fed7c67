package model

// 快递商状态
const (
	CourierStatusInactive = 0 // 停用
	CourierStatusActive   = 1 // 正常
)

// Courier 快递商
type Courier struct {
	BaseModel

	Name string `gorm:"size:100;not null;comment:快递商名称"`
	Code string `gorm:"size:50;uniqueIndex;not null;comment:快递商编码"`

	Status int `gorm:"default:1;comment:状态 0停用 1正常"`

	// 每日揽收截单时间，格式 HH:MM:SS
	// 超过该时间下单，预计揽收顺延到次日
	PickupCutoff string `gorm:"size:8;default:'14:00:00';comment:揽收截单时间"`

	// 是否逆向快递（退货取件专用）
	// 逆向快递只参与 is_reversed_order=true 的询价，正向快递反之
	IsReversedCourier bool `gorm:"default:false;comment:是否逆向快递"`

	TrackingURL string `gorm:"size:255;comment:运单跟踪链接模板"`
}

func (Courier) TableName() string {
	return "couriers"
}

package model

import "strings"

// ==================== Zone 定义 ====================

// Zone 配送区域，按距离/成本递增排列
// Z_A 最近最便宜，Z_E 最远最贵
type Zone string

const (
	ZoneA Zone = "Z_A" // 同城
	ZoneB Zone = "Z_B" // 同州/省内
	ZoneC Zone = "Z_C" // 大都市互寄
	ZoneD Zone = "Z_D" // 全国其他地区
	ZoneE Zone = "Z_E" // 东北部地区
)

// AllZones 按固定顺序排列的全部区域
var AllZones = []Zone{ZoneA, ZoneB, ZoneC, ZoneD, ZoneE}

// IsValid 校验区域值
func (z Zone) IsValid() bool {
	switch z {
	case ZoneA, ZoneB, ZoneC, ZoneD, ZoneE:
		return true
	}
	return false
}

// legacyZoneNames 旧版命名制区域到字母制区域的迁移映射
// 旧版方案（withinCity/withinState/...）只作为历史输入格式接受，写入时统一迁移
var legacyZoneNames = map[string]Zone{
	"withincity":   ZoneA,
	"withinstate":  ZoneB,
	"withinzone":   ZoneB,
	"metrotometro": ZoneC,
	"restofindia":  ZoneD,
	"northeast":    ZoneE,
}

// NormalizeZone 归一化区域标识
// 接受字母制（Z_A..Z_E，大小写不敏感）或旧版命名制，返回字母制区域
func NormalizeZone(raw string) (Zone, bool) {
	z := Zone(strings.ToUpper(strings.TrimSpace(raw)))
	if z.IsValid() {
		return z, true
	}
	if mapped, ok := legacyZoneNames[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return mapped, true
	}
	return "", false
}

// ==================== 计价方案 ====================

// 方案状态
const (
	PlanStatusInactive = 0 // 停用
	PlanStatusActive   = 1 // 正常
)

// Plan 计价方案
// 一个方案下挂多条快递商报价（CourierPricing），方案更新时整体替换，不做局部修改
type Plan struct {
	BaseModel

	Name      string `gorm:"size:100;not null;comment:方案名称"`
	Status    int    `gorm:"default:1;comment:状态 0停用 1正常"`
	IsDefault bool   `gorm:"default:false;comment:是否默认方案"`

	CourierPricings []CourierPricing `gorm:"foreignKey:PlanID"`
}

func (Plan) TableName() string {
	return "plans"
}

// CourierPricing 某方案下单个快递商的计价条款
type CourierPricing struct {
	BaseModel

	PlanID    int64    `gorm:"index;not null;comment:关联方案ID"`
	CourierID int64    `gorm:"index;not null;comment:关联快递商ID"`
	Courier   *Courier `gorm:"foreignKey:CourierID"`

	// 重量条款（单位 KG）
	WeightSlab      float64 `gorm:"default:0.5;comment:最低计费重量(KG)"`
	IncrementWeight float64 `gorm:"default:0.5;comment:续重步长(KG)"`

	// 旧版全区统一续重单价，已由 ZonePricing.IncrementPrice 取代
	// 仅在迁移旧版命名制报价时用于填充缺失的分区续重价
	IncrementPrice float64 `gorm:"default:0;comment:旧版统一续重单价"`

	// COD 条款
	CODChargeHard    float64 `gorm:"default:0;comment:COD固定手续费下限"`
	CODChargePercent float64 `gorm:"default:0;comment:COD比例手续费(%)"`

	// 适用开关
	IsCODApplicable         bool `gorm:"default:true;comment:是否支持COD"`
	IsFWApplicable          bool `gorm:"default:true;comment:是否支持正向运输"`
	IsRTOApplicable         bool `gorm:"default:true;comment:是否收取RTO费用"`
	IsCODReversalApplicable bool `gorm:"default:false;comment:是否支持COD冲正(暂不参与计价)"`

	ZonePricings []ZonePricing `gorm:"foreignKey:CourierPricingID"`
}

func (CourierPricing) TableName() string {
	return "courier_pricings"
}

// ZonePricingFor 取指定区域的分区报价，不存在时返回 nil
// 缺失分区表示该快递商不覆盖该区域（过滤条件，不是错误）
func (cp *CourierPricing) ZonePricingFor(zone Zone) *ZonePricing {
	for i := range cp.ZonePricings {
		if cp.ZonePricings[i].Zone == zone {
			return &cp.ZonePricings[i]
		}
	}
	return nil
}

// ZonePricing 分区报价，每条快递商报价下每个区域至多一行
type ZonePricing struct {
	BaseModel

	CourierPricingID int64 `gorm:"index;not null;comment:关联快递商报价ID"`
	Zone             Zone  `gorm:"size:8;index;not null;comment:配送区域"`

	BasePrice      float64 `gorm:"default:0;comment:首重价"`
	IncrementPrice float64 `gorm:"default:0;comment:续重单价"`

	// RTO 条款
	// IsRTOSameAsFW 为 true 时 RTO 费用镜像正向（首重+续重，不含COD），独立 RTO 价格失效
	IsRTOSameAsFW     bool    `gorm:"default:false;comment:RTO是否与正向一致"`
	RTOBasePrice      float64 `gorm:"default:0;comment:RTO首重价"`
	RTOIncrementPrice float64 `gorm:"default:0;comment:RTO续重单价"`
	FlatRTOCharge     float64 `gorm:"default:0;comment:RTO固定附加费(暂不参与计价)"`
}

func (ZonePricing) TableName() string {
	return "zone_pricings"
}

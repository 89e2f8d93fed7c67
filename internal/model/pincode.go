package model

import (
	"time"

	"github.com/lib/pq"
)

// Pincode 邮编基础数据（参考表）
// 来源：批量导入 + 外部邮编目录补录，极少变动
type Pincode struct {
	BaseModel

	Pincode  string `gorm:"size:6;uniqueIndex;not null;comment:6位邮编"`
	City     string `gorm:"size:100;comment:城市"`
	State    string `gorm:"size:100;comment:州/省"`
	District string `gorm:"size:100;index;comment:行政区"`

	IsMetro bool `gorm:"default:false;comment:是否大都市"`

	// 最近一次从外部目录刷新的时间，nil 表示从未刷新（本地导入）
	RefreshedAt *time.Time `gorm:"comment:外部目录刷新时间"`
}

func (Pincode) TableName() string {
	return "pincodes"
}

// PincodeInfo 邮编分类结果（引擎输入，纯值对象，不落库）
type PincodeInfo struct {
	Pincode  string `json:"pincode"`
	City     string `json:"city"`
	State    string `json:"state"`
	District string `json:"district"`
	IsMetro  bool   `json:"is_metro"`
}

// Info 转为分类结果
func (p *Pincode) Info() *PincodeInfo {
	return &PincodeInfo{
		Pincode:  p.Pincode,
		City:     p.City,
		State:    p.State,
		District: p.District,
		IsMetro:  p.IsMetro,
	}
}

// ==================== 区域划分配置 ====================

// ZoneConfigDefault 默认配置名
const ZoneConfigDefault = "default"

// ZoneConfig 区域划分参考配置
// 大都市与东北部州列表是固定参考数据，作为配置下发，不写死在代码里
type ZoneConfig struct {
	BaseModel

	Name string `gorm:"size:50;uniqueIndex;not null;comment:配置名"`

	MetroCities     pq.StringArray `gorm:"type:text[];comment:大都市列表"`
	NorthEastStates pq.StringArray `gorm:"type:text[];comment:东北部州列表"`
}

func (ZoneConfig) TableName() string {
	return "zone_configs"
}

// DefaultZoneConfig 内置默认区域配置
func DefaultZoneConfig() *ZoneConfig {
	return &ZoneConfig{
		Name: ZoneConfigDefault,
		MetroCities: pq.StringArray{
			"Delhi", "New Delhi", "Mumbai", "Kolkata", "Chennai",
			"Bengaluru", "Hyderabad", "Ahmedabad", "Pune",
		},
		NorthEastStates: pq.StringArray{
			"Arunachal Pradesh", "Assam", "Manipur", "Meghalaya",
			"Mizoram", "Nagaland", "Sikkim", "Tripura",
		},
	}
}

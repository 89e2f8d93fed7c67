package model

// 系统角色
const (
	RoleAdmin  = "admin"
	RoleSeller = "seller"
)

// SysUser 系统用户/商家账号
type SysUser struct {
	BaseModel

	// 基础信息
	Username string `gorm:"size:100;uniqueIndex;not null"`
	Password string `gorm:"size:255;not null"` // 哈希密码
	Email    string `gorm:"size:100"`

	// 系统级角色: admin (管理员), seller (商家)
	Role string `gorm:"size:20;default:'seller'"`

	IsActive bool `gorm:"default:true"`

	// 用户绑定的计价方案，0 表示使用默认方案
	PlanID int64 `gorm:"index;default:0;comment:绑定计价方案ID"`
	Plan   *Plan `gorm:"foreignKey:PlanID"`
}

func (SysUser) TableName() string {
	return "sys_users"
}

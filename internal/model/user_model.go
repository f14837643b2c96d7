package model

import (
	"time"
)

// UserRole 用户角色
type UserRole string

const (
	UserRoleCreator UserRole = "creator" // 创作者
	UserRoleFan     UserRole = "fan"     // 粉丝
)

// ValidUserRole 判断角色是否合法
func ValidUserRole(role UserRole) bool {
	return role == UserRoleCreator || role == UserRoleFan
}

// UserModel 用户模型
type UserModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// 身份信息
	WalletAddress string   `json:"wallet_address" gorm:"size:42;uniqueIndex;not null"`
	Username      string   `json:"username" gorm:"size:30;uniqueIndex;not null"`
	Role          UserRole `json:"role" gorm:"size:16;not null"`

	// 联系方式与社交账号
	Email     string `json:"email"`
	Twitter   string `json:"twitter"`
	Instagram string `json:"instagram"`
	Spotify   string `json:"spotify"`

	// 奖励账本（只追加）
	RewardEntries []RewardEntryModel `json:"reward_entries,omitempty" gorm:"foreignKey:UserId"`
}

// TableName 自定义表名
func (UserModel) TableName() string {
	return "user"
}

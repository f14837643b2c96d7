package model

import (
	"time"
)

// RewardEntryModel 用户奖励账本记录，创建后不再修改或删除
type RewardEntryModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`

	UserId     int64 `json:"user_id" gorm:"index;not null"`
	CampaignId int64 `json:"campaign_id" gorm:"index;not null"`

	Amount    float64   `json:"amount" gorm:"not null"`
	Token     Token     `json:"token" gorm:"embedded;embeddedPrefix:token_"`
	ClaimedAt time.Time `json:"claimed_at" gorm:"not null"`
}

// TableName 自定义表名
func (RewardEntryModel) TableName() string {
	return "reward_entry"
}

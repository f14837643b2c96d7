package model

import (
	"time"
)

// ParticipantModel 活动参与者模型，每个用户在同一活动下至多一条记录
type ParticipantModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`

	CampaignId int64 `json:"campaign_id" gorm:"not null;uniqueIndex:idx_participant_campaign_user"`
	UserId     int64 `json:"user_id" gorm:"not null;uniqueIndex:idx_participant_campaign_user"`

	// 行为记录（只追加，按时间有序）
	Actions []ActionRecordModel `json:"actions,omitempty" gorm:"foreignKey:ParticipantId"`
}

// TableName 自定义表名
func (ParticipantModel) TableName() string {
	return "participant"
}

// ActionRecordModel 已验证的行为记录
type ActionRecordModel struct {
	Id            int64 `json:"id" gorm:"primaryKey"`
	ParticipantId int64 `json:"participant_id" gorm:"index;not null"`

	ActionType ActionType `json:"action_type" gorm:"size:16;not null"`
	VerifiedAt time.Time  `json:"verified_at" gorm:"not null"`
	Proof      string     `json:"proof" gorm:"size:66;not null"` // 验证凭证指纹
}

// TableName 自定义表名
func (ActionRecordModel) TableName() string {
	return "action_record"
}

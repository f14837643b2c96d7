package model

import (
	"time"
)

// CampaignStatus 活动状态
type CampaignStatus string

const (
	CampaignStatusDraft     CampaignStatus = "draft"     // 草稿
	CampaignStatusActive    CampaignStatus = "active"    // 进行中
	CampaignStatusCompleted CampaignStatus = "completed" // 已结束
	CampaignStatusPaused    CampaignStatus = "paused"    // 已暂停
)

// ValidCampaignStatus 判断活动状态是否合法
func ValidCampaignStatus(status CampaignStatus) bool {
	switch status {
	case CampaignStatusDraft, CampaignStatusActive, CampaignStatusCompleted, CampaignStatusPaused:
		return true
	}
	return false
}

// ActionType 粉丝行为类型
type ActionType string

const (
	ActionTypeStream  ActionType = "stream"
	ActionTypeShare   ActionType = "share"
	ActionTypeComment ActionType = "comment"
	ActionTypeLike    ActionType = "like"
	ActionTypeFollow  ActionType = "follow"
)

// ValidActionType 判断行为类型是否合法
func ValidActionType(action ActionType) bool {
	switch action {
	case ActionTypeStream, ActionTypeShare, ActionTypeComment, ActionTypeLike, ActionTypeFollow:
		return true
	}
	return false
}

// CampaignModel 活动模型
type CampaignModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// 基本信息
	Title       string `json:"title" gorm:"not null"`
	Description string `json:"description" gorm:"type:text"`
	ContentUrl  string `json:"content_url"`

	// 预算信息
	BudgetAmount float64 `json:"budget_amount" gorm:"not null"`
	BudgetToken  Token   `json:"budget_token" gorm:"embedded;embeddedPrefix:budget_token_"`

	// 时间窗口，EndDate 必须严格晚于 StartDate，仅在创建时校验
	StartDate time.Time `json:"start_date" gorm:"not null"`
	EndDate   time.Time `json:"end_date" gorm:"not null"`

	// 状态，仅活动创建者可修改
	Status CampaignStatus `json:"status" gorm:"size:16;default:'draft'"`

	// 创建者（创建后不可变）
	CreatorId int64 `json:"creator_id" gorm:"index;not null"`

	// 锁仓价值，读取时刷新
	TotalTVL float64 `json:"total_tvl"`

	// 关联
	RewardRules  []RewardRuleModel  `json:"reward_rules,omitempty" gorm:"foreignKey:CampaignId"`
	Participants []ParticipantModel `json:"participants,omitempty" gorm:"foreignKey:CampaignId"`
}

// TableName 自定义表名
func (CampaignModel) TableName() string {
	return "campaign"
}

// RewardRuleModel 奖励规则模型
type RewardRuleModel struct {
	Id         int64 `json:"id" gorm:"primaryKey"`
	CampaignId int64 `json:"campaign_id" gorm:"index;not null"`

	Action       ActionType `json:"action" gorm:"size:16;not null"`
	RewardAmount float64    `json:"reward_amount" gorm:"not null"`
	Token        Token      `json:"token" gorm:"embedded;embeddedPrefix:token_"`

	// 每个用户该行为的最大领取次数，nil 表示不限，0 表示禁止领取
	MaxClaims *int `json:"max_claims,omitempty"`
}

// TableName 自定义表名
func (RewardRuleModel) TableName() string {
	return "reward_rule"
}

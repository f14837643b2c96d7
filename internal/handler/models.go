package handler

import (
	"time"

	"github.com/jerotaxyz/server/internal/model"
)

// 请求模型

// RegisterUserRequest 注册用户请求
type RegisterUserRequest struct {
	WalletAddress string `json:"wallet_address" binding:"required"`
	Username      string `json:"username" binding:"required"`
	Role          string `json:"role" binding:"required"`
	Email         string `json:"email"`
	Twitter       string `json:"twitter"`
	Instagram     string `json:"instagram"`
	Spotify       string `json:"spotify"`
}

// UpdateUserRequest 更新用户请求，钱包地址和角色不可更新
type UpdateUserRequest struct {
	Username  *string `json:"username"`
	Email     *string `json:"email"`
	Twitter   *string `json:"twitter"`
	Instagram *string `json:"instagram"`
	Spotify   *string `json:"spotify"`
}

// TokenRequest 代币信息
type TokenRequest struct {
	Address string `json:"address" binding:"required"`
	Name    string `json:"name"`
}

// RewardRuleRequest 奖励规则
type RewardRuleRequest struct {
	Action       string       `json:"action" binding:"required"`
	RewardAmount float64      `json:"reward_amount" binding:"required"`
	Token        TokenRequest `json:"token" binding:"required"`
	MaxClaims    *int         `json:"max_claims"`
}

// CreateCampaignRequest 创建活动请求
type CreateCampaignRequest struct {
	Title        string              `json:"title" binding:"required"`
	Description  string              `json:"description"`
	ContentUrl   string              `json:"content_url"`
	BudgetAmount float64             `json:"budget_amount" binding:"required"`
	BudgetToken  TokenRequest        `json:"budget_token" binding:"required"`
	StartDate    time.Time           `json:"start_date" binding:"required"`
	EndDate      time.Time           `json:"end_date" binding:"required"`
	RewardRules  []RewardRuleRequest `json:"reward_rules" binding:"required"`
	Status       string              `json:"status"`
}

// ToModel 转换为活动模型
func (r *CreateCampaignRequest) ToModel() *model.CampaignModel {
	rules := make([]model.RewardRuleModel, 0, len(r.RewardRules))
	for _, rule := range r.RewardRules {
		rules = append(rules, model.RewardRuleModel{
			Action:       model.ActionType(rule.Action),
			RewardAmount: rule.RewardAmount,
			Token:        model.Token{Address: rule.Token.Address, Name: rule.Token.Name},
			MaxClaims:    rule.MaxClaims,
		})
	}

	return &model.CampaignModel{
		Title:        r.Title,
		Description:  r.Description,
		ContentUrl:   r.ContentUrl,
		BudgetAmount: r.BudgetAmount,
		BudgetToken:  model.Token{Address: r.BudgetToken.Address, Name: r.BudgetToken.Name},
		StartDate:    r.StartDate,
		EndDate:      r.EndDate,
		RewardRules:  rules,
		Status:       model.CampaignStatus(r.Status),
	}
}

// UpdateCampaignRequest 更新活动请求，只允许更新状态和描述
type UpdateCampaignRequest struct {
	Status      *string `json:"status"`
	Description *string `json:"description"`
}

// ParticipateRequest 参与活动请求
type ParticipateRequest struct {
	Action string `json:"action" binding:"required"`
	Proof  string `json:"proof" binding:"required"`
}

// ClaimRequest 领取奖励请求
type ClaimRequest struct {
	Action string `json:"action" binding:"required"`
	Proof  string `json:"proof" binding:"required"`
}

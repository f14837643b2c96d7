package logic

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/jerotaxyz/server/internal/apperr"
	"github.com/jerotaxyz/server/internal/model"
	"github.com/jerotaxyz/server/internal/token"
)

// CampaignLogic 活动业务逻辑
type CampaignLogic struct {
	db        *gorm.DB
	allowlist *token.Allowlist
}

// NewCampaignLogic 创建活动业务逻辑
func NewCampaignLogic(db *gorm.DB, allowlist *token.Allowlist) *CampaignLogic {
	return &CampaignLogic{db: db, allowlist: allowlist}
}

// CampaignFilter 活动列表过滤条件
type CampaignFilter struct {
	Status          *model.CampaignStatus
	CreatorUsername *string
	StartFrom       *time.Time
	EndTo           *time.Time
}

// CampaignUpdate 活动更新，仅状态和描述可通过此路径修改
type CampaignUpdate struct {
	Status      *model.CampaignStatus
	Description *string
}

// CreateCampaign 创建活动。日期和代币校验全部通过后才会落库，
// 任一奖励代币不合法时整个活动都不会被创建。
func (l *CampaignLogic) CreateCampaign(creator *model.UserModel, campaign *model.CampaignModel) error {
	if creator.Role != model.UserRoleCreator {
		return apperr.New(apperr.KindForbidden, "只有创作者可以创建活动")
	}

	if err := l.validateCampaign(campaign); err != nil {
		return err
	}

	// 白名单校验：预算代币 + 所有奖励规则代币
	ruleTokens := make([]model.Token, 0, len(campaign.RewardRules))
	for _, rule := range campaign.RewardRules {
		ruleTokens = append(ruleTokens, rule.Token)
	}
	if err := l.allowlist.ValidateCampaignTokens(campaign.BudgetToken, ruleTokens); err != nil {
		return err
	}

	campaign.CreatorId = creator.Id
	if campaign.Status == "" {
		campaign.Status = model.CampaignStatusDraft
	}
	campaign.TotalTVL = campaign.BudgetAmount

	if err := l.db.Create(campaign).Error; err != nil {
		return apperr.Internal(fmt.Errorf("创建活动失败: %w", err))
	}

	return nil
}

// GetCampaign 获取活动详情，读取时刷新TVL
func (l *CampaignLogic) GetCampaign(id int64) (*model.CampaignModel, error) {
	var campaign model.CampaignModel
	if err := l.db.Preload("RewardRules").
		Preload("Participants.Actions").
		First(&campaign, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.KindNotFound, "活动不存在")
		}
		return nil, apperr.Internal(err)
	}

	if err := l.RefreshTVL(l.db, &campaign); err != nil {
		return nil, err
	}

	return &campaign, nil
}

// ListCampaigns 分页获取活动列表，按创建时间倒序
func (l *CampaignLogic) ListCampaigns(filter CampaignFilter, page, limit int) ([]model.CampaignModel, int64, int64, error) {
	query := l.db.Model(&model.CampaignModel{})

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.CreatorUsername != nil {
		query = query.Where("creator_id IN (?)",
			l.db.Model(&model.UserModel{}).Select("id").Where("username = ?", *filter.CreatorUsername))
	}
	if filter.StartFrom != nil {
		query = query.Where("start_date >= ?", *filter.StartFrom)
	}
	if filter.EndTo != nil {
		query = query.Where("end_date <= ?", *filter.EndTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, 0, apperr.Internal(err)
	}

	var campaigns []model.CampaignModel
	offset := (page - 1) * limit
	if err := query.Preload("RewardRules").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&campaigns).Error; err != nil {
		return nil, 0, 0, apperr.Internal(err)
	}

	pages := (total + int64(limit) - 1) / int64(limit)

	return campaigns, total, pages, nil
}

// UpdateCampaign 更新活动，只有活动创建者可操作，只开放状态和描述
func (l *CampaignLogic) UpdateCampaign(id int64, requester *model.UserModel, update CampaignUpdate) (*model.CampaignModel, error) {
	var campaign model.CampaignModel
	if err := l.db.First(&campaign, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.KindNotFound, "活动不存在")
		}
		return nil, apperr.Internal(err)
	}

	if campaign.CreatorId != requester.Id {
		return nil, apperr.New(apperr.KindNotAuthorized, "只有活动创建者可以更新活动")
	}

	updates := make(map[string]interface{})
	if update.Status != nil {
		if !model.ValidCampaignStatus(*update.Status) {
			return nil, apperr.New(apperr.KindValidation, "活动状态不合法: %s", *update.Status)
		}
		updates["status"] = *update.Status
	}
	if update.Description != nil {
		updates["description"] = *update.Description
	}

	if len(updates) == 0 {
		return &campaign, nil
	}

	if err := l.db.Model(&campaign).Updates(updates).Error; err != nil {
		return nil, apperr.Internal(fmt.Errorf("更新活动失败: %w", err))
	}

	return &campaign, nil
}

// TokenAmount 按代币聚合的金额
type TokenAmount struct {
	Address string  `json:"address" gorm:"column:token_address"`
	Name    string  `json:"name" gorm:"column:token_name"`
	Amount  float64 `json:"amount" gorm:"column:amount"`
}

// GetCampaignRewardStats 获取活动奖励统计信息
func (l *CampaignLogic) GetCampaignRewardStats(id int64) (map[string]interface{}, error) {
	campaign, err := l.GetCampaign(id)
	if err != nil {
		return nil, err
	}

	var totalClaims int64
	if err := l.db.Model(&model.RewardEntryModel{}).
		Where("campaign_id = ?", id).
		Count(&totalClaims).Error; err != nil {
		return nil, apperr.Internal(fmt.Errorf("获取领取总数失败: %w", err))
	}

	var uniqueClaimants int64
	if err := l.db.Model(&model.RewardEntryModel{}).
		Where("campaign_id = ?", id).
		Distinct("user_id").
		Count(&uniqueClaimants).Error; err != nil {
		return nil, apperr.Internal(fmt.Errorf("获取领取人数失败: %w", err))
	}

	var claimedByToken []TokenAmount
	if err := l.db.Model(&model.RewardEntryModel{}).
		Select("token_address, token_name, COALESCE(SUM(amount), 0) as amount").
		Where("campaign_id = ?", id).
		Group("token_address, token_name").
		Scan(&claimedByToken).Error; err != nil {
		return nil, apperr.Internal(fmt.Errorf("获取代币领取金额失败: %w", err))
	}

	var participantCount int64
	if err := l.db.Model(&model.ParticipantModel{}).
		Where("campaign_id = ?", id).
		Count(&participantCount).Error; err != nil {
		return nil, apperr.Internal(err)
	}

	var actionCount int64
	if err := l.db.Model(&model.ActionRecordModel{}).
		Where("participant_id IN (?)",
			l.db.Model(&model.ParticipantModel{}).Select("id").Where("campaign_id = ?", id)).
		Count(&actionCount).Error; err != nil {
		return nil, apperr.Internal(err)
	}

	return map[string]interface{}{
		"campaign_id":       campaign.Id,
		"status":            campaign.Status,
		"start_date":        campaign.StartDate,
		"end_date":          campaign.EndDate,
		"total_tvl":         campaign.TotalTVL,
		"participant_count": participantCount,
		"action_count":      actionCount,
		"total_claims":      totalClaims,
		"unique_claimants":  uniqueClaimants,
		"claimed_by_token":  claimedByToken,
	}, nil
}

// RefreshTVL 刷新活动锁仓价值：预算金额减去预算代币的已领取总额
func (l *CampaignLogic) RefreshTVL(db *gorm.DB, campaign *model.CampaignModel) error {
	var claimed float64
	if err := db.Model(&model.RewardEntryModel{}).
		Where("campaign_id = ? AND LOWER(token_address) = ?",
			campaign.Id, token.NormalizeAddress(campaign.BudgetToken.Address)).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&claimed).Error; err != nil {
		return apperr.Internal(fmt.Errorf("计算已领取金额失败: %w", err))
	}

	tvl := campaign.BudgetAmount - claimed
	if tvl < 0 {
		tvl = 0
	}

	if tvl != campaign.TotalTVL {
		if err := db.Model(campaign).Update("total_tvl", tvl).Error; err != nil {
			return apperr.Internal(fmt.Errorf("刷新TVL失败: %w", err))
		}
	}
	campaign.TotalTVL = tvl

	return nil
}

// validateCampaign 校验活动数据
func (l *CampaignLogic) validateCampaign(campaign *model.CampaignModel) error {
	if campaign.Title == "" {
		return apperr.New(apperr.KindValidation, "活动标题不能为空")
	}
	if campaign.BudgetAmount <= 0 {
		return apperr.New(apperr.KindValidation, "预算金额必须大于0")
	}
	if !campaign.EndDate.After(campaign.StartDate) {
		return apperr.New(apperr.KindValidation, "结束时间必须晚于开始时间")
	}
	if campaign.Status != "" && !model.ValidCampaignStatus(campaign.Status) {
		return apperr.New(apperr.KindValidation, "活动状态不合法: %s", campaign.Status)
	}
	if len(campaign.RewardRules) == 0 {
		return apperr.New(apperr.KindValidation, "至少需要一条奖励规则")
	}
	for _, rule := range campaign.RewardRules {
		if !model.ValidActionType(rule.Action) {
			return apperr.New(apperr.KindValidation, "奖励规则行为类型不合法: %s", rule.Action)
		}
		if rule.RewardAmount <= 0 {
			return apperr.New(apperr.KindValidation, "奖励金额必须大于0")
		}
		if rule.MaxClaims != nil && *rule.MaxClaims < 0 {
			return apperr.New(apperr.KindValidation, "最大领取次数不能为负数")
		}
	}
	return nil
}

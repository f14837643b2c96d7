package logic

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/jerotaxyz/server/internal/apperr"
	"github.com/jerotaxyz/server/internal/logger"
	"github.com/jerotaxyz/server/internal/model"
	"github.com/jerotaxyz/server/internal/token"
	"github.com/jerotaxyz/server/internal/verifier"
)

// RewardLogic 奖励发放业务逻辑
type RewardLogic struct {
	db       *gorm.DB
	verifier *verifier.Verifier
}

// NewRewardLogic 创建奖励发放业务逻辑
func NewRewardLogic(db *gorm.DB, v *verifier.Verifier) *RewardLogic {
	return &RewardLogic{db: db, verifier: v}
}

// ClaimResult 领奖结果
type ClaimResult struct {
	Entry         *model.RewardEntryModel `json:"entry"`
	CampaignId    int64                   `json:"campaign_id"`
	CampaignTitle string                  `json:"campaign_title"`
	Action        model.ActionType        `json:"action"`
	Platform      string                  `json:"platform"`
}

// ClaimReward 领取奖励。前置条件与参与一致，另外要求粉丝已经参与过活动，
// 且行为记录里存在与本次凭证指纹一致的同类行为。领奖不会自动发生，
// 必须显式调用。
func (l *RewardLogic) ClaimReward(campaignId int64, fan *model.UserModel, action model.ActionType, proof string) (*ClaimResult, error) {
	if fan.Role != model.UserRoleFan {
		return nil, apperr.New(apperr.KindForbidden, "只有粉丝可以领取奖励")
	}

	tx := l.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	campaign, rule, err := loadCampaignForAction(tx, campaignId, action, time.Now())
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	verification, err := l.verifier.Verify(action, campaign.ContentUrl, proof, fan.WalletAddress)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if !verification.Verified {
		tx.Rollback()
		return nil, apperr.New(apperr.KindVerificationFailed, "行为验证未通过")
	}

	var participant model.ParticipantModel
	if err := tx.Where("campaign_id = ? AND user_id = ?", campaignId, fan.Id).
		First(&participant).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.KindNotParticipated, "尚未参与该活动")
		}
		return nil, apperr.Internal(err)
	}

	// 行为记录中必须存在指纹一致的同类行为
	var matched int64
	if err := tx.Model(&model.ActionRecordModel{}).
		Where("participant_id = ? AND action_type = ? AND proof = ?",
			participant.Id, action, verification.ProofFingerprint).
		Count(&matched).Error; err != nil {
		tx.Rollback()
		return nil, apperr.Internal(err)
	}
	if matched == 0 {
		tx.Rollback()
		return nil, apperr.New(apperr.KindActionNotVerified, "没有与凭证匹配的已验证行为")
	}

	// 领取上限检查：按（活动, 规则代币）统计已有奖励记录
	if rule.MaxClaims != nil {
		var count int64
		if err := tx.Model(&model.RewardEntryModel{}).
			Where("user_id = ? AND campaign_id = ? AND LOWER(token_address) = ?",
				fan.Id, campaignId, token.NormalizeAddress(rule.Token.Address)).
			Count(&count).Error; err != nil {
			tx.Rollback()
			return nil, apperr.Internal(err)
		}
		if count >= int64(*rule.MaxClaims) {
			tx.Rollback()
			return nil, apperr.New(apperr.KindMaxRewardsClaimed, "该奖励已达到最大领取次数 %d", *rule.MaxClaims)
		}
	}

	entry := model.RewardEntryModel{
		UserId:     fan.Id,
		CampaignId: campaignId,
		Amount:     rule.RewardAmount,
		Token:      rule.Token,
		ClaimedAt:  time.Now(),
	}
	if err := tx.Create(&entry).Error; err != nil {
		tx.Rollback()
		return nil, apperr.Internal(fmt.Errorf("创建奖励记录失败: %w", err))
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperr.Internal(err)
	}

	logger.Info("User %d claimed %f %s from campaign %d for action %s",
		fan.Id, entry.Amount, entry.Token.Name, campaignId, action)

	return &ClaimResult{
		Entry:         &entry,
		CampaignId:    campaign.Id,
		CampaignTitle: campaign.Title,
		Action:        action,
		Platform:      verification.Platform,
	}, nil
}

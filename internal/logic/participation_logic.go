package logic

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/jerotaxyz/server/internal/apperr"
	"github.com/jerotaxyz/server/internal/logger"
	"github.com/jerotaxyz/server/internal/model"
	"github.com/jerotaxyz/server/internal/verifier"
)

// ParticipationLogic 活动参与业务逻辑
type ParticipationLogic struct {
	db       *gorm.DB
	verifier *verifier.Verifier
}

// NewParticipationLogic 创建活动参与业务逻辑
func NewParticipationLogic(db *gorm.DB, v *verifier.Verifier) *ParticipationLogic {
	return &ParticipationLogic{db: db, verifier: v}
}

// ParticipationResult 参与结果。奖励信息仅供展示，
// 参与本身不发放奖励，领奖是独立的操作。
type ParticipationResult struct {
	CampaignId   int64            `json:"campaign_id"`
	Action       model.ActionType `json:"action"`
	Verification *verifier.Result `json:"verification"`
	RewardAmount float64          `json:"reward_amount"`
	RewardToken  model.Token      `json:"reward_token"`
	MaxClaims    *int             `json:"max_claims,omitempty"`
}

// RecordParticipation 记录粉丝参与。
// 前置条件按顺序检查，第一个失败的立即返回：
// 活动进行中 → 在时间窗口内 → 行为有对应奖励规则 → 验证通过。
// 之后查找或创建参与者记录，检查该行为的领取上限，追加行为记录。
func (l *ParticipationLogic) RecordParticipation(campaignId int64, fan *model.UserModel, action model.ActionType, proof string) (*ParticipationResult, error) {
	if fan.Role != model.UserRoleFan {
		return nil, apperr.New(apperr.KindForbidden, "只有粉丝可以参与活动")
	}

	tx := l.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	// 锁住活动行，串行化同一活动上的读-检查-追加-写回
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

	// 查找或创建参与者，首次参与时该活动同时进入粉丝的参与列表
	participant, err := findOrCreateParticipant(tx, campaignId, fan.Id)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	// 领取上限检查：统计该参与者此行为类型的已有记录
	if rule.MaxClaims != nil {
		var count int64
		if err := tx.Model(&model.ActionRecordModel{}).
			Where("participant_id = ? AND action_type = ?", participant.Id, action).
			Count(&count).Error; err != nil {
			tx.Rollback()
			return nil, apperr.Internal(err)
		}
		if count >= int64(*rule.MaxClaims) {
			tx.Rollback()
			return nil, apperr.New(apperr.KindMaxClaimsReached, "该行为已达到最大参与次数 %d", *rule.MaxClaims)
		}
	}

	record := model.ActionRecordModel{
		ParticipantId: participant.Id,
		ActionType:    action,
		VerifiedAt:    verification.Timestamp,
		Proof:         verification.ProofFingerprint,
	}
	if err := tx.Create(&record).Error; err != nil {
		tx.Rollback()
		return nil, apperr.Internal(fmt.Errorf("记录参与行为失败: %w", err))
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperr.Internal(err)
	}

	logger.Info("User %d participated in campaign %d with action %s", fan.Id, campaignId, action)

	return &ParticipationResult{
		CampaignId:   campaignId,
		Action:       action,
		Verification: verification,
		RewardAmount: rule.RewardAmount,
		RewardToken:  rule.Token,
		MaxClaims:    rule.MaxClaims,
	}, nil
}

// loadCampaignForAction 加锁读取活动并检查参与前置条件，
// 返回活动和该行为对应的奖励规则
func loadCampaignForAction(tx *gorm.DB, campaignId int64, action model.ActionType, now time.Time) (*model.CampaignModel, *model.RewardRuleModel, error) {
	var campaign model.CampaignModel
	if err := lockForUpdate(tx).First(&campaign, campaignId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperr.New(apperr.KindNotFound, "活动不存在")
		}
		return nil, nil, apperr.Internal(err)
	}

	if campaign.Status != model.CampaignStatusActive {
		return nil, nil, apperr.New(apperr.KindCampaignNotActive, "活动不在进行中")
	}
	if now.Before(campaign.StartDate) || now.After(campaign.EndDate) {
		return nil, nil, apperr.New(apperr.KindOutsideDateWindow, "不在活动时间窗口内")
	}

	var rules []model.RewardRuleModel
	if err := tx.Where("campaign_id = ?", campaignId).Find(&rules).Error; err != nil {
		return nil, nil, apperr.Internal(err)
	}

	for i := range rules {
		if rules[i].Action == action {
			return &campaign, &rules[i], nil
		}
	}

	return nil, nil, apperr.New(apperr.KindActionNotRewarded, "该活动不奖励此行为: %s", action)
}

// findOrCreateParticipant 查找参与者记录，不存在时创建
func findOrCreateParticipant(tx *gorm.DB, campaignId, userId int64) (*model.ParticipantModel, error) {
	var participant model.ParticipantModel
	err := tx.Where("campaign_id = ? AND user_id = ?", campaignId, userId).
		First(&participant).Error
	if err == nil {
		return &participant, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Internal(err)
	}

	participant = model.ParticipantModel{
		CampaignId: campaignId,
		UserId:     userId,
	}
	if err := tx.Create(&participant).Error; err != nil {
		return nil, apperr.Internal(fmt.Errorf("创建参与者记录失败: %w", err))
	}

	return &participant, nil
}

// lockForUpdate 对查询加行锁。sqlite（测试环境）不支持 FOR UPDATE，
// 依赖其单写入者模型
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

package logic

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jerotaxyz/server/internal/apperr"
	"github.com/jerotaxyz/server/internal/model"
	"github.com/jerotaxyz/server/internal/verifier"
)

func TestClaimReward(t *testing.T) {
	db := newTestDB(t)
	v := verifier.New()
	participation := NewParticipationLogic(db, v)
	rewards := NewRewardLogic(db, v)

	creator := seedUser(t, db, "0xabcd000000000000000000000000000000000001", "creator1", model.UserRoleCreator)
	fan := seedUser(t, db, "0xabcd000000000000000000000000000000000002", "fan1", model.UserRoleFan)
	campaign := seedCampaign(t, db, creator.Id, model.CampaignStatusActive, streamRule(0.5, intPtr(10)))

	_, err := participation.RecordParticipation(campaign.Id, fan, model.ActionTypeStream, "proof1")
	require.NoError(t, err)

	result, err := rewards.ClaimReward(campaign.Id, fan, model.ActionTypeStream, "proof1")
	require.NoError(t, err)

	assert.Equal(t, campaign.Id, result.CampaignId)
	assert.Equal(t, campaign.Title, result.CampaignTitle)
	assert.Equal(t, model.ActionTypeStream, result.Action)
	assert.Equal(t, verifier.PlatformSpotify, result.Platform)
	assert.Equal(t, 0.5, result.Entry.Amount)
	assert.Equal(t, usdcToken, result.Entry.Token)
	assert.False(t, result.Entry.ClaimedAt.IsZero())

	// 账本里恰好一条记录
	var entries []model.RewardEntryModel
	require.NoError(t, db.Where("user_id = ?", fan.Id).Find(&entries).Error)
	require.Len(t, entries, 1)
}

func TestClaimRewardRequiresParticipation(t *testing.T) {
	db := newTestDB(t)
	v := verifier.New()
	rewards := NewRewardLogic(db, v)

	creator := seedUser(t, db, "0xabcd000000000000000000000000000000000001", "creator1", model.UserRoleCreator)
	fan := seedUser(t, db, "0xabcd000000000000000000000000000000000002", "fan1", model.UserRoleFan)
	campaign := seedCampaign(t, db, creator.Id, model.CampaignStatusActive, streamRule(0.5, intPtr(10)))

	// 未参与直接领奖
	_, err := rewards.ClaimReward(campaign.Id, fan, model.ActionTypeStream, "proof1")
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindNotParticipated))
}

func TestClaimRewardFingerprintMustMatch(t *testing.T) {
	db := newTestDB(t)
	v := verifier.New()
	participation := NewParticipationLogic(db, v)
	rewards := NewRewardLogic(db, v)

	creator := seedUser(t, db, "0xabcd000000000000000000000000000000000001", "creator1", model.UserRoleCreator)
	fan := seedUser(t, db, "0xabcd000000000000000000000000000000000002", "fan1", model.UserRoleFan)
	campaign := seedCampaign(t, db, creator.Id, model.CampaignStatusActive,
		streamRule(0.5, intPtr(10)),
		model.RewardRuleModel{Action: model.ActionTypeShare, RewardAmount: 1, Token: usdcToken})

	_, err := participation.RecordParticipation(campaign.Id, fan, model.ActionTypeStream, "proof1")
	require.NoError(t, err)

	// 凭证不一致
	_, err = rewards.ClaimReward(campaign.Id, fan, model.ActionTypeStream, "other-proof")
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindActionNotVerified))

	// 行为类型不一致，即使凭证相同
	_, err = rewards.ClaimReward(campaign.Id, fan, model.ActionTypeShare, "proof1")
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindActionNotVerified))
}

func TestClaimRewardRespectsRolesAndStatus(t *testing.T) {
	db := newTestDB(t)
	v := verifier.New()
	rewards := NewRewardLogic(db, v)

	creator := seedUser(t, db, "0xabcd000000000000000000000000000000000001", "creator1", model.UserRoleCreator)
	fan := seedUser(t, db, "0xabcd000000000000000000000000000000000002", "fan1", model.UserRoleFan)

	campaign := seedCampaign(t, db, creator.Id, model.CampaignStatusPaused, streamRule(0.5, nil))

	// 创作者不能领奖
	_, err := rewards.ClaimReward(campaign.Id, creator, model.ActionTypeStream, "p")
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))

	// 暂停中的活动不能领奖
	_, err = rewards.ClaimReward(campaign.Id, fan, model.ActionTypeStream, "p")
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindCampaignNotActive))
}

// 对应完整的参与-领奖流程：上限10次的规则，第10次领取成功，第11次失败
func TestClaimRewardMaxClaimsScenario(t *testing.T) {
	db := newTestDB(t)
	v := verifier.New()
	participation := NewParticipationLogic(db, v)
	rewards := NewRewardLogic(db, v)

	creator := seedUser(t, db, "0xabcd000000000000000000000000000000000001", "creator1", model.UserRoleCreator)
	fan := seedUser(t, db, "0xabcd000000000000000000000000000000000002", "fan1", model.UserRoleFan)
	campaign := seedCampaign(t, db, creator.Id, model.CampaignStatusActive, streamRule(0.5, intPtr(10)))

	for i := 1; i <= 10; i++ {
		proof := fmt.Sprintf("proof%d", i)
		_, err := participation.RecordParticipation(campaign.Id, fan, model.ActionTypeStream, proof)
		require.NoError(t, err)

		result, err := rewards.ClaimReward(campaign.Id, fan, model.ActionTypeStream, proof)
		require.NoError(t, err, "claim %d should succeed", i)
		assert.Equal(t, 0.5, result.Entry.Amount)
	}

	// 第11次：行为记录仍能匹配，但领取上限已到
	_, err := rewards.ClaimReward(campaign.Id, fan, model.ActionTypeStream, "proof10")
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindMaxRewardsClaimed))

	var count int64
	require.NoError(t, db.Model(&model.RewardEntryModel{}).
		Where("user_id = ? AND campaign_id = ?", fan.Id, campaign.Id).
		Count(&count).Error)
	assert.Equal(t, int64(10), count)
}

func TestClaimRewardCapIsPerToken(t *testing.T) {
	db := newTestDB(t)
	v := verifier.New()
	participation := NewParticipationLogic(db, v)
	rewards := NewRewardLogic(db, v)

	creator := seedUser(t, db, "0xabcd000000000000000000000000000000000001", "creator1", model.UserRoleCreator)
	fan := seedUser(t, db, "0xabcd000000000000000000000000000000000002", "fan1", model.UserRoleFan)

	jrtToken := model.Token{Address: jrtAddress, Name: "JRT"}
	campaign := seedCampaign(t, db, creator.Id, model.CampaignStatusActive,
		streamRule(0.5, intPtr(1)),
		model.RewardRuleModel{Action: model.ActionTypeShare, RewardAmount: 2, Token: jrtToken, MaxClaims: intPtr(1)})

	_, err := participation.RecordParticipation(campaign.Id, fan, model.ActionTypeStream, "p1")
	require.NoError(t, err)
	_, err = participation.RecordParticipation(campaign.Id, fan, model.ActionTypeShare, "p2")
	require.NoError(t, err)

	// 两条规则代币不同，各自独立计数
	_, err = rewards.ClaimReward(campaign.Id, fan, model.ActionTypeStream, "p1")
	require.NoError(t, err)
	_, err = rewards.ClaimReward(campaign.Id, fan, model.ActionTypeShare, "p2")
	require.NoError(t, err)

	// USDC规则已达上限
	_, err = rewards.ClaimReward(campaign.Id, fan, model.ActionTypeStream, "p1")
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindMaxRewardsClaimed))
}

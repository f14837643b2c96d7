package logic

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jerotaxyz/server/internal/apperr"
	"github.com/jerotaxyz/server/internal/model"
)

func TestRegisterUser(t *testing.T) {
	db := newTestDB(t)
	l := NewUserLogic(db)

	user := &model.UserModel{
		WalletAddress: "0xAbCd000000000000000000000000000000000001",
		Username:      "alice01",
		Role:          model.UserRoleFan,
		Email:         "alice@example.com",
	}
	require.NoError(t, l.RegisterUser(user))
	assert.NotZero(t, user.Id)

	// 钱包地址统一存小写
	assert.Equal(t, strings.ToLower("0xAbCd000000000000000000000000000000000001"), user.WalletAddress)
}

func TestRegisterUserValidation(t *testing.T) {
	db := newTestDB(t)
	l := NewUserLogic(db)

	tests := []struct {
		name string
		user model.UserModel
	}{
		{"钱包格式错误", model.UserModel{WalletAddress: "0x123", Username: "alice01", Role: model.UserRoleFan}},
		{"钱包缺少前缀", model.UserModel{WalletAddress: strings.Repeat("a", 42), Username: "alice01", Role: model.UserRoleFan}},
		{"用户名太短", model.UserModel{WalletAddress: "0xabcd000000000000000000000000000000000001", Username: "ab", Role: model.UserRoleFan}},
		{"用户名含符号", model.UserModel{WalletAddress: "0xabcd000000000000000000000000000000000001", Username: "alice_01", Role: model.UserRoleFan}},
		{"角色不合法", model.UserModel{WalletAddress: "0xabcd000000000000000000000000000000000001", Username: "alice01", Role: "admin"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := l.RegisterUser(&tt.user)
			require.Error(t, err)
			assert.True(t, apperr.IsKind(err, apperr.KindValidation))
		})
	}
}

func TestRegisterUserDuplicates(t *testing.T) {
	db := newTestDB(t)
	l := NewUserLogic(db)

	require.NoError(t, l.RegisterUser(&model.UserModel{
		WalletAddress: "0xabcd000000000000000000000000000000000001",
		Username:      "alice01",
		Role:          model.UserRoleFan,
	}))

	// 钱包重复检查大小写不敏感
	err := l.RegisterUser(&model.UserModel{
		WalletAddress: "0xABCD000000000000000000000000000000000001",
		Username:      "bob02",
		Role:          model.UserRoleFan,
	})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindDuplicateWallet))

	err = l.RegisterUser(&model.UserModel{
		WalletAddress: "0xabcd000000000000000000000000000000000002",
		Username:      "alice01",
		Role:          model.UserRoleCreator,
	})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindDuplicateUsername))
}

func TestGetUserByWallet(t *testing.T) {
	db := newTestDB(t)
	l := NewUserLogic(db)

	seedUser(t, db, "0xabcd000000000000000000000000000000000001", "alice01", model.UserRoleFan)

	// 大小写不敏感
	user, err := l.GetUserByWallet("0xABCD000000000000000000000000000000000001")
	require.NoError(t, err)
	assert.Equal(t, "alice01", user.Username)

	_, err = l.GetUserByWallet("0xabcd000000000000000000000000000000000099")
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestUpdateUser(t *testing.T) {
	db := newTestDB(t)
	l := NewUserLogic(db)

	user := seedUser(t, db, "0xabcd000000000000000000000000000000000001", "alice01", model.UserRoleFan)
	other := seedUser(t, db, "0xabcd000000000000000000000000000000000002", "bob02", model.UserRoleFan)

	// 只能更新自己的资料
	newName := "alice02"
	_, err := l.UpdateUser(user.Id, other, UserUpdate{Username: &newName})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindNotAuthorized))

	// 正常更新
	email := "alice@example.com"
	updated, err := l.UpdateUser(user.Id, user, UserUpdate{Username: &newName, Email: &email})
	require.NoError(t, err)
	assert.Equal(t, "alice02", updated.Username)
	assert.Equal(t, email, updated.Email)

	// 钱包地址和角色没有被更新路径触碰
	var stored model.UserModel
	require.NoError(t, db.First(&stored, user.Id).Error)
	assert.Equal(t, "0xabcd000000000000000000000000000000000001", stored.WalletAddress)
	assert.Equal(t, model.UserRoleFan, stored.Role)

	// 用户名冲突
	taken := "bob02"
	_, err = l.UpdateUser(user.Id, user, UserUpdate{Username: &taken})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindDuplicateUsername))
}

func TestGetUserProfile(t *testing.T) {
	db := newTestDB(t)
	l := NewUserLogic(db)

	creator := seedUser(t, db, "0xabcd000000000000000000000000000000000001", "creator1", model.UserRoleCreator)
	fan := seedUser(t, db, "0xabcd000000000000000000000000000000000002", "fan1", model.UserRoleFan)

	c1 := seedCampaign(t, db, creator.Id, model.CampaignStatusActive, streamRule(0.5, nil))
	c2 := seedCampaign(t, db, creator.Id, model.CampaignStatusDraft, streamRule(0.5, nil))

	require.NoError(t, db.Create(&model.ParticipantModel{CampaignId: c1.Id, UserId: fan.Id}).Error)

	profile, err := l.GetUserProfile(creator.Id)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{c1.Id, c2.Id}, profile.CampaignsCreated)
	assert.Empty(t, profile.CampaignsParticipated)

	profile, err = l.GetUserProfile(fan.Id)
	require.NoError(t, err)
	assert.Empty(t, profile.CampaignsCreated)
	assert.Equal(t, []int64{c1.Id}, profile.CampaignsParticipated)
}

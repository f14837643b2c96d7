package logic

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/jerotaxyz/server/internal/config"
	"github.com/jerotaxyz/server/internal/database"
	"github.com/jerotaxyz/server/internal/model"
	"github.com/jerotaxyz/server/internal/token"
)

const (
	usdcAddress = "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"
	jrtAddress  = "0x1111111111111111111111111111111111111111"
)

var usdcToken = model.Token{Address: usdcAddress, Name: "USDC"}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	// 内存库随连接销毁，限制为单连接
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))

	return db
}

func newTestAllowlist(tokens ...config.TokenConfig) *token.Allowlist {
	if len(tokens) == 0 {
		tokens = []config.TokenConfig{
			{Address: usdcAddress, Name: "USDC"},
			{Address: jrtAddress, Name: "JRT"},
		}
	}
	source := token.NewConfigSource(config.AllowlistConfig{Tokens: tokens})
	return token.NewAllowlist(source, time.Minute)
}

func seedUser(t *testing.T, db *gorm.DB, wallet, username string, role model.UserRole) *model.UserModel {
	t.Helper()

	user := &model.UserModel{
		WalletAddress: wallet,
		Username:      username,
		Role:          role,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedCampaign(t *testing.T, db *gorm.DB, creatorId int64, status model.CampaignStatus, rules ...model.RewardRuleModel) *model.CampaignModel {
	t.Helper()

	now := time.Now()
	campaign := &model.CampaignModel{
		Title:        "New single push",
		Description:  "Stream the new single",
		ContentUrl:   "https://open.spotify.com/track/abc123",
		BudgetAmount: 1000,
		BudgetToken:  usdcToken,
		StartDate:    now.Add(-time.Hour),
		EndDate:      now.Add(24 * time.Hour),
		Status:       status,
		CreatorId:    creatorId,
		TotalTVL:     1000,
		RewardRules:  rules,
	}
	require.NoError(t, db.Create(campaign).Error)
	return campaign
}

func streamRule(amount float64, maxClaims *int) model.RewardRuleModel {
	return model.RewardRuleModel{
		Action:       model.ActionTypeStream,
		RewardAmount: amount,
		Token:        usdcToken,
		MaxClaims:    maxClaims,
	}
}

func intPtr(n int) *int {
	return &n
}

package scheduler

import (
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/panjf2000/ants/v2"
	"gorm.io/gorm"

	"github.com/jerotaxyz/server/internal/config"
	"github.com/jerotaxyz/server/internal/logger"
	"github.com/jerotaxyz/server/internal/logic"
	"github.com/jerotaxyz/server/internal/model"
	"github.com/jerotaxyz/server/internal/token"
)

// TVLRefreshJob 定期刷新进行中活动的锁仓价值
type TVLRefreshJob struct {
	db            *gorm.DB
	campaignLogic *logic.CampaignLogic
	config        *config.Config
}

// NewTVLRefreshJob 创建TVL刷新任务
func NewTVLRefreshJob(db *gorm.DB, allowlist *token.Allowlist, cfg *config.Config) *TVLRefreshJob {
	return &TVLRefreshJob{
		db:            db,
		campaignLogic: logic.NewCampaignLogic(db, allowlist),
		config:        cfg,
	}
}

// GetName 获取任务名称
func (j *TVLRefreshJob) GetName() string {
	return "campaign_tvl_refresher"
}

// GetSchedule 获取调度配置
func (j *TVLRefreshJob) GetSchedule() gocron.JobDefinition {
	return gocron.DurationJob(time.Duration(j.config.Scheduler.Interval) * time.Second)
}

// Execute 执行任务，用协程池并发刷新各活动
func (j *TVLRefreshJob) Execute() {
	var campaigns []model.CampaignModel
	if err := j.db.Where("status = ?", model.CampaignStatusActive).
		Find(&campaigns).Error; err != nil {
		logger.Error("Failed to fetch active campaigns for TVL refresh: %v", err)
		return
	}

	if len(campaigns) == 0 {
		return
	}

	poolSize := j.config.Scheduler.TVLPoolSize
	if poolSize <= 0 {
		poolSize = 8
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		logger.Error("Failed to create TVL refresh pool: %v", err)
		return
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for i := range campaigns {
		campaign := &campaigns[i]
		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			if err := j.campaignLogic.RefreshTVL(j.db, campaign); err != nil {
				logger.Error("Failed to refresh TVL for campaign %d: %v", campaign.Id, err)
			}
		})
		if err != nil {
			wg.Done()
			logger.Error("Failed to submit TVL refresh task: %v", err)
		}
	}
	wg.Wait()

	logger.Debug("TVL refresh completed for %d campaigns", len(campaigns))
}

package scheduler

import (
	"time"

	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"

	"github.com/jerotaxyz/server/internal/config"
	"github.com/jerotaxyz/server/internal/logger"
	"github.com/jerotaxyz/server/internal/model"
)

// CampaignStatusJob 活动状态更新任务。
// 只负责把过了结束时间的进行中活动标记为已结束，
// 草稿和暂停状态的激活始终由创建者手动操作。
type CampaignStatusJob struct {
	db     *gorm.DB
	config *config.Config
}

// NewCampaignStatusJob 创建活动状态更新任务
func NewCampaignStatusJob(db *gorm.DB, cfg *config.Config) *CampaignStatusJob {
	return &CampaignStatusJob{
		db:     db,
		config: cfg,
	}
}

// GetName 获取任务名称
func (j *CampaignStatusJob) GetName() string {
	return "campaign_status_updater"
}

// GetSchedule 获取调度配置
func (j *CampaignStatusJob) GetSchedule() gocron.JobDefinition {
	return gocron.DurationJob(time.Duration(j.config.Scheduler.Interval) * time.Second)
}

// Execute 执行任务
func (j *CampaignStatusJob) Execute() {
	logger.Debug("Starting campaign status update task")

	result := j.db.Model(&model.CampaignModel{}).
		Where("status = ? AND end_date < ?", model.CampaignStatusActive, time.Now()).
		Update("status", model.CampaignStatusCompleted)

	if result.Error != nil {
		logger.Error("Failed to update campaign statuses: %v", result.Error)
		return
	}

	if result.RowsAffected > 0 {
		logger.Info("Campaign status update completed. Completed %d campaigns", result.RowsAffected)
	}
}

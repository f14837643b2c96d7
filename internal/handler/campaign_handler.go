package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/jerotaxyz/server/internal/apperr"
	"github.com/jerotaxyz/server/internal/logic"
	"github.com/jerotaxyz/server/internal/middleware"
	"github.com/jerotaxyz/server/internal/model"
	"github.com/jerotaxyz/server/internal/token"
)

type CampaignHandler struct {
	campaignLogic *logic.CampaignLogic
}

func NewCampaignHandler(db *gorm.DB, allowlist *token.Allowlist) *CampaignHandler {
	return &CampaignHandler{
		campaignLogic: logic.NewCampaignLogic(db, allowlist),
	}
}

// CreateCampaign 创建活动
func (h *CampaignHandler) CreateCampaign(c *gin.Context) {
	var req CreateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	creator := middleware.CurrentUser(c)
	campaign := req.ToModel()

	if err := h.campaignLogic.CreateCampaign(creator, campaign); err != nil {
		FailWith(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "活动创建成功", campaign)
}

// GetCampaign 获取活动详情
func (h *CampaignHandler) GetCampaign(c *gin.Context) {
	id, err := parseId(c, "id")
	if err != nil {
		FailWith(c, err)
		return
	}

	campaign, err := h.campaignLogic.GetCampaign(id)
	if err != nil {
		FailWith(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "", campaign)
}

// ListCampaigns 分页获取活动列表
func (h *CampaignHandler) ListCampaigns(c *gin.Context) {
	page, limit, err := parsePagination(c)
	if err != nil {
		FailWith(c, err)
		return
	}

	var filter logic.CampaignFilter
	if status := c.Query("status"); status != "" {
		s := model.CampaignStatus(status)
		if !model.ValidCampaignStatus(s) {
			FailWith(c, apperr.New(apperr.KindValidation, "活动状态不合法: %s", status))
			return
		}
		filter.Status = &s
	}
	if creator := c.Query("creator"); creator != "" {
		filter.CreatorUsername = &creator
	}
	if from := c.Query("start_from"); from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			FailWith(c, apperr.New(apperr.KindValidation, "start_from 必须为ISO-8601格式"))
			return
		}
		filter.StartFrom = &t
	}
	if to := c.Query("end_to"); to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			FailWith(c, apperr.New(apperr.KindValidation, "end_to 必须为ISO-8601格式"))
			return
		}
		filter.EndTo = &t
	}

	campaigns, total, pages, err := h.campaignLogic.ListCampaigns(filter, page, limit)
	if err != nil {
		FailWith(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "", gin.H{
		"campaigns": campaigns,
		"pagination": Pagination{
			Page:      page,
			PageSize:  limit,
			Total:     total,
			TotalPage: pages,
		},
	})
}

// UpdateCampaign 更新活动状态或描述
func (h *CampaignHandler) UpdateCampaign(c *gin.Context) {
	id, err := parseId(c, "id")
	if err != nil {
		FailWith(c, err)
		return
	}

	var req UpdateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	var update logic.CampaignUpdate
	if req.Status != nil {
		s := model.CampaignStatus(*req.Status)
		update.Status = &s
	}
	update.Description = req.Description

	requester := middleware.CurrentUser(c)
	campaign, err := h.campaignLogic.UpdateCampaign(id, requester, update)
	if err != nil {
		FailWith(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "活动更新成功", campaign)
}

// GetCampaignStats 获取活动奖励统计
func (h *CampaignHandler) GetCampaignStats(c *gin.Context) {
	id, err := parseId(c, "id")
	if err != nil {
		FailWith(c, err)
		return
	}

	stats, err := h.campaignLogic.GetCampaignRewardStats(id)
	if err != nil {
		FailWith(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "", stats)
}

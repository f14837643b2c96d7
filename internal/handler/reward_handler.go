package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/jerotaxyz/server/internal/logic"
	"github.com/jerotaxyz/server/internal/middleware"
	"github.com/jerotaxyz/server/internal/model"
	"github.com/jerotaxyz/server/internal/verifier"
)

type RewardHandler struct {
	rewardLogic *logic.RewardLogic
}

func NewRewardHandler(db *gorm.DB, v *verifier.Verifier) *RewardHandler {
	return &RewardHandler{
		rewardLogic: logic.NewRewardLogic(db, v),
	}
}

// Claim 领取奖励
func (h *RewardHandler) Claim(c *gin.Context) {
	id, err := parseId(c, "id")
	if err != nil {
		FailWith(c, err)
		return
	}

	var req ClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	fan := middleware.CurrentUser(c)
	result, err := h.rewardLogic.ClaimReward(id, fan, model.ActionType(req.Action), req.Proof)
	if err != nil {
		FailWith(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "奖励领取成功", result)
}

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

type ParticipationHandler struct {
	participationLogic *logic.ParticipationLogic
}

func NewParticipationHandler(db *gorm.DB, v *verifier.Verifier) *ParticipationHandler {
	return &ParticipationHandler{
		participationLogic: logic.NewParticipationLogic(db, v),
	}
}

// Participate 记录粉丝参与活动
func (h *ParticipationHandler) Participate(c *gin.Context) {
	id, err := parseId(c, "id")
	if err != nil {
		FailWith(c, err)
		return
	}

	var req ParticipateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	fan := middleware.CurrentUser(c)
	result, err := h.participationLogic.RecordParticipation(id, fan, model.ActionType(req.Action), req.Proof)
	if err != nil {
		FailWith(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "参与记录成功", result)
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/jerotaxyz/server/internal/logic"
	"github.com/jerotaxyz/server/internal/middleware"
	"github.com/jerotaxyz/server/internal/model"
)

type UserHandler struct {
	userLogic *logic.UserLogic
}

func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{
		userLogic: logic.NewUserLogic(db),
	}
}

// Register 注册用户
func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	user := &model.UserModel{
		WalletAddress: req.WalletAddress,
		Username:      req.Username,
		Role:          model.UserRole(req.Role),
		Email:         req.Email,
		Twitter:       req.Twitter,
		Instagram:     req.Instagram,
		Spotify:       req.Spotify,
	}

	if err := h.userLogic.RegisterUser(user); err != nil {
		FailWith(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "用户注册成功", user)
}

// GetUser 获取用户详情
func (h *UserHandler) GetUser(c *gin.Context) {
	id, err := parseId(c, "id")
	if err != nil {
		FailWith(c, err)
		return
	}

	profile, err := h.userLogic.GetUserProfile(id)
	if err != nil {
		FailWith(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "", profile)
}

// UpdateUser 更新用户资料
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, err := parseId(c, "id")
	if err != nil {
		FailWith(c, err)
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	requester := middleware.CurrentUser(c)
	user, err := h.userLogic.UpdateUser(id, requester, logic.UserUpdate{
		Username:  req.Username,
		Email:     req.Email,
		Twitter:   req.Twitter,
		Instagram: req.Instagram,
		Spotify:   req.Spotify,
	})
	if err != nil {
		FailWith(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "用户更新成功", user)
}

// GetUserRewards 分页获取用户奖励账本
func (h *UserHandler) GetUserRewards(c *gin.Context) {
	id, err := parseId(c, "id")
	if err != nil {
		FailWith(c, err)
		return
	}

	page, limit, err := parsePagination(c)
	if err != nil {
		FailWith(c, err)
		return
	}

	entries, total, err := h.userLogic.GetUserRewards(id, page, limit)
	if err != nil {
		FailWith(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "", gin.H{
		"rewards": entries,
		"pagination": Pagination{
			Page:      page,
			PageSize:  limit,
			Total:     total,
			TotalPage: (total + int64(limit) - 1) / int64(limit),
		},
	})
}

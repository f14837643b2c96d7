package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jerotaxyz/server/internal/apperr"
	"github.com/jerotaxyz/server/internal/logger"
)

// Response 通用响应结构
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Error   string      `json:"error,omitempty"` // 错误类型，成功时为空
	Data    interface{} `json:"data"`
}

// Pagination 分页信息结构
type Pagination struct {
	Page      int   `json:"page"`
	PageSize  int   `json:"pageSize"`
	Total     int64 `json:"total"`
	TotalPage int64 `json:"totalPage"`
}

// SuccessResponse 成功响应
func SuccessResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// ErrorResponse 错误响应
func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, Response{
		Success: false,
		Message: message,
		Data:    nil,
	})
}

// FailWith 按业务错误类型生成错误响应，内部错误只暴露通用信息
func FailWith(c *gin.Context, err error) {
	status := apperr.HTTPStatus(err)
	message := err.Error()

	if status == http.StatusInternalServerError {
		logger.Error("Internal error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		message = "内部错误，请稍后重试"
	}

	c.JSON(status, Response{
		Success: false,
		Message: message,
		Error:   string(apperr.KindOf(err)),
		Data:    nil,
	})
}

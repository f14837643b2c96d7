package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jerotaxyz/server/internal/apperr"
)

// parsePagination 解析分页参数，page≥1，1≤limit≤100
func parsePagination(c *gin.Context) (int, int, error) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		return 0, 0, apperr.New(apperr.KindValidation, "page 必须为不小于1的整数")
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 || limit > 100 {
		return 0, 0, apperr.New(apperr.KindValidation, "limit 必须为1-100之间的整数")
	}

	return page, limit, nil
}

// parseId 解析路径中的数字ID
func parseId(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.New(apperr.KindValidation, "无效的%s", name)
	}
	return id, nil
}

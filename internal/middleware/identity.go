package middleware

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/jerotaxyz/server/internal/apperr"
	"github.com/jerotaxyz/server/internal/logic"
	"github.com/jerotaxyz/server/internal/model"
)

// HeaderWalletAddress 调用方身份头，由可信网关注入
const HeaderWalletAddress = "X-Wallet-Address"

const contextUserKey = "currentUser"

// Identity 身份解析中间件：根据钱包地址头定位用户并注入上下文
func Identity(db *gorm.DB) gin.HandlerFunc {
	userLogic := logic.NewUserLogic(db)

	return func(c *gin.Context) {
		address := c.GetHeader(HeaderWalletAddress)
		if address == "" {
			c.AbortWithStatusJSON(401, gin.H{
				"success": false,
				"error":   string(apperr.KindUnauthenticated),
				"message": "缺少 " + HeaderWalletAddress + " 请求头",
			})
			return
		}

		user, err := userLogic.GetUserByWallet(address)
		if err != nil {
			c.AbortWithStatusJSON(apperr.HTTPStatus(err), gin.H{
				"success": false,
				"error":   string(apperr.KindOf(err)),
				"message": err.Error(),
			})
			return
		}

		c.Set(contextUserKey, user)
		c.Next()
	}
}

// CurrentUser 获取中间件注入的当前用户，未经过 Identity 的路由返回 nil
func CurrentUser(c *gin.Context) *model.UserModel {
	value, exists := c.Get(contextUserKey)
	if !exists {
		return nil
	}
	user, ok := value.(*model.UserModel)
	if !ok {
		return nil
	}
	return user
}

package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/jerotaxyz/server/internal/handler"
	"github.com/jerotaxyz/server/internal/middleware"
	"github.com/jerotaxyz/server/internal/token"
	"github.com/jerotaxyz/server/internal/verifier"
)

func Setup(db *gorm.DB, allowlist *token.Allowlist, v *verifier.Verifier) *gin.Engine {
	r := gin.Default()

	// 中间件
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(corsMiddleware())

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "jerota-server",
		})
	})

	identity := middleware.Identity(db)

	// API版本组
	v1 := r.Group("/api/v1")
	{
		// 用户相关路由
		userHandler := handler.NewUserHandler(db)
		users := v1.Group("/users")
		{
			users.POST("", userHandler.Register)
			users.GET("/:id", userHandler.GetUser)
			users.PUT("/:id", identity, userHandler.UpdateUser)
			users.GET("/:id/rewards", userHandler.GetUserRewards)
		}

		// 活动相关路由
		campaignHandler := handler.NewCampaignHandler(db, allowlist)
		participationHandler := handler.NewParticipationHandler(db, v)
		rewardHandler := handler.NewRewardHandler(db, v)
		campaigns := v1.Group("/campaigns")
		{
			campaigns.POST("", identity, campaignHandler.CreateCampaign)
			campaigns.GET("", campaignHandler.ListCampaigns)
			campaigns.GET("/:id", campaignHandler.GetCampaign)
			campaigns.PUT("/:id", identity, campaignHandler.UpdateCampaign)
			campaigns.GET("/:id/stats", campaignHandler.GetCampaignStats)
			campaigns.POST("/:id/participate", identity, participationHandler.Participate)
			campaigns.POST("/:id/claim", identity, rewardHandler.Claim)
		}
	}

	return r
}

// CORS中间件
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, X-Wallet-Address")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

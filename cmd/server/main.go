package main

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jerotaxyz/server/internal/config"
	"github.com/jerotaxyz/server/internal/database"
	"github.com/jerotaxyz/server/internal/logger"
	"github.com/jerotaxyz/server/internal/router"
	"github.com/jerotaxyz/server/internal/scheduler"
	"github.com/jerotaxyz/server/internal/token"
	"github.com/jerotaxyz/server/internal/verifier"
)

func main() {
	// 加载配置
	cfg := config.Load()

	// 初始化日志
	setupLogger(cfg.Log)
	defer logger.Sync()

	// 初始化数据库
	db, err := database.Init(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to initialize database: %v", err)
	}

	// 初始化代币白名单
	allowlist := token.NewAllowlist(
		token.NewConfigSource(cfg.Allowlist),
		time.Duration(cfg.Allowlist.CacheTTL)*time.Second,
	)

	// 初始化行为验证器
	v := verifier.New()

	// 设置Gin模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 初始化路由
	r := router.Setup(db, allowlist, v)

	// 启动定时任务
	manager := scheduler.Start(db, allowlist, cfg)
	defer manager.Stop()

	// 启动服务器
	logger.Info("Server starting on port %s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		logger.Fatal("Failed to start server: %v", err)
	}
}

func setupLogger(cfg config.LogConfig) {
	level := logger.ParseLogLevel(cfg.Level)

	if cfg.Output == "file" && cfg.File != "" {
		l, err := logger.NewWithFileRotation(level, cfg.File)
		if err != nil {
			logger.Fatal("Failed to initialize file logger: %v", err)
		}
		logger.SetDefaultLogger(l)
		return
	}

	l, err := logger.New(level)
	if err != nil {
		logger.Fatal("Failed to initialize logger: %v", err)
	}
	logger.SetDefaultLogger(l)
}

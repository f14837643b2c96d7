package config

import (
	"github.com/spf13/viper"

	"github.com/jerotaxyz/server/internal/logger"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Allowlist AllowlistConfig `mapstructure:"allowlist"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Log       LogConfig       `mapstructure:"log"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

// AllowlistConfig 代币白名单配置
type AllowlistConfig struct {
	CacheTTL int           `mapstructure:"cache_ttl"` // 缓存有效期（秒）
	Tokens   []TokenConfig `mapstructure:"tokens"`    // 允许的代币合约
}

// TokenConfig 单个代币配置
type TokenConfig struct {
	Address string `mapstructure:"address"` // 合约地址
	Name    string `mapstructure:"name"`    // 代币名称
}

type SchedulerConfig struct {
	Interval    int `mapstructure:"interval"`      // 任务间隔（秒）
	TVLPoolSize int `mapstructure:"tvl_pool_size"` // TVL刷新协程池大小
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // 日志级别: debug, info, warn, error, fatal
	Output string `mapstructure:"output"` // 输出目标: stdout, file
	File   string `mapstructure:"file"`   // 日志文件路径（当output为file时使用）
}

func Load() *Config {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/jerota")

	// 设置默认值
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.mode", "debug")
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.password", "")
	viper.SetDefault("database.dbname", "jerota")
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("allowlist.cache_ttl", 300)
	viper.SetDefault("scheduler.interval", 60)
	viper.SetDefault("scheduler.tvl_pool_size", 8)
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.output", "stdout")
	viper.SetDefault("log.file", "logs/app.log")

	// 自动读取环境变量
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logger.Warn("Warning: Could not read config file: %v", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		logger.Fatal("Unable to decode config into struct: %v", err)
	}

	return &config
}

package bootstrap

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"

	"thoughts-board/internal/infra/setup"
	"thoughts-board/internal/service"
)

// Config 存储从环境变量或配置文件加载的配置
type Config struct {
	AppEnv     string `mapstructure:"APP_ENV"`
	ServerPort string `mapstructure:"SERVER_PORT"`
	LogLevel   string `mapstructure:"LOG_LEVEL"`

	DBUser     string `mapstructure:"DB_USER"`
	DBPassword string `mapstructure:"DB_PASSWORD"`
	DBHost     string `mapstructure:"DB_HOST"`
	DBPort     string `mapstructure:"DB_PORT"`
	DBName     string `mapstructure:"DB_NAME"`

	RedisAddr      string `mapstructure:"REDIS_ADDR"`
	RedisPassword  string `mapstructure:"REDIS_PASSWORD"`
	RedisDB        int    `mapstructure:"REDIS_DB"`
	RedisKeyPrefix string `mapstructure:"REDIS_KEY_PREFIX"`

	AuthTokenBytes        int  `mapstructure:"AUTH_TOKEN_BYTES"`
	AuthAllowLegacyHeader bool `mapstructure:"AUTH_ALLOW_LEGACY_HEADER"`
	BcryptCost            int  `mapstructure:"BCRYPT_COST"`

	CORSAllowedOrigin string `mapstructure:"CORS_ALLOWED_ORIGIN"`
	ResetDatabase     bool   `mapstructure:"RESET_DATABASE"`
	SeedAuthor        string `mapstructure:"SEED_AUTHOR"`
}

var configDefaults = map[string]interface{}{
	"APP_ENV":                  "development",
	"SERVER_PORT":              "8080",
	"LOG_LEVEL":                "info",
	"DB_USER":                  "",
	"DB_PASSWORD":              "",
	"DB_HOST":                  "127.0.0.1",
	"DB_PORT":                  "3306",
	"DB_NAME":                  "thoughts",
	"REDIS_ADDR":               "",
	"REDIS_PASSWORD":           "",
	"REDIS_DB":                 0,
	"REDIS_KEY_PREFIX":         "thoughts:",
	"AUTH_TOKEN_BYTES":         service.DefaultTokenBytes,
	"AUTH_ALLOW_LEGACY_HEADER": false,
	"BCRYPT_COST":              bcrypt.DefaultCost,
	"CORS_ALLOWED_ORIGIN":      "*",
	"RESET_DATABASE":           false,
	"SEED_AUTHOR":              "thoughts-bot",
}

// LoadConfig 依次读取 .env、可选的配置文件和环境变量。
// 环境变量优先于配置文件。
func LoadConfig(configFile string) (*Config, error) {
	// .env 不存在时只使用环境变量
	_ = godotenv.Load()

	v := viper.New()
	for key, value := range configDefaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.DBUser == "" {
		return fmt.Errorf("environment variable DB_USER must be set")
	}
	if c.AuthTokenBytes < service.MinTokenBytes || c.AuthTokenBytes > service.MaxTokenBytes {
		return fmt.Errorf("AUTH_TOKEN_BYTES must be between %d and %d, got %d",
			service.MinTokenBytes, service.MaxTokenBytes, c.AuthTokenBytes)
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("BCRYPT_COST must be between %d and %d, got %d", bcrypt.MinCost, bcrypt.MaxCost, c.BcryptCost)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		logrus.Warnf("Invalid LOG_LEVEL '%s', using default 'info'", c.LogLevel)
		c.LogLevel = "info"
	}
	if strings.TrimSpace(c.SeedAuthor) == "" {
		c.SeedAuthor = "thoughts-bot"
	}
	return nil
}

// IsProduction 报告是否运行在生产环境
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// FeedEnabled 报告是否配置了 Redis，即是否启用 live feed
func (c *Config) FeedEnabled() bool {
	return c.RedisAddr != ""
}

// Database 返回数据库连接参数
func (c *Config) Database() setup.DBConfig {
	return setup.DBConfig{
		User:     c.DBUser,
		Password: c.DBPassword,
		Host:     c.DBHost,
		Port:     c.DBPort,
		Name:     c.DBName,
	}
}

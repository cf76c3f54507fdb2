package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	httpHandler "thoughts-board/internal/handler/http"
	wsHandler "thoughts-board/internal/handler/websocket"
	"thoughts-board/internal/hub"
	gormpersistence "thoughts-board/internal/infra/persistence/gorm"
	"thoughts-board/internal/infra/setup"
	redisstate "thoughts-board/internal/infra/state/redis"
	"thoughts-board/internal/middleware"
	"thoughts-board/internal/service"
	"thoughts-board/internal/tasks"
	"thoughts-board/internal/worker"
)

// App 包含应用的所有组件和配置
type App struct {
	Config      *Config
	Log         *logrus.Logger
	DB          *gorm.DB
	RedisClient *redis.Client
	AsynqClient *asynq.Client
	AsynqServer *worker.WorkerServer
	Hub         *hub.Hub
	HttpServer  *http.Server

	stopHub context.CancelFunc
}

// Services 是路由需要的业务服务集合
type Services struct {
	Auth    *service.AuthService
	Thought *service.ThoughtService
}

// NewLogger 配置全局 logrus logger 并返回它
func NewLogger(cfg *Config) *logrus.Logger {
	log := logrus.StandardLogger()
	if cfg.IsProduction() {
		log.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	level, _ := logrus.ParseLevel(cfg.LogLevel) // LoadConfig 已校验
	log.SetLevel(level)
	log.SetOutput(os.Stdout)
	return log
}

// OpenDatabase 连接数据库并执行迁移
func OpenDatabase(cfg *Config) (*gorm.DB, error) {
	db, err := setup.InitDB(cfg.Database())
	if err != nil {
		return nil, fmt.Errorf("failed to init DB: %w", err)
	}
	if err := setup.MigrateDB(db); err != nil {
		return nil, fmt.Errorf("failed to migrate DB: %w", err)
	}
	return db, nil
}

// NewServices 创建业务服务。events 为 nil 时不推送 feed。
func NewServices(cfg *Config, db *gorm.DB, events service.EventDispatcher) (*Services, error) {
	userRepo := gormpersistence.NewGormUserRepository(db)
	thoughtRepo := gormpersistence.NewGormThoughtRepository(db)

	tokens, err := service.NewTokenIssuer(cfg.AuthTokenBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to create token issuer: %w", err)
	}
	authService, err := service.NewAuthService(userRepo, tokens, cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to create AuthService: %w", err)
	}
	return &Services{
		Auth:    authService,
		Thought: service.NewThoughtService(thoughtRepo, events),
	}, nil
}

// NewRouter 组装 gin 引擎。feed 为 nil 时不注册 /ws/thoughts。
func NewRouter(cfg *Config, log *logrus.Logger, db *gorm.DB, services *Services, feed *wsHandler.WebSocketHandler) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(log))
	router.Use(middleware.CORS(cfg.CORSAllowedOrigin))

	router.GET("/ping", pingHandler(db))
	if feed != nil {
		router.GET("/ws/thoughts", feed.HandleConnection)
	}

	httpHandler.RegisterRoutes(
		router,
		middleware.Auth(services.Auth, cfg.AuthAllowLegacyHeader),
		httpHandler.NewAuthHandler(services.Auth),
		httpHandler.NewThoughtHandler(services.Thought),
	)
	return router
}

func pingHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			logrus.WithError(err).Error("Health check: database ping failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Database unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	}
}

// NewApp 创建并初始化应用的所有组件
func NewApp(cfg *Config) (*App, error) {
	log := NewLogger(cfg)
	log.WithFields(logrus.Fields{"env": cfg.AppEnv, "level": cfg.LogLevel}).Info("Logger initialized")

	db, err := OpenDatabase(cfg)
	if err != nil {
		return nil, err
	}
	log.Info("Database initialized and migrated")

	app := &App{Config: cfg, Log: log, DB: db}

	var (
		events    service.EventDispatcher
		feedRoute *wsHandler.WebSocketHandler
	)
	if cfg.FeedEnabled() {
		if err := app.initFeed(); err != nil {
			app.closeStores()
			return nil, err
		}
		events = tasks.NewAsynqDispatcher(app.AsynqClient)
		feedRoute = wsHandler.NewWebSocketHandler(app.Hub, cfg.CORSAllowedOrigin)
	} else {
		log.Info("REDIS_ADDR not set, live feed disabled")
	}

	services, err := NewServices(cfg, db, events)
	if err != nil {
		app.closeStores()
		return nil, err
	}

	if cfg.ResetDatabase {
		if err := setup.SeedThoughts(context.Background(), gormpersistence.NewGormThoughtRepository(db), cfg.SeedAuthor); err != nil {
			app.closeStores()
			return nil, fmt.Errorf("failed to seed database: %w", err)
		}
	}

	app.HttpServer = &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           NewRouter(cfg, log, db, services, feedRoute),
		ReadHeaderTimeout: 10 * time.Second,
	}
	log.Info("Application assembled successfully")
	return app, nil
}

// initFeed 初始化 Redis、asynq 客户端/worker 以及 Hub
func (a *App) initFeed() error {
	cfg := a.Config
	redisClient, err := setup.InitRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return fmt.Errorf("failed to init Redis: %w", err)
	}
	a.RedisClient = redisClient

	redisClientOpt := asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}
	feedRepo := redisstate.NewRedisFeedRepository(redisClient, cfg.RedisKeyPrefix)

	a.AsynqClient = asynq.NewClient(redisClientOpt)
	a.AsynqServer = worker.NewWorkerServer(redisClientOpt, feedRepo, a.Log)
	a.Hub = hub.NewHub(feedRepo)
	a.Log.WithField("channel", feedRepo.FeedChannel()).Info("Live feed initialized")
	return nil
}

// Start 启动后台 goroutine 和 HTTP 服务器
func (a *App) Start() {
	if a.Hub != nil {
		ctx, cancel := context.WithCancel(context.Background())
		a.stopHub = cancel
		go a.Hub.Run(ctx)
	}
	if a.AsynqServer != nil {
		go a.AsynqServer.Start()
	}

	go func() {
		a.Log.Infof("HTTP server starting to listen on %s", a.HttpServer.Addr)
		if err := a.HttpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Log.Fatalf("Failed to start HTTP server: %v", err)
		}
		a.Log.Info("HTTP server stopped listening.")
	}()
}

// Shutdown 优雅地关闭应用
func (a *App) Shutdown() {
	a.Log.Info("Shutting down application...")

	a.Log.Info("Shutting down HTTP server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.HttpServer.Shutdown(ctx); err != nil {
		a.Log.Errorf("Error shutting down HTTP server: %v", err)
	}

	if a.stopHub != nil {
		a.stopHub()
	}
	if a.AsynqServer != nil {
		a.AsynqServer.Shutdown()
	}
	if a.AsynqClient != nil {
		if err := a.AsynqClient.Close(); err != nil {
			a.Log.Errorf("Error closing Asynq client: %v", err)
		}
	}
	a.closeStores()
	a.Log.Info("Application shutdown complete.")
}

func (a *App) closeStores() {
	if a.RedisClient != nil {
		if err := a.RedisClient.Close(); err != nil {
			a.Log.Errorf("Error closing Redis connection: %v", err)
		}
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				a.Log.Errorf("Error closing database connection: %v", err)
			}
		}
	}
}

// RunSeed 连接数据库、迁移并写入示例数据，供 seed 命令使用
func RunSeed(ctx context.Context, cfg *Config) error {
	NewLogger(cfg)
	db, err := OpenDatabase(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}()
	return setup.SeedThoughts(ctx, gormpersistence.NewGormThoughtRepository(db), cfg.SeedAuthor)
}

package di

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"todo-api/application/serviceimpl"
	"todo-api/domain/ports"
	"todo-api/domain/repositories"
	"todo-api/domain/services"
	"todo-api/infrastructure/memory"
	"todo-api/infrastructure/messaging"
	natspkg "todo-api/infrastructure/nats"
	"todo-api/infrastructure/postgres"
	redispkg "todo-api/infrastructure/redis"
	"todo-api/infrastructure/websocket"
	"todo-api/interfaces/api/handlers"
	"todo-api/interfaces/api/routes"
	"todo-api/pkg/config"
	"todo-api/pkg/logger"
)

type Container struct {
	// Configuration
	Config *config.Config

	// Infrastructure
	DB          *gorm.DB         // nil เมื่อ DB_DRIVER=memory
	RedisClient *redispkg.Client // optional
	NATSClient  *natspkg.Client  // optional

	// Cache & Auth (nil เมื่อไม่มี Redis)
	TaskCache  ports.TaskCachePort
	TokenStore ports.TokenRevocationPort

	// Messaging Ports
	TaskEventPublisher  ports.TaskEventPublisherPort
	TaskEventSubscriber ports.TaskEventSubscriberPort

	// Repositories
	UserRepository repositories.UserRepository
	TaskRepository repositories.TaskRepository

	// Services
	UserService services.UserService
	TaskService services.TaskService

	// WebSocket & Broadcasting
	WSManager       *websocket.WebSocketManager
	TaskBroadcaster *websocket.TaskBroadcaster
	stopRealtime    context.CancelFunc
}

func NewContainer() *Container {
	return &Container{}
}

func (c *Container) Initialize() error {
	if err := c.initConfig(); err != nil {
		return err
	}

	if err := c.initLogger(); err != nil {
		return err
	}

	if err := c.initInfrastructure(); err != nil {
		return err
	}

	if err := c.initRepositories(); err != nil {
		return err
	}

	if err := c.initServices(); err != nil {
		return err
	}

	if err := c.initRealtime(); err != nil {
		return err
	}

	return nil
}

func (c *Container) initConfig() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	c.Config = cfg
	return nil
}

func (c *Container) initLogger() error {
	logConfig := logger.Config{
		Level:      c.Config.Log.Level,
		Format:     c.Config.Log.Format,
		Output:     c.Config.Log.Output,
		FilePath:   c.Config.Log.FilePath,
		MaxSize:    c.Config.Log.MaxSize,
		MaxBackups: c.Config.Log.MaxBackups,
		MaxAge:     c.Config.Log.MaxAge,
		Compress:   c.Config.Log.Compress,
	}

	if err := logger.Init(logConfig); err != nil {
		return err
	}

	logger.Info("Logger initialized",
		"level", c.Config.Log.Level,
		"format", c.Config.Log.Format,
		"output", c.Config.Log.Output,
	)
	if c.Config.JWT.Secret == "your-secret-key" {
		logger.Warn("JWT_SECRET is not set, using the insecure default")
	}
	return nil
}

func (c *Container) initInfrastructure() error {
	if err := c.initDatabase(); err != nil {
		return err
	}

	// Redis (optional - graceful degradation)
	if c.Config.Redis.URL != "" {
		redisClient, err := redispkg.NewClient(&c.Config.Redis)
		if err != nil {
			logger.Warn("Redis client initialization failed (cache and token revocation disabled)", "error", err)
		} else {
			c.RedisClient = redisClient
			c.TaskCache = redispkg.NewTaskCache(redisClient, c.Config.Redis.TaskListTTL)
			c.TokenStore = redispkg.NewTokenStore(redisClient)
		}
	}

	c.initMessagingPorts()
	return nil
}

func (c *Container) initDatabase() error {
	switch c.Config.Database.Driver {
	case "memory":
		logger.Warn("Using in-memory storage, data is lost on restart")
		return nil

	case "postgres":
		dbConfig := postgres.DatabaseConfig{
			Host:     c.Config.Database.Host,
			Port:     c.Config.Database.Port,
			User:     c.Config.Database.User,
			Password: c.Config.Database.Password,
			DBName:   c.Config.Database.DBName,
			SSLMode:  c.Config.Database.SSLMode,
			Debug:    c.Config.IsDevelopment() && c.Config.Log.Level == "debug",
		}

		db, err := postgres.NewDatabase(dbConfig)
		if err != nil {
			return err
		}
		c.DB = db
		logger.Info("Database connected", "host", c.Config.Database.Host, "db", c.Config.Database.DBName)

		if err := postgres.Migrate(db); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
		logger.Info("Database migrated")
		return nil

	default:
		return fmt.Errorf("unknown DB_DRIVER %q (expected postgres or memory)", c.Config.Database.Driver)
	}
}

// initMessagingPorts ใช้ NATS ถ้าตั้งค่าไว้และเชื่อมต่อได้ ไม่งั้นใช้ bus ภายใน process
func (c *Container) initMessagingPorts() {
	if c.Config.NATS.URL != "" {
		natsClient, err := natspkg.NewClient(natspkg.ClientConfig{
			URL:  c.Config.NATS.URL,
			Name: c.Config.App.Name,
		})
		if err != nil {
			logger.Warn("NATS client initialization failed (falling back to in-process events)", "error", err)
		} else {
			c.NATSClient = natsClient
			c.TaskEventPublisher = messaging.NewNATSTaskEventPublisher(
				natspkg.NewPublisher(natsClient.Conn(), c.Config.NATS.Subject),
			)
			c.TaskEventSubscriber = messaging.NewNATSTaskEventSubscriber(
				natspkg.NewSubscriber(natsClient.Conn(), c.Config.NATS.Subject),
			)
			logger.Info("Task events via NATS", "subject", natspkg.TaskWildcard(c.Config.NATS.Subject))
			return
		}
	}

	bus := messaging.NewLocalTaskEventBus()
	c.TaskEventPublisher = bus
	c.TaskEventSubscriber = bus
	logger.Info("Task events via in-process bus")
}

func (c *Container) initRepositories() error {
	if c.DB == nil {
		c.UserRepository = memory.NewUserRepository()
		c.TaskRepository = memory.NewTaskRepository()
	} else {
		c.UserRepository = postgres.NewUserRepository(c.DB)
		c.TaskRepository = postgres.NewTaskRepository(c.DB)
	}
	logger.Info("Repositories initialized", "driver", c.Config.Database.Driver)
	return nil
}

func (c *Container) initServices() error {
	if c.TokenStore != nil {
		c.UserService = serviceimpl.NewUserServiceWithRevocation(c.UserRepository, c.TokenStore, c.Config.JWT.Secret, c.Config.JWT.Expiry)
	} else {
		c.UserService = serviceimpl.NewUserService(c.UserRepository, c.Config.JWT.Secret, c.Config.JWT.Expiry)
	}

	if c.TaskCache != nil {
		c.TaskService = serviceimpl.NewTaskServiceWithCache(c.TaskRepository, c.TaskCache, c.TaskEventPublisher)
		logger.Info("Task service initialized with Redis cache", "ttl", c.Config.Redis.TaskListTTL.String())
	} else {
		c.TaskService = serviceimpl.NewTaskService(c.TaskRepository, c.TaskEventPublisher)
		logger.Info("Task service initialized without cache")
	}
	return nil
}

// initRealtime เริ่ม WebSocket hub และ broadcaster ที่ส่ง task event ให้เจ้าของ
func (c *Container) initRealtime() error {
	ctx, cancel := context.WithCancel(context.Background())
	c.stopRealtime = cancel

	c.WSManager = websocket.NewWebSocketManager()
	go c.WSManager.Run(ctx)

	c.TaskBroadcaster = websocket.NewTaskBroadcaster(c.TaskEventSubscriber, c.WSManager)
	if err := c.TaskBroadcaster.Start(ctx); err != nil {
		// realtime ไม่ใช่ส่วนหลัก API ยังทำงานได้
		logger.Warn("Task broadcaster failed to start", "error", err)
	}
	return nil
}

func (c *Container) Cleanup() error {
	logger.Info("Starting cleanup...")

	if c.TaskBroadcaster != nil {
		if err := c.TaskBroadcaster.Stop(); err != nil {
			logger.Warn("Failed to stop task broadcaster", "error", err)
		}
	}

	if c.stopRealtime != nil {
		c.stopRealtime()
	}

	if c.NATSClient != nil {
		if err := c.NATSClient.Close(); err != nil {
			logger.Warn("Failed to close NATS connection", "error", err)
		}
	}

	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			logger.Warn("Failed to close Redis connection", "error", err)
		} else {
			logger.Info("Redis connection closed")
		}
	}

	if c.DB != nil {
		sqlDB, err := c.DB.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				logger.Warn("Failed to close database connection", "error", err)
			} else {
				logger.Info("Database connection closed")
			}
		}
	}

	logger.Info("Cleanup completed")
	return nil
}

func (c *Container) GetConfig() *config.Config {
	return c.Config
}

func (c *Container) GetHandlerServices() *handlers.Services {
	return &handlers.Services{
		UserService:  c.UserService,
		TaskService:  c.TaskService,
		WSManager:    c.WSManager,
		JWTExpiry:    c.Config.JWT.Expiry,
		SecureCookie: c.Config.IsProduction(),
	}
}

func (c *Container) GetRouteConfig() routes.Config {
	return routes.Config{
		AppName:     c.Config.App.Name,
		JWTSecret:   c.Config.JWT.Secret,
		Revocation:  c.TokenStore,
		LoginMax:    c.Config.RateLimit.LoginMax,
		LoginWindow: c.Config.RateLimit.LoginWindow,
	}
}

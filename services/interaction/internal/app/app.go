package internal

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"social-monkeys/pkg/cache"
	"social-monkeys/pkg/config"
	"social-monkeys/pkg/database"
	"social-monkeys/pkg/jwt"
	"social-monkeys/pkg/lock"
	"social-monkeys/pkg/logger"
	"social-monkeys/pkg/middleware"
	"social-monkeys/pkg/queue"
	interactionHTTP "social-monkeys/services/interaction/internal/controller/http"
	"social-monkeys/services/interaction/internal/repo/persistent"
	"social-monkeys/services/interaction/internal/usecase"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "social-monkeys/services/interaction/docs" // Swagger docs
)

type App struct {
	cfg         *config.Config
	log         *logger.Logger
	db          *gorm.DB
	redisClient *redis.Client
	queueClient *queue.Client
	locker      lock.Locker
	jwtService  *jwt.Service
	httpServer  *http.Server
}

func NewApp(cfg *config.Config) (*App, error) {
	log := logger.New()

	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		return nil, err
	}

	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Error("Failed to connect to redis: %v", err)
		return nil, err
	}

	locker, err := lock.New(cfg, redisClient)
	if err != nil {
		log.Error("Failed to set up like locks: %v", err)
		return nil, err
	}
	log.Info("Like locks use the %s backend", cfg.LockBackend)

	queueClient, err := queue.NewRabbitMQClient(cfg, log)
	if err != nil {
		log.Error("Failed to connect to RabbitMQ: %v (continuing without queue)", err)
		queueClient = nil
	}

	return newApp(cfg, log, db, redisClient, queueClient, locker), nil
}

func newApp(cfg *config.Config, log *logger.Logger, db *gorm.DB, redisClient *redis.Client, queueClient *queue.Client, locker lock.Locker) *App {
	return &App{
		cfg:         cfg,
		log:         log,
		db:          db,
		redisClient: redisClient,
		queueClient: queueClient,
		locker:      locker,
		jwtService:  jwt.NewService(cfg.JWTSecret),
	}
}

func (a *App) Router() *gin.Engine {
	store := persistent.NewStore(a.db)

	var notifier usecase.Notifier
	if a.queueClient != nil {
		notifier = a.queueClient
	}

	likeUseCase := usecase.NewLikeUseCase(store, a.locker, notifier, a.log)
	interactionHandler := interactionHTTP.NewInteractionHandler(likeUseCase, a.log)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://127.0.0.1:3000"},
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(a.jwtService))
	api.Use(middleware.RateLimitMiddleware(a.redisClient, a.cfg.RateLimit, a.cfg.RateLimitWindow))
	{
		api.POST("/interactions/posts/:post_id/like", interactionHandler.LikePost)
		api.DELETE("/interactions/posts/:post_id/like", interactionHandler.UnlikePost)
		api.GET("/interactions/posts/:post_id/liked", interactionHandler.IsLiked)
		api.GET("/interactions/posts/liked", interactionHandler.GetLikedPosts)
	}

	return r
}

func (a *App) Run() error {
	a.httpServer = &http.Server{
		Addr:    ":" + a.cfg.ServerPort,
		Handler: a.Router(),
	}

	go func() {
		a.log.Info("Interaction service starting on port %s", a.cfg.ServerPort)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.log.Error("Failed to start server: %v", err)
			panic(err)
		}
	}()

	return nil
}

func (a *App) Wait() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	a.log.Info("Shutting down interaction service...")
}

func (a *App) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var shutdownErr error
	if a.httpServer != nil {
		if err := a.httpServer.Shutdown(ctx); err != nil {
			a.log.Error("Server forced to shutdown: %v", err)
			shutdownErr = err
		}
	}

	if sqlDB, err := a.db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			a.log.Error("Error closing database: %v", err)
		}
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.log.Error("Error closing Redis: %v", err)
		}
	}

	if a.queueClient != nil {
		a.queueClient.Close()
	}

	if shutdownErr == nil {
		a.log.Info("Interaction service exited")
	}
	return shutdownErr
}

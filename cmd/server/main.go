package main

import (
	"log"

	"jielong/internal/config"
	"jielong/internal/db"
	"jielong/internal/handlers"
	"jielong/internal/logging"
	"jielong/internal/router"
	"jielong/internal/services"
	"jielong/internal/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, envLoaded := config.Load()

	logger, err := logging.Init(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync()

	if !envLoaded {
		zap.L().Info("No .env file found, finding env vars from system")
	}
	if cfg.JWTSecret == "" {
		zap.L().Warn("JWT_SECRET is empty, bearer tokens will be rejected")
	}

	// Initialize Database
	if err := db.Init(cfg); err != nil {
		zap.L().Fatal("Database init failed", zap.Error(err))
	}

	opts := services.Options{BlacklistTTL: cfg.BlacklistCacheTTL}

	// 配置了 Redis 时使用 SET NX 防重，否则退回数据库查询
	if cfg.RedisAddr != "" {
		client, err := db.OpenRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			zap.L().Warn("Redis unavailable, falling back to database duplicate guard", zap.Error(err))
		} else {
			defer client.Close()
			opts.Guard = services.NewRedisGuard(client)
		}
	}

	cache := utils.GetCache()
	publishers := services.Publishers{handlers.NewViewCachePurger(cache)}
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher := services.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer kafkaPublisher.Close()
		publishers = append(publishers, kafkaPublisher)
		zap.L().Info("Publishing work events to Kafka", zap.Strings("brokers", cfg.KafkaBrokers), zap.String("topic", cfg.KafkaTopic))
	}
	opts.Publisher = publishers

	svc := services.New(db.DB, opts)

	// Initialize Gin
	r := gin.Default()

	// Setup Sessions
	store := cookie.NewStore([]byte(cfg.SessionSecret))
	r.Use(sessions.Sessions("jielong_session", store))

	router.RegisterRoutes(r, svc, cache, []byte(cfg.JWTSecret))

	zap.L().Info("Jielong server starting", zap.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		zap.L().Fatal("Server stopped", zap.Error(err))
	}
}

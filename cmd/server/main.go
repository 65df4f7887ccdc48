package main

import (
	"context" // context package is needed for Redis operations
	"time"    // Cache TTL

	"invest_ledger/internal/api"       // Custom package for API handlers
	"invest_ledger/internal/approval"  // Approval engine
	"invest_ledger/internal/config"    // Custom package for configuration
	"invest_ledger/internal/reconcile" // Ledger reconciliation
	"invest_ledger/internal/requests"  // Request submission
	"invest_ledger/internal/stats"     // Dashboard rollup
	"invest_ledger/internal/store"     // Data access
	"invest_ledger/internal/utils"     // Redis cache

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if cfg.IsProd {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logrus.Warnf("unknown LOG_LEVEL %q, using info", cfg.LogLevel)
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	if cfg.JWTSecret == "" {
		logrus.Fatal("JWT_SECRET must be set")
	}

	// Connect to the database
	dsn := store.DSN(cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)
	db, err := store.Open(dsn, level >= logrus.DebugLevel)
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}
	st := store.New(db)

	// Redis is optional; without it every read goes to the database
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr, // Redis server address
			Password: cfg.RedisPass, // Redis password
			DB:       cfg.RedisDB,   // Redis database number
		})
		// Test Redis connection
		if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
			logrus.Fatalf("failed to connect to Redis: %v", err)
		}
	} else {
		logrus.Warn("REDIS_ADDR not set, response cache disabled")
	}
	cache := utils.NewCache(redisClient, time.Duration(cfg.CacheTTLSeconds)*time.Second)

	log := logrus.StandardLogger()
	engine := approval.New(st, approval.Options{
		ConflictRetries:      cfg.ConflictRetries,
		AllowNegativeBalance: cfg.AllowNegativeBalance,
		Logger:               log.WithField("component", "approval"),
	})

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	r := api.NewRouter(api.Deps{
		Store:      st,
		Engine:     engine,
		Requests:   requests.NewService(st, log.WithField("component", "requests")),
		Stats:      stats.NewAggregator(st),
		Reconciler: reconcile.NewChecker(st, log.WithField("component", "reconcile")),
		Cache:      cache,
		JWTSecret:  cfg.JWTSecret,
	})
	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	logrus.WithField("port", cfg.AppPort).Info("Server running") // Log server start
	if err := r.Run(":" + cfg.AppPort); err != nil {
		logrus.Fatalf("server stopped: %v", err)
	}
}

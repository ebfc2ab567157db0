package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "maven-analytics/docs"
	"maven-analytics/internal/config"
	"maven-analytics/internal/controllers"
	"maven-analytics/internal/middleware"
	"maven-analytics/internal/registry"
	"maven-analytics/internal/scheduler"
	"maven-analytics/internal/services"
	"maven-analytics/pkg/cache"
	"maven-analytics/pkg/logger"
)

// @title Maven Analytics API
// @version 1.0
// @description Portfolio analytics engine: fees, income, overlap, factors, benchmarks and rebalancing

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8084
// @BasePath /api

func main() {
	// Load configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logrus.Fatal("Invalid configuration: ", err)
	}

	// Initialize logger
	logger.Init(cfg.Logger)
	log := logrus.WithField("service", "maven-analytics")

	log.Info("Starting Maven Analytics service...")

	// Build the static fund registry shared by every analyzer
	reg := registry.Default()
	log.WithField("funds", reg.FundCount()).Info("Fund registry loaded")

	// Initialize Redis cache. Cache failures are not fatal: analyses are
	// pure, so the service degrades to computing every request.
	var cacheClient *cache.RedisClient
	if cfg.Cache.Enabled {
		var err error
		cacheClient, err = cache.NewRedisClient(cfg.Cache)
		if err != nil {
			log.WithError(err).Warn("Redis unavailable, running without cache")
			cacheClient = nil
		} else {
			defer cacheClient.Close()
		}
	}

	// Initialize services and controllers
	var serviceCache services.CacheInterface
	if cacheClient != nil {
		serviceCache = cacheClient
	}
	analysisService := services.NewAnalysisService(reg, serviceCache, cfg.Analysis, cfg.Cache.AnalysisTTL, cfg.Cache.RebalancingTTL)
	analysisController := controllers.NewAnalysisController(logrus.StandardLogger(), analysisService)

	// Initialize the housekeeping scheduler
	var jobs *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		var schedCache cache.Client
		if cacheClient != nil {
			schedCache = cacheClient
		}
		var err error
		jobs, err = scheduler.New(cfg.Scheduler, schedCache)
		if err != nil {
			log.Fatal("Failed to initialize scheduler: ", err)
		}
		if err := jobs.Start(); err != nil {
			log.Fatal("Failed to start scheduler: ", err)
		}
	}

	// Setup HTTP server
	router := setupRouter(cfg, analysisController, cacheClient)

	server := &http.Server{
		Addr:           fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:        router,
		ReadTimeout:    time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout:   time.Duration(cfg.Server.WriteTimeout) * time.Second,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.WithField("port", cfg.Server.Port).Info("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server: ", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown: ", err)
	}

	if jobs != nil {
		jobs.Stop()
	}

	log.Info("Server exited")
}

func setupRouter(cfg *config.Config, analysisController *controllers.AnalysisController, cacheClient *cache.RedisClient) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logging())
	router.Use(middleware.Metrics())

	// Rate limiting
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit))
	}

	// Health check
	router.GET("/health", func(c *gin.Context) {
		status := gin.H{
			"status":    "healthy",
			"service":   "maven-analytics",
			"timestamp": time.Now().UTC(),
		}
		if cacheClient != nil {
			if err := cacheClient.Ping(c.Request.Context()); err != nil {
				status["cache"] = "unavailable"
			} else {
				status["cache"] = "ok"
				if stats, err := cacheClient.GetStats(c.Request.Context()); err == nil {
					status["cache_hits"] = stats["keyspace_hits"]
					status["cache_misses"] = stats["keyspace_misses"]
				}
			}
		} else {
			status["cache"] = "disabled"
		}
		c.JSON(http.StatusOK, status)
	})

	// Prometheus metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API routes
	api := router.Group("/api")
	{
		analysis := api.Group("/analysis")
		analysisController.RegisterRoutes(analysis)
	}

	return router
}

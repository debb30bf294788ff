package main

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pureflow/pureflow-api/config"
	"github.com/pureflow/pureflow-api/controllers"
	"github.com/pureflow/pureflow-api/logger"
	"github.com/pureflow/pureflow-api/middleware"
	"github.com/pureflow/pureflow-api/schema"
	"github.com/pureflow/pureflow-api/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.Init(cfg.LogFilePath, cfg.LogLevel, cfg.IsProduction())
	defer logger.Sync()

	log.Info("starting PureFlow API server")

	if err := config.ConnectDatabase(cfg); err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	// The store must match what the code expects before anything is served;
	// a schema that cannot be reconciled is fatal.
	db := config.GetDB()
	if err := schema.Reconcile(db); err != nil {
		log.Fatal("schema reconciliation failed", zap.Error(err))
	}
	if err := schema.SeedIfEmpty(db); err != nil {
		log.Fatal("reference data seeding failed", zap.Error(err))
	}
	log.Info("schema reconciled and reference data seeded")

	if cfg.AWSS3Bucket != "" {
		s3Svc, err := services.InitS3Service()
		if err != nil {
			log.Fatal("failed to initialize S3", zap.Error(err))
		}
		services.InitPhotoService(s3Svc)
	} else {
		log.Warn("AWS_S3_BUCKET not set, request photo uploads disabled")
	}

	router := buildRouter(cfg)

	addr := ":" + cfg.Port
	log.Info("server listening", zap.String("addr", addr))
	if err := router.Run(addr); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func buildRouter(cfg *config.Config) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	router.Use(cors.New(corsConfig))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.GET("/database/status", databaseStatus)

		// public reference data and registration
		v1.GET("/plans", controllers.GetPlans)
		v1.GET("/services", controllers.GetServices)
		v1.GET("/locations", controllers.GetLocations)
		v1.POST("/users", controllers.RegisterUser)

		authed := v1.Group("")
		authed.Use(middleware.EnsureValidToken(cfg), middleware.ResolvePrincipal())
		{
			authed.GET("/users/me", controllers.GetMyProfile)
			authed.PATCH("/users/me", controllers.UpdateMyProfile)

			authed.GET("/subscriptions", controllers.GetMySubscriptions)
			authed.POST("/subscriptions", controllers.CreateSubscription)
			authed.POST("/subscriptions/:id/cancel", controllers.CancelSubscription)

			authed.GET("/service-requests", controllers.ListServiceRequests)
			authed.POST("/service-requests", controllers.CreateServiceRequest)
			authed.POST("/service-requests/:id/cancel", controllers.CancelServiceRequest)
			authed.PATCH("/service-requests/:id/status", controllers.UpdateServiceRequestStatus)
			authed.POST("/service-requests/:id/photo", controllers.UploadServiceRequestPhoto)

			authed.GET("/maintenance-visits", controllers.ListMaintenanceVisits)
			authed.POST("/maintenance-visits", controllers.ScheduleMaintenanceVisit)
			authed.PATCH("/maintenance-visits/:id/status", controllers.UpdateMaintenanceVisitStatus)
		}
	}

	return router
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "PureFlow API is running",
	})
}

// databaseStatus checks database connectivity and returns table information
func databaseStatus(c *gin.Context) {
	db := config.GetDB()

	sqlDB, err := db.DB()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to get database instance",
			},
		})
		return
	}

	if err := sqlDB.Ping(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_CONNECTION_ERROR",
				"message": "Database connection failed",
			},
		})
		return
	}

	// Migrator-based listing works on both sqlite and postgres
	tables, err := db.Migrator().GetTables()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_QUERY_ERROR",
				"message": "Failed to query tables",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Database connected",
		"tables":  tables,
	})
}

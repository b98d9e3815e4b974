package app

import (
	"database/sql"

	"go-traveldesk/internal/auth"
	"go-traveldesk/internal/messaging/kafka"
	"go-traveldesk/internal/middleware"
	"go-traveldesk/internal/shared/response"
	"go-traveldesk/internal/travelrequest"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	authRepo := auth.NewRepository(gormDB)
	travelRequestRepo := travelrequest.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- Services ---
	authService := auth.NewService(authRepo)
	travelRequestService := travelrequest.NewServiceWithOutbox(db, travelRequestRepo, outboxRepo)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService)
	travelRequestHandler := travelrequest.NewHandlerWithRedis(travelRequestService, rdb)

	// --- Routes Registration ---
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, 200, gin.H{"status": "ok"}, nil)
	})

	api := router.Group("/api/v1")
	api.Use(middleware.RequestID())
	{
		api.GET("/ping", func(c *gin.Context) {
			response.Success(c, 200, gin.H{"message": "pong"}, nil)
		})

		auth.RegisterRoutes(api, authHandler)
		travelrequest.RegisterRoutes(api, travelRequestHandler, rdb)
	}

	return nil
}

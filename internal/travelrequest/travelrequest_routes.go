package travelrequest

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"go-traveldesk/internal/middleware"
)

func RegisterRoutes(rg *gin.RouterGroup, handler *Handler, rdb *redis.Client) {
	group := rg.Group("/travel-requests")
	group.Use(middleware.AuthMiddleware(), middleware.RateLimitByUser(rate.Limit(10), 20))
	{
		group.GET("", handler.List)
		group.POST("", middleware.Idempotency(rdb), handler.Create)
		group.GET("/:id", handler.Get)
		group.PUT("/:id", handler.Update)
		group.DELETE("/:id", handler.Delete)
		group.PATCH("/:id/status", handler.UpdateStatus)
		group.POST("/:id/cancel", handler.Cancel)
	}
}

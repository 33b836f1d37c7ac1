package session

import (
	"github.com/eben2468/srcwebsite-sub008/middleware"
	"github.com/eben2468/srcwebsite-sub008/notify"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(r *gin.Engine, db *sqlx.DB, redisClient *redis.Client, sweeper SweepTrigger, dispatcher notify.Dispatcher) {
	repo := NewSessionRepository(db)
	service := NewSessionService(repo, redisClient, sweeper, dispatcher)
	handler := NewSessionHandler(service)

	sessionRoutes := r.Group("/api/chat/sessions")
	sessionRoutes.Use(middleware.AuthMiddleware())
	{
		sessionRoutes.POST("", handler.StartSession)
		sessionRoutes.GET("/waiting", handler.ListWaitingSessions)
		sessionRoutes.GET("/:id", handler.GetSession)
		sessionRoutes.POST("/:id/end", handler.EndSession)
		sessionRoutes.POST("/:id/rating", handler.RateSession)
	}

	summaryRoutes := r.Group("/api/chat/summary")
	summaryRoutes.Use(middleware.AuthMiddleware())
	{
		summaryRoutes.GET("", handler.GetSummary)
	}
}

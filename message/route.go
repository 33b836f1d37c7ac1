package message

import (
	"github.com/eben2468/srcwebsite-sub008/middleware"
	"github.com/eben2468/srcwebsite-sub008/notify"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

func RegisterRoutes(r *gin.Engine, db *sqlx.DB, dispatcher notify.Dispatcher) {
	repo := NewMessageRepository(db)
	service := NewMessageService(repo, dispatcher)
	handler := NewMessageHandler(service)

	messageRoutes := r.Group("/api/chat/sessions/:id/messages")
	messageRoutes.Use(middleware.AuthMiddleware())
	{
		messageRoutes.POST("", handler.PostMessage)
		messageRoutes.GET("", handler.FetchMessages)
		messageRoutes.POST("/read", handler.MarkRead)
	}
}

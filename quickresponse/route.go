package quickresponse

import (
	"github.com/eben2468/srcwebsite-sub008/middleware"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

func RegisterRoutes(r *gin.Engine, db *sqlx.DB) {
	repo := NewQuickResponseRepository(db)
	service := NewQuickResponseService(repo)
	handler := NewQuickResponseHandler(service)

	qrRoutes := r.Group("/api/chat/quick-responses")
	qrRoutes.Use(middleware.AuthMiddleware())
	{
		qrRoutes.GET("", handler.ListQuickResponses)
		qrRoutes.POST("", handler.CreateQuickResponse)
		qrRoutes.PUT("/:id", handler.UpdateQuickResponse)
		qrRoutes.DELETE("/:id", handler.DeleteQuickResponse)
	}
}

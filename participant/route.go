package participant

import (
	"github.com/eben2468/srcwebsite-sub008/middleware"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

func RegisterRoutes(r *gin.Engine, db *sqlx.DB) {
	repo := NewParticipantRepository(db)
	service := NewParticipantService(repo)
	handler := NewParticipantHandler(service)

	participantRoutes := r.Group("/api/chat/sessions/:id/participants")
	participantRoutes.Use(middleware.AuthMiddleware())
	{
		participantRoutes.GET("", handler.ListParticipants)
		participantRoutes.POST("", handler.JoinSession)
		participantRoutes.DELETE("", handler.LeaveSession)
	}
}

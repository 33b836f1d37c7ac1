package agent

import (
	"github.com/eben2468/srcwebsite-sub008/middleware"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

func RegisterRoutes(r *gin.Engine, db *sqlx.DB, sweeper SweepTrigger) {
	repo := NewAgentRepository(db)
	service := NewAgentService(repo, sweeper)
	handler := NewAgentHandler(service)

	agentRoutes := r.Group("/api/chat/agents")
	agentRoutes.Use(middleware.AuthMiddleware(), middleware.RequireStaff())
	{
		agentRoutes.GET("", handler.ListAgents)
		agentRoutes.PUT("/status", handler.SetStatus)
	}
}

package assignment

import (
	"github.com/eben2468/srcwebsite-sub008/middleware"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires the already-constructed engine; main builds it first
// because session and agent routes need it as their sweep trigger.
func RegisterRoutes(r *gin.Engine, engine *Engine) {
	handler := NewAssignmentHandler(engine)

	assignRoutes := r.Group("/api/chat/sessions/:id/assign")
	assignRoutes.Use(middleware.AuthMiddleware())
	{
		assignRoutes.POST("", handler.AssignSession)
	}

	internalRoutes := r.Group("/internal/chat/sweeps")
	internalRoutes.Use(middleware.APIKeyMiddleware())
	{
		internalRoutes.POST("/assignment", handler.RunSweep)
	}
}

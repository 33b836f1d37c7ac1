package reconcile

import (
	"github.com/eben2468/srcwebsite-sub008/middleware"
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, service *ReconcileService) {
	handler := NewReconcileHandler(service)

	internalRoutes := r.Group("/internal/chat/sweeps")
	internalRoutes.Use(middleware.APIKeyMiddleware())
	{
		internalRoutes.POST("/reconcile", handler.RunSweep)
	}
}

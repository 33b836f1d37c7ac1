package reconcile

import (
	"github.com/eben2468/srcwebsite-sub008/util"
	"github.com/gin-gonic/gin"
)

type ReconcileHandler struct {
	service *ReconcileService
}

func NewReconcileHandler(service *ReconcileService) *ReconcileHandler {
	return &ReconcileHandler{service: service}
}

func (h *ReconcileHandler) RunSweep(ctx *gin.Context) {
	report, err := h.service.RunSweep(ctx.Request.Context())
	if err != nil {
		util.KindErrorResponse(ctx, err)
		return
	}

	util.SuccessResponse(ctx, "Reconciliation sweep completed", report)
}

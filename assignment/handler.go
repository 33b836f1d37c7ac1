package assignment

import (
	"net/http"

	"github.com/eben2468/srcwebsite-sub008/auth"
	"github.com/eben2468/srcwebsite-sub008/util"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AssignmentHandler struct {
	engine *Engine
}

func NewAssignmentHandler(engine *Engine) *AssignmentHandler {
	return &AssignmentHandler{engine: engine}
}

func (h *AssignmentHandler) AssignSession(ctx *gin.Context) {
	actor, ok := auth.FromContext(ctx)
	if !ok {
		util.ErrorResponse(ctx, http.StatusUnauthorized, "Authentication required")
		return
	}

	sessionID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		util.ErrorResponse(ctx, http.StatusBadRequest, "Invalid session ID")
		return
	}

	var req struct {
		AgentID int64 `json:"agent_id" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.ErrorResponse(ctx, http.StatusBadRequest, "Invalid request body")
		return
	}

	session, err := h.engine.Assign(ctx.Request.Context(), actor, sessionID, req.AgentID)
	if err != nil {
		util.KindErrorResponse(ctx, err)
		return
	}

	util.SuccessResponse(ctx, "Session assigned", session)
}

func (h *AssignmentHandler) RunSweep(ctx *gin.Context) {
	assigned, err := h.engine.RunSweep(ctx.Request.Context())
	if err != nil {
		util.KindErrorResponse(ctx, err)
		return
	}

	util.SuccessResponse(ctx, "Assignment sweep completed", gin.H{"assigned": assigned})
}

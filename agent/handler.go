package agent

import (
	"net/http"

	"github.com/eben2468/srcwebsite-sub008/auth"
	"github.com/eben2468/srcwebsite-sub008/util"
	"github.com/gin-gonic/gin"
)

type AgentHandler struct {
	service *AgentService
}

func NewAgentHandler(service *AgentService) *AgentHandler {
	return &AgentHandler{service: service}
}

func (h *AgentHandler) SetStatus(ctx *gin.Context) {
	actor, ok := auth.FromContext(ctx)
	if !ok {
		util.ErrorResponse(ctx, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req struct {
		AgentID       *int64 `json:"agent_id"`
		Presence      string `json:"presence" binding:"required"`
		MaxConcurrent *int   `json:"max_concurrent_chats"`
		AutoAssign    *bool  `json:"auto_assign"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.ErrorResponse(ctx, http.StatusBadRequest, "Invalid request body")
		return
	}

	// Supervisors may set another agent's status; agents default to self.
	agentID := actor.ID
	if req.AgentID != nil {
		agentID = *req.AgentID
	}

	status, err := h.service.SetPresence(actor, agentID, req.Presence, req.MaxConcurrent, req.AutoAssign)
	if err != nil {
		util.KindErrorResponse(ctx, err)
		return
	}

	util.SuccessResponse(ctx, "Agent status updated", status)
}

func (h *AgentHandler) ListAgents(ctx *gin.Context) {
	actor, ok := auth.FromContext(ctx)
	if !ok {
		util.ErrorResponse(ctx, http.StatusUnauthorized, "Authentication required")
		return
	}

	agents, err := h.service.List(actor)
	if err != nil {
		util.KindErrorResponse(ctx, err)
		return
	}

	util.SuccessResponse(ctx, "Agents retrieved successfully", agents)
}

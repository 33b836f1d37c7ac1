package participant

import (
	"net/http"

	"github.com/eben2468/srcwebsite-sub008/auth"
	"github.com/eben2468/srcwebsite-sub008/util"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ParticipantHandler struct {
	service *ParticipantService
}

func NewParticipantHandler(service *ParticipantService) *ParticipantHandler {
	return &ParticipantHandler{service: service}
}

func (h *ParticipantHandler) ListParticipants(ctx *gin.Context) {
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

	participants, err := h.service.List(actor, sessionID)
	if err != nil {
		util.KindErrorResponse(ctx, err)
		return
	}

	util.SuccessResponse(ctx, "Participants retrieved successfully", participants)
}

func (h *ParticipantHandler) JoinSession(ctx *gin.Context) {
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

	p, err := h.service.Join(actor, sessionID)
	if err != nil {
		util.KindErrorResponse(ctx, err)
		return
	}

	util.CreatedResponse(ctx, "Joined session", p)
}

func (h *ParticipantHandler) LeaveSession(ctx *gin.Context) {
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

	if err := h.service.Leave(actor, sessionID); err != nil {
		util.KindErrorResponse(ctx, err)
		return
	}

	util.SuccessResponse(ctx, "Left session", nil)
}

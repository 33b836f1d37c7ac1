package message

import (
	"net/http"
	"strconv"

	"github.com/eben2468/srcwebsite-sub008/auth"
	"github.com/eben2468/srcwebsite-sub008/util"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type MessageHandler struct {
	service *MessageService
}

func NewMessageHandler(service *MessageService) *MessageHandler {
	return &MessageHandler{service: service}
}

func (h *MessageHandler) PostMessage(ctx *gin.Context) {
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
		Text string `json:"text" binding:"required"`
		Type string `json:"type"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.ErrorResponse(ctx, http.StatusBadRequest, "Invalid request body")
		return
	}

	msg, err := h.service.Post(ctx.Request.Context(), sessionID, SenderFor(actor), req.Text, req.Type)
	if err != nil {
		util.KindErrorResponse(ctx, err)
		return
	}

	util.CreatedResponse(ctx, "Message sent", msg)
}

func (h *MessageHandler) FetchMessages(ctx *gin.Context) {
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

	sinceID, _ := strconv.ParseInt(ctx.DefaultQuery("since_id", "0"), 10, 64)

	messages, err := h.service.Fetch(actor, sessionID, sinceID)
	if err != nil {
		util.KindErrorResponse(ctx, err)
		return
	}

	util.SuccessResponse(ctx, "Messages retrieved successfully", messages)
}

func (h *MessageHandler) MarkRead(ctx *gin.Context) {
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

	updated, err := h.service.MarkRead(actor, sessionID)
	if err != nil {
		util.KindErrorResponse(ctx, err)
		return
	}

	util.SuccessResponse(ctx, "Messages marked as read", gin.H{"updated": updated})
}

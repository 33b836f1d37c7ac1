package session

import (
	"net/http"

	"github.com/eben2468/srcwebsite-sub008/auth"
	"github.com/eben2468/srcwebsite-sub008/util"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SessionHandler struct {
	service *SessionService
}

func NewSessionHandler(service *SessionService) *SessionHandler {
	return &SessionHandler{service: service}
}

func (h *SessionHandler) StartSession(ctx *gin.Context) {
	actor, ok := auth.FromContext(ctx)
	if !ok {
		util.ErrorResponse(ctx, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req struct {
		Subject    string `json:"subject" binding:"required"`
		Department string `json:"department" binding:"required"`
		Priority   string `json:"priority"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.ErrorResponse(ctx, http.StatusBadRequest, "Invalid request body")
		return
	}

	session, err := h.service.Start(actor, req.Subject, req.Department, req.Priority)
	if err != nil {
		util.KindErrorResponse(ctx, err)
		return
	}

	util.CreatedResponse(ctx, "Support session created", session)
}

func (h *SessionHandler) GetSession(ctx *gin.Context) {
	actor, ok := auth.FromContext(ctx)
	if !ok {
		util.ErrorResponse(ctx, http.StatusUnauthorized, "Authentication required")
		return
	}

	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		util.ErrorResponse(ctx, http.StatusBadRequest, "Invalid session ID")
		return
	}

	session, err := h.service.Get(actor, id)
	if err != nil {
		util.KindErrorResponse(ctx, err)
		return
	}

	util.SuccessResponse(ctx, "Session retrieved successfully", session)
}

func (h *SessionHandler) EndSession(ctx *gin.Context) {
	actor, ok := auth.FromContext(ctx)
	if !ok {
		util.ErrorResponse(ctx, http.StatusUnauthorized, "Authentication required")
		return
	}

	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		util.ErrorResponse(ctx, http.StatusBadRequest, "Invalid session ID")
		return
	}

	session, err := h.service.End(ctx.Request.Context(), actor, id)
	if err != nil {
		util.KindErrorResponse(ctx, err)
		return
	}

	util.SuccessResponse(ctx, "Session ended", session)
}

func (h *SessionHandler) RateSession(ctx *gin.Context) {
	actor, ok := auth.FromContext(ctx)
	if !ok {
		util.ErrorResponse(ctx, http.StatusUnauthorized, "Authentication required")
		return
	}

	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		util.ErrorResponse(ctx, http.StatusBadRequest, "Invalid session ID")
		return
	}

	var req struct {
		Rating   int     `json:"rating" binding:"required"`
		Feedback *string `json:"feedback"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.ErrorResponse(ctx, http.StatusBadRequest, "Invalid request body")
		return
	}

	session, err := h.service.Rate(actor, id, req.Rating, req.Feedback)
	if err != nil {
		util.KindErrorResponse(ctx, err)
		return
	}

	util.SuccessResponse(ctx, "Rating saved", session)
}

func (h *SessionHandler) ListWaitingSessions(ctx *gin.Context) {
	actor, ok := auth.FromContext(ctx)
	if !ok {
		util.ErrorResponse(ctx, http.StatusUnauthorized, "Authentication required")
		return
	}

	sessions, err := h.service.ListWaiting(actor)
	if err != nil {
		util.KindErrorResponse(ctx, err)
		return
	}

	util.SuccessResponse(ctx, "Waiting sessions retrieved successfully", sessions)
}

func (h *SessionHandler) GetSummary(ctx *gin.Context) {
	actor, ok := auth.FromContext(ctx)
	if !ok {
		util.ErrorResponse(ctx, http.StatusUnauthorized, "Authentication required")
		return
	}

	summary, err := h.service.Summary(ctx.Request.Context(), actor)
	if err != nil {
		util.KindErrorResponse(ctx, err)
		return
	}

	util.SuccessResponse(ctx, "Queue summary retrieved successfully", summary)
}

package quickresponse

import (
	"net/http"
	"strconv"

	"github.com/eben2468/srcwebsite-sub008/auth"
	"github.com/eben2468/srcwebsite-sub008/util"
	"github.com/gin-gonic/gin"
)

type QuickResponseHandler struct {
	service *QuickResponseService
}

func NewQuickResponseHandler(service *QuickResponseService) *QuickResponseHandler {
	return &QuickResponseHandler{service: service}
}

func (h *QuickResponseHandler) ListQuickResponses(ctx *gin.Context) {
	actor, ok := auth.FromContext(ctx)
	if !ok {
		util.ErrorResponse(ctx, http.StatusUnauthorized, "Authentication required")
		return
	}

	responses, err := h.service.List(actor, ctx.Query("category"))
	if err != nil {
		util.KindErrorResponse(ctx, err)
		return
	}

	util.SuccessResponse(ctx, "Quick responses retrieved successfully", responses)
}

func (h *QuickResponseHandler) CreateQuickResponse(ctx *gin.Context) {
	actor, ok := auth.FromContext(ctx)
	if !ok {
		util.ErrorResponse(ctx, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req struct {
		Category string `json:"category" binding:"required"`
		Title    string `json:"title" binding:"required"`
		Message  string `json:"message" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.ErrorResponse(ctx, http.StatusBadRequest, "Invalid request body")
		return
	}

	qr, err := h.service.Create(actor, req.Category, req.Title, req.Message)
	if err != nil {
		util.KindErrorResponse(ctx, err)
		return
	}

	util.CreatedResponse(ctx, "Quick response created", qr)
}

func (h *QuickResponseHandler) UpdateQuickResponse(ctx *gin.Context) {
	actor, ok := auth.FromContext(ctx)
	if !ok {
		util.ErrorResponse(ctx, http.StatusUnauthorized, "Authentication required")
		return
	}

	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.ErrorResponse(ctx, http.StatusBadRequest, "Invalid quick response ID")
		return
	}

	var req struct {
		Category string `json:"category" binding:"required"`
		Title    string `json:"title" binding:"required"`
		Message  string `json:"message" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.ErrorResponse(ctx, http.StatusBadRequest, "Invalid request body")
		return
	}

	qr, err := h.service.Update(actor, id, req.Category, req.Title, req.Message)
	if err != nil {
		util.KindErrorResponse(ctx, err)
		return
	}

	util.SuccessResponse(ctx, "Quick response updated", qr)
}

func (h *QuickResponseHandler) DeleteQuickResponse(ctx *gin.Context) {
	actor, ok := auth.FromContext(ctx)
	if !ok {
		util.ErrorResponse(ctx, http.StatusUnauthorized, "Authentication required")
		return
	}

	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.ErrorResponse(ctx, http.StatusBadRequest, "Invalid quick response ID")
		return
	}

	if err := h.service.Delete(actor, id); err != nil {
		util.KindErrorResponse(ctx, err)
		return
	}

	util.SuccessResponse(ctx, "Quick response deleted", nil)
}

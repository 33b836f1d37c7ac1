package util

import (
	"net/http"

	"github.com/eben2468/srcwebsite-sub008/errs"
	"github.com/gin-gonic/gin"
)

type Response struct {
	Status    string      `json:"status"`
	Message   string      `json:"message"`
	ErrorKind string      `json:"error_kind,omitempty"`
	Data      interface{} `json:"data,omitempty"`
}

func SuccessResponse(ctx *gin.Context, message string, data interface{}) {
	ctx.JSON(http.StatusOK, Response{
		Status:  "success",
		Message: message,
		Data:    data,
	})
}

func CreatedResponse(ctx *gin.Context, message string, data interface{}) {
	ctx.JSON(http.StatusCreated, Response{
		Status:  "success",
		Message: message,
		Data:    data,
	})
}

func ErrorResponse(ctx *gin.Context, statusCode int, message string) {
	ctx.JSON(statusCode, Response{
		Status:  "error",
		Message: message,
	})
}

func StatusForKind(kind errs.Kind) int {
	switch kind {
	case errs.KindValidation:
		return http.StatusBadRequest
	case errs.KindNotFound:
		return http.StatusNotFound
	case errs.KindConflict, errs.KindStaleState:
		return http.StatusConflict
	case errs.KindCapacity:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// KindErrorResponse maps a typed service error onto the envelope so the
// frontend can branch on error_kind instead of parsing messages.
func KindErrorResponse(ctx *gin.Context, err error) {
	kind := errs.KindOf(err)
	ctx.JSON(StatusForKind(kind), Response{
		Status:    "error",
		Message:   err.Error(),
		ErrorKind: string(kind),
	})
}

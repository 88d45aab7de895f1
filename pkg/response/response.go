package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Kilat-Pet-Delivery/service-pethotel/pkg/domain"
)

// ErrorBody is the error part of the response envelope.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Envelope is the standard JSON response shape.
type Envelope struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorBody `json:"error,omitempty"`
	Meta    *Meta      `json:"meta,omitempty"`
}

// Meta carries pagination details.
type Meta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
}

// Success writes 200 with data.
func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

// Created writes 201 with data.
func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Data: data})
}

// Message writes 200 with a confirmation message.
func Message(c *gin.Context, msg string) {
	Success(c, gin.H{"message": msg})
}

// Paginated writes 200 with a page of items.
func Paginated(c *gin.Context, items any, total int64, page, limit int) {
	pages := int64(0)
	if limit > 0 {
		pages = (total + int64(limit) - 1) / int64(limit)
	}
	c.JSON(http.StatusOK, Envelope{
		Success: true,
		Data:    items,
		Meta:    &Meta{Page: page, Limit: limit, Total: total, TotalPages: pages},
	})
}

// BadRequest writes 400 with an INVALID_INPUT code.
func BadRequest(c *gin.Context, msg string) {
	abort(c, http.StatusBadRequest, string(domain.KindInvalidInput), msg)
}

// Unauthorized writes 401.
func Unauthorized(c *gin.Context, msg string) {
	abort(c, http.StatusUnauthorized, string(domain.KindUnauthorized), msg)
}

// Forbidden writes 403.
func Forbidden(c *gin.Context, msg string) {
	abort(c, http.StatusForbidden, string(domain.KindForbidden), msg)
}

// Error maps an error onto an HTTP status. Errors outside the application
// taxonomy are logged and reported as 500 without leaking details.
func Error(c *gin.Context, err error) {
	kind := domain.KindOf(err)
	if kind == "" {
		zap.L().Error("unhandled error",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		abort(c, http.StatusInternalServerError, "INTERNAL", "internal server error")
		return
	}
	abort(c, StatusFor(kind), string(kind), err.Error())
}

// StatusFor returns the HTTP status for an error kind.
func StatusFor(kind domain.Kind) int {
	switch kind {
	case domain.KindNotFound, domain.KindUserNotFound, domain.KindHotelNotFound,
		domain.KindRoomNotFound, domain.KindPetNotFound, domain.KindBookingNotFound,
		domain.KindFileMissing:
		return http.StatusNotFound
	case domain.KindUnauthorized:
		return http.StatusUnauthorized
	case domain.KindForbidden:
		return http.StatusForbidden
	case domain.KindInvalidInput, domain.KindPaymentMethodLocked, domain.KindWrongPaymentMethod:
		return http.StatusBadRequest
	case domain.KindRoomNotAvailable, domain.KindUpdateFailed, domain.KindConflict, domain.KindDuplicate:
		return http.StatusConflict
	case domain.KindFileTooLarge:
		return http.StatusRequestEntityTooLarge
	case domain.KindUnsupportedFileType:
		return http.StatusUnsupportedMediaType
	default:
		return http.StatusInternalServerError
	}
}

func abort(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, Envelope{
		Success: false,
		Error:   &ErrorBody{Code: code, Message: msg},
	})
}

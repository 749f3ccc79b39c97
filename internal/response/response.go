// Package response writes the JSON envelope shared by every HTTP handler.
package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Sparkle-Window-Cleaning/service-booking/internal/domain"
)

// Envelope is the body of every JSON response.
type Envelope struct {
	Success bool        `json:"success"`
	Data    any         `json:"data,omitempty"`
	Error   *ErrorBody  `json:"error,omitempty"`
	Meta    *Pagination `json:"meta,omitempty"`
}

// ErrorBody describes a failed request.
type ErrorBody struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// Pagination is attached to list responses.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// Success writes 200 with data.
func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

// Created writes 201 with data.
func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Data: data})
}

// Accepted writes 202 with data.
func Accepted(c *gin.Context, data any) {
	c.JSON(http.StatusAccepted, Envelope{Success: true, Data: data})
}

// Paginated writes 200 with items and pagination metadata.
func Paginated[T any](c *gin.Context, items []T, total int64, page, limit int) {
	p := domain.NewPaginatedResult(items, total, page, limit)
	c.JSON(http.StatusOK, Envelope{
		Success: true,
		Data:    p.Items,
		Meta: &Pagination{
			Page:       p.Page,
			Limit:      p.Limit,
			Total:      p.Total,
			TotalPages: p.TotalPages,
		},
	})
}

// BadRequest writes 400 with a message.
func BadRequest(c *gin.Context, msg string) {
	abort(c, http.StatusBadRequest, ErrorBody{Code: "BAD_REQUEST", Message: msg})
}

// Unauthorized writes 401 with a message.
func Unauthorized(c *gin.Context, msg string) {
	abort(c, http.StatusUnauthorized, ErrorBody{Code: "UNAUTHORIZED", Message: msg})
}

// TooManyRequests writes 429.
func TooManyRequests(c *gin.Context) {
	abort(c, http.StatusTooManyRequests, ErrorBody{Code: "RATE_LIMITED", Message: "too many requests, try again later"})
}

// Error maps err to a status code and writes it. Unknown errors become 500
// without leaking their message.
func Error(c *gin.Context, err error) {
	var fe *domain.FieldValidationError
	if errors.As(err, &fe) {
		abort(c, http.StatusUnprocessableEntity, ErrorBody{
			Code:    domain.CodeValidation,
			Message: "please correct the highlighted fields",
			Fields:  fe.Fields,
		})
		return
	}

	var de *domain.DomainError
	if errors.As(err, &de) {
		abort(c, statusFor(de.Code), ErrorBody{Code: de.Code, Message: de.Message})
		return
	}

	_ = c.Error(err)
	abort(c, http.StatusInternalServerError, ErrorBody{Code: "INTERNAL_ERROR", Message: "internal server error"})
}

func statusFor(code string) int {
	switch code {
	case domain.CodeValidation:
		return http.StatusBadRequest
	case domain.CodeNotFound:
		return http.StatusNotFound
	case domain.CodeConflict:
		return http.StatusConflict
	case domain.CodeInvalidState:
		return http.StatusUnprocessableEntity
	case domain.CodeForbidden:
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}

func abort(c *gin.Context, status int, body ErrorBody) {
	c.AbortWithStatusJSON(status, Envelope{Success: false, Error: &body})
}

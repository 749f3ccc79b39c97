package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/Sparkle-Window-Cleaning/service-booking/internal/application"
	"github.com/Sparkle-Window-Cleaning/service-booking/internal/domain/booking"
	"github.com/Sparkle-Window-Cleaning/service-booking/internal/response"
)

// QuoteService is the subset of application.QuoteService the handler needs.
type QuoteService interface {
	SubmitQuote(ctx context.Context, sub application.QuoteSubmission) (*application.SubmissionDTO, error)
	PreviewPrice(draft booking.BookingDraft) booking.PricingResult
}

// QuoteHandler handles the public quote form endpoints.
type QuoteHandler struct {
	service QuoteService
}

// NewQuoteHandler creates a new QuoteHandler.
func NewQuoteHandler(service QuoteService) *QuoteHandler {
	return &QuoteHandler{service: service}
}

// RegisterRoutes registers quote routes. submitLimit guards only submission.
func (h *QuoteHandler) RegisterRoutes(r *gin.RouterGroup, submitLimit gin.HandlerFunc) {
	quotes := r.Group("/api/v1/quotes")
	{
		quotes.POST("", submitLimit, h.SubmitQuote)
		quotes.POST("/price", h.PreviewPrice)
	}
}

// SubmitQuote handles POST /api/v1/quotes.
func (h *QuoteHandler) SubmitQuote(c *gin.Context) {
	var draft booking.BookingDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.SubmitQuote(c.Request.Context(), application.QuoteSubmission{
		Draft:    draft,
		RemoteIP: c.ClientIP(),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// PreviewPrice handles POST /api/v1/quotes/price.
func (h *QuoteHandler) PreviewPrice(c *gin.Context) {
	var draft booking.BookingDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, h.service.PreviewPrice(draft))
}

package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/Sparkle-Window-Cleaning/service-booking/internal/response"
	"github.com/Sparkle-Window-Cleaning/service-booking/internal/session"
)

// AnalyticsForwarder is the subset of application.AnalyticsService the handler needs.
type AnalyticsForwarder interface {
	Forward(ctx context.Context, events []session.Event) (int, error)
}

// TrackEventsRequest is a batch of form analytics events.
type TrackEventsRequest struct {
	Events []session.Event `json:"events" binding:"required"`
}

// AnalyticsHandler accepts form analytics events.
type AnalyticsHandler struct {
	service AnalyticsForwarder
}

// NewAnalyticsHandler creates a new AnalyticsHandler.
func NewAnalyticsHandler(service AnalyticsForwarder) *AnalyticsHandler {
	return &AnalyticsHandler{service: service}
}

// RegisterRoutes registers analytics routes.
func (h *AnalyticsHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/api/v1/analytics/events", h.TrackEvents)
}

// TrackEvents handles POST /api/v1/analytics/events.
func (h *AnalyticsHandler) TrackEvents(c *gin.Context) {
	var req TrackEventsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	n, err := h.service.Forward(c.Request.Context(), req.Events)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Accepted(c, gin.H{"accepted": n})
}

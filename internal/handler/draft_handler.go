package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Sparkle-Window-Cleaning/service-booking/internal/response"
	"github.com/Sparkle-Window-Cleaning/service-booking/internal/session"
)

// DraftService is the subset of application.DraftService the handler needs.
type DraftService interface {
	SaveDraft(ctx context.Context, key string, saved session.SavedDraft) error
	LoadDraft(ctx context.Context, key string) (*session.SavedDraft, error)
	ClearDraft(ctx context.Context, key string) error
}

// DraftHandler stores in-progress drafts for resuming the form later.
type DraftHandler struct {
	service DraftService
}

// NewDraftHandler creates a new DraftHandler.
func NewDraftHandler(service DraftService) *DraftHandler {
	return &DraftHandler{service: service}
}

// RegisterRoutes registers draft routes.
func (h *DraftHandler) RegisterRoutes(r *gin.RouterGroup) {
	drafts := r.Group("/api/v1/drafts")
	{
		drafts.PUT("/:key", h.SaveDraft)
		drafts.GET("/:key", h.LoadDraft)
		drafts.DELETE("/:key", h.ClearDraft)
	}
}

// SaveDraft handles PUT /api/v1/drafts/:key.
func (h *DraftHandler) SaveDraft(c *gin.Context) {
	var saved session.SavedDraft
	if err := c.ShouldBindJSON(&saved); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.service.SaveDraft(c.Request.Context(), c.Param("key"), saved); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// LoadDraft handles GET /api/v1/drafts/:key.
func (h *DraftHandler) LoadDraft(c *gin.Context) {
	saved, err := h.service.LoadDraft(c.Request.Context(), c.Param("key"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, saved)
}

// ClearDraft handles DELETE /api/v1/drafts/:key.
func (h *DraftHandler) ClearDraft(c *gin.Context) {
	if err := h.service.ClearDraft(c.Request.Context(), c.Param("key")); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

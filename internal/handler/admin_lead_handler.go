package handler

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Sparkle-Window-Cleaning/service-booking/internal/application"
	"github.com/Sparkle-Window-Cleaning/service-booking/internal/response"
)

// LeadService is the subset of application.LeadService the admin API needs.
type LeadService interface {
	ListLeads(ctx context.Context, status, kind string, page, limit int) ([]application.LeadDTO, int64, error)
	GetLead(ctx context.Context, id uuid.UUID) (*application.LeadDTO, error)
	UpdateLeadStatus(ctx context.Context, id uuid.UUID, req application.UpdateLeadStatusRequest) (*application.LeadDTO, error)
	GetLeadStats(ctx context.Context) (*application.LeadStatsDTO, error)
}

// AdminLeadHandler handles admin HTTP requests for lead management.
type AdminLeadHandler struct {
	service LeadService
}

// NewAdminLeadHandler creates a new AdminLeadHandler.
func NewAdminLeadHandler(service LeadService) *AdminLeadHandler {
	return &AdminLeadHandler{service: service}
}

// RegisterRoutes registers admin lead routes behind guard.
func (h *AdminLeadHandler) RegisterRoutes(r *gin.RouterGroup, guard gin.HandlerFunc) {
	admin := r.Group("/api/v1/admin")
	admin.Use(guard)
	{
		admin.GET("/leads", h.ListLeads)
		admin.GET("/leads/:id", h.GetLead)
		admin.PATCH("/leads/:id/status", h.UpdateLeadStatus)
		admin.GET("/stats/leads", h.LeadStats)
	}
}

// ListLeads handles GET /api/v1/admin/leads.
func (h *AdminLeadHandler) ListLeads(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	leads, total, err := h.service.ListLeads(c.Request.Context(), c.Query("status"), c.Query("kind"), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, leads, total, page, limit)
}

// GetLead handles GET /api/v1/admin/leads/:id.
func (h *AdminLeadHandler) GetLead(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid lead ID")
		return
	}

	result, err := h.service.GetLead(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// UpdateLeadStatus handles PATCH /api/v1/admin/leads/:id/status.
func (h *AdminLeadHandler) UpdateLeadStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid lead ID")
		return
	}

	var req application.UpdateLeadStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.UpdateLeadStatus(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// LeadStats handles GET /api/v1/admin/stats/leads.
func (h *AdminLeadHandler) LeadStats(c *gin.Context) {
	stats, err := h.service.GetLeadStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, stats)
}

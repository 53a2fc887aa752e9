package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bravo68web/repodash/internal/application/dto"
	"github.com/bravo68web/repodash/internal/application/service"
	"github.com/bravo68web/repodash/internal/transport/http/middleware"
)

// DashboardHandler serves the dashboard aggregate
type DashboardHandler struct {
	dashboardService *service.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler instance
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// GetDashboard handles GET /api/dashboard
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	data, err := h.dashboardService.Load(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": service.ErrMsgDashboardUnavailable})
		return
	}

	resp := dto.DashboardResponse{DashboardData: data}
	if identity := middleware.GetIdentity(c); !identity.IsAnonymous() {
		resp.Viewer = identity
	}
	c.JSON(http.StatusOK, resp)
}

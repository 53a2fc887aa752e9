package dto

import "github.com/bravo68web/repodash/internal/domain/models"

// DashboardResponse is the dashboard payload plus the caller it was built for
type DashboardResponse struct {
	*models.DashboardData
	Viewer *models.Identity `json:"viewer,omitempty"`
}

// HealthResponse reports liveness
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

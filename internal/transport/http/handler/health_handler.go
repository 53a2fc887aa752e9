package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bravo68web/repodash/internal/application/dto"
)

// HealthHandler reports liveness and the running version
func HealthHandler(version string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, dto.HealthResponse{Status: "ok", Version: version})
	}
}

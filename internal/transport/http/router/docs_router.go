package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (r *Router) docsRouter() {
	// Generated per request so every registered route is included
	r.server.GET("/docs/openapi.json", func(c *gin.Context) {
		c.JSON(http.StatusOK, r.server.OpenAPIGenerator.Generate())
	})
}

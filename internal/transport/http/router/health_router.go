package router

import (
	"github.com/bravo68web/repodash/internal/application/dto"
	"github.com/bravo68web/repodash/internal/transport/http/handler"
	"github.com/bravo68web/repodash/pkg/openapi"
)

func (r *Router) healthRouter() {
	r.server.OpenAPIGenerator.RegisterDocs("GET", "/healthz", openapi.RouteDocs{
		Summary: "Health check",
		Tags:    []string{"System"},
		Responses: map[int]openapi.ResponseDoc{
			200: {Description: "Service is up", Model: dto.HealthResponse{}},
		},
	})

	r.server.GET("/healthz", handler.HealthHandler(r.server.Version))
}

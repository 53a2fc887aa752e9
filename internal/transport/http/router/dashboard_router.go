package router

import (
	"github.com/bravo68web/repodash/internal/application/dto"
	"github.com/bravo68web/repodash/internal/transport/http/handler"
	"github.com/bravo68web/repodash/pkg/openapi"
)

func (r *Router) dashboardRouter() {
	h := handler.NewDashboardHandler(r.Deps.DashboardService)

	r.server.OpenAPIGenerator.RegisterDocs("GET", "/api/dashboard", openapi.RouteDocs{
		Summary:     "Dashboard data",
		Description: "Dataset and project counts fetched live from the upstream API, with growth series and distribution",
		Tags:        []string{"Dashboard"},
		Secured:     r.Deps.IdentityResolver.Required(),
		Responses: map[int]openapi.ResponseDoc{
			200: {Description: "Successful response", Model: dto.DashboardResponse{}},
			401: {Description: "Missing or invalid bearer token", Model: dto.ErrorResponse{}},
			502: {Description: "Upstream unavailable", Model: dto.ErrorResponse{}},
		},
	})

	r.server.GET("/api/dashboard", r.identity.RequireIdentity(), h.GetDashboard)
}

package router

import (
	"github.com/bravo68web/repodash/internal/injectable"
	"github.com/bravo68web/repodash/internal/server"
	"github.com/bravo68web/repodash/internal/transport/http/middleware"
)

type Router struct {
	server   *server.Server
	Deps     *injectable.Dependencies
	identity *middleware.IdentityMiddleware
}

// NewRouter creates a new Router instance.
func NewRouter(s *server.Server, deps *injectable.Dependencies) *Router {
	return &Router{
		server:   s,
		Deps:     deps,
		identity: middleware.NewIdentityMiddleware(deps.IdentityResolver),
	}
}

// RegisterRoutes sets up the routes for the server.
func (r *Router) RegisterRoutes() {
	r.healthRouter()
	r.repoRouter()
	r.dashboardRouter()
	r.docsRouter()
}

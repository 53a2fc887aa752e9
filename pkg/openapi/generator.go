// Package openapi builds an OpenAPI 3 document from the routes registered on a gin engine.
package openapi

import (
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
)

// Content types a request body can be documented with
const (
	ContentTypeJSON      = "application/json"
	ContentTypeMultipart = "multipart/form-data"
)

// RouteDocs documents one method+path
type RouteDocs struct {
	Summary     string
	Description string
	Tags        []string
	RequestBody interface{} // Struct for request body schema
	// RequestContentTypes defaults to JSON only
	RequestContentTypes []string
	Secured             bool
	Responses           map[int]ResponseDoc
}

// ResponseDoc documents one status code of a route
type ResponseDoc struct {
	Description string
	Model       interface{} // Struct for response schema
	Example     interface{}
}

// Generator collects route docs and turns them into a document
type Generator struct {
	engine *gin.Engine
	info   Info
	tags   []Tag

	mu        sync.RWMutex
	routeDocs map[string]RouteDocs
}

// NewGenerator creates a Generator for engine
func NewGenerator(engine *gin.Engine, info Info, tags []Tag) *Generator {
	return &Generator{
		engine:    engine,
		info:      info,
		tags:      tags,
		routeDocs: make(map[string]RouteDocs),
	}
}

// RegisterDocs registers documentation for a route, e.g.
// RegisterDocs("GET", "/api/repos/:id", ...)
func (g *Generator) RegisterDocs(method, path string, docs RouteDocs) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.routeDocs[method+" "+path] = docs
}

// Generate builds the document from the engine's current routes.
// Routes without registered docs are listed with a default 200 response.
func (g *Generator) Generate() *OpenAPI {
	g.mu.RLock()
	defer g.mu.RUnlock()

	spec := &OpenAPI{
		OpenAPI: "3.0.3",
		Info:    g.info,
		Tags:    g.tags,
		Paths:   make(map[string]*PathItem),
		Components: Components{
			SecuritySchemes: map[string]interface{}{
				"bearerAuth": map[string]string{"type": "http", "scheme": "bearer", "bearerFormat": "JWT"},
			},
		},
	}

	routes := g.engine.Routes()
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Path != routes[j].Path {
			return routes[i].Path < routes[j].Path
		}
		return routes[i].Method < routes[j].Method
	})

	for _, route := range routes {
		path := convertPath(route.Path)
		item, ok := spec.Paths[path]
		if !ok {
			item = &PathItem{}
			spec.Paths[path] = item
		}

		op := &Operation{
			Summary:     route.Handler,
			OperationID: operationID(route.Method, route.Handler),
			Parameters:  pathParams(route.Path),
			Responses:   make(map[string]Response),
		}
		if docs, ok := g.routeDocs[route.Method+" "+route.Path]; ok {
			applyDocs(op, docs)
		}
		if len(op.Responses) == 0 {
			op.Responses["200"] = Response{Description: "Successful response"}
		}

		item.set(route.Method, op)
	}

	return spec
}

func applyDocs(op *Operation, docs RouteDocs) {
	if docs.Summary != "" {
		op.Summary = docs.Summary
	}
	op.Description = docs.Description
	op.Tags = docs.Tags

	if docs.Secured {
		op.Security = []map[string][]string{{"bearerAuth": {}}}
	}

	if docs.RequestBody != nil {
		contentTypes := docs.RequestContentTypes
		if len(contentTypes) == 0 {
			contentTypes = []string{ContentTypeJSON}
		}
		op.RequestBody = &RequestBody{Content: map[string]MediaType{}, Required: true}
		for _, ct := range contentTypes {
			op.RequestBody.Content[ct] = MediaType{Schema: GenerateSchema(docs.RequestBody)}
		}
	}

	for status, doc := range docs.Responses {
		resp := Response{Description: doc.Description}
		if resp.Description == "" {
			resp.Description = http.StatusText(status)
		}
		if doc.Model != nil {
			schema := GenerateSchema(doc.Model)
			schema.Example = doc.Example
			resp.Content = map[string]MediaType{ContentTypeJSON: {Schema: schema}}
		}
		op.Responses[strconv.Itoa(status)] = resp
	}
}

// convertPath turns /api/repos/:id into /api/repos/{id}
func convertPath(ginPath string) string {
	parts := strings.Split(ginPath, "/")
	for i, part := range parts {
		if strings.HasPrefix(part, ":") || strings.HasPrefix(part, "*") {
			parts[i] = "{" + part[1:] + "}"
		}
	}
	return strings.Join(parts, "/")
}

func pathParams(ginPath string) []Parameter {
	var params []Parameter
	for _, part := range strings.Split(ginPath, "/") {
		if strings.HasPrefix(part, ":") || strings.HasPrefix(part, "*") {
			params = append(params, Parameter{
				Name:     part[1:],
				In:       "path",
				Required: true,
				Schema:   &Schema{Type: "string"},
			})
		}
	}
	return params
}

// operationID reduces "…/handler.(*RepoHandler).GetRepository-fm" to
// "RepoHandler_GetRepository". Method is prefixed for handlers shared by routes.
func operationID(method, handlerName string) string {
	name := handlerName[strings.LastIndex(handlerName, "/")+1:]
	name = strings.TrimSuffix(name, "-fm")
	name = strings.NewReplacer("(", "", ")", "", "*", "").Replace(name)
	if i := strings.Index(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return strings.ToLower(method) + "_" + strings.ReplaceAll(name, ".", "_")
}

package router

import (
	"github.com/bravo68web/repodash/internal/application/dto"
	"github.com/bravo68web/repodash/internal/transport/http/handler"
	"github.com/bravo68web/repodash/pkg/openapi"
)

func (r *Router) repoRouter() {
	h := handler.NewRepoHandler(
		r.Deps.RepoService,
		r.Deps.UploadService,
		handler.UploadLimits{
			MaxRequestBytes: r.server.Config.Uploads.MaxRequestBytes,
			MaxMemoryBytes:  r.server.Config.Uploads.MaxMemoryBytes,
		},
	)

	// Register OpenAPI Docs
	r.server.OpenAPIGenerator.RegisterDocs("GET", "/api/repos", openapi.RouteDocs{
		Summary:     "List uploaded repositories",
		Description: "All repositories created through the form endpoint, oldest first",
		Tags:        []string{"Repositories"},
		Responses: map[int]openapi.ResponseDoc{
			200: {Description: "Successful response", Model: []dto.UploadRepoResponse{}},
		},
	})

	r.server.OpenAPIGenerator.RegisterDocs("POST", "/api/repos", openapi.RouteDocs{
		Summary: "Create repository",
		Description: "multipart/form-data creates a repository with files (name required); " +
			"any other body is parsed as a JSON object and creates a metadata-only repository",
		Tags:                []string{"Repositories"},
		RequestBody:         dto.CreateUploadRepoForm{},
		RequestContentTypes: []string{openapi.ContentTypeMultipart, openapi.ContentTypeJSON},
		Responses: map[int]openapi.ResponseDoc{
			201: {Description: "Repository created", Model: dto.UploadRepoResponse{}},
			400: {Description: "Missing name or invalid body", Model: dto.ErrorResponse{}},
			413: {Description: "Request too large", Model: dto.ErrorResponse{}},
			500: {Description: "Failed to create repository", Model: dto.ErrorResponse{}},
		},
	})

	r.server.OpenAPIGenerator.RegisterDocs("GET", "/api/repos/:id", openapi.RouteDocs{
		Summary: "Get repository",
		Tags:    []string{"Repositories"},
		Responses: map[int]openapi.ResponseDoc{
			200: {Description: "Successful response", Model: dto.RepoResponse{}},
			404: {Description: "Repository not found", Model: dto.ErrorResponse{}},
		},
	})

	r.server.OpenAPIGenerator.RegisterDocs("POST", "/api/repos/:id", openapi.RouteDocs{
		Summary:     "Create repository (JSON)",
		Description: "The path id is ignored; a new id is assigned",
		Tags:        []string{"Repositories"},
		RequestBody: dto.CreateRepoRequest{},
		Responses: map[int]openapi.ResponseDoc{
			201: {Description: "Repository created", Model: dto.RepoResponse{}},
			400: {Description: "Invalid request body", Model: dto.ErrorResponse{}},
		},
	})

	repos := r.server.Group("/api/repos")
	{
		repos.GET("", h.ListUploadRepositories)
		repos.POST("", h.CreateRepository)
		repos.GET("/:id", h.GetRepository)
		repos.POST("/:id", h.CreateJSONRepository)
	}
}

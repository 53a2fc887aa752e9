package dto

import (
	"mime/multipart"

	"github.com/bravo68web/repodash/internal/domain/models"
)

// CreateRepoRequest is the JSON body of a JSON-variant create.
// Name is optional by contract.
type CreateRepoRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// RepoResponse is a JSON-variant record on the wire
type RepoResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// NewRepoResponse converts a model to its wire form
func NewRepoResponse(r *models.Repo) RepoResponse {
	return RepoResponse{ID: r.ID, Name: r.Name, Description: r.Description}
}

// CreateUploadRepoForm documents the multipart fields of a form-variant create
type CreateUploadRepoForm struct {
	Name        string                  `form:"name" json:"name"`
	Description string                  `form:"description" json:"description"`
	IsPublic    string                  `form:"isPublic" json:"isPublic"`
	Files       []*multipart.FileHeader `form:"files" json:"files"`
}

// UploadRepoResponse is a form-variant record on the wire
type UploadRepoResponse struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	IsPublic    bool     `json:"isPublic"`
	Files       []string `json:"files"`
	CreatedAt   string   `json:"createdAt"`
}

// NewUploadRepoResponse converts a model to its wire form. Files is never null.
func NewUploadRepoResponse(r *models.UploadRepo) UploadRepoResponse {
	files := make([]string, len(r.Files))
	copy(files, r.Files)
	return UploadRepoResponse{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		IsPublic:    r.IsPublic,
		Files:       files,
		CreatedAt:   r.CreatedAt,
	}
}

// NewUploadRepoListResponse converts a list. An empty store yields [] rather than null.
func NewUploadRepoListResponse(repos []*models.UploadRepo) []UploadRepoResponse {
	out := make([]UploadRepoResponse, 0, len(repos))
	for _, r := range repos {
		out = append(out, NewUploadRepoResponse(r))
	}
	return out
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

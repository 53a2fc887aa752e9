package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/bravo68web/repodash/internal/application/dto"
	"github.com/bravo68web/repodash/internal/application/service"
	apperrors "github.com/bravo68web/repodash/pkg/errors"
	"github.com/bravo68web/repodash/pkg/logger"
)

// UploadLimits bounds multipart submissions
type UploadLimits struct {
	MaxRequestBytes int64
	MaxMemoryBytes  int64
}

// RepoHandler handles both repository record variants
type RepoHandler struct {
	repoService   *service.RepoService
	uploadService *service.UploadService
	limits        UploadLimits
	log           *logger.Logger
}

// NewRepoHandler creates a new RepoHandler instance
func NewRepoHandler(
	repoService *service.RepoService,
	uploadService *service.UploadService,
	limits UploadLimits,
) *RepoHandler {
	return &RepoHandler{
		repoService:   repoService,
		uploadService: uploadService,
		limits:        limits,
		log:           logger.Get().WithFields(logger.Component("repo-handler")),
	}
}

// CreateRepository handles POST /api/repos. Multipart bodies create a
// form-variant record; any other body is parsed as JSON.
func (h *RepoHandler) CreateRepository(c *gin.Context) {
	if c.ContentType() == gin.MIMEMultipartPOSTForm {
		h.CreateUploadRepository(c)
		return
	}
	h.CreateJSONRepository(c)
}

// CreateJSONRepository handles JSON-variant creation. POST /api/repos/:id
// lands here too; the path id is ignored and a fresh one assigned.
// The content type is not checked; the body must be a single JSON object.
func (h *RepoHandler) CreateJSONRepository(c *gin.Context) {
	req, err := bindRepoRequest(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	repo, err := h.repoService.CreateRepository(c.Request.Context(), req.Name, req.Description)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewRepoResponse(repo))
}

// GetRepository handles GET /api/repos/:id
func (h *RepoHandler) GetRepository(c *gin.Context) {
	repo, err := h.repoService.GetRepository(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewRepoResponse(repo))
}

// bindRepoRequest decodes the whole body as one JSON object. null, arrays,
// scalars and trailing data after the object are rejected.
func bindRepoRequest(c *gin.Context) (dto.CreateRepoRequest, error) {
	var req dto.CreateRepoRequest

	body, err := c.GetRawData()
	if err != nil {
		return req, err
	}
	body = bytes.TrimSpace(body)
	if len(body) == 0 || body[0] != '{' {
		return req, errors.New("request body is not a JSON object")
	}
	if err := binding.JSON.BindBody(body, &req); err != nil {
		return req, err
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	var object json.RawMessage
	if err := dec.Decode(&object); err != nil {
		return req, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return req, errors.New("unexpected data after JSON object")
	}
	return req, nil
}

// handleError handles errors and returns appropriate HTTP responses
func (h *RepoHandler) handleError(c *gin.Context, err error) {
	switch {
	case apperrors.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": "Repository not found"})
	case apperrors.IsBadRequest(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": message(err, "Invalid request")})
	case apperrors.IsRequestTooLarge(err):
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Request too large"})
	case apperrors.IsConflict(err):
		c.JSON(http.StatusConflict, gin.H{"error": message(err, "Repository already exists")})
	default:
		h.log.WithContext(c.Request.Context()).Error("Request failed",
			logger.Path(c.Request.URL.Path),
			logger.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// message returns the client-safe message carried by an AppError
func message(err error, fallback string) string {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return fallback
}

package handler

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/bravo68web/repodash/internal/application/dto"
	"github.com/bravo68web/repodash/internal/application/service"
	apperrors "github.com/bravo68web/repodash/pkg/errors"
	"github.com/bravo68web/repodash/pkg/logger"
)

// fileField is the only multipart field read for files. Parts under other
// names are ignored, so submission order is the order of this one field.
const fileField = "files"

// CreateUploadRepository handles multipart creation with files
func (h *RepoHandler) CreateUploadRepository(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.limits.MaxRequestBytes)

	if err := c.Request.ParseMultipartForm(h.limits.MaxMemoryBytes); err != nil {
		if tooLarge(err) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Request too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid form data"})
		return
	}
	form := c.Request.MultipartForm
	defer func() {
		if err := form.RemoveAll(); err != nil {
			h.log.Warn("Failed to remove multipart temp files", logger.Error(err))
		}
	}()

	in := service.CreateUploadRepoInput{
		Name:        c.PostForm("name"),
		Description: c.PostForm("description"),
		IsPublic:    c.PostForm("isPublic") == "true",
	}
	for _, fh := range form.File[fileField] {
		in.Files = append(in.Files, uploadFile(fh))
	}

	repo, err := h.uploadService.CreateUploadRepo(c.Request.Context(), in)
	if err != nil {
		if apperrors.IsBadRequest(err) {
			h.handleError(c, err)
			return
		}
		// Cause already logged by the service
		c.JSON(http.StatusInternalServerError, gin.H{"error": service.ErrMsgCreateFailed})
		return
	}

	c.JSON(http.StatusCreated, dto.NewUploadRepoResponse(repo))
}

// ListUploadRepositories handles GET /api/repos
func (h *RepoHandler) ListUploadRepositories(c *gin.Context) {
	repos, err := h.uploadService.ListUploadRepos(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewUploadRepoListResponse(repos))
}

// tooLarge detects the body limit tripping, including when the multipart
// reader reports it without wrapping
func tooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large")
}

func uploadFile(fh *multipart.FileHeader) service.UploadFile {
	return service.UploadFile{
		Name: fh.Filename,
		Open: func() (io.ReadCloser, error) {
			f, err := fh.Open()
			if err != nil {
				return nil, err
			}
			return f, nil
		},
	}
}

package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/arms-api/internal/dto"
	"github.com/noah-isme/arms-api/internal/models"
	"github.com/noah-isme/arms-api/internal/service"
	appErrors "github.com/noah-isme/arms-api/pkg/errors"
	"github.com/noah-isme/arms-api/pkg/response"
)

type exportService interface {
	CreateJob(ctx context.Context, req dto.ExportScheduleRequest) (*dto.ExportJobResponse, error)
	GetStatus(ctx context.Context, id string) (*dto.ExportJobResponse, error)
	ResolveDownload(ctx context.Context, token string) (*service.ExportDownload, error)
}

// ExportHandler queues schedule exports and serves the signed downloads.
type ExportHandler struct {
	service exportService
}

// NewExportHandler builds a new handler.
func NewExportHandler(service exportService) *ExportHandler {
	return &ExportHandler{service: service}
}

// Create godoc
// @Summary Queue a CSV or PDF export of a section schedule
// @Tags Export
// @Accept json
// @Produce json
// @Param payload body dto.ExportScheduleRequest true "Export payload"
// @Success 202 {object} response.Envelope
// @Router /export [post]
func (h *ExportHandler) Create(c *gin.Context) {
	var req dto.ExportScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid export payload"))
		return
	}
	job, err := h.service.CreateJob(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusAccepted, job, nil)
}

// Status godoc
// @Summary Poll an export job
// @Tags Export
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} response.Envelope
// @Router /export/{id} [get]
func (h *ExportHandler) Status(c *gin.Context) {
	job, err := h.service.GetStatus(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, job, nil)
}

// Download godoc
// @Summary Download a finished export through its signed token
// @Tags Export
// @Produce octet-stream
// @Param token path string true "Signed download token"
// @Success 200 {file} binary
// @Router /export/download/{token} [get]
func (h *ExportHandler) Download(c *gin.Context) {
	download, err := h.service.ResolveDownload(c.Request.Context(), c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	defer download.File.Close()

	info, err := download.File.Stat()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, http.StatusInternalServerError, "failed to read export file"))
		return
	}

	contentType := "text/csv"
	if download.Format == models.ExportFormatPDF {
		contentType = "application/pdf"
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", download.Filename))
	c.DataFromReader(http.StatusOK, info.Size(), contentType, download.File, nil)
}

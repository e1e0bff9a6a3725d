package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/arms-api/internal/dto"
	"github.com/noah-isme/arms-api/internal/models"
	appErrors "github.com/noah-isme/arms-api/pkg/errors"
	"github.com/noah-isme/arms-api/pkg/response"
)

type facultyService interface {
	List(ctx context.Context, query dto.FacultyQuery) ([]dto.FacultyResponse, int, error)
	Get(ctx context.Context, id string) (*dto.FacultyResponse, error)
	Create(ctx context.Context, req dto.CreateFacultyRequest) (*dto.FacultyResponse, error)
	Update(ctx context.Context, id string, req dto.UpdateFacultyRequest) (*dto.FacultyResponse, error)
	Deactivate(ctx context.Context, id string) error
}

// FacultyHandler manages the professor roster.
type FacultyHandler struct {
	service facultyService
}

// NewFacultyHandler builds a new handler.
func NewFacultyHandler(service facultyService) *FacultyHandler {
	return &FacultyHandler{service: service}
}

// List godoc
// @Summary List professors
// @Tags Faculty
// @Produce json
// @Param shift query string false "Shift filter"
// @Param active query bool false "Active filter"
// @Param search query string false "Name search"
// @Success 200 {object} response.Envelope
// @Router /faculty [get]
func (h *FacultyHandler) List(c *gin.Context) {
	query := dto.FacultyQuery{
		Shift:     c.Query("shift"),
		Active:    boolQuery(c, "active"),
		Search:    c.Query("search"),
		Page:      intQuery(c, "page", 1),
		PageSize:  intQuery(c, "pageSize", 20),
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
	}
	faculty, total, err := h.service.List(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, faculty, &models.Pagination{
		Page:       query.Page,
		PageSize:   query.PageSize,
		TotalCount: total,
	})
}

// Get godoc
// @Summary Get one professor with decoded qualifications
// @Tags Faculty
// @Produce json
// @Param id path string true "Faculty ID"
// @Success 200 {object} response.Envelope
// @Router /faculty/{id} [get]
func (h *FacultyHandler) Get(c *gin.Context) {
	faculty, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, faculty, nil)
}

// Create godoc
// @Summary Register a professor
// @Tags Faculty
// @Accept json
// @Produce json
// @Param payload body dto.CreateFacultyRequest true "Faculty payload"
// @Success 201 {object} response.Envelope
// @Router /faculty [post]
func (h *FacultyHandler) Create(c *gin.Context) {
	var req dto.CreateFacultyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid faculty payload"))
		return
	}
	faculty, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, faculty)
}

// Update godoc
// @Summary Replace a professor record
// @Tags Faculty
// @Accept json
// @Produce json
// @Param id path string true "Faculty ID"
// @Param payload body dto.UpdateFacultyRequest true "Faculty payload"
// @Success 200 {object} response.Envelope
// @Router /faculty/{id} [put]
func (h *FacultyHandler) Update(c *gin.Context) {
	var req dto.UpdateFacultyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid faculty payload"))
		return
	}
	faculty, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, faculty, nil)
}

// Deactivate godoc
// @Summary Deactivate a professor
// @Tags Faculty
// @Param id path string true "Faculty ID"
// @Success 204
// @Router /faculty/{id} [delete]
func (h *FacultyHandler) Deactivate(c *gin.Context) {
	if err := h.service.Deactivate(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

func boolQuery(c *gin.Context, name string) *bool {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &value
}

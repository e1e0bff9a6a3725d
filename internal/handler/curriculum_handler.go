package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/arms-api/internal/dto"
	"github.com/noah-isme/arms-api/internal/models"
	appErrors "github.com/noah-isme/arms-api/pkg/errors"
	"github.com/noah-isme/arms-api/pkg/response"
)

type curriculumService interface {
	List(ctx context.Context, query dto.CurriculumQuery) ([]models.Curriculum, int, error)
	Get(ctx context.Context, id string) (*models.Curriculum, error)
	Create(ctx context.Context, req dto.CreateCurriculumRequest) (*models.Curriculum, error)
	SetArchived(ctx context.Context, id string, archived bool) error
	Subjects(ctx context.Context, id string) ([]models.CurriculumSubject, error)
	AddSubject(ctx context.Context, id string, req dto.AddCurriculumSubjectRequest) (*models.CurriculumSubject, error)
	RemoveSubject(ctx context.Context, id, subjectID string) error
}

// CurriculumHandler manages curricula and their subject lists.
type CurriculumHandler struct {
	service curriculumService
}

// NewCurriculumHandler builds a new handler.
func NewCurriculumHandler(service curriculumService) *CurriculumHandler {
	return &CurriculumHandler{service: service}
}

// List godoc
// @Summary List curricula
// @Tags Curricula
// @Produce json
// @Param program query string false "Program filter"
// @Param semester query string false "Semester filter"
// @Success 200 {object} response.Envelope
// @Router /curricula [get]
func (h *CurriculumHandler) List(c *gin.Context) {
	query := dto.CurriculumQuery{
		Program:    c.Query("program"),
		Semester:   c.Query("semester"),
		SchoolYear: c.Query("schoolYear"),
		Archived:   boolQuery(c, "archived"),
		Page:       intQuery(c, "page", 1),
		PageSize:   intQuery(c, "pageSize", 20),
		SortBy:     c.Query("sortBy"),
		SortOrder:  c.Query("sortOrder"),
	}
	curricula, total, err := h.service.List(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, curricula, &models.Pagination{
		Page:       query.Page,
		PageSize:   query.PageSize,
		TotalCount: total,
	})
}

// Get godoc
// @Summary Get one curriculum
// @Tags Curricula
// @Produce json
// @Param id path string true "Curriculum ID"
// @Success 200 {object} response.Envelope
// @Router /curricula/{id} [get]
func (h *CurriculumHandler) Get(c *gin.Context) {
	curriculum, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, curriculum, nil)
}

// Create godoc
// @Summary Register a curriculum
// @Tags Curricula
// @Accept json
// @Produce json
// @Param payload body dto.CreateCurriculumRequest true "Curriculum payload"
// @Success 201 {object} response.Envelope
// @Router /curricula [post]
func (h *CurriculumHandler) Create(c *gin.Context) {
	var req dto.CreateCurriculumRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid curriculum payload"))
		return
	}
	curriculum, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, curriculum)
}

// Archive godoc
// @Summary Archive a curriculum
// @Tags Curricula
// @Param id path string true "Curriculum ID"
// @Success 204
// @Router /curricula/{id}/archive [post]
func (h *CurriculumHandler) Archive(c *gin.Context) {
	if err := h.service.SetArchived(c.Request.Context(), c.Param("id"), true); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Restore godoc
// @Summary Restore an archived curriculum
// @Tags Curricula
// @Param id path string true "Curriculum ID"
// @Success 204
// @Router /curricula/{id}/restore [post]
func (h *CurriculumHandler) Restore(c *gin.Context) {
	if err := h.service.SetArchived(c.Request.Context(), c.Param("id"), false); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Subjects godoc
// @Summary List a curriculum's subjects
// @Tags Curricula
// @Produce json
// @Param id path string true "Curriculum ID"
// @Success 200 {object} response.Envelope
// @Router /curricula/{id}/subjects [get]
func (h *CurriculumHandler) Subjects(c *gin.Context) {
	subjects, err := h.service.Subjects(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, subjects, nil)
}

// AddSubject godoc
// @Summary Append a subject to a curriculum
// @Tags Curricula
// @Accept json
// @Produce json
// @Param id path string true "Curriculum ID"
// @Param payload body dto.AddCurriculumSubjectRequest true "Subject payload"
// @Success 201 {object} response.Envelope
// @Router /curricula/{id}/subjects [post]
func (h *CurriculumHandler) AddSubject(c *gin.Context) {
	var req dto.AddCurriculumSubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid subject payload"))
		return
	}
	subject, err := h.service.AddSubject(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, subject)
}

// RemoveSubject godoc
// @Summary Remove a subject from a curriculum
// @Tags Curricula
// @Param id path string true "Curriculum ID"
// @Param subjectId path string true "Subject ID"
// @Success 204
// @Router /curricula/{id}/subjects/{subjectId} [delete]
func (h *CurriculumHandler) RemoveSubject(c *gin.Context) {
	if err := h.service.RemoveSubject(c.Request.Context(), c.Param("id"), c.Param("subjectId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

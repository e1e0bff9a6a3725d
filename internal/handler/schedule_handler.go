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

type scheduleEditorService interface {
	Create(ctx context.Context, req dto.CreateScheduleRequest) (*dto.ScheduleResponse, error)
	List(ctx context.Context, query dto.ScheduleQuery) ([]dto.ScheduleSummary, int, error)
	Get(ctx context.Context, id string) (*dto.ScheduleResponse, error)
	Place(ctx context.Context, id string, req dto.PlaceSubjectRequest) (*dto.ScheduleResponse, error)
	Remove(ctx context.Context, id string, req dto.RemoveEntryRequest) (*dto.ScheduleResponse, error)
	AssignRoom(ctx context.Context, id string, req dto.AssignRoomRequest) (*dto.ScheduleResponse, error)
	AssignProfessor(ctx context.Context, id string, req dto.AssignProfessorRequest) (*dto.ScheduleResponse, error)
	Submit(ctx context.Context, id string) (*dto.ScheduleResponse, error)
	Archive(ctx context.Context, id string) (*dto.ScheduleResponse, error)
	Delete(ctx context.Context, id string) error
}

// ScheduleHandler exposes the schedule editor endpoints.
type ScheduleHandler struct {
	service scheduleEditorService
}

// NewScheduleHandler builds a new handler.
func NewScheduleHandler(service scheduleEditorService) *ScheduleHandler {
	return &ScheduleHandler{service: service}
}

// List godoc
// @Summary List section schedules
// @Tags Schedules
// @Produce json
// @Param semester query string false "Semester filter"
// @Param schoolYear query string false "School year filter"
// @Param status query string false "Status filter"
// @Success 200 {object} response.Envelope
// @Router /schedules [get]
func (h *ScheduleHandler) List(c *gin.Context) {
	query := dto.ScheduleQuery{
		SectionName: c.Query("sectionName"),
		Program:     c.Query("program"),
		Semester:    c.Query("semester"),
		SchoolYear:  c.Query("schoolYear"),
		Status:      c.Query("status"),
		Page:        intQuery(c, "page", 1),
		PageSize:    intQuery(c, "pageSize", 20),
		SortBy:      c.Query("sortBy"),
		SortOrder:   c.Query("sortOrder"),
	}
	summaries, total, err := h.service.List(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summaries, &models.Pagination{
		Page:       query.Page,
		PageSize:   query.PageSize,
		TotalCount: total,
	})
}

// Get godoc
// @Summary Get one schedule with its full grid
// @Tags Schedules
// @Produce json
// @Param id path string true "Schedule ID"
// @Success 200 {object} response.Envelope
// @Router /schedules/{id} [get]
func (h *ScheduleHandler) Get(c *gin.Context) {
	schedule, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schedule, nil)
}

// Create godoc
// @Summary Open a new draft schedule for a section
// @Tags Schedules
// @Accept json
// @Produce json
// @Param payload body dto.CreateScheduleRequest true "Schedule payload"
// @Success 201 {object} response.Envelope
// @Router /schedules [post]
func (h *ScheduleHandler) Create(c *gin.Context) {
	var req dto.CreateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid schedule payload"))
		return
	}
	schedule, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, schedule)
}

// Place godoc
// @Summary Place or move a subject block on the grid
// @Tags Schedules
// @Accept json
// @Produce json
// @Param id path string true "Schedule ID"
// @Param payload body dto.PlaceSubjectRequest true "Placement payload"
// @Success 200 {object} response.Envelope
// @Router /schedules/{id}/entries [post]
func (h *ScheduleHandler) Place(c *gin.Context) {
	var req dto.PlaceSubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid placement payload"))
		return
	}
	schedule, err := h.service.Place(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schedule, nil)
}

// Remove godoc
// @Summary Remove the block anchored at a cell
// @Tags Schedules
// @Accept json
// @Produce json
// @Param id path string true "Schedule ID"
// @Param payload body dto.RemoveEntryRequest true "Removal payload"
// @Success 200 {object} response.Envelope
// @Router /schedules/{id}/entries/remove [post]
func (h *ScheduleHandler) Remove(c *gin.Context) {
	var req dto.RemoveEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid removal payload"))
		return
	}
	schedule, err := h.service.Remove(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schedule, nil)
}

// AssignRoom godoc
// @Summary Assign or clear the room of a placed block
// @Tags Schedules
// @Accept json
// @Produce json
// @Param id path string true "Schedule ID"
// @Param payload body dto.AssignRoomRequest true "Room payload"
// @Success 200 {object} response.Envelope
// @Router /schedules/{id}/room [put]
func (h *ScheduleHandler) AssignRoom(c *gin.Context) {
	var req dto.AssignRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid room payload"))
		return
	}
	schedule, err := h.service.AssignRoom(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schedule, nil)
}

// AssignProfessor godoc
// @Summary Assign or clear the professor of a placed block
// @Tags Schedules
// @Accept json
// @Produce json
// @Param id path string true "Schedule ID"
// @Param payload body dto.AssignProfessorRequest true "Professor payload"
// @Success 200 {object} response.Envelope
// @Router /schedules/{id}/professor [put]
func (h *ScheduleHandler) AssignProfessor(c *gin.Context) {
	var req dto.AssignProfessorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid professor payload"))
		return
	}
	schedule, err := h.service.AssignProfessor(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schedule, nil)
}

// Submit godoc
// @Summary Submit a draft schedule, locking it read-only
// @Tags Schedules
// @Produce json
// @Param id path string true "Schedule ID"
// @Success 200 {object} response.Envelope
// @Router /schedules/{id}/submit [post]
func (h *ScheduleHandler) Submit(c *gin.Context) {
	schedule, err := h.service.Submit(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schedule, nil)
}

// Archive godoc
// @Summary Archive a schedule
// @Tags Schedules
// @Produce json
// @Param id path string true "Schedule ID"
// @Success 200 {object} response.Envelope
// @Router /schedules/{id}/archive [post]
func (h *ScheduleHandler) Archive(c *gin.Context) {
	schedule, err := h.service.Archive(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schedule, nil)
}

// Delete godoc
// @Summary Delete a schedule
// @Tags Schedules
// @Param id path string true "Schedule ID"
// @Success 204
// @Router /schedules/{id} [delete]
func (h *ScheduleHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

func intQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		return fallback
	}
	return value
}

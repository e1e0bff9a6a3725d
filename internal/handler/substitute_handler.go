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

type substituteService interface {
	Assign(ctx context.Context, scheduleID string, req dto.AssignSubstituteRequest) error
	Clear(ctx context.Context, scheduleID string, req dto.ClearSubstituteRequest) error
	History(ctx context.Context, query dto.SubstituteHistoryQuery) ([]dto.SubstituteHistoryEntry, int, error)
}

// SubstituteHandler manages substitute overlays and their archived history.
type SubstituteHandler struct {
	service substituteService
}

// NewSubstituteHandler builds a new handler.
func NewSubstituteHandler(service substituteService) *SubstituteHandler {
	return &SubstituteHandler{service: service}
}

// Assign godoc
// @Summary Overlay a substitute teacher on a placed block
// @Tags Substitutes
// @Accept json
// @Produce json
// @Param id path string true "Schedule ID"
// @Param payload body dto.AssignSubstituteRequest true "Substitute payload"
// @Success 204
// @Router /schedules/{id}/substitute [put]
func (h *SubstituteHandler) Assign(c *gin.Context) {
	var req dto.AssignSubstituteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid substitute payload"))
		return
	}
	if err := h.service.Assign(c.Request.Context(), c.Param("id"), req); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Clear godoc
// @Summary Clear a substitute overlay and archive the stint
// @Tags Substitutes
// @Accept json
// @Produce json
// @Param id path string true "Schedule ID"
// @Param payload body dto.ClearSubstituteRequest true "Clear payload"
// @Success 204
// @Router /schedules/{id}/substitute/clear [post]
func (h *SubstituteHandler) Clear(c *gin.Context) {
	var req dto.ClearSubstituteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid clear payload"))
		return
	}
	if err := h.service.Clear(c.Request.Context(), c.Param("id"), req); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// History godoc
// @Summary List archived substitute stints
// @Tags Substitutes
// @Produce json
// @Param scheduleId query string false "Schedule filter"
// @Param professor query string false "Professor filter"
// @Success 200 {object} response.Envelope
// @Router /substitutes/history [get]
func (h *SubstituteHandler) History(c *gin.Context) {
	query := dto.SubstituteHistoryQuery{
		ScheduleID: c.Query("scheduleId"),
		Section:    c.Query("section"),
		Professor:  c.Query("professor"),
		Page:       intQuery(c, "page", 1),
		PageSize:   intQuery(c, "pageSize", 20),
	}
	entries, total, err := h.service.History(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, &models.Pagination{
		Page:       query.Page,
		PageSize:   query.PageSize,
		TotalCount: total,
	})
}

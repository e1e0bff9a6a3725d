package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/arms-api/internal/dto"
	"github.com/noah-isme/arms-api/internal/middleware"
	"github.com/noah-isme/arms-api/pkg/response"
)

type resourceViewService interface {
	ByRoom(ctx context.Context, query dto.ResourceViewQuery) (*dto.ResourceViewResponse, error)
	ByProfessor(ctx context.Context, query dto.ResourceViewQuery) (*dto.ResourceViewResponse, error)
}

// ViewHandler serves the derived per-room and per-professor timetables.
type ViewHandler struct {
	service resourceViewService
}

// NewViewHandler builds a new handler.
func NewViewHandler(service resourceViewService) *ViewHandler {
	return &ViewHandler{service: service}
}

// ByRoom godoc
// @Summary Room occupancy across all live schedules in a term
// @Tags Views
// @Produce json
// @Param semester query string true "Semester"
// @Param schoolYear query string true "School year"
// @Success 200 {object} response.Envelope
// @Router /views/rooms [get]
func (h *ViewHandler) ByRoom(c *gin.Context) {
	view, err := h.service.ByRoom(c.Request.Context(), viewQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil, middleware.ExtractMeta(c))
}

// ByProfessor godoc
// @Summary Professor load across all live schedules in a term
// @Tags Views
// @Produce json
// @Param semester query string true "Semester"
// @Param schoolYear query string true "School year"
// @Success 200 {object} response.Envelope
// @Router /views/professors [get]
func (h *ViewHandler) ByProfessor(c *gin.Context) {
	view, err := h.service.ByProfessor(c.Request.Context(), viewQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil, middleware.ExtractMeta(c))
}

func viewQuery(c *gin.Context) dto.ResourceViewQuery {
	return dto.ResourceViewQuery{
		Semester:   c.Query("semester"),
		SchoolYear: c.Query("schoolYear"),
	}
}

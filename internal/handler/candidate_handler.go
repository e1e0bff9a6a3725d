package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/arms-api/internal/dto"
	"github.com/noah-isme/arms-api/pkg/response"
)

type candidateService interface {
	Rooms(ctx context.Context, scheduleID string, query dto.CandidateQuery) (*dto.RoomCandidatesResponse, error)
	Professors(ctx context.Context, scheduleID string, query dto.CandidateQuery) (*dto.ProfessorCandidatesResponse, error)
}

// CandidateHandler answers "who can take this block" queries for the editor.
type CandidateHandler struct {
	service candidateService
}

// NewCandidateHandler builds a new handler.
func NewCandidateHandler(service candidateService) *CandidateHandler {
	return &CandidateHandler{service: service}
}

// Rooms godoc
// @Summary List conflict-free rooms for an anchored block
// @Tags Candidates
// @Produce json
// @Param id path string true "Schedule ID"
// @Param docKey query string true "Anchor cell key, e.g. Monday_9:00AM"
// @Success 200 {object} response.Envelope
// @Router /schedules/{id}/candidates/rooms [get]
func (h *CandidateHandler) Rooms(c *gin.Context) {
	query := dto.CandidateQuery{DocKey: c.Query("docKey")}
	candidates, err := h.service.Rooms(c.Request.Context(), c.Param("id"), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, candidates, nil)
}

// Professors godoc
// @Summary List qualified, conflict-free professors for an anchored block
// @Tags Candidates
// @Produce json
// @Param id path string true "Schedule ID"
// @Param docKey query string true "Anchor cell key, e.g. Monday_9:00AM"
// @Success 200 {object} response.Envelope
// @Router /schedules/{id}/candidates/professors [get]
func (h *CandidateHandler) Professors(c *gin.Context) {
	query := dto.CandidateQuery{DocKey: c.Query("docKey")}
	candidates, err := h.service.Professors(c.Request.Context(), c.Param("id"), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, candidates, nil)
}

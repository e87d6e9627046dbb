package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/twill-app/twill-api/internal/dto"
	"github.com/twill-app/twill-api/internal/service"
	appErrors "github.com/twill-app/twill-api/pkg/errors"
	"github.com/twill-app/twill-api/pkg/response"
)

// ScheduleHandler wires HTTP endpoints to the schedule service.
type ScheduleHandler struct {
	service *service.ScheduleService
}

// NewScheduleHandler creates a new handler.
func NewScheduleHandler(svc *service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{service: svc}
}

// Schedule godoc
// @Summary Get schedule
// @Description Returns the materialized day schedules for a date range
// @Tags Schedule
// @Produce json
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /schedule [get]
func (h *ScheduleHandler) Schedule(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var query dto.ScheduleQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query"))
		return
	}

	res, err := h.service.Schedule(c.Request.Context(), claims.UserID, query)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, res, nil)
}

// Stats godoc
// @Summary Get attendance statistics
// @Description Returns overall stats, per-subject breakdown and the skip projection
// @Tags Schedule
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /stats [get]
func (h *ScheduleHandler) Stats(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	res, err := h.service.Stats(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, res, nil)
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/twill-app/twill-api/internal/dto"
	"github.com/twill-app/twill-api/internal/service"
	appErrors "github.com/twill-app/twill-api/pkg/errors"
	"github.com/twill-app/twill-api/pkg/response"
)

// AttendanceHandler wires HTTP endpoints to the attendance service.
type AttendanceHandler struct {
	service *service.AttendanceService
}

// NewAttendanceHandler creates a new handler.
func NewAttendanceHandler(svc *service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{service: svc}
}

// SetAttendance godoc
// @Summary Mark attendance
// @Description Set the attended flag for a session already held
// @Tags Attendance
// @Accept json
// @Produce json
// @Param sessionId path string true "Session id"
// @Param payload body dto.SetAttendanceRequest true "Attendance payload"
// @Success 204 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /attendance/{sessionId} [put]
func (h *AttendanceHandler) SetAttendance(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.SetAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid attendance payload"))
		return
	}

	if err := h.service.SetAttendance(c.Request.Context(), claims.UserID, c.Param("sessionId"), req); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// SetPlannedSkip godoc
// @Summary Plan a skip
// @Description Set the planned-skip flag for a future session
// @Tags Attendance
// @Accept json
// @Produce json
// @Param sessionId path string true "Session id"
// @Param payload body dto.SetPlannedSkipRequest true "Planned skip payload"
// @Success 204 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /planned-skips/{sessionId} [put]
func (h *AttendanceHandler) SetPlannedSkip(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.SetPlannedSkipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid planned skip payload"))
		return
	}

	if err := h.service.SetPlannedSkip(c.Request.Context(), claims.UserID, c.Param("sessionId"), req); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// BatchPlannedSkips godoc
// @Summary Plan several skips
// @Description Update several planned-skip flags at once
// @Tags Attendance
// @Accept json
// @Produce json
// @Param payload body dto.BatchPlannedSkipsRequest true "Batch payload"
// @Success 204 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /planned-skips [put]
func (h *AttendanceHandler) BatchPlannedSkips(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.BatchPlannedSkipsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid batch payload"))
		return
	}

	if err := h.service.BatchSetPlannedSkips(c.Request.Context(), claims.UserID, req); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// SetHomeDay godoc
// @Summary Flag home day
// @Description Set the home-day flag for a whole calendar day
// @Tags Attendance
// @Accept json
// @Produce json
// @Param date path string true "Date (YYYY-MM-DD)"
// @Param payload body dto.SetHomeDayRequest true "Home day payload"
// @Success 204 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /home-days/{date} [put]
func (h *AttendanceHandler) SetHomeDay(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.SetHomeDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid home day payload"))
		return
	}

	if err := h.service.SetHomeDay(c.Request.Context(), claims.UserID, c.Param("date"), req); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

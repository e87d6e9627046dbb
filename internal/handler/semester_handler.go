package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/twill-app/twill-api/internal/dto"
	"github.com/twill-app/twill-api/internal/service"
	appErrors "github.com/twill-app/twill-api/pkg/errors"
	"github.com/twill-app/twill-api/pkg/response"
)

// SemesterHandler wires HTTP endpoints to the semester service.
type SemesterHandler struct {
	service *service.SemesterService
}

// NewSemesterHandler creates a new handler.
func NewSemesterHandler(svc *service.SemesterService) *SemesterHandler {
	return &SemesterHandler{service: svc}
}

// Create godoc
// @Summary Create semester
// @Description Define the semester, replacing any previous definition
// @Tags Semester
// @Accept json
// @Produce json
// @Param payload body dto.CreateSemesterRequest true "Semester payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /semester [post]
func (h *SemesterHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.CreateSemesterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid semester payload"))
		return
	}

	sem, err := h.service.Create(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.SemesterResponse{Semester: *sem})
}

// Get godoc
// @Summary Get semester
// @Description Returns the current semester definition
// @Tags Semester
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /semester [get]
func (h *SemesterHandler) Get(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	sem, err := h.service.Get(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, dto.SemesterResponse{Semester: *sem}, nil)
}

// AddHoliday godoc
// @Summary Add custom holiday
// @Description Declare a user holiday, replacing a previous one on the same date
// @Tags Holidays
// @Accept json
// @Produce json
// @Param payload body dto.CustomHolidayRequest true "Holiday payload"
// @Success 204 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /holidays [post]
func (h *SemesterHandler) AddHoliday(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.CustomHolidayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid holiday payload"))
		return
	}

	if err := h.service.AddCustomHoliday(c.Request.Context(), claims.UserID, req); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// RemoveHoliday godoc
// @Summary Remove custom holiday
// @Description Remove a user holiday by id
// @Tags Holidays
// @Produce json
// @Param id path string true "Holiday id"
// @Success 204 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /holidays/{id} [delete]
func (h *SemesterHandler) RemoveHoliday(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if err := h.service.RemoveCustomHoliday(c.Request.Context(), claims.UserID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// ExcludeAutoHoliday godoc
// @Summary Exclude automatic holiday
// @Description Cancel the automatic weekend holiday on a date, turning it into a class day
// @Tags Holidays
// @Accept json
// @Produce json
// @Param payload body dto.HolidayDateRequest true "Date payload"
// @Success 204 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /holidays/exclusions [post]
func (h *SemesterHandler) ExcludeAutoHoliday(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.HolidayDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	if err := h.service.ExcludeAutoHoliday(c.Request.Context(), claims.UserID, req.Date); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// RestoreAutoHoliday godoc
// @Summary Restore automatic holiday
// @Description Lift a previous exclusion so the automatic holiday applies again
// @Tags Holidays
// @Produce json
// @Param date path string true "Date (YYYY-MM-DD)"
// @Success 204 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /holidays/exclusions/{date} [delete]
func (h *SemesterHandler) RestoreAutoHoliday(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if err := h.service.RestoreAutoHoliday(c.Request.Context(), claims.UserID, c.Param("date")); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twill-app/twill-api/internal/middleware"
	"github.com/twill-app/twill-api/internal/models"
	"github.com/twill-app/twill-api/internal/service"
	"github.com/twill-app/twill-api/pkg/config"
)

type stubSemesterRepo struct {
	sem *models.Semester
}

func (s *stubSemesterRepo) FindByUser(ctx context.Context, userID string) (*models.Semester, error) {
	return s.sem, nil
}

type stubOverlayRepo struct{}

func (s *stubOverlayRepo) AttendanceMap(ctx context.Context, userID string) (map[string]bool, error) {
	return nil, nil
}

func (s *stubOverlayRepo) PlannedSkipMap(ctx context.Context, userID string) (map[string]bool, error) {
	return nil, nil
}

func (s *stubOverlayRepo) HomeDayMap(ctx context.Context, userID string) (map[string]bool, error) {
	return nil, nil
}

func testScheduleHandler() *ScheduleHandler {
	sem := &models.Semester{
		ID:        "sem-1",
		UserID:    "user-1",
		StartDate: time.Date(2025, time.January, 6, 0, 0, 0, 0, time.Local),
		EndDate:   time.Date(2025, time.January, 12, 0, 0, 0, 0, time.Local),
		Subjects: []models.Subject{
			{ID: "math", Name: "Mathematics", Slots: []models.TimeSlot{
				{Day: models.DayMonday, SlotNumbers: []int{1}, Duration: 1},
			}},
		},
	}
	svc := service.NewScheduleService(&stubSemesterRepo{sem: sem}, &stubOverlayRepo{}, nil, nil, nil,
		config.AttendanceConfig{RequiredPercentage: 75})
	return NewScheduleHandler(svc)
}

func TestScheduleHandlerRequiresAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := testScheduleHandler()

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/schedule", nil)

	handler.Schedule(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestScheduleHandlerScheduleSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := testScheduleHandler()

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/schedule", nil)
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "user-1"})

	handler.Schedule(c)

	require.Equal(t, http.StatusOK, rec.Code)
	var envelope struct {
		Data struct {
			Days []models.DaySchedule `json:"days"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Len(t, envelope.Data.Days, 7)
}

func TestScheduleHandlerStatsSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := testScheduleHandler()

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/stats", nil)
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "user-1"})

	handler.Stats(c)

	require.Equal(t, http.StatusOK, rec.Code)
	var envelope struct {
		Data struct {
			PercentageFormatted string `json:"percentage_formatted"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.NotEmpty(t, envelope.Data.PercentageFormatted)
}

func TestScheduleHandlerScheduleBadDate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := testScheduleHandler()

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/schedule?from=bogus", nil)
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "user-1"})

	handler.Schedule(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

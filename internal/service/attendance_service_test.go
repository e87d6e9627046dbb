package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twill-app/twill-api/internal/dto"
	"github.com/twill-app/twill-api/internal/models"
	appErrors "github.com/twill-app/twill-api/pkg/errors"
)

type fakeAttendanceOverlays struct {
	marks    []models.AttendanceMark
	skips    []models.PlannedSkip
	homeDays []models.HomeDay
}

func (f *fakeAttendanceOverlays) UpsertAttendanceMark(ctx context.Context, mark *models.AttendanceMark) error {
	f.marks = append(f.marks, *mark)
	return nil
}

func (f *fakeAttendanceOverlays) UpsertPlannedSkip(ctx context.Context, skip *models.PlannedSkip) error {
	f.skips = append(f.skips, *skip)
	return nil
}

func (f *fakeAttendanceOverlays) BulkUpsertPlannedSkips(ctx context.Context, skips []models.PlannedSkip) error {
	f.skips = append(f.skips, skips...)
	return nil
}

func (f *fakeAttendanceOverlays) UpsertHomeDay(ctx context.Context, day *models.HomeDay) error {
	f.homeDays = append(f.homeDays, *day)
	return nil
}

type fakeMaterializer struct {
	days          []models.DaySchedule
	invalidations int
}

func (f *fakeMaterializer) FullSchedule(ctx context.Context, userID string) ([]models.DaySchedule, *models.Semester, error) {
	return f.days, &models.Semester{ID: "sem-1", UserID: userID}, nil
}

func (f *fakeMaterializer) Invalidate(ctx context.Context, userID string) {
	f.invalidations++
}

func attendanceTestDays() []models.DaySchedule {
	return []models.DaySchedule{
		{
			Date: time.Date(2025, time.January, 6, 0, 0, 0, 0, time.Local),
			Classes: []models.ClassSession{
				{ID: "math-2025-01-06-1", SubjectID: "math", SlotNumber: 1, Duration: 1, CanEdit: true},
			},
		},
		{
			Date: time.Date(2025, time.January, 13, 0, 0, 0, 0, time.Local),
			Classes: []models.ClassSession{
				{ID: "math-2025-01-13-1", SubjectID: "math", SlotNumber: 1, Duration: 1, CanEdit: false},
			},
		},
	}
}

func boolPtr(v bool) *bool {
	return &v
}

func TestAttendanceServiceSetAttendance(t *testing.T) {
	overlays := &fakeAttendanceOverlays{}
	schedules := &fakeMaterializer{days: attendanceTestDays()}
	svc := NewAttendanceService(overlays, schedules, nil, nil)

	err := svc.SetAttendance(context.Background(), "user-1", "math-2025-01-06-1", dto.SetAttendanceRequest{Attended: boolPtr(true)})
	require.NoError(t, err)
	require.Len(t, overlays.marks, 1)
	assert.True(t, overlays.marks[0].Attended)
	assert.Equal(t, 1, schedules.invalidations)
}

func TestAttendanceServiceSetAttendanceRejectsFutureSession(t *testing.T) {
	svc := NewAttendanceService(&fakeAttendanceOverlays{}, &fakeMaterializer{days: attendanceTestDays()}, nil, nil)

	err := svc.SetAttendance(context.Background(), "user-1", "math-2025-01-13-1", dto.SetAttendanceRequest{Attended: boolPtr(true)})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestAttendanceServiceSetAttendanceUnknownSession(t *testing.T) {
	svc := NewAttendanceService(&fakeAttendanceOverlays{}, &fakeMaterializer{days: attendanceTestDays()}, nil, nil)

	err := svc.SetAttendance(context.Background(), "user-1", "math-2025-02-03-1", dto.SetAttendanceRequest{Attended: boolPtr(true)})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestAttendanceServiceSetPlannedSkip(t *testing.T) {
	overlays := &fakeAttendanceOverlays{}
	schedules := &fakeMaterializer{days: attendanceTestDays()}
	svc := NewAttendanceService(overlays, schedules, nil, nil)

	err := svc.SetPlannedSkip(context.Background(), "user-1", "math-2025-01-13-1", dto.SetPlannedSkipRequest{Skip: boolPtr(true)})
	require.NoError(t, err)
	require.Len(t, overlays.skips, 1)
	assert.True(t, overlays.skips[0].Skip)
}

func TestAttendanceServiceSetPlannedSkipRejectsPastSession(t *testing.T) {
	svc := NewAttendanceService(&fakeAttendanceOverlays{}, &fakeMaterializer{days: attendanceTestDays()}, nil, nil)

	err := svc.SetPlannedSkip(context.Background(), "user-1", "math-2025-01-06-1", dto.SetPlannedSkipRequest{Skip: boolPtr(true)})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestAttendanceServiceBatchSetPlannedSkips(t *testing.T) {
	overlays := &fakeAttendanceOverlays{}
	schedules := &fakeMaterializer{days: attendanceTestDays()}
	svc := NewAttendanceService(overlays, schedules, nil, nil)

	err := svc.BatchSetPlannedSkips(context.Background(), "user-1", dto.BatchPlannedSkipsRequest{
		Sessions: map[string]bool{"math-2025-01-13-1": true},
	})
	require.NoError(t, err)
	require.Len(t, overlays.skips, 1)
}

func TestAttendanceServiceBatchRejectsUnknownSession(t *testing.T) {
	overlays := &fakeAttendanceOverlays{}
	svc := NewAttendanceService(overlays, &fakeMaterializer{days: attendanceTestDays()}, nil, nil)

	err := svc.BatchSetPlannedSkips(context.Background(), "user-1", dto.BatchPlannedSkipsRequest{
		Sessions: map[string]bool{"ghost-2025-01-13-1": true},
	})
	require.Error(t, err)
	assert.Empty(t, overlays.skips)
}

func TestAttendanceServiceSetHomeDay(t *testing.T) {
	overlays := &fakeAttendanceOverlays{}
	schedules := &fakeMaterializer{days: attendanceTestDays()}
	svc := NewAttendanceService(overlays, schedules, nil, nil)

	err := svc.SetHomeDay(context.Background(), "user-1", "2025-01-10", dto.SetHomeDayRequest{IsHomeDay: boolPtr(true)})
	require.NoError(t, err)
	require.Len(t, overlays.homeDays, 1)
	assert.Equal(t, "2025-01-10", overlays.homeDays[0].DayKey)
}

func TestAttendanceServiceSetHomeDayRejectsBadDate(t *testing.T) {
	svc := NewAttendanceService(&fakeAttendanceOverlays{}, &fakeMaterializer{days: attendanceTestDays()}, nil, nil)

	err := svc.SetHomeDay(context.Background(), "user-1", "10/01/2025", dto.SetHomeDayRequest{IsHomeDay: boolPtr(true)})
	require.Error(t, err)
}

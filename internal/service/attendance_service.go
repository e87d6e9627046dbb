package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/twill-app/twill-api/internal/dto"
	"github.com/twill-app/twill-api/internal/models"
	appErrors "github.com/twill-app/twill-api/pkg/errors"
)

type attendanceOverlayRepository interface {
	UpsertAttendanceMark(ctx context.Context, mark *models.AttendanceMark) error
	UpsertPlannedSkip(ctx context.Context, skip *models.PlannedSkip) error
	BulkUpsertPlannedSkips(ctx context.Context, skips []models.PlannedSkip) error
	UpsertHomeDay(ctx context.Context, day *models.HomeDay) error
}

type scheduleMaterializer interface {
	FullSchedule(ctx context.Context, userID string) ([]models.DaySchedule, *models.Semester, error)
	Invalidate(ctx context.Context, userID string)
}

// AttendanceService records attendance, planned skips and home-day flags.
// Every write is validated against the generated schedule so overrides can
// only reference sessions that actually exist.
type AttendanceService struct {
	overlays  attendanceOverlayRepository
	schedules scheduleMaterializer
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAttendanceService constructs an AttendanceService.
func NewAttendanceService(overlays attendanceOverlayRepository, schedules scheduleMaterializer, validate *validator.Validate, logger *zap.Logger) *AttendanceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AttendanceService{overlays: overlays, schedules: schedules, validator: validate, logger: logger}
}

// SetAttendance flips the attended flag for a session already held. Sessions
// that have not happened yet cannot be marked.
func (s *AttendanceService) SetAttendance(ctx context.Context, userID, sessionID string, req dto.SetAttendanceRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid attendance payload")
	}

	session, err := s.findSession(ctx, userID, sessionID)
	if err != nil {
		return err
	}
	if !session.CanEdit {
		return appErrors.Clone(appErrors.ErrValidation, "session has not happened yet")
	}

	mark := &models.AttendanceMark{UserID: userID, SessionID: sessionID, Attended: *req.Attended}
	if err := s.overlays.UpsertAttendanceMark(ctx, mark); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store attendance")
	}

	s.schedules.Invalidate(ctx, userID)
	s.logger.Debug("attendance updated",
		zap.String("userId", userID),
		zap.String("sessionId", sessionID),
		zap.Bool("attended", *req.Attended))
	return nil
}

// SetPlannedSkip flips the planned-skip flag for a future session. Sessions
// already held have real attendance instead of plans.
func (s *AttendanceService) SetPlannedSkip(ctx context.Context, userID, sessionID string, req dto.SetPlannedSkipRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid planned skip payload")
	}

	session, err := s.findSession(ctx, userID, sessionID)
	if err != nil {
		return err
	}
	if session.CanEdit {
		return appErrors.Clone(appErrors.ErrValidation, "session already happened; mark attendance instead")
	}

	skip := &models.PlannedSkip{UserID: userID, SessionID: sessionID, Skip: *req.Skip}
	if err := s.overlays.UpsertPlannedSkip(ctx, skip); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store planned skip")
	}

	s.schedules.Invalidate(ctx, userID)
	return nil
}

// BatchSetPlannedSkips updates several planned-skip flags at once. Unknown
// session ids fail the whole batch before anything is written.
func (s *AttendanceService) BatchSetPlannedSkips(ctx context.Context, userID string, req dto.BatchPlannedSkipsRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid batch payload")
	}

	days, _, err := s.schedules.FullSchedule(ctx, userID)
	if err != nil {
		return err
	}
	known := make(map[string]models.ClassSession)
	for _, day := range days {
		for _, session := range day.Classes {
			known[session.ID] = session
		}
	}

	skips := make([]models.PlannedSkip, 0, len(req.Sessions))
	for sessionID, skip := range req.Sessions {
		session, ok := known[sessionID]
		if !ok {
			return appErrors.Clone(appErrors.ErrNotFound, "session not found: "+sessionID)
		}
		if session.CanEdit {
			return appErrors.Clone(appErrors.ErrValidation, "session already happened: "+sessionID)
		}
		skips = append(skips, models.PlannedSkip{UserID: userID, SessionID: sessionID, Skip: skip})
	}

	if err := s.overlays.BulkUpsertPlannedSkips(ctx, skips); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store planned skips")
	}

	s.schedules.Invalidate(ctx, userID)
	return nil
}

// SetHomeDay flips the home-day flag for a whole calendar day. The date uses
// the local YYYY-MM-DD form.
func (s *AttendanceService) SetHomeDay(ctx context.Context, userID, rawDate string, req dto.SetHomeDayRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid home day payload")
	}
	if _, err := parseDate(rawDate); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid date")
	}

	day := &models.HomeDay{UserID: userID, DayKey: rawDate, IsHomeDay: *req.IsHomeDay}
	if err := s.overlays.UpsertHomeDay(ctx, day); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store home day")
	}

	s.schedules.Invalidate(ctx, userID)
	return nil
}

func (s *AttendanceService) findSession(ctx context.Context, userID, sessionID string) (*models.ClassSession, error) {
	days, _, err := s.schedules.FullSchedule(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, day := range days {
		for _, session := range day.Classes {
			if session.ID == sessionID {
				return &session, nil
			}
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "session not found")
}

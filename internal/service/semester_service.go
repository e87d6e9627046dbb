package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/twill-app/twill-api/internal/dto"
	"github.com/twill-app/twill-api/internal/models"
	"github.com/twill-app/twill-api/internal/schedule"
	"github.com/twill-app/twill-api/pkg/config"
	appErrors "github.com/twill-app/twill-api/pkg/errors"
)

type semesterRepository interface {
	Create(ctx context.Context, sem *models.Semester) error
	FindByUser(ctx context.Context, userID string) (*models.Semester, error)
	AddCustomHoliday(ctx context.Context, semesterID string, holiday models.CustomHoliday) error
	RemoveCustomHoliday(ctx context.Context, semesterID, holidayID string) error
	AddExcludedAutoHoliday(ctx context.Context, semesterID string, date time.Time) error
	RemoveExcludedAutoHoliday(ctx context.Context, semesterID string, date time.Time) error
}

type attendanceSeeder interface {
	BulkUpsertAttendanceMarks(ctx context.Context, marks []models.AttendanceMark) error
}

type scheduleInvalidator interface {
	Invalidate(ctx context.Context, userID string)
}

// SemesterService manages the semester definition and its holiday overrides.
type SemesterService struct {
	repo        semesterRepository
	seeder      attendanceSeeder
	invalidator scheduleInvalidator
	validator   *validator.Validate
	logger      *zap.Logger
	cfg         config.AttendanceConfig
	now         func() time.Time
}

// NewSemesterService constructs a SemesterService.
func NewSemesterService(repo semesterRepository, seeder attendanceSeeder, invalidator scheduleInvalidator, validate *validator.Validate, logger *zap.Logger, cfg config.AttendanceConfig) *SemesterService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &SemesterService{
		repo:        repo,
		seeder:      seeder,
		invalidator: invalidator,
		validator:   validate,
		logger:      logger,
		cfg:         cfg,
		now:         time.Now,
	}
}

// WithClock overrides the time source, used by tests.
func (s *SemesterService) WithClock(now func() time.Time) *SemesterService {
	if now != nil {
		s.now = now
	}
	return s
}

// Create stores a new semester definition, replacing any previous one. When
// target ratios are provided and seeding is enabled, the earliest sessions
// held to date are backfilled as attended to match the known ratios.
func (s *SemesterService) Create(ctx context.Context, userID string, req dto.CreateSemesterRequest) (*models.Semester, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid semester payload")
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid start date")
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid end date")
	}

	holidays := make([]time.Time, 0, len(req.Holidays))
	for _, raw := range req.Holidays {
		date, err := parseDate(raw)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid holiday date")
		}
		holidays = append(holidays, date)
	}

	now := s.now().UTC()
	sem := &models.Semester{
		ID:        uuid.NewString(),
		UserID:    userID,
		StartDate: startDate,
		EndDate:   endDate,
		Holidays:  holidays,
		CreatedAt: now,
		UpdatedAt: now,
	}
	sem.Subjects = make([]models.Subject, 0, len(req.Subjects))
	for _, input := range req.Subjects {
		subject := models.Subject{ID: uuid.NewString(), Name: input.Name}
		for _, slot := range input.Slots {
			subject.Slots = append(subject.Slots, models.TimeSlot{
				Day:         slot.Day,
				SlotNumbers: slot.SlotNumbers,
				Duration:    slot.Duration,
			})
		}
		sem.Subjects = append(sem.Subjects, subject)
	}

	if err := s.repo.Create(ctx, sem); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store semester")
	}

	if s.cfg.SeedFromRatios && len(req.TargetRatios) > 0 && s.seeder != nil {
		if err := s.seedAttendance(ctx, userID, sem, req.TargetRatios); err != nil {
			s.logger.Warn("attendance seeding failed", zap.Error(err))
		}
	}

	if s.invalidator != nil {
		s.invalidator.Invalidate(ctx, userID)
	}
	s.logger.Info("semester created",
		zap.String("userId", userID),
		zap.String("semesterId", sem.ID),
		zap.Int("subjects", len(sem.Subjects)))
	return sem, nil
}

// Get returns the user's semester definition.
func (s *SemesterService) Get(ctx context.Context, userID string) (*models.Semester, error) {
	return s.load(ctx, userID)
}

// AddCustomHoliday declares a user holiday, replacing a previous one on the
// same date.
func (s *SemesterService) AddCustomHoliday(ctx context.Context, userID string, req dto.CustomHolidayRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid holiday payload")
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid holiday date")
	}

	sem, err := s.load(ctx, userID)
	if err != nil {
		return err
	}

	holiday := models.CustomHoliday{
		ID:          uuid.NewString(),
		Date:        date,
		Name:        req.Name,
		Description: req.Description,
	}
	if err := s.repo.AddCustomHoliday(ctx, sem.ID, holiday); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store holiday")
	}

	if s.invalidator != nil {
		s.invalidator.Invalidate(ctx, userID)
	}
	return nil
}

// RemoveCustomHoliday removes a user holiday by id. Removing an unknown id
// succeeds silently.
func (s *SemesterService) RemoveCustomHoliday(ctx context.Context, userID, holidayID string) error {
	if holidayID == "" {
		return appErrors.Clone(appErrors.ErrValidation, "holiday id is required")
	}
	sem, err := s.load(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.repo.RemoveCustomHoliday(ctx, sem.ID, holidayID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to remove holiday")
	}
	if s.invalidator != nil {
		s.invalidator.Invalidate(ctx, userID)
	}
	return nil
}

// ExcludeAutoHoliday cancels the automatic weekend holiday on the date,
// turning it back into a class day.
func (s *SemesterService) ExcludeAutoHoliday(ctx context.Context, userID, rawDate string) error {
	date, err := parseDate(rawDate)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid date")
	}
	sem, err := s.load(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.repo.AddExcludedAutoHoliday(ctx, sem.ID, date); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to exclude holiday")
	}
	if s.invalidator != nil {
		s.invalidator.Invalidate(ctx, userID)
	}
	return nil
}

// RestoreAutoHoliday lifts a previous exclusion so the automatic holiday
// applies again.
func (s *SemesterService) RestoreAutoHoliday(ctx context.Context, userID, rawDate string) error {
	date, err := parseDate(rawDate)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid date")
	}
	sem, err := s.load(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.repo.RemoveExcludedAutoHoliday(ctx, sem.ID, date); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to restore holiday")
	}
	if s.invalidator != nil {
		s.invalidator.Invalidate(ctx, userID)
	}
	return nil
}

func (s *SemesterService) load(ctx context.Context, userID string) (*models.Semester, error) {
	sem, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no semester defined")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load semester")
	}
	return sem, nil
}

func (s *SemesterService) seedAttendance(ctx context.Context, userID string, sem *models.Semester, targets map[string]schedule.AttendanceTarget) error {
	raw := schedule.GenerateRange(sem.StartDate, sem.EndDate, s.now(), sem.Subjects, schedule.FromSemester(sem))
	overlay := schedule.SeedAttendance(raw, targets)
	marks := make([]models.AttendanceMark, 0, len(overlay))
	for sessionID, attended := range overlay {
		marks = append(marks, models.AttendanceMark{
			UserID:    userID,
			SessionID: sessionID,
			Attended:  attended,
		})
	}
	return s.seeder.BulkUpsertAttendanceMarks(ctx, marks)
}

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/twill-app/twill-api/internal/dto"
	"github.com/twill-app/twill-api/internal/models"
	"github.com/twill-app/twill-api/internal/schedule"
	"github.com/twill-app/twill-api/pkg/config"
	appErrors "github.com/twill-app/twill-api/pkg/errors"
)

type scheduleSemesterRepository interface {
	FindByUser(ctx context.Context, userID string) (*models.Semester, error)
}

type scheduleOverlayRepository interface {
	AttendanceMap(ctx context.Context, userID string) (map[string]bool, error)
	PlannedSkipMap(ctx context.Context, userID string) (map[string]bool, error)
	HomeDayMap(ctx context.Context, userID string) (map[string]bool, error)
}

type scheduleCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// ScheduleService materializes schedules and attendance statistics. The
// schedule is always derived from the semester definition plus the override
// maps; nothing derived is treated as a source of truth. Caching only
// shortcuts repeated reads and every mutation path invalidates it.
type ScheduleService struct {
	semesters scheduleSemesterRepository
	overlays  scheduleOverlayRepository
	cache     scheduleCache
	metrics   *MetricsService
	logger    *zap.Logger
	cfg       config.AttendanceConfig
	now       func() time.Time
}

// NewScheduleService constructs a ScheduleService.
func NewScheduleService(semesters scheduleSemesterRepository, overlays scheduleOverlayRepository, cache scheduleCache, metrics *MetricsService, logger *zap.Logger, cfg config.AttendanceConfig) *ScheduleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.RequiredPercentage <= 0 || cfg.RequiredPercentage > 100 {
		cfg.RequiredPercentage = schedule.DefaultRequiredPercentage
	}
	return &ScheduleService{
		semesters: semesters,
		overlays:  overlays,
		cache:     cache,
		metrics:   metrics,
		logger:    logger,
		cfg:       cfg,
		now:       time.Now,
	}
}

// WithClock overrides the time source, used by tests.
func (s *ScheduleService) WithClock(now func() time.Time) *ScheduleService {
	if now != nil {
		s.now = now
	}
	return s
}

// Schedule returns the materialized day schedules for the requested range.
// Absent bounds default to the semester start and end. A range outside the
// semester simply yields fewer (possibly zero) days.
func (s *ScheduleService) Schedule(ctx context.Context, userID string, query dto.ScheduleQuery) (*dto.ScheduleResponse, error) {
	sem, err := s.loadSemester(ctx, userID)
	if err != nil {
		return nil, err
	}

	from := sem.StartDate
	if query.From != "" {
		if from, err = parseDate(query.From); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid from date")
		}
	}
	to := sem.EndDate
	if query.To != "" {
		if to, err = parseDate(query.To); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid to date")
		}
	}

	cacheKey := fmt.Sprintf("schedule:%s:%s:%s", userID, schedule.DateKey(from), schedule.DateKey(to))
	if s.cfg.CacheEnabled && s.cache != nil {
		var cached dto.ScheduleResponse
		start := time.Now()
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			s.metrics.RecordCacheOperation(true, time.Since(start))
			return &cached, nil
		} else if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("schedule cache read failed", zap.Error(err))
		}
		s.metrics.RecordCacheOperation(false, time.Since(start))
	}

	days, err := s.materialize(ctx, userID, sem, from, to)
	if err != nil {
		return nil, err
	}
	res := &dto.ScheduleResponse{Days: days}

	if s.cfg.CacheEnabled && s.cache != nil {
		start := time.Now()
		if err := s.cache.Set(ctx, cacheKey, res, s.cfg.CacheTTL); err != nil {
			s.logger.Warn("schedule cache write failed", zap.Error(err))
		}
		s.metrics.ObserveCacheWrite(time.Since(start))
	}

	return res, nil
}

// Stats computes the to-date overall stats, the per-subject breakdown and
// the semester-wide skip projection over the full semester range.
func (s *ScheduleService) Stats(ctx context.Context, userID string) (*dto.StatsResponse, error) {
	sem, err := s.loadSemester(ctx, userID)
	if err != nil {
		return nil, err
	}

	cacheKey := fmt.Sprintf("stats:%s", userID)
	if s.cfg.CacheEnabled && s.cache != nil {
		var cached dto.StatsResponse
		start := time.Now()
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			s.metrics.RecordCacheOperation(true, time.Since(start))
			return &cached, nil
		} else if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("stats cache read failed", zap.Error(err))
		}
		s.metrics.RecordCacheOperation(false, time.Since(start))
	}

	days, err := s.materialize(ctx, userID, sem, sem.StartDate, sem.EndDate)
	if err != nil {
		return nil, err
	}

	pct := s.cfg.RequiredPercentage
	overall := schedule.CalculateStats(schedule.EditableSessions(days), pct)
	res := &dto.StatsResponse{
		Overall:             overall,
		PercentageFormatted: schedule.FormatPercentage(overall.Percentage),
		Subjects:            schedule.SubjectStats(days, sem.Subjects, pct),
		Projection:          schedule.ProjectSkips(days, pct),
	}

	if s.cfg.CacheEnabled && s.cache != nil {
		start := time.Now()
		if err := s.cache.Set(ctx, cacheKey, res, s.cfg.CacheTTL); err != nil {
			s.logger.Warn("stats cache write failed", zap.Error(err))
		}
		s.metrics.ObserveCacheWrite(time.Since(start))
	}

	return res, nil
}

// FullSchedule materializes the entire semester, used internally by
// attendance mutations to validate session ids.
func (s *ScheduleService) FullSchedule(ctx context.Context, userID string) ([]models.DaySchedule, *models.Semester, error) {
	sem, err := s.loadSemester(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	days, err := s.materialize(ctx, userID, sem, sem.StartDate, sem.EndDate)
	if err != nil {
		return nil, nil, err
	}
	return days, sem, nil
}

// Invalidate drops every cached schedule and stats entry for the user.
func (s *ScheduleService) Invalidate(ctx context.Context, userID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, fmt.Sprintf("schedule:%s:*", userID)); err != nil {
		s.logger.Warn("failed to invalidate schedule cache", zap.Error(err))
	}
	if err := s.cache.DeleteByPattern(ctx, fmt.Sprintf("stats:%s", userID)); err != nil {
		s.logger.Warn("failed to invalidate stats cache", zap.Error(err))
	}
}

func (s *ScheduleService) loadSemester(ctx context.Context, userID string) (*models.Semester, error) {
	sem, err := s.semesters.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no semester defined")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load semester")
	}
	return sem, nil
}

func (s *ScheduleService) materialize(ctx context.Context, userID string, sem *models.Semester, from, to time.Time) ([]models.DaySchedule, error) {
	start := time.Now()

	attendance, err := s.overlays.AttendanceMap(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attendance")
	}
	skips, err := s.overlays.PlannedSkipMap(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load planned skips")
	}
	homeDays, err := s.overlays.HomeDayMap(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load home days")
	}

	raw := schedule.GenerateRange(from, to, s.now(), sem.Subjects, schedule.FromSemester(sem))
	days := schedule.Materialize(raw, schedule.Overlay{
		Attendance:   attendance,
		PlannedSkips: skips,
		HomeDays:     homeDays,
	})

	s.metrics.ObserveScheduleRecompute(time.Since(start))
	return days, nil
}

func parseDate(raw string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", raw, time.Local)
}

package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/twill-app/twill-api/internal/models"
)

// OverlayRepository persists the three sparse override maps: attendance
// marks, planned skips and home days. Every write is a per-key upsert so
// concurrent updates merge instead of clobbering each other.
type OverlayRepository struct {
	db *sqlx.DB
}

// NewOverlayRepository constructs the repository.
func NewOverlayRepository(db *sqlx.DB) *OverlayRepository {
	return &OverlayRepository{db: db}
}

// UpsertAttendanceMark writes one attendance flag keyed by session id.
func (r *OverlayRepository) UpsertAttendanceMark(ctx context.Context, mark *models.AttendanceMark) error {
	const query = `INSERT INTO attendance_marks (user_id, session_id, attended, updated_at)
VALUES (:user_id, :session_id, :attended, :updated_at)
ON CONFLICT (user_id, session_id)
DO UPDATE SET attended = EXCLUDED.attended, updated_at = EXCLUDED.updated_at`
	mark.UpdatedAt = time.Now().UTC()
	if _, err := r.db.NamedExecContext(ctx, query, mark); err != nil {
		return fmt.Errorf("upsert attendance mark: %w", err)
	}
	return nil
}

// BulkUpsertAttendanceMarks writes several attendance flags in one
// transaction, used when seeding a freshly created semester.
func (r *OverlayRepository) BulkUpsertAttendanceMarks(ctx context.Context, marks []models.AttendanceMark) error {
	if len(marks) == 0 {
		return nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin attendance tx: %w", err)
	}
	const query = `INSERT INTO attendance_marks (user_id, session_id, attended, updated_at)
VALUES (:user_id, :session_id, :attended, :updated_at)
ON CONFLICT (user_id, session_id)
DO UPDATE SET attended = EXCLUDED.attended, updated_at = EXCLUDED.updated_at`
	for i := range marks {
		marks[i].UpdatedAt = time.Now().UTC()
		if _, err := tx.NamedExecContext(ctx, query, marks[i]); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("bulk upsert attendance mark: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit attendance tx: %w", err)
	}
	return nil
}

// UpsertPlannedSkip writes one planned-skip flag keyed by session id.
func (r *OverlayRepository) UpsertPlannedSkip(ctx context.Context, skip *models.PlannedSkip) error {
	const query = `INSERT INTO planned_skips (user_id, session_id, skip, updated_at)
VALUES (:user_id, :session_id, :skip, :updated_at)
ON CONFLICT (user_id, session_id)
DO UPDATE SET skip = EXCLUDED.skip, updated_at = EXCLUDED.updated_at`
	skip.UpdatedAt = time.Now().UTC()
	if _, err := r.db.NamedExecContext(ctx, query, skip); err != nil {
		return fmt.Errorf("upsert planned skip: %w", err)
	}
	return nil
}

// BulkUpsertPlannedSkips writes several planned-skip flags in one
// transaction. Session ids absent from the batch are untouched.
func (r *OverlayRepository) BulkUpsertPlannedSkips(ctx context.Context, skips []models.PlannedSkip) error {
	if len(skips) == 0 {
		return nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin planned skips tx: %w", err)
	}
	const query = `INSERT INTO planned_skips (user_id, session_id, skip, updated_at)
VALUES (:user_id, :session_id, :skip, :updated_at)
ON CONFLICT (user_id, session_id)
DO UPDATE SET skip = EXCLUDED.skip, updated_at = EXCLUDED.updated_at`
	for i := range skips {
		skips[i].UpdatedAt = time.Now().UTC()
		if _, err := tx.NamedExecContext(ctx, query, skips[i]); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("bulk upsert planned skip: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit planned skips tx: %w", err)
	}
	return nil
}

// UpsertHomeDay writes one home-day flag keyed by the local date key.
func (r *OverlayRepository) UpsertHomeDay(ctx context.Context, day *models.HomeDay) error {
	const query = `INSERT INTO home_days (user_id, day_key, is_home_day, updated_at)
VALUES (:user_id, :day_key, :is_home_day, :updated_at)
ON CONFLICT (user_id, day_key)
DO UPDATE SET is_home_day = EXCLUDED.is_home_day, updated_at = EXCLUDED.updated_at`
	day.UpdatedAt = time.Now().UTC()
	if _, err := r.db.NamedExecContext(ctx, query, day); err != nil {
		return fmt.Errorf("upsert home day: %w", err)
	}
	return nil
}

// AttendanceMap loads the user's attendance overrides as a sparse map.
func (r *OverlayRepository) AttendanceMap(ctx context.Context, userID string) (map[string]bool, error) {
	var marks []models.AttendanceMark
	if err := r.db.SelectContext(ctx, &marks, `SELECT user_id, session_id, attended, updated_at
FROM attendance_marks WHERE user_id = $1`, userID); err != nil {
		return nil, fmt.Errorf("load attendance marks: %w", err)
	}
	result := make(map[string]bool, len(marks))
	for _, mark := range marks {
		result[mark.SessionID] = mark.Attended
	}
	return result, nil
}

// PlannedSkipMap loads the user's planned-skip overrides as a sparse map.
func (r *OverlayRepository) PlannedSkipMap(ctx context.Context, userID string) (map[string]bool, error) {
	var skips []models.PlannedSkip
	if err := r.db.SelectContext(ctx, &skips, `SELECT user_id, session_id, skip, updated_at
FROM planned_skips WHERE user_id = $1`, userID); err != nil {
		return nil, fmt.Errorf("load planned skips: %w", err)
	}
	result := make(map[string]bool, len(skips))
	for _, skip := range skips {
		result[skip.SessionID] = skip.Skip
	}
	return result, nil
}

// HomeDayMap loads the user's home-day flags keyed by local date key.
func (r *OverlayRepository) HomeDayMap(ctx context.Context, userID string) (map[string]bool, error) {
	var days []models.HomeDay
	if err := r.db.SelectContext(ctx, &days, `SELECT user_id, day_key, is_home_day, updated_at
FROM home_days WHERE user_id = $1`, userID); err != nil {
		return nil, fmt.Errorf("load home days: %w", err)
	}
	result := make(map[string]bool, len(days))
	for _, day := range days {
		result[day.DayKey] = day.IsHomeDay
	}
	return result, nil
}

package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/twill-app/twill-api/internal/models"
)

// SemesterRepository persists semester definitions. A user has at most one
// semester; creating a new one replaces the previous definition wholesale.
type SemesterRepository struct {
	db *sqlx.DB
}

// NewSemesterRepository constructs the repository.
func NewSemesterRepository(db *sqlx.DB) *SemesterRepository {
	return &SemesterRepository{db: db}
}

type subjectRow struct {
	ID         string `db:"id"`
	SemesterID string `db:"semester_id"`
	Name       string `db:"name"`
	Position   int    `db:"position"`
}

type slotRow struct {
	SubjectID   string        `db:"subject_id"`
	Day         string        `db:"day"`
	SlotNumbers pq.Int64Array `db:"slot_numbers"`
	Duration    float64       `db:"duration"`
	Position    int           `db:"position"`
}

// Create stores the full semester definition inside one transaction. Any
// previous semester for the same user is removed first; child rows cascade.
func (r *SemesterRepository) Create(ctx context.Context, sem *models.Semester) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin semester tx: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM semesters WHERE user_id = $1`, sem.UserID); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("clear previous semester: %w", err)
	}

	if _, err := tx.NamedExecContext(ctx, `INSERT INTO semesters (id, user_id, start_date, end_date, created_at, updated_at)
VALUES (:id, :user_id, :start_date, :end_date, :created_at, :updated_at)`, sem); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("insert semester: %w", err)
	}

	for i, subject := range sem.Subjects {
		row := subjectRow{ID: subject.ID, SemesterID: sem.ID, Name: subject.Name, Position: i}
		if _, err := tx.NamedExecContext(ctx, `INSERT INTO subjects (id, semester_id, name, position)
VALUES (:id, :semester_id, :name, :position)`, row); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert subject %s: %w", subject.Name, err)
		}
		for j, slot := range subject.Slots {
			numbers := make(pq.Int64Array, len(slot.SlotNumbers))
			for k, n := range slot.SlotNumbers {
				numbers[k] = int64(n)
			}
			sr := slotRow{SubjectID: subject.ID, Day: slot.Day, SlotNumbers: numbers, Duration: slot.Duration, Position: j}
			if _, err := tx.NamedExecContext(ctx, `INSERT INTO subject_slots (subject_id, day, slot_numbers, duration, position)
VALUES (:subject_id, :day, :slot_numbers, :duration, :position)`, sr); err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("insert slot for subject %s: %w", subject.Name, err)
			}
		}
	}

	for _, holiday := range sem.Holidays {
		if _, err := tx.ExecContext(ctx, `INSERT INTO semester_holidays (semester_id, holiday_date)
VALUES ($1, $2) ON CONFLICT DO NOTHING`, sem.ID, holiday); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert semester holiday: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit semester tx: %w", err)
	}
	return nil
}

// FindByUser loads the user's semester with subjects, slots and all holiday
// collections. Returns sql.ErrNoRows when the user has no semester yet.
func (r *SemesterRepository) FindByUser(ctx context.Context, userID string) (*models.Semester, error) {
	var sem models.Semester
	if err := r.db.GetContext(ctx, &sem, `SELECT id, user_id, start_date, end_date, created_at, updated_at
FROM semesters WHERE user_id = $1`, userID); err != nil {
		return nil, err
	}

	var subjects []subjectRow
	if err := r.db.SelectContext(ctx, &subjects, `SELECT id, semester_id, name, position
FROM subjects WHERE semester_id = $1 ORDER BY position ASC`, sem.ID); err != nil {
		return nil, fmt.Errorf("load subjects: %w", err)
	}

	var slots []slotRow
	if err := r.db.SelectContext(ctx, &slots, `SELECT s.subject_id, s.day, s.slot_numbers, s.duration, s.position
FROM subject_slots s
JOIN subjects sub ON sub.id = s.subject_id
WHERE sub.semester_id = $1
ORDER BY s.subject_id, s.position ASC`, sem.ID); err != nil {
		return nil, fmt.Errorf("load subject slots: %w", err)
	}

	slotsBySubject := make(map[string][]models.TimeSlot, len(subjects))
	for _, slot := range slots {
		numbers := make([]int, len(slot.SlotNumbers))
		for i, n := range slot.SlotNumbers {
			numbers[i] = int(n)
		}
		slotsBySubject[slot.SubjectID] = append(slotsBySubject[slot.SubjectID], models.TimeSlot{
			Day:         slot.Day,
			SlotNumbers: numbers,
			Duration:    slot.Duration,
		})
	}

	sem.Subjects = make([]models.Subject, 0, len(subjects))
	for _, subject := range subjects {
		sem.Subjects = append(sem.Subjects, models.Subject{
			ID:    subject.ID,
			Name:  subject.Name,
			Slots: slotsBySubject[subject.ID],
		})
	}

	if err := r.db.SelectContext(ctx, &sem.Holidays, `SELECT holiday_date
FROM semester_holidays WHERE semester_id = $1 ORDER BY holiday_date ASC`, sem.ID); err != nil {
		return nil, fmt.Errorf("load semester holidays: %w", err)
	}

	if err := r.db.SelectContext(ctx, &sem.CustomHolidays, `SELECT id, holiday_date, name, description
FROM custom_holidays WHERE semester_id = $1 ORDER BY holiday_date ASC`, sem.ID); err != nil {
		return nil, fmt.Errorf("load custom holidays: %w", err)
	}

	if err := r.db.SelectContext(ctx, &sem.ExcludedAutoHolidays, `SELECT holiday_date
FROM excluded_auto_holidays WHERE semester_id = $1 ORDER BY holiday_date ASC`, sem.ID); err != nil {
		return nil, fmt.Errorf("load excluded auto holidays: %w", err)
	}

	return &sem, nil
}

// AddCustomHoliday inserts or updates a custom holiday by date.
func (r *SemesterRepository) AddCustomHoliday(ctx context.Context, semesterID string, holiday models.CustomHoliday) error {
	const query = `INSERT INTO custom_holidays (id, semester_id, holiday_date, name, description)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (semester_id, holiday_date)
DO UPDATE SET name = EXCLUDED.name, description = EXCLUDED.description`
	if _, err := r.db.ExecContext(ctx, query, holiday.ID, semesterID, holiday.Date, holiday.Name, holiday.Description); err != nil {
		return fmt.Errorf("upsert custom holiday: %w", err)
	}
	return r.touch(ctx, semesterID)
}

// RemoveCustomHoliday deletes a custom holiday by id. Removing an unknown id
// is a no-op.
func (r *SemesterRepository) RemoveCustomHoliday(ctx context.Context, semesterID, holidayID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM custom_holidays
WHERE semester_id = $1 AND id = $2`, semesterID, holidayID); err != nil {
		return fmt.Errorf("delete custom holiday: %w", err)
	}
	return r.touch(ctx, semesterID)
}

// AddExcludedAutoHoliday records an auto-holiday exclusion for the date.
func (r *SemesterRepository) AddExcludedAutoHoliday(ctx context.Context, semesterID string, date time.Time) error {
	if _, err := r.db.ExecContext(ctx, `INSERT INTO excluded_auto_holidays (semester_id, holiday_date)
VALUES ($1, $2) ON CONFLICT DO NOTHING`, semesterID, date); err != nil {
		return fmt.Errorf("insert excluded auto holiday: %w", err)
	}
	return r.touch(ctx, semesterID)
}

// RemoveExcludedAutoHoliday restores the automatic holiday on the date.
func (r *SemesterRepository) RemoveExcludedAutoHoliday(ctx context.Context, semesterID string, date time.Time) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM excluded_auto_holidays
WHERE semester_id = $1 AND holiday_date = $2`, semesterID, date); err != nil {
		return fmt.Errorf("delete excluded auto holiday: %w", err)
	}
	return r.touch(ctx, semesterID)
}

func (r *SemesterRepository) touch(ctx context.Context, semesterID string) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE semesters SET updated_at = $1 WHERE id = $2`,
		time.Now().UTC(), semesterID); err != nil {
		return fmt.Errorf("touch semester: %w", err)
	}
	return nil
}

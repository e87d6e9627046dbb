package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twill-app/twill-api/internal/models"
)

func TestSemesterRepositoryFindByUser(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewSemesterRepository(db)
	now := time.Now()
	start := time.Date(2025, time.January, 6, 0, 0, 0, 0, time.Local)
	end := time.Date(2025, time.May, 30, 0, 0, 0, 0, time.Local)

	mock.ExpectQuery("SELECT id, user_id, start_date, end_date").
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "start_date", "end_date", "created_at", "updated_at"}).
			AddRow("sem-1", "user-1", start, end, now, now))

	mock.ExpectQuery("SELECT id, semester_id, name, position").
		WithArgs("sem-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "semester_id", "name", "position"}).
			AddRow("sub-1", "sem-1", "Mathematics", 0))

	mock.ExpectQuery("SELECT s.subject_id, s.day, s.slot_numbers").
		WithArgs("sem-1").
		WillReturnRows(sqlmock.NewRows([]string{"subject_id", "day", "slot_numbers", "duration", "position"}).
			AddRow("sub-1", "MON", pq.Int64Array{1, 2}, 2.0, 0))

	mock.ExpectQuery("SELECT holiday_date\nFROM semester_holidays").
		WithArgs("sem-1").
		WillReturnRows(sqlmock.NewRows([]string{"holiday_date"}).
			AddRow(time.Date(2025, time.January, 26, 0, 0, 0, 0, time.Local)))

	mock.ExpectQuery("SELECT id, holiday_date, name, description").
		WithArgs("sem-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "holiday_date", "name", "description"}).
			AddRow("ch-1", time.Date(2025, time.February, 14, 0, 0, 0, 0, time.Local), "College Fest", nil))

	mock.ExpectQuery("SELECT holiday_date\nFROM excluded_auto_holidays").
		WithArgs("sem-1").
		WillReturnRows(sqlmock.NewRows([]string{"holiday_date"}).
			AddRow(time.Date(2025, time.January, 11, 0, 0, 0, 0, time.Local)))

	sem, err := repo.FindByUser(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "sem-1", sem.ID)
	require.Len(t, sem.Subjects, 1)
	assert.Equal(t, "Mathematics", sem.Subjects[0].Name)
	require.Len(t, sem.Subjects[0].Slots, 1)
	assert.Equal(t, []int{1, 2}, sem.Subjects[0].Slots[0].SlotNumbers)
	assert.Len(t, sem.Holidays, 1)
	require.Len(t, sem.CustomHolidays, 1)
	assert.Equal(t, "College Fest", sem.CustomHolidays[0].Name)
	assert.Len(t, sem.ExcludedAutoHolidays, 1)
}

func TestSemesterRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewSemesterRepository(db)
	sem := &models.Semester{
		ID:        "sem-1",
		UserID:    "user-1",
		StartDate: time.Date(2025, time.January, 6, 0, 0, 0, 0, time.Local),
		EndDate:   time.Date(2025, time.May, 30, 0, 0, 0, 0, time.Local),
		Subjects: []models.Subject{
			{ID: "sub-1", Name: "Mathematics", Slots: []models.TimeSlot{
				{Day: "MON", SlotNumbers: []int{1}, Duration: 1},
			}},
		},
		Holidays:  []time.Time{time.Date(2025, time.January, 26, 0, 0, 0, 0, time.Local)},
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM semesters").
		WithArgs("user-1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO semesters").
		WithArgs("sem-1", "user-1", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO subjects").
		WithArgs("sub-1", "sem-1", "Mathematics", 0).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO subject_slots").
		WithArgs("sub-1", "MON", sqlmock.AnyArg(), 1.0, 0).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO semester_holidays").
		WithArgs("sem-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Create(context.Background(), sem))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSemesterRepositoryAddCustomHoliday(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewSemesterRepository(db)
	mock.ExpectExec("INSERT INTO custom_holidays").
		WithArgs("ch-1", "sem-1", sqlmock.AnyArg(), "College Fest", nil).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("UPDATE semesters SET updated_at").
		WithArgs(sqlmock.AnyArg(), "sem-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	holiday := models.CustomHoliday{
		ID:   "ch-1",
		Date: time.Date(2025, time.February, 14, 0, 0, 0, 0, time.Local),
		Name: "College Fest",
	}
	require.NoError(t, repo.AddCustomHoliday(context.Background(), "sem-1", holiday))
}

func TestSemesterRepositoryRemoveCustomHolidayByID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewSemesterRepository(db)
	mock.ExpectExec("DELETE FROM custom_holidays\nWHERE semester_id = \\$1 AND id = \\$2").
		WithArgs("sem-1", "ch-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE semesters SET updated_at").
		WithArgs(sqlmock.AnyArg(), "sem-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.RemoveCustomHoliday(context.Background(), "sem-1", "ch-1"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSemesterRepositoryAddExcludedAutoHoliday(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewSemesterRepository(db)
	mock.ExpectExec("INSERT INTO excluded_auto_holidays").
		WithArgs("sem-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("UPDATE semesters SET updated_at").
		WithArgs(sqlmock.AnyArg(), "sem-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	date := time.Date(2025, time.January, 11, 0, 0, 0, 0, time.Local)
	require.NoError(t, repo.AddExcludedAutoHoliday(context.Background(), "sem-1", date))
}

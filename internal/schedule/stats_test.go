package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twill-app/twill-api/internal/models"
)

func session(id, subjectID string, duration float64, attended, canEdit, plannedSkip bool) models.ClassSession {
	return models.ClassSession{
		ID:          id,
		SubjectID:   subjectID,
		SubjectName: subjectID,
		Duration:    duration,
		Attended:    attended,
		CanEdit:     canEdit,
		PlannedSkip: plannedSkip,
	}
}

func TestCalculateStatsEmptySetIsZeroNotNaN(t *testing.T) {
	stats := CalculateStats(nil, DefaultRequiredPercentage)
	assert.Equal(t, 0.0, stats.Percentage)
	assert.Equal(t, 0.0, stats.TotalUnits)
	assert.Equal(t, 0.0, stats.UnitsCanSkip)
}

func TestCalculateStatsBasics(t *testing.T) {
	sessions := []models.ClassSession{
		session("a", "s1", 2, true, true, false),
		session("b", "s1", 1, true, true, false),
		session("c", "s1", 1, false, true, false),
	}
	stats := CalculateStats(sessions, 75)

	assert.Equal(t, 4.0, stats.TotalUnits)
	assert.Equal(t, 3.0, stats.AttendedUnits)
	assert.Equal(t, 75.0, stats.Percentage)
	assert.Equal(t, 3.0, stats.RequiredUnits) // ceil(4*75/100)
	assert.Equal(t, 0.0, stats.UnitsCanSkip)
}

func TestCalculateStatsCeilingRounding(t *testing.T) {
	sessions := []models.ClassSession{
		session("a", "s1", 1, true, true, false),
		session("b", "s1", 1, true, true, false),
		session("c", "s1", 1, true, true, false),
	}
	stats := CalculateStats(sessions, 75)
	// ceil(3*0.75) = ceil(2.25) = 3
	assert.Equal(t, 3.0, stats.RequiredUnits)
	assert.Equal(t, 0.0, stats.UnitsCanSkip)
}

func TestCalculateStatsNonNegativeAndBounded(t *testing.T) {
	sessions := []models.ClassSession{
		session("a", "s1", 3, false, true, false),
		session("b", "s1", 2, true, true, false),
	}
	stats := CalculateStats(sessions, 75)

	assert.GreaterOrEqual(t, stats.Percentage, 0.0)
	assert.GreaterOrEqual(t, stats.UnitsCanSkip, 0.0)
	assert.LessOrEqual(t, stats.AttendedUnits, stats.TotalUnits)
}

func TestSubjectStatsPartitionsEditableSessionsOnly(t *testing.T) {
	days := []models.DaySchedule{
		{Date: day(2025, time.January, 6), Classes: []models.ClassSession{
			session("a", "s1", 1, true, true, false),
			session("b", "s2", 1, false, true, false),
		}},
		{Date: day(2025, time.January, 13), Classes: []models.ClassSession{
			// Future sessions stay out of per-subject to-date stats.
			session("c", "s1", 1, false, false, false),
		}},
	}
	subjects := []models.Subject{{ID: "s1", Name: "Algorithms"}, {ID: "s2", Name: "Databases"}, {ID: "s3", Name: "Maths"}}

	stats := SubjectStats(days, subjects, 75)
	require.Len(t, stats, 3)

	assert.Equal(t, 1.0, stats[0].Stats.TotalUnits)
	assert.Equal(t, 1.0, stats[0].Stats.AttendedUnits)
	assert.Equal(t, 1.0, stats[1].Stats.TotalUnits)
	assert.Equal(t, 0.0, stats[1].Stats.AttendedUnits)
	assert.Equal(t, 0.0, stats[2].Stats.TotalUnits)
	assert.Equal(t, 0.0, stats[2].Stats.Percentage)
}

func TestProjectSkipsScenario(t *testing.T) {
	// 100 total units: 70 held to date (50 attended), 30 future of which 10
	// are planned skips. Projection: 50 + 20 = 70 < 75 required, so no
	// further skips are affordable.
	days := []models.DaySchedule{
		{Classes: []models.ClassSession{
			session("past-attended", "s1", 50, true, true, false),
			session("past-missed", "s1", 20, false, true, false),
			session("future-attend", "s1", 20, false, false, false),
			session("future-skip", "s1", 10, false, false, true),
		}},
	}

	projection := ProjectSkips(days, 75)
	assert.Equal(t, 100.0, projection.TotalSemesterUnits)
	assert.Equal(t, 75.0, projection.RequiredUnits)
	assert.Equal(t, 50.0, projection.AttendedUnits)
	assert.Equal(t, 20.0, projection.PlannedAttendUnits)
	assert.Equal(t, 10.0, projection.PlannedSkipUnits)
	assert.Equal(t, 70.0, projection.ProjectedTotalAttended)
	assert.Equal(t, 0.0, projection.UnitsCanSkip)
}

func TestProjectSkipsWithHeadroom(t *testing.T) {
	days := []models.DaySchedule{
		{Classes: []models.ClassSession{
			session("past", "s1", 60, true, true, false),
			session("future", "s1", 40, false, false, false),
		}},
	}

	projection := ProjectSkips(days, 75)
	assert.Equal(t, 75.0, projection.RequiredUnits)
	assert.Equal(t, 100.0, projection.ProjectedTotalAttended)
	assert.Equal(t, 25.0, projection.UnitsCanSkip)
}

func TestProjectSkipsEmptyScheduleIsSafe(t *testing.T) {
	projection := ProjectSkips(nil, 75)
	assert.Equal(t, 0.0, projection.TotalSemesterUnits)
	assert.Equal(t, 0.0, projection.UnitsCanSkip)
}

func TestFormatPercentage(t *testing.T) {
	assert.Equal(t, "75.00%", FormatPercentage(75))
	assert.Equal(t, "66.67%", FormatPercentage(200.0/3.0))
	assert.Equal(t, "0.00%", FormatPercentage(0))
}

package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twill-app/twill-api/internal/models"
)

func TestSeedAttendanceMarksEarliestSessionsUpToTarget(t *testing.T) {
	now := day(2025, time.January, 31)
	subjects := []models.Subject{
		{ID: "s1", Name: "Algorithms", Slots: []models.TimeSlot{{Day: models.DayMonday, SlotNumbers: []int{1}, Duration: 1}}},
	}
	// Mondays in Jan 2025: 6, 13, 20, 27. Four editable sessions.
	days := GenerateRange(day(2025, time.January, 1), day(2025, time.January, 31), now, subjects, HolidayCalendar{})

	overlay := SeedAttendance(days, map[string]AttendanceTarget{
		"Algorithms": {Attended: 3, Total: 4},
	})

	require.Len(t, overlay, 4)
	assert.True(t, overlay["s1-2025-01-06-1"])
	assert.True(t, overlay["s1-2025-01-13-1"])
	assert.True(t, overlay["s1-2025-01-20-1"])
	assert.False(t, overlay["s1-2025-01-27-1"])
}

func TestSeedAttendanceWithoutTargetMarksAllAttended(t *testing.T) {
	now := day(2025, time.January, 14)
	subjects := []models.Subject{
		{ID: "s1", Name: "Algorithms", Slots: []models.TimeSlot{{Day: models.DayMonday, SlotNumbers: []int{1}, Duration: 1}}},
	}
	days := GenerateRange(day(2025, time.January, 6), day(2025, time.January, 31), now, subjects, HolidayCalendar{})

	overlay := SeedAttendance(days, nil)
	// Only the two Mondays on or before the 14th are editable.
	require.Len(t, overlay, 2)
	assert.True(t, overlay["s1-2025-01-06-1"])
	assert.True(t, overlay["s1-2025-01-13-1"])
}

func TestSeedAttendanceTargetClampedToHeldSessions(t *testing.T) {
	now := day(2025, time.January, 7)
	subjects := []models.Subject{
		{ID: "s1", Name: "Algorithms", Slots: []models.TimeSlot{{Day: models.DayMonday, SlotNumbers: []int{1}, Duration: 1}}},
	}
	days := GenerateRange(day(2025, time.January, 6), day(2025, time.January, 31), now, subjects, HolidayCalendar{})

	overlay := SeedAttendance(days, map[string]AttendanceTarget{
		"Algorithms": {Attended: 10, Total: 12},
	})
	require.Len(t, overlay, 1)
	assert.True(t, overlay["s1-2025-01-06-1"])
}

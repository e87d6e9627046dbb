package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaterializeRoundTrip(t *testing.T) {
	now := day(2025, time.June, 1)
	raw := GenerateRange(day(2025, time.January, 6), day(2025, time.January, 12), now, mondaySubject(), HolidayCalendar{})

	ov := Overlay{
		Attendance:   map[string]bool{"s1-2025-01-06-1": true, "s1-2025-01-06-2": false},
		PlannedSkips: map[string]bool{"s1-2025-01-06-2": true},
		HomeDays:     map[string]bool{"2025-01-07": true},
	}
	merged := Materialize(raw, ov)

	require.Len(t, merged, len(raw))
	require.Len(t, merged[0].Classes, 2)
	assert.True(t, merged[0].Classes[0].Attended)
	assert.False(t, merged[0].Classes[0].PlannedSkip)
	assert.False(t, merged[0].Classes[1].Attended)
	assert.True(t, merged[0].Classes[1].PlannedSkip)
	assert.True(t, merged[1].IsHomeDay)
	assert.False(t, merged[0].IsHomeDay)
}

func TestMaterializeMissingEntriesReadFalse(t *testing.T) {
	now := day(2025, time.June, 1)
	raw := GenerateRange(day(2025, time.January, 6), day(2025, time.January, 6), now, mondaySubject(), HolidayCalendar{})

	merged := Materialize(raw, Overlay{})
	require.Len(t, merged, 1)
	for _, session := range merged[0].Classes {
		assert.False(t, session.Attended)
		assert.False(t, session.PlannedSkip)
	}
}

func TestMaterializeDoesNotMutateInput(t *testing.T) {
	now := day(2025, time.June, 1)
	raw := GenerateRange(day(2025, time.January, 6), day(2025, time.January, 6), now, mondaySubject(), HolidayCalendar{})

	_ = Materialize(raw, Overlay{Attendance: map[string]bool{raw[0].Classes[0].ID: true}})
	assert.False(t, raw[0].Classes[0].Attended)
}

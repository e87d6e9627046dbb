package schedule

import "github.com/twill-app/twill-api/internal/models"

// Overlay carries the three sparse override maps. Absent keys always read as
// false; a transiently missing map is treated as "no overrides" rather than
// an error.
type Overlay struct {
	Attendance   map[string]bool
	PlannedSkips map[string]bool
	HomeDays     map[string]bool
}

// Materialize merges the overlay onto a raw schedule and returns a new
// schedule; the input is not mutated. It is a pure function of its inputs.
// No partial results are cached across calls because any of the maps or the
// schedule itself may change independently.
func Materialize(days []models.DaySchedule, ov Overlay) []models.DaySchedule {
	result := make([]models.DaySchedule, len(days))
	for i, day := range days {
		merged := day
		merged.IsHomeDay = ov.HomeDays[DateKey(day.Date)]
		merged.Classes = make([]models.ClassSession, len(day.Classes))
		for j, session := range day.Classes {
			session.Attended = ov.Attendance[session.ID]
			session.PlannedSkip = ov.PlannedSkips[session.ID]
			merged.Classes[j] = session
		}
		result[i] = merged
	}
	return result
}

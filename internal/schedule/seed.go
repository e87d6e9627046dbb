package schedule

import "github.com/twill-app/twill-api/internal/models"

// AttendanceTarget captures a known attended/total ratio for one subject,
// used to backfill attendance when a semester is created mid-term.
type AttendanceTarget struct {
	Attended int `json:"attended" validate:"gte=0"`
	Total    int `json:"total" validate:"gte=0"`
}

// SeedAttendance builds an initial attendance overlay from per-subject target
// ratios. For each subject the earliest sessions held to date are marked
// attended until the target count is reached; subjects without a target are
// marked fully attended. Targets are keyed by subject name, matching how
// ratios are usually known to the user.
func SeedAttendance(days []models.DaySchedule, targets map[string]AttendanceTarget) map[string]bool {
	bySubject := make(map[string][]models.ClassSession)
	for _, day := range days {
		for _, session := range day.Classes {
			if !session.CanEdit {
				continue
			}
			bySubject[session.SubjectName] = append(bySubject[session.SubjectName], session)
		}
	}

	overlay := make(map[string]bool)
	for name, sessions := range bySubject {
		target, ok := targets[name]
		if !ok {
			for _, session := range sessions {
				overlay[session.ID] = true
			}
			continue
		}
		attended := target.Attended
		if attended > len(sessions) {
			attended = len(sessions)
		}
		for i, session := range sessions {
			overlay[session.ID] = i < attended
		}
	}
	return overlay
}

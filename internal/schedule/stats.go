package schedule

import (
	"fmt"
	"math"

	"github.com/twill-app/twill-api/internal/models"
)

// DefaultRequiredPercentage is the customary minimum attendance threshold.
const DefaultRequiredPercentage = 75.0

// CalculateStats aggregates attendance over the given sessions. Units are
// hours of class duration. An empty session set reports 0%, never NaN.
func CalculateStats(sessions []models.ClassSession, requiredPercentage float64) models.AttendanceStats {
	var totalUnits, attendedUnits float64
	for _, session := range sessions {
		totalUnits += session.Duration
		if session.Attended {
			attendedUnits += session.Duration
		}
	}

	var percentage float64
	if totalUnits > 0 {
		percentage = attendedUnits / totalUnits * 100
	}
	requiredUnits := math.Ceil(totalUnits * requiredPercentage / 100)

	return models.AttendanceStats{
		TotalUnits:    totalUnits,
		AttendedUnits: attendedUnits,
		Percentage:    percentage,
		RequiredUnits: requiredUnits,
		UnitsCanSkip:  math.Max(0, attendedUnits-requiredUnits),
	}
}

// AllSessions flattens every session in the schedule, past and future.
func AllSessions(days []models.DaySchedule) []models.ClassSession {
	var sessions []models.ClassSession
	for _, day := range days {
		sessions = append(sessions, day.Classes...)
	}
	return sessions
}

// EditableSessions flattens only sessions held to date (canEdit true).
func EditableSessions(days []models.DaySchedule) []models.ClassSession {
	var sessions []models.ClassSession
	for _, day := range days {
		for _, session := range day.Classes {
			if session.CanEdit {
				sessions = append(sessions, session)
			}
		}
	}
	return sessions
}

// SubjectStats partitions the editable (to-date) sessions by subject and
// computes stats for each partition. Subjects with no sessions held yet still
// appear, with zero totals.
func SubjectStats(days []models.DaySchedule, subjects []models.Subject, requiredPercentage float64) []models.SubjectAttendance {
	editable := EditableSessions(days)
	bySubject := make(map[string][]models.ClassSession, len(subjects))
	for _, session := range editable {
		bySubject[session.SubjectID] = append(bySubject[session.SubjectID], session)
	}

	result := make([]models.SubjectAttendance, 0, len(subjects))
	for _, subject := range subjects {
		result = append(result, models.SubjectAttendance{
			SubjectID:   subject.ID,
			SubjectName: subject.Name,
			Stats:       CalculateStats(bySubject[subject.ID], requiredPercentage),
		})
	}
	return result
}

// ProjectSkips computes the semester-wide forward projection. The required
// target is taken over ALL sessions, past and future; future sessions marked
// as planned skips are assumed missed and every other future session is
// assumed attended. UnitsCanSkip is the number of additional future units
// that may still be skipped without breaching the threshold.
func ProjectSkips(days []models.DaySchedule, requiredPercentage float64) models.SkipProjection {
	var totalUnits, attendedUnits, plannedSkipUnits, plannedAttendUnits float64
	for _, day := range days {
		for _, session := range day.Classes {
			totalUnits += session.Duration
			if session.CanEdit {
				if session.Attended {
					attendedUnits += session.Duration
				}
				continue
			}
			if session.PlannedSkip {
				plannedSkipUnits += session.Duration
			} else {
				plannedAttendUnits += session.Duration
			}
		}
	}

	requiredUnits := math.Ceil(totalUnits * requiredPercentage / 100)
	projected := attendedUnits + plannedAttendUnits

	return models.SkipProjection{
		TotalSemesterUnits:     totalUnits,
		RequiredUnits:          requiredUnits,
		AttendedUnits:          attendedUnits,
		PlannedSkipUnits:       plannedSkipUnits,
		PlannedAttendUnits:     plannedAttendUnits,
		ProjectedTotalAttended: projected,
		UnitsCanSkip:           math.Max(0, projected-requiredUnits),
	}
}

// FormatPercentage renders a percentage with two decimals and a % suffix.
func FormatPercentage(percentage float64) string {
	return fmt.Sprintf("%.2f%%", percentage)
}

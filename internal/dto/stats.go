package dto

import "github.com/twill-app/twill-api/internal/models"

// StatsResponse aggregates the to-date overall stats, the per-subject
// breakdown and the semester-wide skip projection.
type StatsResponse struct {
	Overall             models.AttendanceStats     `json:"overall"`
	PercentageFormatted string                     `json:"percentage_formatted"`
	Subjects            []models.SubjectAttendance `json:"subjects"`
	Projection          models.SkipProjection      `json:"projection"`
}

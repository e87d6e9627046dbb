package dto

import "github.com/twill-app/twill-api/internal/models"

// ScheduleQuery narrows the generated schedule to a sub-range of the
// semester. Absent bounds default to the semester start and end.
type ScheduleQuery struct {
	From string `form:"from"`
	To   string `form:"to"`
}

// ScheduleResponse carries the materialized day schedules in ascending date
// order.
type ScheduleResponse struct {
	Days []models.DaySchedule `json:"days"`
}

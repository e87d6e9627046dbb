package models

import "time"

// ClassSession is one scheduled occurrence of a subject at a specific date
// and slot number. The ID is derived from (subjectID, date, slotNumber) so it
// stays stable across schedule regenerations; attendance and planned-skip
// state is keyed by it.
type ClassSession struct {
	ID          string  `json:"id"`
	SubjectID   string  `json:"subject_id"`
	SubjectName string  `json:"subject_name"`
	SlotNumber  int     `json:"slot_number"`
	Duration    float64 `json:"duration"`
	Attended    bool    `json:"attended"`
	CanEdit     bool    `json:"can_edit"`
	PlannedSkip bool    `json:"planned_skip"`
}

// DaySchedule is the derived schedule for a single calendar day. It is never
// persisted; it is recomputed from the semester definition plus the override
// maps on every read. A holiday day carries no classes.
type DaySchedule struct {
	Date        time.Time      `json:"date"`
	Classes     []ClassSession `json:"classes"`
	IsHoliday   bool           `json:"is_holiday"`
	HolidayName string         `json:"holiday_name,omitempty"`
	IsHomeDay   bool           `json:"is_home_day"`
}

package models

import "time"

// AttendanceStats aggregates attendance in units (hours of class duration).
// Always recomputed, never persisted.
type AttendanceStats struct {
	TotalUnits    float64 `json:"total_units"`
	AttendedUnits float64 `json:"attended_units"`
	Percentage    float64 `json:"percentage"`
	RequiredUnits float64 `json:"required_units"`
	UnitsCanSkip  float64 `json:"units_can_skip"`
}

// SubjectAttendance pairs a subject with its to-date stats.
type SubjectAttendance struct {
	SubjectID   string          `json:"subject_id"`
	SubjectName string          `json:"subject_name"`
	Stats       AttendanceStats `json:"stats"`
}

// SkipProjection is the forward-looking semester-wide projection. Its
// required-units target is computed against the full semester, not just the
// classes held to date.
type SkipProjection struct {
	TotalSemesterUnits     float64 `json:"total_semester_units"`
	RequiredUnits          float64 `json:"required_units"`
	AttendedUnits          float64 `json:"attended_units"`
	PlannedSkipUnits       float64 `json:"planned_skip_units"`
	PlannedAttendUnits     float64 `json:"planned_attend_units"`
	ProjectedTotalAttended float64 `json:"projected_total_attended"`
	UnitsCanSkip           float64 `json:"units_can_skip"`
}

// AttendanceMark is one persisted attendance override, keyed by session id.
type AttendanceMark struct {
	UserID    string    `db:"user_id"`
	SessionID string    `db:"session_id"`
	Attended  bool      `db:"attended"`
	UpdatedAt time.Time `db:"updated_at"`
}

// PlannedSkip is one persisted planned-skip override, keyed by session id.
type PlannedSkip struct {
	UserID    string    `db:"user_id"`
	SessionID string    `db:"session_id"`
	Skip      bool      `db:"skip"`
	UpdatedAt time.Time `db:"updated_at"`
}

// HomeDay is one persisted home-day flag, keyed by the local YYYY-MM-DD key
// because home-day status applies to a whole day rather than a session.
type HomeDay struct {
	UserID    string    `db:"user_id"`
	DayKey    string    `db:"day_key"`
	IsHomeDay bool      `db:"is_home_day"`
	UpdatedAt time.Time `db:"updated_at"`
}

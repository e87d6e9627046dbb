package models

import "time"

// Weekday labels used by recurring time slots. Sunday never carries classes
// and therefore has no label.
const (
	DayMonday    = "MON"
	DayTuesday   = "TUE"
	DayWednesday = "WED"
	DayThursday  = "THU"
	DayFriday    = "FRI"
	DaySaturday  = "SAT"
)

// WeekdayLabel maps time.Weekday onto the slot day labels.
func WeekdayLabel(d time.Weekday) string {
	switch d {
	case time.Monday:
		return DayMonday
	case time.Tuesday:
		return DayTuesday
	case time.Wednesday:
		return DayWednesday
	case time.Thursday:
		return DayThursday
	case time.Friday:
		return DayFriday
	case time.Saturday:
		return DaySaturday
	default:
		return "SUN"
	}
}

// TimeSlot is a recurring weekly time position belonging to a subject. A slot
// may span several period numbers; Duration is the total hours for the whole
// slot and is split equally across the period numbers when sessions are
// generated.
type TimeSlot struct {
	Day         string  `json:"day" validate:"required,oneof=MON TUE WED THU FRI SAT"`
	SlotNumbers []int   `json:"slot_numbers" validate:"required,min=1,dive,gt=0"`
	Duration    float64 `json:"duration" validate:"required,gt=0"`
}

// Subject is owned by the semester definition and immutable after creation.
type Subject struct {
	ID    string     `json:"id"`
	Name  string     `json:"name" validate:"required"`
	Slots []TimeSlot `json:"slots" validate:"required,min=1,dive"`
}

// CustomHoliday is a user-declared holiday. It is checked independently of
// the auto-holiday rules and can never be cancelled by an auto-holiday
// exclusion.
type CustomHoliday struct {
	ID          string    `db:"id" json:"id"`
	Date        time.Time `db:"holiday_date" json:"date"`
	Name        string    `db:"name" json:"name"`
	Description *string   `db:"description" json:"description,omitempty"`
}

// Semester is the full semester definition for one user. StartDate and
// EndDate are inclusive calendar days. CustomHolidays and
// ExcludedAutoHolidays are the only fields mutated after creation.
type Semester struct {
	ID                   string          `db:"id" json:"id"`
	UserID               string          `db:"user_id" json:"-"`
	StartDate            time.Time       `db:"start_date" json:"start_date"`
	EndDate              time.Time       `db:"end_date" json:"end_date"`
	Subjects             []Subject       `json:"subjects"`
	Holidays             []time.Time     `json:"holidays"`
	CustomHolidays       []CustomHoliday `json:"custom_holidays"`
	ExcludedAutoHolidays []time.Time     `json:"excluded_auto_holidays"`
	CreatedAt            time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time       `db:"updated_at" json:"updated_at"`
}

package dto

import (
	"github.com/twill-app/twill-api/internal/models"
	"github.com/twill-app/twill-api/internal/schedule"
)

// SlotInput declares one recurring weekly slot for a subject.
type SlotInput struct {
	Day         string  `json:"day" validate:"required,oneof=MON TUE WED THU FRI SAT"`
	SlotNumbers []int   `json:"slot_numbers" validate:"required,min=1,dive,gt=0"`
	Duration    float64 `json:"duration" validate:"required,gt=0"`
}

// SubjectInput declares one subject with its weekly slots.
type SubjectInput struct {
	Name  string      `json:"name" validate:"required"`
	Slots []SlotInput `json:"slots" validate:"required,min=1,dive"`
}

// CreateSemesterRequest defines a new semester. Dates use the local
// YYYY-MM-DD form. TargetRatios optionally backfills attendance for a
// semester created mid-term, keyed by subject name.
type CreateSemesterRequest struct {
	StartDate    string                               `json:"start_date" validate:"required"`
	EndDate      string                               `json:"end_date" validate:"required"`
	Subjects     []SubjectInput                       `json:"subjects" validate:"required,min=1,dive"`
	Holidays     []string                             `json:"holidays" validate:"dive,required"`
	TargetRatios map[string]schedule.AttendanceTarget `json:"target_ratios,omitempty"`
}

// CustomHolidayRequest declares a user holiday on a specific date.
type CustomHolidayRequest struct {
	Date        string  `json:"date" validate:"required"`
	Name        string  `json:"name" validate:"required"`
	Description *string `json:"description,omitempty"`
}

// HolidayDateRequest carries a bare date, used for removing custom holidays
// and for excluding or restoring automatic holidays.
type HolidayDateRequest struct {
	Date string `json:"date" validate:"required"`
}

// SemesterResponse wraps the stored semester definition.
type SemesterResponse struct {
	Semester models.Semester `json:"semester"`
}

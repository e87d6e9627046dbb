package schedule

import (
	"fmt"
	"sort"
	"time"

	"github.com/twill-app/twill-api/internal/models"
)

// HolidayCalendar bundles the holiday inputs for expansion. Explicit carries
// both the semester's fixed holidays and the dates of custom holidays; Names
// maps date keys to custom holiday names for presentation.
type HolidayCalendar struct {
	Explicit []time.Time
	Excluded []time.Time
	Names    map[string]string
}

// FromSemester folds a semester definition into the calendar the expander
// consumes. Custom holidays are merged into the explicit list; the predicate
// treats them like any other explicit holiday.
func FromSemester(sem *models.Semester) HolidayCalendar {
	cal := HolidayCalendar{
		Explicit: make([]time.Time, 0, len(sem.Holidays)+len(sem.CustomHolidays)),
		Excluded: sem.ExcludedAutoHolidays,
		Names:    make(map[string]string, len(sem.CustomHolidays)),
	}
	cal.Explicit = append(cal.Explicit, sem.Holidays...)
	for _, h := range sem.CustomHolidays {
		cal.Explicit = append(cal.Explicit, h.Date)
		cal.Names[DateKey(h.Date)] = h.Name
	}
	return cal
}

func (c HolidayCalendar) nameFor(date time.Time) string {
	if name, ok := c.Names[DateKey(date)]; ok && name != "" {
		return name
	}
	return HolidayName(date)
}

// SessionID derives the deterministic identifier for a class session. The
// same (subjectID, date, slotNumber) triple always yields the same id, which
// keeps the sparse override maps valid across schedule regenerations.
func SessionID(subjectID string, date time.Time, slotNumber int) string {
	return fmt.Sprintf("%s-%s-%d", subjectID, DateKey(date), slotNumber)
}

// GenerateDay expands one calendar day. Holidays carry no classes. For a
// class day every slot matching the weekday emits one session per slot
// number, splitting the slot duration equally. Subjects may legally share a
// slot number on the same day; no overlap validation happens here.
func GenerateDay(date, now time.Time, subjects []models.Subject, cal HolidayCalendar) models.DaySchedule {
	if IsHoliday(date, cal.Explicit, cal.Excluded) {
		return models.DaySchedule{
			Date:        date,
			Classes:     []models.ClassSession{},
			IsHoliday:   true,
			HolidayName: cal.nameFor(date),
		}
	}

	dayLabel := models.WeekdayLabel(date.Weekday())
	// Compare calendar days, not instants. The two values can carry different
	// locations (dates come back from the database in UTC, now is wall clock)
	// and an instant comparison would misclassify today near midnight offsets.
	canEdit := DateKey(date) <= DateKey(now)

	classes := make([]models.ClassSession, 0)
	for _, subject := range subjects {
		for _, slot := range subject.Slots {
			if slot.Day != dayLabel {
				continue
			}
			duration := slot.Duration / float64(len(slot.SlotNumbers))
			for _, slotNumber := range slot.SlotNumbers {
				classes = append(classes, models.ClassSession{
					ID:          SessionID(subject.ID, date, slotNumber),
					SubjectID:   subject.ID,
					SubjectName: subject.Name,
					SlotNumber:  slotNumber,
					Duration:    duration,
					CanEdit:     canEdit,
				})
			}
		}
	}
	sort.SliceStable(classes, func(i, j int) bool {
		return classes[i].SlotNumber < classes[j].SlotNumber
	})

	return models.DaySchedule{Date: date, Classes: classes}
}

// GenerateRange expands every calendar day from start to end inclusive, in
// ascending date order. An inverted range yields an empty schedule rather
// than an error. Holiday overrides can flip any day's classification, so the
// range is always regenerated wholesale, never patched incrementally.
func GenerateRange(start, end, now time.Time, subjects []models.Subject, cal HolidayCalendar) []models.DaySchedule {
	days := make([]models.DaySchedule, 0)
	for current := dateOnly(start); !current.After(dateOnly(end)); current = current.AddDate(0, 0, 1) {
		days = append(days, GenerateDay(current, now, subjects, cal))
	}
	return days
}

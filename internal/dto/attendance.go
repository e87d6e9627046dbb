package dto

// SetAttendanceRequest flips the attended flag for one session. Pointer so an
// omitted field fails validation instead of silently reading false.
type SetAttendanceRequest struct {
	Attended *bool `json:"attended" validate:"required"`
}

// SetPlannedSkipRequest flips the planned-skip flag for one future session.
type SetPlannedSkipRequest struct {
	Skip *bool `json:"skip" validate:"required"`
}

// BatchPlannedSkipsRequest updates several planned-skip flags at once, keyed
// by session id. Keys absent from the map are left untouched.
type BatchPlannedSkipsRequest struct {
	Sessions map[string]bool `json:"sessions" validate:"required,min=1"`
}

// SetHomeDayRequest flips the home-day flag for a whole calendar day.
type SetHomeDayRequest struct {
	IsHomeDay *bool `json:"is_home_day" validate:"required"`
}

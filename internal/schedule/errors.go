package schedule

import "errors"

var (
	ErrInvalidDate         = errors.New("invalid date format, use YYYY-MM-DD")
	ErrDateInPast          = errors.New("date is in the past")
	ErrDateBeyondHorizon   = errors.New("date is beyond the booking window")
	ErrClinicClosedWeekday = errors.New("clinic is closed for in-person visits on Sundays and Mondays")
)

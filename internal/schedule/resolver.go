// Package schedule holds the pure slot-availability computation: the recurring
// weekly default, per-date overrides and existing bookings are combined into
// the patient-facing slot list. Nothing here touches storage.
package schedule

import (
	"regexp"
	"sort"
	"time"

	"clinic-backend/internal/domain/entity"
)

// BookingHorizonDays is the patient booking window: today plus the next two
// days are selectable, nothing further out.
const BookingHorizonDays = 3

var timeRe = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)

// NormalizeTime validates an HH:MM 24-hour value and zero-pads the hour.
// Returns "" for anything that is not a valid time of day.
func NormalizeTime(s string) string {
	m := timeRe.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	hh := int(m[1][0] - '0')
	if len(m[1]) == 2 {
		hh = hh*10 + int(m[1][1]-'0')
	}
	mm := int(m[2][0]-'0')*10 + int(m[2][1]-'0')
	if hh > 23 || mm > 59 {
		return ""
	}
	out := []byte{'0' + byte(hh/10), '0' + byte(hh%10), ':', m[2][0], m[2][1]}
	return string(out)
}

// NormalizeSlots normalizes, de-duplicates and sorts a slot list. Invalid
// entries are dropped. Lexicographic order is chronological because the
// format is zero-padded 24-hour.
func NormalizeSlots(slots []string) []string {
	seen := make(map[string]struct{}, len(slots))
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		norm := NormalizeTime(s)
		if norm == "" {
			continue
		}
		if _, ok := seen[norm]; ok {
			continue
		}
		seen[norm] = struct{}{}
		out = append(out, norm)
	}
	sort.Strings(out)
	return out
}

// Resolve computes the patient-facing slot list: the default schedule,
// replaced by the override when one customizes the date, minus booked times.
//
//	override == nil            -> defaults
//	override.Closed            -> nothing bookable
//	override has slots         -> those replace the defaults
//	override without slots     -> defaults (an explicit revert)
func Resolve(defaults []string, override *entity.AvailabilityOverride, booked []string) []string {
	base := defaults
	if override != nil {
		if override.Closed {
			return []string{}
		}
		if len(override.Slots) > 0 {
			base = override.Slots
		}
	}

	taken := make(map[string]struct{}, len(booked))
	for _, b := range booked {
		if norm := NormalizeTime(b); norm != "" {
			taken[norm] = struct{}{}
		}
	}

	out := make([]string, 0, len(base))
	for _, s := range NormalizeSlots(base) {
		if _, ok := taken[s]; !ok {
			out = append(out, s)
		}
	}
	return out
}

// ValidateDate checks a booking date against the horizon and the weekday
// rules: dates must fall in [today, today+2], and offline consultations are
// never available on Sunday or Monday.
func ValidateDate(date string, consultType entity.ConsultType, now time.Time) error {
	d, err := time.ParseInLocation("2006-01-02", date, now.Location())
	if err != nil {
		return ErrInvalidDate
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if d.Before(today) {
		return ErrDateInPast
	}
	if !d.Before(today.AddDate(0, 0, BookingHorizonDays)) {
		return ErrDateBeyondHorizon
	}
	if consultType == entity.ConsultOffline {
		if wd := d.Weekday(); wd == time.Sunday || wd == time.Monday {
			return ErrClinicClosedWeekday
		}
	}
	return nil
}

// SlotBuckets partitions a slot list for display: Morning before 12:00,
// Afternoon 12:00 up to 18:00, Evening from 18:00.
type SlotBuckets struct {
	Morning   []string `json:"morning"`
	Afternoon []string `json:"afternoon"`
	Evening   []string `json:"evening"`
}

// Partition buckets an already-normalized slot list. Order within each bucket
// follows the input order.
func Partition(slots []string) SlotBuckets {
	b := SlotBuckets{
		Morning:   []string{},
		Afternoon: []string{},
		Evening:   []string{},
	}
	for _, s := range slots {
		switch {
		case s < "12:00":
			b.Morning = append(b.Morning, s)
		case s < "18:00":
			b.Afternoon = append(b.Afternoon, s)
		default:
			b.Evening = append(b.Evening, s)
		}
	}
	return b
}

// Contains reports whether the normalized slot list contains t.
func Contains(slots []string, t string) bool {
	norm := NormalizeTime(t)
	if norm == "" {
		return false
	}
	for _, s := range slots {
		if s == norm {
			return true
		}
	}
	return false
}

package entity

import (
	"fmt"
	"time"
)

// ConsultType is the consultation category. Slots, weekday restrictions and
// payment requirements differ by type.
type ConsultType string

const (
	ConsultOnline  ConsultType = "online"
	ConsultOffline ConsultType = "offline"
)

// Valid reports whether the value is one of the two known consult types.
func (c ConsultType) Valid() bool {
	return c == ConsultOnline || c == ConsultOffline
}

// AppointmentStatus represents the booking lifecycle:
// booked -> confirmed -> completed, or cancelled.
type AppointmentStatus string

const (
	AppointmentStatusBooked    AppointmentStatus = "booked"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

// PaymentStatus tracks the online-consultation payment lifecycle.
type PaymentStatus string

const (
	PaymentNotProvided         PaymentStatus = "not_provided"
	PaymentPendingVerification PaymentStatus = "pending_verification"
	PaymentVerified            PaymentStatus = "verified"
)

// Gender values accepted for patient demographics.
const (
	GenderMale   = "male"
	GenderFemale = "female"
)

// Appointment is a confirmed-or-pending clinic booking. Exactly one active
// appointment may occupy a (date, time, consult_type) triple; the partial
// unique index in the schema is the authority, the Redis hold is the fast path.
type Appointment struct {
	ID            uint              `gorm:"primaryKey;autoIncrement" json:"id"`
	BookingID     string            `gorm:"type:varchar(50);uniqueIndex;not null" json:"booking_id"`
	Date          string            `gorm:"type:varchar(10);not null;index" json:"date"` // YYYY-MM-DD
	Time          string            `gorm:"type:varchar(5);not null" json:"time"`        // HH:MM, 24h
	PatientName   string            `gorm:"type:varchar(255);not null" json:"patient_name"`
	PatientPhone  string            `gorm:"type:varchar(10);not null;index" json:"patient_phone"`
	Age           int               `gorm:"not null" json:"age"`
	Gender        string            `gorm:"type:varchar(10);not null" json:"gender"`
	ConsultType   ConsultType       `gorm:"type:varchar(10);not null" json:"consult_type"`
	Status        AppointmentStatus `gorm:"type:varchar(20);not null;default:'booked';index" json:"status"`
	PaymentStatus PaymentStatus     `gorm:"type:varchar(30);not null;default:'not_provided'" json:"payment_status"`
	PaymentRef    string            `gorm:"type:varchar(100)" json:"payment_ref,omitempty"`
	CreatedAt     time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Appointment) TableName() string {
	return "appointments"
}

func (a *Appointment) IsActive() bool {
	return a.Status != AppointmentStatusCancelled
}

// IsConfirmable reports whether the dashboard confirm action applies: online
// bookings awaiting payment verification only.
func (a *Appointment) IsConfirmable() bool {
	return a.ConsultType == ConsultOnline &&
		a.Status == AppointmentStatusBooked &&
		a.PaymentStatus == PaymentPendingVerification
}

// Confirm marks the booking confirmed with payment verified.
func (a *Appointment) Confirm() {
	a.Status = AppointmentStatusConfirmed
	a.PaymentStatus = PaymentVerified
}

// StartsAt parses the appointment's date and time in the given location.
func (a *Appointment) StartsAt(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation("2006-01-02 15:04", a.Date+" "+a.Time, loc)
}

// Join window for online consultations relative to the scheduled time.
const (
	JoinWindowBefore = 5 * time.Minute
	JoinWindowAfter  = 30 * time.Minute
)

// CanJoinCall reports whether the video session may be joined at now:
// online consultations only, within [start-5m, start+30m].
func (a *Appointment) CanJoinCall(now time.Time) bool {
	if a.ConsultType != ConsultOnline {
		return false
	}
	start, err := a.StartsAt(now.Location())
	if err != nil {
		return false
	}
	return !now.Before(start.Add(-JoinWindowBefore)) && !now.After(start.Add(JoinWindowAfter))
}

// VideoRoomName returns the named video session for this booking.
func (a *Appointment) VideoRoomName() string {
	return fmt.Sprintf("clinic-consult-%s", a.BookingID)
}

// AppointmentFilter is a domain-level filter for the dashboard listing.
// Empty Status means all statuses; dates are YYYY-MM-DD, inclusive.
type AppointmentFilter struct {
	Status    string
	StartDate string
	EndDate   string
}

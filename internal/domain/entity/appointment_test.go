package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func onlineAppointment() *Appointment {
	return &Appointment{
		BookingID:   "BK-20250701-0A1B2C",
		Date:        "2025-07-01",
		Time:        "20:00",
		ConsultType: ConsultOnline,
		Status:      AppointmentStatusBooked,
	}
}

func TestIsConfirmable(t *testing.T) {
	a := onlineAppointment()
	a.PaymentStatus = PaymentPendingVerification
	assert.True(t, a.IsConfirmable())

	t.Run("offline bookings are never confirmable", func(t *testing.T) {
		b := onlineAppointment()
		b.ConsultType = ConsultOffline
		b.PaymentStatus = PaymentPendingVerification
		assert.False(t, b.IsConfirmable())
	})

	t.Run("already confirmed is not confirmable again", func(t *testing.T) {
		b := onlineAppointment()
		b.PaymentStatus = PaymentPendingVerification
		b.Confirm()
		assert.False(t, b.IsConfirmable())
		assert.Equal(t, AppointmentStatusConfirmed, b.Status)
		assert.Equal(t, PaymentVerified, b.PaymentStatus)
	})

	t.Run("payment not provided is not confirmable", func(t *testing.T) {
		b := onlineAppointment()
		b.PaymentStatus = PaymentNotProvided
		assert.False(t, b.IsConfirmable())
	})
}

func TestCanJoinCall(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Kolkata")
	assert.NoError(t, err)

	a := onlineAppointment()
	start := time.Date(2025, 7, 1, 20, 0, 0, 0, loc)

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"six minutes early", start.Add(-6 * time.Minute), false},
		{"five minutes early", start.Add(-5 * time.Minute), true},
		{"at start", start, true},
		{"thirty minutes late", start.Add(30 * time.Minute), true},
		{"thirty one minutes late", start.Add(31 * time.Minute), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, a.CanJoinCall(tt.now))
		})
	}

	t.Run("offline never joinable", func(t *testing.T) {
		b := onlineAppointment()
		b.ConsultType = ConsultOffline
		assert.False(t, b.CanJoinCall(start))
	})
}

func TestVideoRoomName(t *testing.T) {
	a := onlineAppointment()
	assert.Equal(t, "clinic-consult-BK-20250701-0A1B2C", a.VideoRoomName())
}

func TestIsActive(t *testing.T) {
	a := onlineAppointment()
	assert.True(t, a.IsActive())
	a.Status = AppointmentStatusCancelled
	assert.False(t, a.IsActive())
}

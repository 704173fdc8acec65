package usecase

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"clinic-backend/internal/domain/entity"
)

func TestGenerateBookingID(t *testing.T) {
	re := regexp.MustCompile(`^BK-20250701-[0-9A-F]{6}$`)

	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		id := generateBookingID("2025-07-01")
		assert.Regexp(t, re, id)
		seen[id] = struct{}{}
	}
	// 100 draws from a 24-bit space colliding would be remarkable.
	assert.Greater(t, len(seen), 95)
}

func TestCheckAppointments(t *testing.T) {
	apptRepo := new(MockAppointmentRepository)
	u := NewBookingUsecase(newStubDB(t), logrus.New(), time.UTC, apptRepo, nil, nil, nil, nil)

	t.Run("returns all appointments for the phone", func(t *testing.T) {
		apptRepo.On("FindByPhone", mock.Anything, "9876543210").Return([]entity.Appointment{
			{
				BookingID:    "BK-20250703-A1B2C3",
				Date:         "2025-07-03",
				Time:         "10:30",
				PatientName:  "Asha Rao",
				PatientPhone: "9876543210",
				ConsultType:  entity.ConsultOffline,
				Status:       entity.AppointmentStatusConfirmed,
			},
			{
				BookingID:    "BK-20250701-D4E5F6",
				Date:         "2025-07-01",
				Time:         "11:00",
				PatientName:  "Asha Rao",
				PatientPhone: "9876543210",
				ConsultType:  entity.ConsultOnline,
				Status:       entity.AppointmentStatusCompleted,
			},
		}, nil).Once()

		resp, err := u.CheckAppointments(context.Background(), "9876543210")
		assert.NoError(t, err)
		assert.True(t, resp.Success)
		assert.Len(t, resp.Appointments, 2)
		assert.Equal(t, "BK-20250703-A1B2C3", resp.Appointments[0].BookingID)
		assert.Equal(t, "9876543210", resp.Appointments[0].PatientPhone)
	})

	t.Run("no appointments is a normal empty result", func(t *testing.T) {
		apptRepo.On("FindByPhone", mock.Anything, "9000000000").Return([]entity.Appointment{}, nil).Once()

		resp, err := u.CheckAppointments(context.Background(), "9000000000")
		assert.NoError(t, err)
		assert.True(t, resp.Success)
		assert.Empty(t, resp.Appointments)
	})
}

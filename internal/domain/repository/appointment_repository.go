package repository

import (
	"clinic-backend/internal/domain/entity"

	"gorm.io/gorm"
)

type AppointmentRepository interface {
	Create(db *gorm.DB, appointment *entity.Appointment) error
	FindByID(db *gorm.DB, id uint) (*entity.Appointment, error)
	FindByBookingID(db *gorm.DB, bookingID string) (*entity.Appointment, error)
	// BookedTimes returns the times of active (non-cancelled) bookings for one
	// date and consult type.
	BookedTimes(db *gorm.DB, date string, consultType entity.ConsultType) ([]string, error)
	FindFiltered(db *gorm.DB, filter entity.AppointmentFilter) ([]entity.Appointment, error)
	// FindByPhone returns all appointments booked under a patient phone
	// number, newest first.
	FindByPhone(db *gorm.DB, phone string) ([]entity.Appointment, error)
	Save(db *gorm.DB, appointment *entity.Appointment) error
}

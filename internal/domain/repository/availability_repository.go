package repository

import (
	"clinic-backend/internal/domain/entity"

	"gorm.io/gorm"
)

type AvailabilityOverrideRepository interface {
	Find(db *gorm.DB, date string, consultType entity.ConsultType) (*entity.AvailabilityOverride, error)
	Upsert(db *gorm.DB, override *entity.AvailabilityOverride) error
	// Delete removes any override for the key; deleting a missing override is
	// not an error (the operation is idempotent).
	Delete(db *gorm.DB, date string, consultType entity.ConsultType) error
}

type DefaultScheduleRepository interface {
	FindByWeekday(db *gorm.DB, weekday int, consultType entity.ConsultType) (*entity.DefaultSchedule, error)
	// UpsertSlots replaces the slot list for a (weekday, consultType) row,
	// creating the row if absent.
	UpsertSlots(db *gorm.DB, weekday int, consultType entity.ConsultType, slots entity.StringList) error
}

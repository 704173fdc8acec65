package repository

import (
	"errors"

	"clinic-backend/internal/domain/entity"
	domainRepo "clinic-backend/internal/domain/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type availabilityOverrideRepository struct{}

func NewAvailabilityOverrideRepository() domainRepo.AvailabilityOverrideRepository {
	return &availabilityOverrideRepository{}
}

func (r *availabilityOverrideRepository) Find(db *gorm.DB, date string, consultType entity.ConsultType) (*entity.AvailabilityOverride, error) {
	var override entity.AvailabilityOverride
	err := db.Where("date = ? AND consult_type = ?", date, consultType).First(&override).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &override, nil
}

func (r *availabilityOverrideRepository) Upsert(db *gorm.DB, override *entity.AvailabilityOverride) error {
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "date"}, {Name: "consult_type"}},
		DoUpdates: clause.AssignmentColumns([]string{"closed", "slots", "apply_mode", "updated_at"}),
	}).Create(override).Error
}

func (r *availabilityOverrideRepository) Delete(db *gorm.DB, date string, consultType entity.ConsultType) error {
	return db.Where("date = ? AND consult_type = ?", date, consultType).
		Delete(&entity.AvailabilityOverride{}).Error
}

type defaultScheduleRepository struct{}

func NewDefaultScheduleRepository() domainRepo.DefaultScheduleRepository {
	return &defaultScheduleRepository{}
}

func (r *defaultScheduleRepository) FindByWeekday(db *gorm.DB, weekday int, consultType entity.ConsultType) (*entity.DefaultSchedule, error) {
	var schedule entity.DefaultSchedule
	err := db.Where("weekday = ? AND consult_type = ?", weekday, consultType).First(&schedule).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &schedule, nil
}

func (r *defaultScheduleRepository) UpsertSlots(db *gorm.DB, weekday int, consultType entity.ConsultType, slots entity.StringList) error {
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "weekday"}, {Name: "consult_type"}},
		DoUpdates: clause.AssignmentColumns([]string{"slots", "updated_at"}),
	}).Create(&entity.DefaultSchedule{
		Weekday:     weekday,
		ConsultType: consultType,
		Slots:       slots,
	}).Error
}

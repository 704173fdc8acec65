package repository

import (
	"errors"

	"clinic-backend/internal/domain/entity"
	domainRepo "clinic-backend/internal/domain/repository"

	"gorm.io/gorm"
)

type prescriptionRepository struct{}

func NewPrescriptionRepository() domainRepo.PrescriptionRepository {
	return &prescriptionRepository{}
}

func (r *prescriptionRepository) Create(db *gorm.DB, prescription *entity.Prescription) error {
	return db.Create(prescription).Error
}

func (r *prescriptionRepository) FindByID(db *gorm.DB, id uint) (*entity.Prescription, error) {
	var prescription entity.Prescription
	err := db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	}).Where("id = ?", id).First(&prescription).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &prescription, nil
}

func (r *prescriptionRepository) FindByPhone(db *gorm.DB, phone string, sentOnly bool) ([]entity.Prescription, error) {
	query := db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	}).Where("patient_phone = ?", phone)
	if sentOnly {
		query = query.Where("sent = ?", true)
	}

	var prescriptions []entity.Prescription
	err := query.Order("created_at DESC").Find(&prescriptions).Error
	if err != nil {
		return nil, err
	}
	return prescriptions, nil
}

func (r *prescriptionRepository) MarkSent(db *gorm.DB, id uint) (int64, error) {
	result := db.Model(&entity.Prescription{}).
		Where("id = ? AND sent = ?", id, false).
		Update("sent", true)
	return result.RowsAffected, result.Error
}

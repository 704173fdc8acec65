package repository

import (
	"clinic-backend/internal/domain/entity"

	"gorm.io/gorm"
)

type PrescriptionRepository interface {
	Create(db *gorm.DB, prescription *entity.Prescription) error
	FindByID(db *gorm.DB, id uint) (*entity.Prescription, error)
	// FindByPhone returns prescriptions for a patient phone number, newest
	// first. When sentOnly is true drafts are excluded.
	FindByPhone(db *gorm.DB, phone string, sentOnly bool) ([]entity.Prescription, error)
	MarkSent(db *gorm.DB, id uint) (int64, error)
}

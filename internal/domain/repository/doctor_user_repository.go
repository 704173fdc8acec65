package repository

import (
	"clinic-backend/internal/domain/entity"

	"gorm.io/gorm"
)

type DoctorUserRepository interface {
	FindByEmail(db *gorm.DB, email string) (*entity.DoctorUser, error)
}

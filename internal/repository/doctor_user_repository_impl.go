package repository

import (
	"errors"

	"clinic-backend/internal/domain/entity"
	domainRepo "clinic-backend/internal/domain/repository"

	"gorm.io/gorm"
)

type doctorUserRepository struct{}

func NewDoctorUserRepository() domainRepo.DoctorUserRepository {
	return &doctorUserRepository{}
}

func (r *doctorUserRepository) FindByEmail(db *gorm.DB, email string) (*entity.DoctorUser, error) {
	var user entity.DoctorUser
	err := db.Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

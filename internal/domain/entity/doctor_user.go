package entity

import (
	"time"

	"github.com/google/uuid"
)

// DoctorUser is the single practitioner account used to access the dashboard,
// availability editor and prescription writer. Patients do not have accounts.
type DoctorUser struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Email     string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"type:text;not null" json:"-"`
	FullName  string    `gorm:"type:varchar(255);not null" json:"full_name"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (DoctorUser) TableName() string {
	return "doctor_users"
}

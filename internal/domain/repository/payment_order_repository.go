package repository

import (
	"clinic-backend/internal/domain/entity"

	"gorm.io/gorm"
)

type PaymentOrderRepository interface {
	Create(db *gorm.DB, order *entity.PaymentOrder) error
	FindByOrderID(db *gorm.DB, orderID string) (*entity.PaymentOrder, error)
	Save(db *gorm.DB, order *entity.PaymentOrder) error
}

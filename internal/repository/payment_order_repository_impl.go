package repository

import (
	"errors"

	"clinic-backend/internal/domain/entity"
	domainRepo "clinic-backend/internal/domain/repository"

	"gorm.io/gorm"
)

type paymentOrderRepository struct{}

func NewPaymentOrderRepository() domainRepo.PaymentOrderRepository {
	return &paymentOrderRepository{}
}

func (r *paymentOrderRepository) Create(db *gorm.DB, order *entity.PaymentOrder) error {
	return db.Create(order).Error
}

func (r *paymentOrderRepository) FindByOrderID(db *gorm.DB, orderID string) (*entity.PaymentOrder, error) {
	var order entity.PaymentOrder
	err := db.Where("order_id = ?", orderID).First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

func (r *paymentOrderRepository) Save(db *gorm.DB, order *entity.PaymentOrder) error {
	return db.Save(order).Error
}

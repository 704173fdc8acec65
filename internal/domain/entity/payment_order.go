package entity

import (
	"time"
)

type PaymentOrderStatus string

const (
	PaymentOrderCreated   PaymentOrderStatus = "created"
	PaymentOrderFinalized PaymentOrderStatus = "finalized"
)

// PaymentOrder holds the booking intent captured when a gateway order is
// created. No appointment row exists until the payment signature verifies;
// the intent lives here so verification can finalize the booking without the
// client re-sending patient details.
type PaymentOrder struct {
	ID           uint               `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID      string             `gorm:"type:varchar(100);not null;uniqueIndex" json:"order_id"`
	Date         string             `gorm:"type:varchar(10);not null" json:"date"`
	Time         string             `gorm:"type:varchar(5);not null" json:"time"`
	PatientName  string             `gorm:"type:varchar(255);not null" json:"patient_name"`
	PatientPhone string             `gorm:"type:varchar(10);not null" json:"patient_phone"`
	Age          int                `gorm:"not null" json:"age"`
	Gender       string             `gorm:"type:varchar(10);not null" json:"gender"`
	ConsultType  ConsultType        `gorm:"type:varchar(10);not null" json:"consult_type"`
	AmountPaise  int64              `gorm:"not null" json:"amount_paise"`
	Currency     string             `gorm:"type:varchar(3);not null" json:"currency"`
	Status       PaymentOrderStatus `gorm:"type:varchar(20);not null;default:'created'" json:"status"`
	CreatedAt    time.Time          `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time          `gorm:"autoUpdateTime" json:"updated_at"`
}

func (PaymentOrder) TableName() string {
	return "payment_orders"
}

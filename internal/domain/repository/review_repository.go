package repository

import (
	"clinic-backend/internal/domain/entity"

	"gorm.io/gorm"
)

// ReviewStats summarizes the published reviews.
type ReviewStats struct {
	Total        int64         `json:"total"`
	Average      float64       `json:"average"`
	Distribution map[int]int64 `json:"distribution"`
}

type ReviewRepository interface {
	Create(db *gorm.DB, review *entity.Review) error
	FindAll(db *gorm.DB) ([]entity.Review, error)
	// Delete returns the number of rows removed so callers can distinguish a
	// missing review from a successful delete.
	Delete(db *gorm.DB, id uint) (int64, error)
	Stats(db *gorm.DB) (*ReviewStats, error)
}

package repository

import (
	"clinic-backend/internal/domain/entity"
	domainRepo "clinic-backend/internal/domain/repository"

	"gorm.io/gorm"
)

type reviewRepository struct{}

func NewReviewRepository() domainRepo.ReviewRepository {
	return &reviewRepository{}
}

func (r *reviewRepository) Create(db *gorm.DB, review *entity.Review) error {
	return db.Create(review).Error
}

func (r *reviewRepository) FindAll(db *gorm.DB) ([]entity.Review, error) {
	var reviews []entity.Review
	err := db.Order("created_at DESC").Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *reviewRepository) Delete(db *gorm.DB, id uint) (int64, error) {
	result := db.Where("id = ?", id).Delete(&entity.Review{})
	return result.RowsAffected, result.Error
}

func (r *reviewRepository) Stats(db *gorm.DB) (*domainRepo.ReviewStats, error) {
	stats := &domainRepo.ReviewStats{Distribution: make(map[int]int64)}

	type aggregate struct {
		Total   int64
		Average float64
	}
	var agg aggregate
	err := db.Model(&entity.Review{}).
		Select("COUNT(*) as total, COALESCE(AVG(rating), 0) as average").
		Scan(&agg).Error
	if err != nil {
		return nil, err
	}
	stats.Total = agg.Total
	stats.Average = agg.Average

	type bucket struct {
		Star  int
		Count int64
	}
	var buckets []bucket
	err = db.Model(&entity.Review{}).
		Select("FLOOR(rating)::int as star, COUNT(*) as count").
		Group("star").
		Scan(&buckets).Error
	if err != nil {
		return nil, err
	}
	for _, b := range buckets {
		stats.Distribution[b.Star] = b.Count
	}
	return stats, nil
}

package usecase

import (
	"context"
	"errors"
	"strconv"

	"clinic-backend/internal/converter"
	"clinic-backend/internal/delivery/dto"
	"clinic-backend/internal/domain/entity"
	"clinic-backend/internal/domain/repository"
	"clinic-backend/internal/service"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var ErrReviewNotFound = errors.New("review not found")

type ReviewUsecase interface {
	SubmitReview(ctx context.Context, req *dto.CreateReviewRequest) (*dto.SubmitReviewResponse, error)
	ListReviews(ctx context.Context) (*dto.ReviewListResponse, error)
	GetStats(ctx context.Context) (*dto.ReviewStatsResponse, error)
	DeleteReview(ctx context.Context, actor string, id uint) error
}

type reviewUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	reviewRepo   repository.ReviewRepository
	auditService service.AuditService
}

func NewReviewUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	reviewRepo repository.ReviewRepository,
	auditService service.AuditService,
) ReviewUsecase {
	return &reviewUsecase{
		db:           db,
		log:          log,
		reviewRepo:   reviewRepo,
		auditService: auditService,
	}
}

// SubmitReview persists the review only when the rating meets the publishing
// threshold. A below-threshold submission is a normal outcome, not an error:
// the caller gets saved=false with an explanation and HTTP 200.
func (u *reviewUsecase) SubmitReview(ctx context.Context, req *dto.CreateReviewRequest) (*dto.SubmitReviewResponse, error) {
	if req.Rating < entity.MinPublishableRating {
		return &dto.SubmitReviewResponse{
			Saved:   false,
			Message: "Thank you for your feedback. Reviews rated below 3.5 are shared with the doctor privately and not published.",
		}, nil
	}

	review := &entity.Review{
		Name:   req.Name,
		Review: req.Review,
		Rating: req.Rating,
	}
	if err := u.reviewRepo.Create(u.db.WithContext(ctx), review); err != nil {
		u.log.Warnf("Failed to create review: %+v", err)
		return nil, err
	}

	return &dto.SubmitReviewResponse{
		Saved:   true,
		Message: "Review published, thank you!",
		Review:  converter.ReviewToResponse(review),
	}, nil
}

func (u *reviewUsecase) ListReviews(ctx context.Context) (*dto.ReviewListResponse, error) {
	reviews, err := u.reviewRepo.FindAll(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to list reviews: %+v", err)
		return nil, err
	}
	return &dto.ReviewListResponse{Reviews: converter.ReviewsToResponses(reviews)}, nil
}

func (u *reviewUsecase) GetStats(ctx context.Context) (*dto.ReviewStatsResponse, error) {
	stats, err := u.reviewRepo.Stats(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to compute review stats: %+v", err)
		return nil, err
	}
	return &dto.ReviewStatsResponse{
		Total:        stats.Total,
		Average:      stats.Average,
		Distribution: stats.Distribution,
	}, nil
}

func (u *reviewUsecase) DeleteReview(ctx context.Context, actor string, id uint) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	rows, err := u.reviewRepo.Delete(tx, id)
	if err != nil {
		u.log.Warnf("Failed to delete review %d: %+v", id, err)
		return err
	}
	if rows == 0 {
		return ErrReviewNotFound
	}

	if err := u.auditService.Record(ctx, tx, actor, entity.AuditActionReviewDelete, "review", strconv.FormatUint(uint64(id), 10), nil); err != nil {
		return err
	}

	return tx.Commit().Error
}

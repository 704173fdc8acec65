package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"clinic-backend/internal/delivery/dto"
	"clinic-backend/internal/usecase"
	"clinic-backend/pkg/response"
	"clinic-backend/pkg/validator"

	"github.com/gorilla/mux"
)

type ReviewHandler struct {
	reviewUsecase usecase.ReviewUsecase
	validator     *validator.CustomValidator
}

func NewReviewHandler(reviewUsecase usecase.ReviewUsecase, validator *validator.CustomValidator) *ReviewHandler {
	return &ReviewHandler{
		reviewUsecase: reviewUsecase,
		validator:     validator,
	}
}

func (h *ReviewHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.reviewUsecase.ListReviews(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to list reviews")
		return
	}

	response.JSON(w, http.StatusOK, reviews)
}

// SubmitReview accepts a review submission. A below-threshold rating is a
// normal saved=false outcome with HTTP 200, never an error status.
func (h *ReviewHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	result, err := h.reviewUsecase.SubmitReview(r.Context(), &req)
	if err != nil {
		response.InternalServerError(w, "Failed to submit review")
		return
	}

	status := http.StatusOK
	if result.Saved {
		status = http.StatusCreated
	}
	response.JSON(w, status, result)
}

func (h *ReviewHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.reviewUsecase.GetStats(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to compute review stats")
		return
	}

	response.JSON(w, http.StatusOK, stats)
}

func (h *ReviewHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid review ID", nil)
		return
	}

	if err := h.reviewUsecase.DeleteReview(r.Context(), "admin-key", uint(id)); err != nil {
		if errors.Is(err, usecase.ErrReviewNotFound) {
			response.NotFound(w, "Review not found")
			return
		}
		response.InternalServerError(w, "Failed to delete review")
		return
	}

	response.Success(w, http.StatusOK, "Review deleted successfully", nil)
}

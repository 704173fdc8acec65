package dto

import "time"

// Request DTOs

type CreateReviewRequest struct {
	Name   string  `json:"name" validate:"required,max=255"`
	Review string  `json:"review" validate:"required"`
	Rating float64 `json:"rating" validate:"required,gt=0,lte=5"`
}

// Response DTOs

type ReviewResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Review    string    `json:"review"`
	Rating    float64   `json:"rating"`
	CreatedAt time.Time `json:"createdAt"`
}

type SubmitReviewResponse struct {
	Saved   bool            `json:"saved"`
	Message string          `json:"message"`
	Review  *ReviewResponse `json:"review,omitempty"`
}

type ReviewListResponse struct {
	Reviews []ReviewResponse `json:"reviews"`
}

type ReviewStatsResponse struct {
	Total        int64         `json:"total"`
	Average      float64       `json:"average"`
	Distribution map[int]int64 `json:"distribution"`
}

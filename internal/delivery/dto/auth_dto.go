package dto

// Request DTOs

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Response DTOs

type DoctorResponse struct {
	Email    string `json:"email"`
	FullName string `json:"fullName"`
}

type LoginResponse struct {
	AccessToken string          `json:"access_token"`
	ExpiresIn   int64           `json:"expires_in"`
	Doctor      *DoctorResponse `json:"doctor"`
}

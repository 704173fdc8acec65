package dto

import "time"

// Request DTOs

type PrescriptionItemRequest struct {
	Medicine string `json:"medicine" validate:"required,max=255"`
	Days     int    `json:"days" validate:"required,min=1"`
	Pattern  string `json:"pattern" validate:"required"`
	Notes    string `json:"notes"`
}

type CreatePrescriptionRequest struct {
	PatientName   string                    `json:"patientName" validate:"required,max=255"`
	PatientAge    int                       `json:"patientAge" validate:"required,min=1,max=120"`
	PatientGender string                    `json:"patientGender" validate:"required,oneof=male female"`
	PatientPhone  string                    `json:"patientPhone" validate:"required,numeric,len=10"`
	Sent          bool                      `json:"sent"`
	Items         []PrescriptionItemRequest `json:"items" validate:"required,min=1,dive"`
}

// Response DTOs

type PrescriptionItemResponse struct {
	Medicine string `json:"medicine"`
	Days     int    `json:"days"`
	Pattern  string `json:"pattern"`
	Display  string `json:"display"`
	Notes    string `json:"notes,omitempty"`
}

type PrescriptionResponse struct {
	ID            uint                       `json:"id"`
	ClinicName    string                     `json:"clinicName"`
	DoctorName    string                     `json:"doctorName"`
	PatientName   string                     `json:"patientName"`
	PatientAge    int                        `json:"patientAge"`
	PatientGender string                     `json:"patientGender"`
	PatientPhone  string                     `json:"patientPhone"`
	Sent          bool                       `json:"sent"`
	Items         []PrescriptionItemResponse `json:"items"`
	CreatedAt     time.Time                  `json:"createdAt"`
}

type PrescriptionListResponse struct {
	Prescriptions []PrescriptionResponse `json:"prescriptions"`
}

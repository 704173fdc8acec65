package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// Request DTOs

type CreateAppointmentRequest struct {
	Date         string `json:"date" validate:"required,datetime=2006-01-02"`
	Time         string `json:"time" validate:"required"`
	PatientName  string `json:"patientName" validate:"required,max=255"`
	PatientPhone string `json:"patientPhone" validate:"required,numeric,len=10"`
	Age          int    `json:"age" validate:"required,min=1,max=120"`
	Gender       string `json:"gender" validate:"required,oneof=male female"`
	ConsultType  string `json:"consultType" validate:"required,oneof=online offline"`
}

type ListAppointmentsQuery struct {
	Status    string `json:"status"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// Response DTOs

type AppointmentResponse struct {
	ID            uint      `json:"id"`
	BookingID     string    `json:"bookingId"`
	Date          string    `json:"date"`
	Time          string    `json:"time"`
	PatientName   string    `json:"patientName"`
	PatientPhone  string    `json:"patientPhone"`
	Age           int       `json:"age"`
	Gender        string    `json:"gender"`
	ConsultType   string    `json:"consultType"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"paymentStatus"`
	PaymentRef    string    `json:"paymentRef,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

type CreateAppointmentResponse struct {
	Message     string               `json:"message"`
	Appointment *AppointmentResponse `json:"appointment"`
}

type AppointmentListResponse struct {
	Success      bool                  `json:"success"`
	Appointments []AppointmentResponse `json:"appointments"`
}

type ClinicDetailsResponse struct {
	ClinicName string          `json:"clinicName"`
	DoctorName string          `json:"doctorName"`
	Address    string          `json:"address"`
	Phone      string          `json:"phone"`
	ConsultFee decimal.Decimal `json:"consultFee"`
}

type ConfirmAppointmentResponse struct {
	Appointment *AppointmentResponse `json:"appointment"`
}

type SlotListResponse struct {
	AvailableSlots []string `json:"availableSlots"`
}

type VideoSessionResponse struct {
	RoomName string `json:"roomName"`
	Joinable bool   `json:"joinable"`
	OpensAt  string `json:"opensAt"`
	ClosesAt string `json:"closesAt"`
}

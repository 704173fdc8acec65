package converter

import (
	"clinic-backend/internal/delivery/dto"
	"clinic-backend/internal/domain/entity"
)

// AppointmentToResponse converts an Appointment entity to AppointmentResponse DTO
func AppointmentToResponse(appointment *entity.Appointment) *dto.AppointmentResponse {
	if appointment == nil {
		return nil
	}

	return &dto.AppointmentResponse{
		ID:            appointment.ID,
		BookingID:     appointment.BookingID,
		Date:          appointment.Date,
		Time:          appointment.Time,
		PatientName:   appointment.PatientName,
		PatientPhone:  appointment.PatientPhone,
		Age:           appointment.Age,
		Gender:        string(appointment.Gender),
		ConsultType:   string(appointment.ConsultType),
		Status:        string(appointment.Status),
		PaymentStatus: string(appointment.PaymentStatus),
		PaymentRef:    appointment.PaymentRef,
		CreatedAt:     appointment.CreatedAt,
	}
}

// AppointmentsToResponses converts a slice of Appointment entities to slice of AppointmentResponse DTOs
func AppointmentsToResponses(appointments []entity.Appointment) []dto.AppointmentResponse {
	responses := make([]dto.AppointmentResponse, len(appointments))
	for i := range appointments {
		responses[i] = *AppointmentToResponse(&appointments[i])
	}
	return responses
}

package converter

import (
	"clinic-backend/internal/delivery/dto"
	"clinic-backend/internal/domain/entity"
)

// PrescriptionToResponse converts a Prescription entity to PrescriptionResponse DTO
func PrescriptionToResponse(prescription *entity.Prescription) *dto.PrescriptionResponse {
	if prescription == nil {
		return nil
	}

	items := make([]dto.PrescriptionItemResponse, len(prescription.Items))
	for i, item := range prescription.Items {
		items[i] = dto.PrescriptionItemResponse{
			Medicine: item.Medicine,
			Days:     item.Days,
			Pattern:  item.Pattern,
			Display:  entity.FormatDosagePattern(item.Pattern),
			Notes:    item.Notes,
		}
	}

	return &dto.PrescriptionResponse{
		ID:            prescription.ID,
		ClinicName:    prescription.ClinicName,
		DoctorName:    prescription.DoctorName,
		PatientName:   prescription.PatientName,
		PatientAge:    prescription.PatientAge,
		PatientGender: prescription.PatientGender,
		PatientPhone:  prescription.PatientPhone,
		Sent:          prescription.Sent,
		Items:         items,
		CreatedAt:     prescription.CreatedAt,
	}
}

// PrescriptionsToResponses converts a slice of Prescription entities to slice of PrescriptionResponse DTOs
func PrescriptionsToResponses(prescriptions []entity.Prescription) []dto.PrescriptionResponse {
	responses := make([]dto.PrescriptionResponse, len(prescriptions))
	for i := range prescriptions {
		responses[i] = *PrescriptionToResponse(&prescriptions[i])
	}
	return responses
}

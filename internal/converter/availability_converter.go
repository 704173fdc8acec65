package converter

import (
	"clinic-backend/internal/delivery/dto"
	"clinic-backend/internal/domain/entity"
)

// OverrideToResponse converts an AvailabilityOverride entity to OverrideResponse DTO
func OverrideToResponse(override *entity.AvailabilityOverride) *dto.OverrideResponse {
	if override == nil {
		return nil
	}

	return &dto.OverrideResponse{
		Date:        override.Date,
		ConsultType: string(override.ConsultType),
		Closed:      override.Closed,
		Slots:       override.Slots,
		ApplyMode:   string(override.ApplyMode),
	}
}

package dto

// Request DTOs

type UpsertOverrideRequest struct {
	Date        string   `json:"date" validate:"required,datetime=2006-01-02"`
	ConsultType string   `json:"consultType" validate:"required,oneof=online offline"`
	Closed      bool     `json:"closed"`
	Slots       []string `json:"slots,omitempty"`
	ApplyMode   string   `json:"applyMode" validate:"omitempty,oneof=once always"`
}

// Response DTOs

type OverrideResponse struct {
	Date        string   `json:"date"`
	ConsultType string   `json:"consultType"`
	Closed      bool     `json:"closed"`
	Slots       []string `json:"slots,omitempty"`
	ApplyMode   string   `json:"applyMode"`
}

type DefaultSlotsResponse struct {
	Slots []string `json:"slots"`
}

// AvailabilityViewResponse gives the admin editor all three layers at once:
// the recurring baseline, the per-date override if any, and the
// patient-facing result.
type AvailabilityViewResponse struct {
	Date           string            `json:"date"`
	ConsultType    string            `json:"consultType"`
	DefaultSlots   []string          `json:"defaultSlots"`
	Override       *OverrideResponse `json:"override"`
	AvailableSlots []string          `json:"availableSlots"`
}

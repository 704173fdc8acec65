package dto

// Request DTOs

type SelectConsultTypeRequest struct {
	ConsultType string `json:"consultType" validate:"required,oneof=online offline"`
}

type SelectDateRequest struct {
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
}

type SelectSlotRequest struct {
	Time string `json:"time" validate:"required"`
}

type SubmitDetailsRequest struct {
	Name   string `json:"name"`
	Phone  string `json:"phone"`
	Age    int    `json:"age"`
	Gender string `json:"gender"`
}

// Response DTOs

type SlotBucketsResponse struct {
	Morning   []string `json:"morning"`
	Afternoon []string `json:"afternoon"`
	Evening   []string `json:"evening"`
}

// FlowConfirmationResponse is rendered only once the flow reaches its final
// step: the booking ID plus either the video-call block (online) or the
// clinic address block (offline).
type FlowConfirmationResponse struct {
	BookingID     string `json:"bookingId"`
	VideoRoomName string `json:"videoRoomName,omitempty"`
	ClinicAddress string `json:"clinicAddress,omitempty"`
}

type FlowStateResponse struct {
	FlowID       string                    `json:"flowId"`
	Step         string                    `json:"step"`
	ConsultType  string                    `json:"consultType,omitempty"`
	Date         string                    `json:"date,omitempty"`
	Slots        *SlotBucketsResponse      `json:"slots,omitempty"`
	Time         string                    `json:"time,omitempty"`
	Details      *SubmitDetailsRequest     `json:"details,omitempty"`
	OrderID      string                    `json:"orderId,omitempty"`
	Confirmation *FlowConfirmationResponse `json:"confirmation,omitempty"`
}

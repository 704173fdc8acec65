package dto

// Request DTOs

type CreatePaymentOrderRequest struct {
	Date         string `json:"date" validate:"required,datetime=2006-01-02"`
	Time         string `json:"time" validate:"required"`
	PatientName  string `json:"patientName" validate:"required,max=255"`
	PatientPhone string `json:"patientPhone" validate:"required,numeric,len=10"`
	Age          int    `json:"age" validate:"required,min=1,max=120"`
	Gender       string `json:"gender" validate:"required,oneof=male female"`
	ConsultType  string `json:"consultType" validate:"required,oneof=online offline"`
}

type VerifyPaymentRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id" validate:"required"`
	RazorpayPaymentID string `json:"razorpay_payment_id" validate:"required"`
	RazorpaySignature string `json:"razorpay_signature" validate:"required"`
}

// Response DTOs

type PaymentOrderResponse struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	KeyID    string `json:"keyId"`
}

type VerifyPaymentResponse struct {
	Message               string               `json:"message"`
	Appointment           *AppointmentResponse `json:"appointment"`
	WhatsappNotifications []string             `json:"whatsappNotifications,omitempty"`
}

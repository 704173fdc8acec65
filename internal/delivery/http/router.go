package http

import (
	"net/http"

	"clinic-backend/internal/delivery/http/handler"
	"clinic-backend/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

type Router struct {
	router              *mux.Router
	authHandler         *handler.AuthHandler
	appointmentHandler  *handler.AppointmentHandler
	availabilityHandler *handler.AvailabilityHandler
	paymentHandler      *handler.PaymentHandler
	flowHandler         *handler.FlowHandler
	reviewHandler       *handler.ReviewHandler
	prescriptionHandler *handler.PrescriptionHandler
	auditLogHandler     *handler.AuditLogHandler
	authMiddleware      *middleware.AuthMiddleware
	adminKeyMiddleware  *middleware.AdminKeyMiddleware
	corsMiddleware      *middleware.CORSMiddleware
}

func NewRouter(
	authHandler *handler.AuthHandler,
	appointmentHandler *handler.AppointmentHandler,
	availabilityHandler *handler.AvailabilityHandler,
	paymentHandler *handler.PaymentHandler,
	flowHandler *handler.FlowHandler,
	reviewHandler *handler.ReviewHandler,
	prescriptionHandler *handler.PrescriptionHandler,
	auditLogHandler *handler.AuditLogHandler,
	authMiddleware *middleware.AuthMiddleware,
	adminKeyMiddleware *middleware.AdminKeyMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
) *Router {
	return &Router{
		router:              mux.NewRouter(),
		authHandler:         authHandler,
		appointmentHandler:  appointmentHandler,
		availabilityHandler: availabilityHandler,
		paymentHandler:      paymentHandler,
		flowHandler:         flowHandler,
		reviewHandler:       reviewHandler,
		prescriptionHandler: prescriptionHandler,
		auditLogHandler:     auditLogHandler,
		authMiddleware:      authMiddleware,
		adminKeyMiddleware:  adminKeyMiddleware,
		corsMiddleware:      corsMiddleware,
	}
}

func (r *Router) Setup() *mux.Router {
	api := r.router.PathPrefix("/api").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Auth routes (public)
	api.HandleFunc("/auth/login", r.authHandler.Login).Methods(http.MethodPost)

	// Auth routes (protected)
	authProtected := api.PathPrefix("/auth").Subrouter()
	authProtected.Use(r.authMiddleware.Authenticate)
	authProtected.HandleFunc("/logout", r.authHandler.Logout).Methods(http.MethodPost)

	// Patient-facing booking surface (public)
	api.HandleFunc("/bookings/slots", r.appointmentHandler.GetAvailableSlots).Methods(http.MethodGet)
	api.HandleFunc("/slots", r.appointmentHandler.GetAvailableSlots).Methods(http.MethodGet)
	api.HandleFunc("/bookings", r.appointmentHandler.CreateAppointment).Methods(http.MethodPost)
	api.HandleFunc("/bookings/check-appointments", r.appointmentHandler.CheckAppointments).Methods(http.MethodGet)
	api.HandleFunc("/bookings/doctor", r.appointmentHandler.GetClinicDetails).Methods(http.MethodGet)
	api.HandleFunc("/bookings/payment/order", r.paymentHandler.CreateOrder).Methods(http.MethodPost)
	api.HandleFunc("/bookings/payment/verify", r.paymentHandler.VerifyPayment).Methods(http.MethodPost)
	api.HandleFunc("/availability/default-slots", r.availabilityHandler.GetDefaultSlots).Methods(http.MethodGet)

	// Booking-flow wizard sessions (public)
	api.HandleFunc("/booking-flow", r.flowHandler.StartFlow).Methods(http.MethodPost)
	flow := api.PathPrefix("/booking-flow/{id}").Subrouter()
	flow.HandleFunc("", r.flowHandler.GetFlow).Methods(http.MethodGet)
	flow.HandleFunc("", r.flowHandler.AbandonFlow).Methods(http.MethodDelete)
	flow.HandleFunc("/consult-type", r.flowHandler.SelectConsultType).Methods(http.MethodPost)
	flow.HandleFunc("/date", r.flowHandler.SelectDate).Methods(http.MethodPost)
	flow.HandleFunc("/slot", r.flowHandler.SelectSlot).Methods(http.MethodPost)
	flow.HandleFunc("/details", r.flowHandler.SubmitDetails).Methods(http.MethodPost)
	flow.HandleFunc("/payment/order", r.flowHandler.CreatePaymentOrder).Methods(http.MethodPost)
	flow.HandleFunc("/payment/verify", r.flowHandler.CompletePayment).Methods(http.MethodPost)
	flow.HandleFunc("/confirm", r.flowHandler.ConfirmBooking).Methods(http.MethodPost)

	// Reviews (public submission and listing, admin-key deletion)
	api.HandleFunc("/reviews", r.reviewHandler.ListReviews).Methods(http.MethodGet)
	api.HandleFunc("/reviews", r.reviewHandler.SubmitReview).Methods(http.MethodPost)
	api.HandleFunc("/reviews/stats", r.reviewHandler.GetStats).Methods(http.MethodGet)
	api.Handle("/reviews/{id}", r.adminKeyMiddleware.Require(
		http.HandlerFunc(r.reviewHandler.DeleteReview))).Methods(http.MethodDelete)

	// Prescription lookup (public, keyed by phone)
	api.HandleFunc("/prescriptions", r.prescriptionHandler.ListPrescriptions).Methods(http.MethodGet)
	api.HandleFunc("/prescriptions/{id}/pdf", r.prescriptionHandler.DownloadPDF).Methods(http.MethodGet)

	// Doctor dashboard (protected)
	doctor := api.PathPrefix("/bookings").Subrouter()
	doctor.Use(r.authMiddleware.Authenticate)
	doctor.HandleFunc("/doctor/appointments", r.appointmentHandler.ListDoctorAppointments).Methods(http.MethodGet)
	doctor.HandleFunc("/{id}/confirm", r.appointmentHandler.ConfirmAppointment).Methods(http.MethodPatch)
	doctor.HandleFunc("/{id}/complete", r.appointmentHandler.CompleteAppointment).Methods(http.MethodPatch)
	doctor.HandleFunc("/{id}", r.appointmentHandler.CancelAppointment).Methods(http.MethodDelete)
	doctor.HandleFunc("/{id}/video-session", r.appointmentHandler.GetVideoSession).Methods(http.MethodGet)

	// Availability editor (protected mutations, public reads)
	api.HandleFunc("/availability/override", r.availabilityHandler.GetOverride).Methods(http.MethodGet)
	availability := api.PathPrefix("/availability").Subrouter()
	availability.Use(r.authMiddleware.Authenticate)
	availability.HandleFunc("/override", r.availabilityHandler.UpsertOverride).Methods(http.MethodPut)
	availability.HandleFunc("/override", r.availabilityHandler.DeleteOverride).Methods(http.MethodDelete)
	availability.HandleFunc("/view", r.availabilityHandler.GetAvailabilityView).Methods(http.MethodGet)

	// Prescription writer (protected)
	prescriptions := api.PathPrefix("/prescriptions").Subrouter()
	prescriptions.Use(r.authMiddleware.Authenticate)
	prescriptions.HandleFunc("", r.prescriptionHandler.CreatePrescription).Methods(http.MethodPost)
	prescriptions.HandleFunc("/{id}/send", r.prescriptionHandler.SendPrescription).Methods(http.MethodPatch)

	// Audit trail (protected)
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(r.authMiddleware.Authenticate)
	admin.HandleFunc("/audit-logs", r.auditLogHandler.GetRecentAuditLogs).Methods(http.MethodGet)

	// Add CORS middleware
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}

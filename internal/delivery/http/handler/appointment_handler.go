package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"clinic-backend/config"
	"clinic-backend/internal/delivery/dto"
	"clinic-backend/internal/schedule"
	"clinic-backend/internal/service"
	"clinic-backend/internal/usecase"
	"clinic-backend/pkg/response"
	"clinic-backend/pkg/validator"

	"github.com/gorilla/mux"
)

type AppointmentHandler struct {
	bookingUsecase      usecase.BookingUsecase
	availabilityUsecase usecase.AvailabilityUsecase
	clinic              config.ClinicConfig
	validator           *validator.CustomValidator
}

func NewAppointmentHandler(
	bookingUsecase usecase.BookingUsecase,
	availabilityUsecase usecase.AvailabilityUsecase,
	clinic config.ClinicConfig,
	validator *validator.CustomValidator,
) *AppointmentHandler {
	return &AppointmentHandler{
		bookingUsecase:      bookingUsecase,
		availabilityUsecase: availabilityUsecase,
		clinic:              clinic,
		validator:           validator,
	}
}

// GetAvailableSlots serves the patient-facing slot list for a date and
// consult type.
func (h *AppointmentHandler) GetAvailableSlots(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	consultType := r.URL.Query().Get("consultType")

	slots, err := h.availabilityUsecase.GetActualAvailableSlots(r.Context(), date, consultType)
	if err != nil {
		writeAvailabilityError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, slots)
}

func (h *AppointmentHandler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	created, err := h.bookingUsecase.CreateAppointment(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrOnlinePaymentRequired):
			response.Error(w, http.StatusBadRequest, err.Error(), nil)
		case errors.Is(err, usecase.ErrSlotNotAvailable):
			response.Error(w, http.StatusConflict, err.Error(), nil)
		case errors.Is(err, service.ErrSlotTaken), errors.Is(err, usecase.ErrSlotTakenConcurrently):
			response.Error(w, http.StatusConflict, err.Error(), nil)
		case isDateRuleError(err):
			response.Error(w, http.StatusBadRequest, err.Error(), nil)
		default:
			response.InternalServerError(w, "Failed to create appointment")
		}
		return
	}

	response.JSON(w, http.StatusCreated, created)
}

// CheckAppointments is the patient-facing lookup of appointments by phone
// number. The phone must be exactly 10 digits; an empty result set is a
// normal response.
func (h *AppointmentHandler) CheckAppointments(w http.ResponseWriter, r *http.Request) {
	phone := r.URL.Query().Get("phone")
	if !phoneQueryRe.MatchString(phone) {
		response.Error(w, http.StatusBadRequest, "phone must be exactly 10 digits", nil)
		return
	}

	appointments, err := h.bookingUsecase.CheckAppointments(r.Context(), phone)
	if err != nil {
		response.InternalServerError(w, "Failed to find appointments")
		return
	}

	response.JSON(w, http.StatusOK, appointments)
}

// GetClinicDetails serves the public clinic identity block the booking site
// renders in its hero and about sections.
func (h *AppointmentHandler) GetClinicDetails(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, &dto.ClinicDetailsResponse{
		ClinicName: h.clinic.Name,
		DoctorName: h.clinic.DoctorName,
		Address:    h.clinic.Address,
		Phone:      h.clinic.Phone,
		ConsultFee: h.clinic.ConsultFee,
	})
}

func (h *AppointmentHandler) ListDoctorAppointments(w http.ResponseWriter, r *http.Request) {
	query := &dto.ListAppointmentsQuery{
		Status:    r.URL.Query().Get("status"),
		StartDate: r.URL.Query().Get("startDate"),
		EndDate:   r.URL.Query().Get("endDate"),
	}

	appointments, err := h.bookingUsecase.ListDoctorAppointments(r.Context(), query)
	if err != nil {
		response.InternalServerError(w, "Failed to list appointments")
		return
	}

	response.JSON(w, http.StatusOK, appointments)
}

func (h *AppointmentHandler) ConfirmAppointment(w http.ResponseWriter, r *http.Request) {
	id, ok := appointmentID(w, r)
	if !ok {
		return
	}

	actor := actorFromContext(r)
	confirmed, err := h.bookingUsecase.ConfirmAppointment(r.Context(), actor, id)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrAppointmentNotFound):
			response.NotFound(w, "Appointment not found")
		case errors.Is(err, usecase.ErrNotConfirmable):
			response.Error(w, http.StatusConflict, err.Error(), nil)
		default:
			response.InternalServerError(w, "Failed to confirm appointment")
		}
		return
	}

	response.JSON(w, http.StatusOK, confirmed)
}

func (h *AppointmentHandler) CompleteAppointment(w http.ResponseWriter, r *http.Request) {
	id, ok := appointmentID(w, r)
	if !ok {
		return
	}

	actor := actorFromContext(r)
	completed, err := h.bookingUsecase.CompleteAppointment(r.Context(), actor, id)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrAppointmentNotFound):
			response.NotFound(w, "Appointment not found")
		case errors.Is(err, usecase.ErrNotCompletable):
			response.Error(w, http.StatusConflict, err.Error(), nil)
		default:
			response.InternalServerError(w, "Failed to complete appointment")
		}
		return
	}

	response.JSON(w, http.StatusOK, completed)
}

func (h *AppointmentHandler) CancelAppointment(w http.ResponseWriter, r *http.Request) {
	id, ok := appointmentID(w, r)
	if !ok {
		return
	}

	actor := actorFromContext(r)
	if err := h.bookingUsecase.CancelAppointment(r.Context(), actor, id); err != nil {
		switch {
		case errors.Is(err, usecase.ErrAppointmentNotFound):
			response.NotFound(w, "Appointment not found")
		case errors.Is(err, usecase.ErrAlreadyCancelled):
			response.Error(w, http.StatusConflict, err.Error(), nil)
		default:
			response.InternalServerError(w, "Failed to cancel appointment")
		}
		return
	}

	response.Success(w, http.StatusOK, "Appointment cancelled successfully", nil)
}

func (h *AppointmentHandler) GetVideoSession(w http.ResponseWriter, r *http.Request) {
	id, ok := appointmentID(w, r)
	if !ok {
		return
	}

	session, err := h.bookingUsecase.GetVideoSession(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrAppointmentNotFound):
			response.NotFound(w, "Appointment not found")
		case errors.Is(err, usecase.ErrNotOnlineConsult):
			response.Error(w, http.StatusBadRequest, err.Error(), nil)
		default:
			response.InternalServerError(w, "Failed to load video session")
		}
		return
	}

	response.JSON(w, http.StatusOK, session)
}

func appointmentID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid appointment ID", nil)
		return 0, false
	}
	return uint(id), true
}

func isDateRuleError(err error) bool {
	return errors.Is(err, schedule.ErrInvalidDate) ||
		errors.Is(err, schedule.ErrDateInPast) ||
		errors.Is(err, schedule.ErrDateBeyondHorizon) ||
		errors.Is(err, schedule.ErrClinicClosedWeekday) ||
		errors.Is(err, usecase.ErrInvalidDate) ||
		errors.Is(err, usecase.ErrInvalidConsultType)
}

func writeAvailabilityError(w http.ResponseWriter, err error) {
	if isDateRuleError(err) {
		response.Error(w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	response.InternalServerError(w, "Failed to resolve availability")
}

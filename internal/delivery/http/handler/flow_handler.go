package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"clinic-backend/internal/delivery/dto"
	"clinic-backend/internal/schedule"
	"clinic-backend/internal/service"
	"clinic-backend/internal/usecase"
	"clinic-backend/internal/wizard"
	"clinic-backend/pkg/response"
	"clinic-backend/pkg/validator"

	"github.com/gorilla/mux"
)

type FlowHandler struct {
	flowUsecase usecase.BookingFlowUsecase
	validator   *validator.CustomValidator
}

func NewFlowHandler(flowUsecase usecase.BookingFlowUsecase, validator *validator.CustomValidator) *FlowHandler {
	return &FlowHandler{
		flowUsecase: flowUsecase,
		validator:   validator,
	}
}

func (h *FlowHandler) StartFlow(w http.ResponseWriter, r *http.Request) {
	state, err := h.flowUsecase.StartFlow(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to start booking flow")
		return
	}
	response.JSON(w, http.StatusCreated, state)
}

func (h *FlowHandler) GetFlow(w http.ResponseWriter, r *http.Request) {
	state, err := h.flowUsecase.GetFlow(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeFlowError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, state)
}

func (h *FlowHandler) SelectConsultType(w http.ResponseWriter, r *http.Request) {
	var req dto.SelectConsultTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	state, err := h.flowUsecase.SelectConsultType(r.Context(), mux.Vars(r)["id"], &req)
	if err != nil {
		writeFlowError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, state)
}

func (h *FlowHandler) SelectDate(w http.ResponseWriter, r *http.Request) {
	var req dto.SelectDateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	state, err := h.flowUsecase.SelectDate(r.Context(), mux.Vars(r)["id"], &req)
	if err != nil {
		writeFlowError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, state)
}

func (h *FlowHandler) SelectSlot(w http.ResponseWriter, r *http.Request) {
	var req dto.SelectSlotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	state, err := h.flowUsecase.SelectSlot(r.Context(), mux.Vars(r)["id"], &req)
	if err != nil {
		writeFlowError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, state)
}

func (h *FlowHandler) SubmitDetails(w http.ResponseWriter, r *http.Request) {
	var req dto.SubmitDetailsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	state, err := h.flowUsecase.SubmitDetails(r.Context(), mux.Vars(r)["id"], &req)
	if err != nil {
		writeFlowError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, state)
}

func (h *FlowHandler) CreatePaymentOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.flowUsecase.CreatePaymentOrder(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeFlowError(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, order)
}

func (h *FlowHandler) CompletePayment(w http.ResponseWriter, r *http.Request) {
	var req dto.VerifyPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	state, err := h.flowUsecase.CompletePayment(r.Context(), mux.Vars(r)["id"], &req)
	if err != nil {
		writeFlowError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, state)
}

func (h *FlowHandler) ConfirmBooking(w http.ResponseWriter, r *http.Request) {
	state, err := h.flowUsecase.ConfirmBooking(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeFlowError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, state)
}

func (h *FlowHandler) AbandonFlow(w http.ResponseWriter, r *http.Request) {
	if err := h.flowUsecase.AbandonFlow(r.Context(), mux.Vars(r)["id"]); err != nil {
		response.InternalServerError(w, "Failed to abandon booking flow")
		return
	}
	response.Success(w, http.StatusOK, "Booking flow abandoned", nil)
}

func writeFlowError(w http.ResponseWriter, err error) {
	var fieldErrs wizard.FieldErrors
	if errors.As(err, &fieldErrs) {
		response.ValidationError(w, fieldErrs)
		return
	}

	switch {
	case errors.Is(err, wizard.ErrFlowNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, wizard.ErrWrongStep),
		errors.Is(err, wizard.ErrFlowFinished),
		errors.Is(err, wizard.ErrPaymentNotNeeded),
		errors.Is(err, wizard.ErrUnknownConsult):
		response.Error(w, http.StatusConflict, err.Error(), nil)
	case errors.Is(err, wizard.ErrSlotUnavailable),
		errors.Is(err, usecase.ErrSlotNotAvailable),
		errors.Is(err, service.ErrSlotTaken),
		errors.Is(err, usecase.ErrSlotTakenConcurrently),
		errors.Is(err, usecase.ErrOrderAlreadyFinalized):
		response.Error(w, http.StatusConflict, err.Error(), nil)
	case errors.Is(err, schedule.ErrInvalidDate),
		errors.Is(err, schedule.ErrDateInPast),
		errors.Is(err, schedule.ErrDateBeyondHorizon),
		errors.Is(err, schedule.ErrClinicClosedWeekday),
		errors.Is(err, usecase.ErrInvalidPaymentSignature):
		response.Error(w, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, service.ErrGatewayNotConfigured):
		response.Error(w, http.StatusServiceUnavailable, err.Error(), nil)
	case errors.Is(err, service.ErrOrderCreateFailed):
		response.Error(w, http.StatusBadGateway, err.Error(), nil)
	default:
		response.InternalServerError(w, "Booking flow operation failed")
	}
}

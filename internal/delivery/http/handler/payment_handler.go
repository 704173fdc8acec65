package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"clinic-backend/internal/delivery/dto"
	"clinic-backend/internal/service"
	"clinic-backend/internal/usecase"
	"clinic-backend/pkg/response"
	"clinic-backend/pkg/validator"
)

type PaymentHandler struct {
	paymentUsecase usecase.PaymentUsecase
	validator      *validator.CustomValidator
}

func NewPaymentHandler(paymentUsecase usecase.PaymentUsecase, validator *validator.CustomValidator) *PaymentHandler {
	return &PaymentHandler{
		paymentUsecase: paymentUsecase,
		validator:      validator,
	}
}

func (h *PaymentHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req dto.CreatePaymentOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	order, err := h.paymentUsecase.CreateOrder(r.Context(), &req)
	if err != nil {
		writePaymentError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, order)
}

func (h *PaymentHandler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	var req dto.VerifyPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	verified, err := h.paymentUsecase.VerifyAndFinalize(r.Context(), &req)
	if err != nil {
		writePaymentError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, verified)
}

func writePaymentError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrGatewayNotConfigured):
		// Configuration error: the payment surface is down until keys are
		// supplied. Reported distinctly from transient gateway failures.
		response.Error(w, http.StatusServiceUnavailable, err.Error(), nil)
	case errors.Is(err, usecase.ErrPaymentOnlineOnly):
		response.Error(w, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, usecase.ErrOrderNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, usecase.ErrOrderAlreadyFinalized):
		response.Error(w, http.StatusConflict, err.Error(), nil)
	case errors.Is(err, usecase.ErrInvalidPaymentSignature):
		response.Error(w, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, usecase.ErrSlotNotAvailable),
		errors.Is(err, service.ErrSlotTaken),
		errors.Is(err, usecase.ErrSlotTakenConcurrently):
		response.Error(w, http.StatusConflict, err.Error(), nil)
	case errors.Is(err, service.ErrOrderCreateFailed):
		response.Error(w, http.StatusBadGateway, err.Error(), nil)
	case isDateRuleError(err):
		response.Error(w, http.StatusBadRequest, err.Error(), nil)
	default:
		response.InternalServerError(w, "Payment operation failed")
	}
}

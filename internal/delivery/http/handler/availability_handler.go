package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"clinic-backend/internal/delivery/dto"
	"clinic-backend/internal/usecase"
	"clinic-backend/pkg/response"
	"clinic-backend/pkg/validator"
)

type AvailabilityHandler struct {
	availabilityUsecase usecase.AvailabilityUsecase
	validator           *validator.CustomValidator
}

func NewAvailabilityHandler(availabilityUsecase usecase.AvailabilityUsecase, validator *validator.CustomValidator) *AvailabilityHandler {
	return &AvailabilityHandler{
		availabilityUsecase: availabilityUsecase,
		validator:           validator,
	}
}

func (h *AvailabilityHandler) GetDefaultSlots(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	consultType := r.URL.Query().Get("consultType")

	slots, err := h.availabilityUsecase.GetDefaultSlots(r.Context(), date, consultType)
	if err != nil {
		writeAvailabilityError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, slots)
}

// GetOverride returns the override for a (date, consultType), or null when
// the date runs on the recurring default.
func (h *AvailabilityHandler) GetOverride(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	consultType := r.URL.Query().Get("consultType")

	override, err := h.availabilityUsecase.GetOverride(r.Context(), date, consultType)
	if err != nil {
		writeAvailabilityError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, override)
}

func (h *AvailabilityHandler) GetAvailabilityView(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	consultType := r.URL.Query().Get("consultType")

	view, err := h.availabilityUsecase.GetAvailabilityView(r.Context(), date, consultType)
	if err != nil {
		writeAvailabilityError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, view)
}

func (h *AvailabilityHandler) UpsertOverride(w http.ResponseWriter, r *http.Request) {
	var req dto.UpsertOverrideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	actor := actorFromContext(r)
	override, err := h.availabilityUsecase.UpsertOverride(r.Context(), actor, &req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrAlwaysOfflineOnly), errors.Is(err, usecase.ErrNoValidSlots):
			response.Error(w, http.StatusBadRequest, err.Error(), nil)
		case isDateRuleError(err):
			response.Error(w, http.StatusBadRequest, err.Error(), nil)
		default:
			response.InternalServerError(w, "Failed to save availability override")
		}
		return
	}

	response.Success(w, http.StatusOK, "Availability override saved", override)
}

func (h *AvailabilityHandler) DeleteOverride(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	consultType := r.URL.Query().Get("consultType")

	actor := actorFromContext(r)
	if err := h.availabilityUsecase.DeleteOverride(r.Context(), actor, date, consultType); err != nil {
		writeAvailabilityError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Availability override removed", nil)
}

package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"strconv"

	"clinic-backend/internal/delivery/dto"
	"clinic-backend/internal/domain/entity"
	"clinic-backend/internal/usecase"
	"clinic-backend/pkg/response"
	"clinic-backend/pkg/validator"

	"github.com/gorilla/mux"
)

var phoneQueryRe = regexp.MustCompile(`^\d{10}$`)

type PrescriptionHandler struct {
	prescriptionUsecase usecase.PrescriptionUsecase
	validator           *validator.CustomValidator
}

func NewPrescriptionHandler(prescriptionUsecase usecase.PrescriptionUsecase, validator *validator.CustomValidator) *PrescriptionHandler {
	return &PrescriptionHandler{
		prescriptionUsecase: prescriptionUsecase,
		validator:           validator,
	}
}

func (h *PrescriptionHandler) CreatePrescription(w http.ResponseWriter, r *http.Request) {
	var req dto.CreatePrescriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	actor := actorFromContext(r)
	prescription, err := h.prescriptionUsecase.CreatePrescription(r.Context(), actor, &req)
	if err != nil {
		if errors.Is(err, entity.ErrInvalidDosagePattern) {
			response.Error(w, http.StatusBadRequest, err.Error(), nil)
			return
		}
		response.InternalServerError(w, "Failed to create prescription")
		return
	}

	response.JSON(w, http.StatusCreated, prescription)
}

func (h *PrescriptionHandler) SendPrescription(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid prescription ID", nil)
		return
	}

	actor := actorFromContext(r)
	prescription, err := h.prescriptionUsecase.SendPrescription(r.Context(), actor, uint(id))
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrPrescriptionNotFound):
			response.NotFound(w, "Prescription not found")
		case errors.Is(err, usecase.ErrAlreadySent):
			response.Error(w, http.StatusConflict, err.Error(), nil)
		default:
			response.InternalServerError(w, "Failed to send prescription")
		}
		return
	}

	response.JSON(w, http.StatusOK, prescription)
}

// ListPrescriptions is the patient-facing phone lookup. The phone must be
// exactly 10 digits; an empty result set is a normal response.
func (h *PrescriptionHandler) ListPrescriptions(w http.ResponseWriter, r *http.Request) {
	phone := r.URL.Query().Get("phone")
	if !phoneQueryRe.MatchString(phone) {
		response.Error(w, http.StatusBadRequest, "phone must be exactly 10 digits", nil)
		return
	}
	sentOnly := r.URL.Query().Get("sent") == "true"

	prescriptions, err := h.prescriptionUsecase.FindByPhone(r.Context(), phone, sentOnly)
	if err != nil {
		response.InternalServerError(w, "Failed to find prescriptions")
		return
	}

	response.JSON(w, http.StatusOK, prescriptions)
}

func (h *PrescriptionHandler) DownloadPDF(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid prescription ID", nil)
		return
	}

	pdf, filename, err := h.prescriptionUsecase.RenderPDF(r.Context(), uint(id))
	if err != nil {
		if errors.Is(err, usecase.ErrPrescriptionNotFound) {
			response.NotFound(w, "Prescription not found")
			return
		}
		response.InternalServerError(w, "Failed to render prescription")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(pdf)
}

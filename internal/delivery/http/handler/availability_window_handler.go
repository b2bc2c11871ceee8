package handler

import (
	"encoding/json"
	"net/http"

	"hospital-crm/internal/delivery/dto"
	"hospital-crm/internal/usecase"
	"hospital-crm/pkg/response"
	"hospital-crm/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type AvailabilityWindowHandler struct {
	windowUsecase usecase.AvailabilityWindowUsecase
	validator     *validator.CustomValidator
}

func NewAvailabilityWindowHandler(windowUsecase usecase.AvailabilityWindowUsecase, validator *validator.CustomValidator) *AvailabilityWindowHandler {
	return &AvailabilityWindowHandler{
		windowUsecase: windowUsecase,
		validator:     validator,
	}
}

func (h *AvailabilityWindowHandler) CreateWindow(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAvailabilityWindowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	window, err := h.windowUsecase.CreateWindow(r.Context(), &req)
	if err != nil {
		writeUsecaseError(w, err, "Failed to create availability window")
		return
	}

	response.Success(w, http.StatusCreated, "Availability window created successfully", window)
}

func (h *AvailabilityWindowHandler) BulkCreateWindows(w http.ResponseWriter, r *http.Request) {
	var req dto.BulkCreateAvailabilityWindowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	windows, err := h.windowUsecase.BulkCreateWindows(r.Context(), &req)
	if err != nil {
		writeUsecaseError(w, err, "Failed to create availability windows")
		return
	}

	response.Success(w, http.StatusCreated, "Availability windows created successfully", windows)
}

func (h *AvailabilityWindowHandler) UpdateWindow(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid availability window ID")
		return
	}

	var req dto.UpdateAvailabilityWindowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	window, err := h.windowUsecase.UpdateWindow(r.Context(), id, &req)
	if err != nil {
		writeUsecaseError(w, err, "Failed to update availability window")
		return
	}

	response.Success(w, http.StatusOK, "Availability window updated successfully", window)
}

func (h *AvailabilityWindowHandler) DeleteWindow(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid availability window ID")
		return
	}

	if err := h.windowUsecase.DeleteWindow(r.Context(), id); err != nil {
		writeUsecaseError(w, err, "Failed to delete availability window")
		return
	}

	response.Success(w, http.StatusOK, "Availability window deleted successfully", nil)
}

func (h *AvailabilityWindowHandler) ListWindowsByStaff(w http.ResponseWriter, r *http.Request) {
	staffID, err := pathUUID(r, "staffId")
	if err != nil {
		response.BadRequest(w, "Invalid staff ID")
		return
	}

	windows, err := h.windowUsecase.ListWindowsByStaff(r.Context(), mux.Vars(r)["staffType"], staffID)
	if err != nil {
		writeUsecaseError(w, err, "Failed to get availability windows")
		return
	}

	response.Success(w, http.StatusOK, "Availability windows retrieved successfully", windows)
}

// WeeklyCounts returns doctors per weekday. Without a {hospitalId} in the
// path the count spans every hospital.
func (h *AvailabilityWindowHandler) WeeklyCounts(w http.ResponseWriter, r *http.Request) {
	var hospitalID *uuid.UUID
	if raw, ok := mux.Vars(r)["hospitalId"]; ok {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(w, "Invalid hospital ID")
			return
		}
		hospitalID = &id
	}

	counts, err := h.windowUsecase.CountStaffByWeekday(r.Context(), hospitalID)
	if err != nil {
		writeUsecaseError(w, err, "Failed to get weekly availability")
		return
	}

	response.Success(w, http.StatusOK, "Weekly availability retrieved successfully", counts)
}

package handler

import (
	"encoding/json"
	"net/http"

	"hospital-crm/internal/delivery/dto"
	"hospital-crm/internal/usecase"
	"hospital-crm/pkg/response"
	"hospital-crm/pkg/validator"
)

type StaffHandler struct {
	staffUsecase usecase.StaffUsecase
	validator    *validator.CustomValidator
}

func NewStaffHandler(staffUsecase usecase.StaffUsecase, validator *validator.CustomValidator) *StaffHandler {
	return &StaffHandler{
		staffUsecase: staffUsecase,
		validator:    validator,
	}
}

// CreateDoctor handles doctor registration
// @Summary Register a doctor in a hospital
// @Tags Staff
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param hospitalId path string true "Hospital ID"
// @Param request body dto.CreateDoctorRequest true "Create Doctor Request"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /hospitals/{hospitalId}/doctors [post]
func (h *StaffHandler) CreateDoctor(w http.ResponseWriter, r *http.Request) {
	hospitalID, err := pathUUID(r, "hospitalId")
	if err != nil {
		response.BadRequest(w, "Invalid hospital ID")
		return
	}

	var req dto.CreateDoctorRequest
	if !h.decode(w, r, &req) {
		return
	}

	doctor, err := h.staffUsecase.CreateDoctor(r.Context(), hospitalID, &req)
	if err != nil {
		writeUsecaseError(w, err, "Failed to create doctor")
		return
	}

	response.Success(w, http.StatusCreated, "Doctor created successfully", doctor)
}

func (h *StaffHandler) ListDoctors(w http.ResponseWriter, r *http.Request) {
	hospitalID, err := pathUUID(r, "hospitalId")
	if err != nil {
		response.BadRequest(w, "Invalid hospital ID")
		return
	}

	doctors, err := h.staffUsecase.ListDoctors(r.Context(), hospitalID)
	if err != nil {
		writeUsecaseError(w, err, "Failed to get doctors")
		return
	}

	response.Success(w, http.StatusOK, "Doctors retrieved successfully", doctors)
}

func (h *StaffHandler) GetDoctor(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid doctor ID")
		return
	}

	doctor, err := h.staffUsecase.GetDoctor(r.Context(), id)
	if err != nil {
		writeUsecaseError(w, err, "Failed to get doctor")
		return
	}

	response.Success(w, http.StatusOK, "Doctor retrieved successfully", doctor)
}

func (h *StaffHandler) UpdateDoctor(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid doctor ID")
		return
	}

	var req dto.UpdateDoctorRequest
	if !h.decode(w, r, &req) {
		return
	}

	doctor, err := h.staffUsecase.UpdateDoctor(r.Context(), id, &req)
	if err != nil {
		writeUsecaseError(w, err, "Failed to update doctor")
		return
	}

	response.Success(w, http.StatusOK, "Doctor updated successfully", doctor)
}

// SetDoctorAvailability handles the availability toggle
// @Summary Include or exclude a doctor from availability listings
// @Tags Staff
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Doctor ID"
// @Param request body dto.SetAvailabilityRequest true "Availability"
// @Success 200 {object} response.Response
// @Router /doctors/{id}/availability [patch]
func (h *StaffHandler) SetDoctorAvailability(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid doctor ID")
		return
	}

	var req dto.SetAvailabilityRequest
	if !h.decode(w, r, &req) {
		return
	}

	doctor, err := h.staffUsecase.SetDoctorAvailability(r.Context(), id, *req.IsAvailable)
	if err != nil {
		writeUsecaseError(w, err, "Failed to update doctor availability")
		return
	}

	response.Success(w, http.StatusOK, "Doctor availability updated successfully", doctor)
}

func (h *StaffHandler) CreateNurse(w http.ResponseWriter, r *http.Request) {
	hospitalID, err := pathUUID(r, "hospitalId")
	if err != nil {
		response.BadRequest(w, "Invalid hospital ID")
		return
	}

	var req dto.CreateNurseRequest
	if !h.decode(w, r, &req) {
		return
	}

	nurse, err := h.staffUsecase.CreateNurse(r.Context(), hospitalID, &req)
	if err != nil {
		writeUsecaseError(w, err, "Failed to create nurse")
		return
	}

	response.Success(w, http.StatusCreated, "Nurse created successfully", nurse)
}

func (h *StaffHandler) ListNurses(w http.ResponseWriter, r *http.Request) {
	hospitalID, err := pathUUID(r, "hospitalId")
	if err != nil {
		response.BadRequest(w, "Invalid hospital ID")
		return
	}

	nurses, err := h.staffUsecase.ListNurses(r.Context(), hospitalID)
	if err != nil {
		writeUsecaseError(w, err, "Failed to get nurses")
		return
	}

	response.Success(w, http.StatusOK, "Nurses retrieved successfully", nurses)
}

func (h *StaffHandler) GetNurse(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid nurse ID")
		return
	}

	nurse, err := h.staffUsecase.GetNurse(r.Context(), id)
	if err != nil {
		writeUsecaseError(w, err, "Failed to get nurse")
		return
	}

	response.Success(w, http.StatusOK, "Nurse retrieved successfully", nurse)
}

func (h *StaffHandler) UpdateNurse(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid nurse ID")
		return
	}

	var req dto.UpdateNurseRequest
	if !h.decode(w, r, &req) {
		return
	}

	nurse, err := h.staffUsecase.UpdateNurse(r.Context(), id, &req)
	if err != nil {
		writeUsecaseError(w, err, "Failed to update nurse")
		return
	}

	response.Success(w, http.StatusOK, "Nurse updated successfully", nurse)
}

func (h *StaffHandler) SetNurseAvailability(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid nurse ID")
		return
	}

	var req dto.SetAvailabilityRequest
	if !h.decode(w, r, &req) {
		return
	}

	nurse, err := h.staffUsecase.SetNurseAvailability(r.Context(), id, *req.IsAvailable)
	if err != nil {
		writeUsecaseError(w, err, "Failed to update nurse availability")
		return
	}

	response.Success(w, http.StatusOK, "Nurse availability updated successfully", nurse)
}

// decode reads and validates the body, writing the 400 itself on failure.
func (h *StaffHandler) decode(w http.ResponseWriter, r *http.Request, req interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return false
	}
	if err := h.validator.Validate(req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return false
	}
	return true
}

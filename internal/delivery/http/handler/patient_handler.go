package handler

import (
	"encoding/json"
	"net/http"

	"hospital-crm/internal/delivery/dto"
	"hospital-crm/internal/usecase"
	"hospital-crm/pkg/response"
	"hospital-crm/pkg/validator"
)

type PatientHandler struct {
	patientUsecase usecase.PatientUsecase
	validator      *validator.CustomValidator
}

func NewPatientHandler(patientUsecase usecase.PatientUsecase, validator *validator.CustomValidator) *PatientHandler {
	return &PatientHandler{
		patientUsecase: patientUsecase,
		validator:      validator,
	}
}

// CreatePatient handles patient registration
// @Summary Register a patient in a hospital
// @Tags Patients
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param hospitalId path string true "Hospital ID"
// @Param request body dto.CreatePatientRequest true "Create Patient Request"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /hospitals/{hospitalId}/patients [post]
func (h *PatientHandler) CreatePatient(w http.ResponseWriter, r *http.Request) {
	hospitalID, err := pathUUID(r, "hospitalId")
	if err != nil {
		response.BadRequest(w, "Invalid hospital ID")
		return
	}

	var req dto.CreatePatientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	patient, err := h.patientUsecase.CreatePatient(r.Context(), hospitalID, &req)
	if err != nil {
		writeUsecaseError(w, err, "Failed to create patient")
		return
	}

	response.Success(w, http.StatusCreated, "Patient created successfully", patient)
}

// ListPatients handles listing a hospital's patients
// @Summary List patients
// @Tags Patients
// @Security BearerAuth
// @Produce json
// @Param hospitalId path string true "Hospital ID"
// @Param search query string false "Name or phone fragment"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(10)
// @Success 200 {object} response.Response
// @Router /hospitals/{hospitalId}/patients [get]
func (h *PatientHandler) ListPatients(w http.ResponseWriter, r *http.Request) {
	hospitalID, err := pathUUID(r, "hospitalId")
	if err != nil {
		response.BadRequest(w, "Invalid hospital ID")
		return
	}

	page, limit := pageParams(r)
	patients, total, err := h.patientUsecase.ListPatients(r.Context(), hospitalID, r.URL.Query().Get("search"), page, limit)
	if err != nil {
		writeUsecaseError(w, err, "Failed to get patients")
		return
	}

	page, limit = effectivePage(page, limit)
	response.SuccessWithMeta(w, http.StatusOK, "Patients retrieved successfully", patients, response.NewMeta(page, limit, total))
}

func (h *PatientHandler) GetPatient(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid patient ID")
		return
	}

	patient, err := h.patientUsecase.GetPatient(r.Context(), id)
	if err != nil {
		writeUsecaseError(w, err, "Failed to get patient")
		return
	}

	response.Success(w, http.StatusOK, "Patient retrieved successfully", patient)
}

func (h *PatientHandler) UpdatePatient(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid patient ID")
		return
	}

	var req dto.UpdatePatientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	patient, err := h.patientUsecase.UpdatePatient(r.Context(), id, &req)
	if err != nil {
		writeUsecaseError(w, err, "Failed to update patient")
		return
	}

	response.Success(w, http.StatusOK, "Patient updated successfully", patient)
}

func (h *PatientHandler) DeletePatient(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid patient ID")
		return
	}

	if err := h.patientUsecase.DeletePatient(r.Context(), id); err != nil {
		writeUsecaseError(w, err, "Failed to delete patient")
		return
	}

	response.Success(w, http.StatusOK, "Patient deleted successfully", nil)
}

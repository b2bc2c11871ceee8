package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"hospital-crm/internal/delivery/dto"
	"hospital-crm/internal/usecase"
	"hospital-crm/pkg/response"
	"hospital-crm/pkg/validator"

	"github.com/google/uuid"
)

type MedicineHandler struct {
	medicineUsecase usecase.MedicineUsecase
	validator       *validator.CustomValidator
}

func NewMedicineHandler(medicineUsecase usecase.MedicineUsecase, validator *validator.CustomValidator) *MedicineHandler {
	return &MedicineHandler{
		medicineUsecase: medicineUsecase,
		validator:       validator,
	}
}

// Create handles medicine creation
// @Summary Add a medicine to a hospital's inventory
// @Tags Medicines
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param hospitalId path string true "Hospital ID"
// @Param request body dto.CreateMedicineRequest true "Create Medicine Request"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /hospitals/{hospitalId}/medicines [post]
func (h *MedicineHandler) Create(w http.ResponseWriter, r *http.Request) {
	hospitalID, err := pathUUID(r, "hospitalId")
	if err != nil {
		response.BadRequest(w, "Invalid hospital ID")
		return
	}

	var req dto.CreateMedicineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	medicine, err := h.medicineUsecase.Create(r.Context(), hospitalID, &req)
	if err != nil {
		writeUsecaseError(w, err, "Failed to create medicine")
		return
	}

	response.Success(w, http.StatusCreated, "Medicine created successfully", medicine)
}

// GetAll handles listing a hospital's medicines
// @Summary List medicines
// @Tags Medicines
// @Security BearerAuth
// @Produce json
// @Param hospitalId path string true "Hospital ID"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(10)
// @Success 200 {object} response.Response
// @Router /hospitals/{hospitalId}/medicines [get]
func (h *MedicineHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	hospitalID, err := pathUUID(r, "hospitalId")
	if err != nil {
		response.BadRequest(w, "Invalid hospital ID")
		return
	}

	page, limit := pageParams(r)
	medicines, total, err := h.medicineUsecase.GetAll(r.Context(), hospitalID, page, limit)
	if err != nil {
		writeUsecaseError(w, err, "Failed to get medicines")
		return
	}

	page, limit = effectivePage(page, limit)
	response.SuccessWithMeta(w, http.StatusOK, "Medicines retrieved successfully", medicines, response.NewMeta(page, limit, total))
}

func (h *MedicineHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid medicine ID")
		return
	}

	medicine, err := h.medicineUsecase.GetByID(r.Context(), id)
	if err != nil {
		writeUsecaseError(w, err, "Failed to get medicine")
		return
	}

	response.Success(w, http.StatusOK, "Medicine retrieved successfully", medicine)
}

func (h *MedicineHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid medicine ID")
		return
	}

	var req dto.UpdateMedicineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	medicine, err := h.medicineUsecase.Update(r.Context(), id, &req)
	if err != nil {
		writeUsecaseError(w, err, "Failed to update medicine")
		return
	}

	response.Success(w, http.StatusOK, "Medicine updated successfully", medicine)
}

func (h *MedicineHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid medicine ID")
		return
	}

	if err := h.medicineUsecase.Delete(r.Context(), id); err != nil {
		writeUsecaseError(w, err, "Failed to delete medicine")
		return
	}

	response.Success(w, http.StatusOK, "Medicine deleted successfully", nil)
}

// AddStock handles stock intake
// @Summary Add stock to a medicine
// @Tags Medicines
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Medicine ID"
// @Param request body dto.AdjustStockRequest true "Quantity"
// @Success 200 {object} response.Response
// @Router /medicines/{id}/add-stock [patch]
func (h *MedicineHandler) AddStock(w http.ResponseWriter, r *http.Request) {
	h.adjustStock(w, r, h.medicineUsecase.AddStock, "Stock added successfully")
}

// RemoveStock handles stock removal; it fails with 400 when stock is short.
// @Router /medicines/{id}/remove-stock [patch]
func (h *MedicineHandler) RemoveStock(w http.ResponseWriter, r *http.Request) {
	h.adjustStock(w, r, h.medicineUsecase.RemoveStock, "Stock removed successfully")
}

func (h *MedicineHandler) adjustStock(
	w http.ResponseWriter,
	r *http.Request,
	adjust func(ctx context.Context, id uuid.UUID, quantity int) (*dto.MedicineResponse, error),
	message string,
) {
	id, err := pathUUID(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid medicine ID")
		return
	}

	var req dto.AdjustStockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	medicine, err := adjust(r.Context(), id, req.Quantity)
	if err != nil {
		writeUsecaseError(w, err, "Failed to adjust stock")
		return
	}

	response.Success(w, http.StatusOK, message, medicine)
}

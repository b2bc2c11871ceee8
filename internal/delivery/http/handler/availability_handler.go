package handler

import (
	"net/http"

	"hospital-crm/internal/usecase"
	"hospital-crm/pkg/response"

	"github.com/gorilla/mux"
)

type AvailabilityHandler struct {
	availabilityUsecase usecase.AvailabilityUsecase
}

func NewAvailabilityHandler(availabilityUsecase usecase.AvailabilityUsecase) *AvailabilityHandler {
	return &AvailabilityHandler{
		availabilityUsecase: availabilityUsecase,
	}
}

// ListHospitalAvailability handles the bulk availability view
// @Summary Doctor availability for a hospital
// @Tags Availability
// @Security BearerAuth
// @Produce json
// @Param hospitalId path string true "Hospital ID"
// @Param date query string false "Date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /hospitals/{hospitalId}/availability [get]
func (h *AvailabilityHandler) ListHospitalAvailability(w http.ResponseWriter, r *http.Request) {
	hospitalID, err := pathUUID(r, "hospitalId")
	if err != nil {
		response.BadRequest(w, "Invalid hospital ID")
		return
	}

	availability, err := h.availabilityUsecase.ListHospitalAvailability(r.Context(), hospitalID, r.URL.Query().Get("date"))
	if err != nil {
		writeUsecaseError(w, err, "Failed to get availability")
		return
	}

	response.Success(w, http.StatusOK, "Availability retrieved successfully", availability)
}

// ListStaffSlots handles the per-staff slot view
// @Summary Slot statuses for one doctor or nurse
// @Tags Availability
// @Security BearerAuth
// @Produce json
// @Param staffType path string true "doctor or nurse"
// @Param staffId path string true "Staff ID"
// @Param date query string false "Date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /staff/{staffType}/{staffId}/slots [get]
func (h *AvailabilityHandler) ListStaffSlots(w http.ResponseWriter, r *http.Request) {
	staffID, err := pathUUID(r, "staffId")
	if err != nil {
		response.BadRequest(w, "Invalid staff ID")
		return
	}

	slots, err := h.availabilityUsecase.ListStaffSlots(r.Context(), mux.Vars(r)["staffType"], staffID, r.URL.Query().Get("date"))
	if err != nil {
		writeUsecaseError(w, err, "Failed to get slots")
		return
	}

	if slots.NotAvailableThisDay {
		response.Success(w, http.StatusOK, "Staff member is not available on this day", slots)
		return
	}

	response.Success(w, http.StatusOK, "Slots retrieved successfully", slots)
}

// CheckSlot handles a single slot lookup
// @Summary Check one doctor slot
// @Tags Availability
// @Security BearerAuth
// @Produce json
// @Param doctorId path string true "Doctor ID"
// @Param slot path string true "Slot (HH:MM)"
// @Param date query string false "Date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} response.Response
// @Router /doctors/{doctorId}/slots/{slot} [get]
func (h *AvailabilityHandler) CheckSlot(w http.ResponseWriter, r *http.Request) {
	doctorID, err := pathUUID(r, "doctorId")
	if err != nil {
		response.BadRequest(w, "Invalid doctor ID")
		return
	}

	check, err := h.availabilityUsecase.CheckSlot(r.Context(), doctorID, r.URL.Query().Get("date"), mux.Vars(r)["slot"])
	if err != nil {
		writeUsecaseError(w, err, "Failed to check slot")
		return
	}

	response.Success(w, http.StatusOK, check.Message, check)
}

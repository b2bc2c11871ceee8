package dto

import (
	"github.com/google/uuid"
)

// Response DTOs

type WindowTimeResponse struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type DoctorAvailabilityResponse struct {
	DoctorID        uuid.UUID            `json:"doctor_id"`
	Name            string               `json:"name"`
	Specialization  string               `json:"specialization"`
	ExperienceYears int                  `json:"experience_years"`
	Tags            []string             `json:"tags"`
	Availability    []WindowTimeResponse `json:"availability"`
	AvailableSlots  []string             `json:"available_slots"`
	BookedSlots     []string             `json:"booked_slots"`
	TotalSlots      int                  `json:"total_slots"`
	BookedCount     int                  `json:"booked_count"`
	FreeCount       int                  `json:"free_count"`
}

type HospitalAvailabilityResponse struct {
	HospitalID uuid.UUID                    `json:"hospital_id"`
	Date       string                       `json:"date"`
	DayOfWeek  string                       `json:"day_of_week"`
	Doctors    []DoctorAvailabilityResponse `json:"doctors"`
}

type SlotStatusResponse struct {
	Time   string `json:"time"`
	Status string `json:"status"`
}

// StaffSlotsResponse carries either NotAvailableThisDay or Slots, never both.
type StaffSlotsResponse struct {
	StaffID             uuid.UUID            `json:"staff_id"`
	StaffType           string               `json:"staff_type"`
	Date                string               `json:"date"`
	DayOfWeek           string               `json:"day_of_week"`
	NotAvailableThisDay bool                 `json:"not_available_this_day,omitempty"`
	Slots               []SlotStatusResponse `json:"slots,omitempty"`
}

type SlotCheckResponse struct {
	DoctorID    uuid.UUID `json:"doctor_id"`
	Date        string    `json:"date"`
	Slot        string    `json:"slot"`
	IsAvailable bool      `json:"is_available"`
	Message     string    `json:"message"`
}

package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateAvailabilityWindowRequest struct {
	StaffType string    `json:"staff_type" validate:"required,oneof=doctor nurse"`
	StaffID   uuid.UUID `json:"staff_id" validate:"required"`
	DayOfWeek string    `json:"day_of_week" validate:"required,weekday"`
	StartTime string    `json:"start_time" validate:"required,clock"` // Format: HH:MM
	EndTime   string    `json:"end_time" validate:"required,clock"`   // Format: HH:MM
}

// BulkCreateAvailabilityWindowRequest applies the same time range to every
// staff member and day listed.
type BulkCreateAvailabilityWindowRequest struct {
	StaffType  string      `json:"staff_type" validate:"required,oneof=doctor nurse"`
	StaffIDs   []uuid.UUID `json:"staff_ids" validate:"required,min=1,dive,required"`
	DaysOfWeek []string    `json:"days_of_week" validate:"required,min=1,dive,weekday"`
	StartTime  string      `json:"start_time" validate:"required,clock"`
	EndTime    string      `json:"end_time" validate:"required,clock"`
}

type UpdateAvailabilityWindowRequest struct {
	DayOfWeek string `json:"day_of_week" validate:"omitempty,weekday"`
	StartTime string `json:"start_time" validate:"omitempty,clock"`
	EndTime   string `json:"end_time" validate:"omitempty,clock"`
}

// Response DTOs

type AvailabilityWindowResponse struct {
	ID        uuid.UUID `json:"id"`
	StaffType string    `json:"staff_type"`
	StaffID   uuid.UUID `json:"staff_id"`
	DayOfWeek string    `json:"day_of_week"`
	StartTime string    `json:"start_time"`
	EndTime   string    `json:"end_time"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type WeekdayCountResponse struct {
	DayOfWeek   string `json:"day_of_week"`
	DoctorCount int    `json:"doctor_count"`
}

type WeeklyAvailabilityResponse struct {
	HospitalID *uuid.UUID             `json:"hospital_id,omitempty"`
	Days       []WeekdayCountResponse `json:"days"`
}

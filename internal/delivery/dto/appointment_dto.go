package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateAppointmentRequest struct {
	DoctorID    uuid.UUID `json:"doctor_id" validate:"required"`
	PatientID   uuid.UUID `json:"patient_id" validate:"required"`
	Date        string    `json:"date" validate:"required,isodate"` // Format: YYYY-MM-DD
	Slot        string    `json:"slot" validate:"required,clock"`   // Format: HH:MM
	Description string    `json:"description" validate:"max=2000"`
	Severity    string    `json:"severity" validate:"omitempty,oneof=low medium high critical"`
}

type RescheduleAppointmentRequest struct {
	Date string `json:"date" validate:"required,isodate"`
	Slot string `json:"slot" validate:"required,clock"`
}

type RemarksRequest struct {
	Text     string   `json:"text"`
	Lab      []string `json:"lab"`
	Medicine []string `json:"medicine"`
}

// UpdateConsultationRequest only touches the fields that are set.
type UpdateConsultationRequest struct {
	Description  *string         `json:"description" validate:"omitempty,max=2000"`
	Severity     string          `json:"severity" validate:"omitempty,oneof=low medium high critical"`
	Remarks      *RemarksRequest `json:"remarks"`
	NextFollowup string          `json:"next_followup" validate:"omitempty,isodate"`
	Status       string          `json:"status" validate:"omitempty,oneof=scheduled started completed"`
	LabReportID  *uuid.UUID      `json:"lab_report_id"`
}

type AppointmentListParams struct {
	DoctorID  *uuid.UUID
	PatientID *uuid.UUID
	Date      string
	Status    string
	Page      int
	Limit     int
}

// Response DTOs

type RemarksResponse struct {
	Text     string   `json:"text"`
	Lab      []string `json:"lab"`
	Medicine []string `json:"medicine"`
}

type AppointmentResponse struct {
	ID           uuid.UUID        `json:"id"`
	DoctorID     uuid.UUID        `json:"doctor_id"`
	DoctorName   string           `json:"doctor_name,omitempty"`
	PatientID    uuid.UUID        `json:"patient_id"`
	PatientName  string           `json:"patient_name,omitempty"`
	Date         string           `json:"date"`
	Slot         string           `json:"slot"`
	Severity     string           `json:"severity"`
	Description  string           `json:"description,omitempty"`
	Remarks      *RemarksResponse `json:"remarks,omitempty"`
	NextFollowup *string          `json:"next_followup,omitempty"`
	LabReportID  *uuid.UUID       `json:"lab_report_id,omitempty"`
	Status       string           `json:"status"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

package entity

import "github.com/google/uuid"

// AppointmentFilter is a domain-level filter for listing appointments.
// Used by repository layer to avoid coupling with delivery DTOs.
type AppointmentFilter struct {
	HospitalID *uuid.UUID
	DoctorID   *uuid.UUID
	PatientID  *uuid.UUID
	Date       string // Format: YYYY-MM-DD
	Status     string
	Limit      int
	Offset     int
}

package dto

import (
	"github.com/google/uuid"
)

// Request DTOs

type CreateDoctorRequest struct {
	Email           string   `json:"email" validate:"required,email"`
	FullName        string   `json:"full_name" validate:"required,min=2,max=255"`
	PhoneNumber     string   `json:"phone_number" validate:"omitempty,max=20"`
	Specialization  string   `json:"specialization" validate:"required,max=100"`
	LicenseNumber   string   `json:"license_number" validate:"required,max=50"`
	ExperienceYears int      `json:"experience_years" validate:"gte=0,lte=80"`
	Tags            []string `json:"tags" validate:"omitempty,dive,required,max=50"`
}

type UpdateDoctorRequest struct {
	FullName        string   `json:"full_name" validate:"omitempty,min=2,max=255"`
	PhoneNumber     string   `json:"phone_number" validate:"omitempty,max=20"`
	Specialization  string   `json:"specialization" validate:"omitempty,max=100"`
	LicenseNumber   string   `json:"license_number" validate:"omitempty,max=50"`
	ExperienceYears *int     `json:"experience_years" validate:"omitempty,gte=0,lte=80"`
	Tags            []string `json:"tags" validate:"omitempty,dive,required,max=50"`
	IsAvailable     *bool    `json:"is_available"`
}

type CreateNurseRequest struct {
	Email       string `json:"email" validate:"required,email"`
	FullName    string `json:"full_name" validate:"required,min=2,max=255"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,max=20"`
	ShiftType   string `json:"shift_type" validate:"omitempty,oneof=day night"`
}

type UpdateNurseRequest struct {
	FullName    string `json:"full_name" validate:"omitempty,min=2,max=255"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,max=20"`
	ShiftType   string `json:"shift_type" validate:"omitempty,oneof=day night"`
	IsAvailable *bool  `json:"is_available"`
}

// SetAvailabilityRequest toggles whether a staff member takes bookings.
type SetAvailabilityRequest struct {
	IsAvailable *bool `json:"is_available" validate:"required"`
}

// Response DTOs

type DoctorResponse struct {
	ID              uuid.UUID `json:"id"`
	UserID          uuid.UUID `json:"user_id"`
	HospitalID      uuid.UUID `json:"hospital_id"`
	Email           string    `json:"email"`
	FullName        string    `json:"full_name"`
	PhoneNumber     string    `json:"phone_number,omitempty"`
	Specialization  string    `json:"specialization"`
	LicenseNumber   string    `json:"license_number"`
	ExperienceYears int       `json:"experience_years"`
	Tags            []string  `json:"tags"`
	IsAvailable     bool      `json:"is_available"`
}

type NurseResponse struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	HospitalID  uuid.UUID `json:"hospital_id"`
	Email       string    `json:"email"`
	FullName    string    `json:"full_name"`
	PhoneNumber string    `json:"phone_number,omitempty"`
	ShiftType   string    `json:"shift_type"`
	IsAvailable bool      `json:"is_available"`
}

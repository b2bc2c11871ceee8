package converter

import (
	"hospital-crm/internal/delivery/dto"
	"hospital-crm/internal/domain/entity"
)

// DoctorToResponse converts a Doctor entity with its User to DoctorResponse DTO
func DoctorToResponse(doctor *entity.Doctor) *dto.DoctorResponse {
	if doctor == nil {
		return nil
	}

	return &dto.DoctorResponse{
		ID:              doctor.ID,
		UserID:          doctor.UserID,
		HospitalID:      doctor.HospitalID,
		Email:           doctor.User.Email,
		FullName:        doctor.User.FullName,
		PhoneNumber:     doctor.User.PhoneNumber,
		Specialization:  doctor.Specialization,
		LicenseNumber:   doctor.LicenseNumber,
		ExperienceYears: doctor.ExperienceYears,
		Tags:            doctor.TagList(),
		IsAvailable:     doctor.IsAvailable,
	}
}

// DoctorsToResponses converts a slice of Doctor entities to slice of DoctorResponse DTOs
func DoctorsToResponses(doctors []entity.Doctor) []dto.DoctorResponse {
	responses := make([]dto.DoctorResponse, len(doctors))
	for i := range doctors {
		responses[i] = *DoctorToResponse(&doctors[i])
	}
	return responses
}

// NurseToResponse converts a Nurse entity with its User to NurseResponse DTO
func NurseToResponse(nurse *entity.Nurse) *dto.NurseResponse {
	if nurse == nil {
		return nil
	}

	return &dto.NurseResponse{
		ID:          nurse.ID,
		UserID:      nurse.UserID,
		HospitalID:  nurse.HospitalID,
		Email:       nurse.User.Email,
		FullName:    nurse.User.FullName,
		PhoneNumber: nurse.User.PhoneNumber,
		ShiftType:   nurse.ShiftType,
		IsAvailable: nurse.IsAvailable,
	}
}

func NursesToResponses(nurses []entity.Nurse) []dto.NurseResponse {
	responses := make([]dto.NurseResponse, len(nurses))
	for i := range nurses {
		responses[i] = *NurseToResponse(&nurses[i])
	}
	return responses
}

package converter

import (
	"hospital-crm/internal/delivery/dto"
	"hospital-crm/internal/domain/entity"
)

// MedicineToResponse converts a Medicine entity to MedicineResponse DTO
func MedicineToResponse(medicine *entity.Medicine) *dto.MedicineResponse {
	if medicine == nil {
		return nil
	}

	return &dto.MedicineResponse{
		ID:          medicine.ID,
		HospitalID:  medicine.HospitalID,
		Name:        medicine.Name,
		Description: medicine.Description,
		Price:       medicine.Price,
		Stock:       medicine.Stock,
		CreatedAt:   medicine.CreatedAt,
		UpdatedAt:   medicine.UpdatedAt,
	}
}

// MedicinesToResponses converts a slice of Medicine entities to slice of MedicineResponse DTOs
func MedicinesToResponses(medicines []entity.Medicine) []dto.MedicineResponse {
	responses := make([]dto.MedicineResponse, len(medicines))
	for i := range medicines {
		responses[i] = *MedicineToResponse(&medicines[i])
	}
	return responses
}

package repository

import (
	"context"

	"hospital-crm/internal/domain/entity"

	"github.com/google/uuid"
)

type DoctorRepository interface {
	// Create inserts the doctor together with its User row.
	Create(ctx context.Context, doctor *entity.Doctor) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Doctor, error)
	FindByHospital(ctx context.Context, hospitalID uuid.UUID) ([]entity.Doctor, error)
	// Update saves the doctor and its User row.
	Update(ctx context.Context, doctor *entity.Doctor) error
}

type NurseRepository interface {
	Create(ctx context.Context, nurse *entity.Nurse) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Nurse, error)
	FindByHospital(ctx context.Context, hospitalID uuid.UUID) ([]entity.Nurse, error)
	Update(ctx context.Context, nurse *entity.Nurse) error
}

type PatientRepository interface {
	Create(ctx context.Context, patient *entity.Patient) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Patient, error)
	// FindAllByHospital pages a hospital's patients, optionally filtered by
	// a name or phone fragment.
	FindAllByHospital(ctx context.Context, hospitalID uuid.UUID, search string, limit, offset int) ([]entity.Patient, int64, error)
	Update(ctx context.Context, patient *entity.Patient) error
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
}

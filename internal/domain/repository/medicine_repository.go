package repository

import (
	"context"

	"hospital-crm/internal/domain/entity"

	"github.com/google/uuid"
)

type MedicineRepository interface {
	Create(ctx context.Context, medicine *entity.Medicine) error
	FindAllByHospital(ctx context.Context, hospitalID uuid.UUID, limit, offset int) ([]entity.Medicine, int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Medicine, error)
	Update(ctx context.Context, medicine *entity.Medicine) error
	Delete(ctx context.Context, id uuid.UUID) error
	// AdjustStock adds delta to the stock in one statement. It reports false
	// when the row is gone or the result would drop below zero.
	AdjustStock(ctx context.Context, id uuid.UUID, delta int) (bool, error)
}

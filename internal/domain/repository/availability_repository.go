package repository

import (
	"context"

	"hospital-crm/internal/domain/entity"

	"github.com/google/uuid"
)

type AvailabilityRepository interface {
	Create(ctx context.Context, window *entity.AvailabilityWindow) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.AvailabilityWindow, error)
	FindByStaff(ctx context.Context, staffType entity.StaffType, staffID uuid.UUID) ([]entity.AvailabilityWindow, error)
	FindByStaffAndDay(ctx context.Context, staffType entity.StaffType, staffID uuid.UUID, dayOfWeek string) ([]entity.AvailabilityWindow, error)
	// FindDoctorWindows lists doctor windows, limited to one hospital when hospitalID is set.
	FindDoctorWindows(ctx context.Context, hospitalID *uuid.UUID) ([]entity.AvailabilityWindow, error)
	Update(ctx context.Context, window *entity.AvailabilityWindow) error
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
}

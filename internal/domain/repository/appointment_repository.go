package repository

import (
	"context"
	"time"

	"hospital-crm/internal/domain/entity"

	"github.com/google/uuid"
)

type AppointmentRepository interface {
	Create(ctx context.Context, appointment *entity.Appointment) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Appointment, error)
	FindAll(ctx context.Context, filter *entity.AppointmentFilter) ([]entity.Appointment, int64, error)
	// FindBookedSlots returns the slot labels of live appointments for one doctor and date.
	FindBookedSlots(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]string, error)
	Update(ctx context.Context, appointment *entity.Appointment) error
	Cancel(ctx context.Context, id uuid.UUID) (int64, error)
}

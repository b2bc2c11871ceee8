package repository

import (
	"context"
	"errors"
	"time"

	"hospital-crm/internal/domain/entity"
	domainRepo "hospital-crm/internal/domain/repository"
	"hospital-crm/internal/infrastructure/database"
	"hospital-crm/pkg/timeslot"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type appointmentRepository struct {
	db *gorm.DB
}

func NewAppointmentRepository(db *gorm.DB) domainRepo.AppointmentRepository {
	return &appointmentRepository{db: db}
}

func (r *appointmentRepository) Create(ctx context.Context, appointment *entity.Appointment) error {
	return database.Conn(ctx, r.db).Omit("Doctor", "Patient").Create(appointment).Error
}

func (r *appointmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := database.Conn(ctx, r.db).
		Preload("Doctor.User").
		Preload("Patient").
		Where("id = ?", id).
		First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) FindAll(ctx context.Context, filter *entity.AppointmentFilter) ([]entity.Appointment, int64, error) {
	var appointments []entity.Appointment
	var total int64

	query := database.Conn(ctx, r.db).Model(&entity.Appointment{})

	if filter.HospitalID != nil {
		query = query.Joins("JOIN doctors ON doctors.id = appointments.doctor_id").
			Where("doctors.hospital_id = ?", *filter.HospitalID)
	}
	if filter.DoctorID != nil {
		query = query.Where("appointments.doctor_id = ?", *filter.DoctorID)
	}
	if filter.PatientID != nil {
		query = query.Where("appointments.patient_id = ?", *filter.PatientID)
	}
	if filter.Date != "" {
		query = query.Where("appointments.date = ?", filter.Date)
	}
	if filter.Status != "" {
		query = query.Where("appointments.status = ?", filter.Status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("Doctor.User").
		Preload("Patient").
		Order("appointments.date DESC, appointments.slot ASC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&appointments).Error
	if err != nil {
		return nil, 0, err
	}

	return appointments, total, nil
}

// FindBookedSlots skips cancelled rows; their slots are free again.
func (r *appointmentRepository) FindBookedSlots(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]string, error) {
	var raw []string
	err := database.Conn(ctx, r.db).
		Model(&entity.Appointment{}).
		Where("doctor_id = ? AND date = ? AND status <> ?", doctorID, date.Format(timeslot.DateLayout), entity.AppointmentStatusCancelled).
		Order("slot ASC").
		Pluck("slot", &raw).Error
	if err != nil {
		return nil, err
	}

	slots := make([]string, 0, len(raw))
	for _, s := range raw {
		label, err := timeslot.Normalize(s)
		if err != nil {
			// The column check constraint keeps this from happening; keep
			// the raw value so it still counts against the grid lookup.
			label = s
		}
		slots = append(slots, label)
	}
	return slots, nil
}

func (r *appointmentRepository) Update(ctx context.Context, appointment *entity.Appointment) error {
	return database.Conn(ctx, r.db).Omit("Doctor", "Patient").Save(appointment).Error
}

// Cancel atomically cancels an appointment ONLY if it's not already cancelled.
// Returns affected rows: 1 = success, 0 = already cancelled or missing.
func (r *appointmentRepository) Cancel(ctx context.Context, id uuid.UUID) (int64, error) {
	result := database.Conn(ctx, r.db).Model(&entity.Appointment{}).
		Where("id = ? AND status <> ?", id, entity.AppointmentStatusCancelled).
		Update("status", entity.AppointmentStatusCancelled)
	return result.RowsAffected, result.Error
}

package repository

import (
	"context"
	"errors"

	"hospital-crm/internal/domain/entity"
	domainRepo "hospital-crm/internal/domain/repository"
	"hospital-crm/internal/infrastructure/database"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type availabilityRepository struct {
	db *gorm.DB
}

func NewAvailabilityRepository(db *gorm.DB) domainRepo.AvailabilityRepository {
	return &availabilityRepository{db: db}
}

func (r *availabilityRepository) Create(ctx context.Context, window *entity.AvailabilityWindow) error {
	return database.Conn(ctx, r.db).Create(window).Error
}

func (r *availabilityRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.AvailabilityWindow, error) {
	var window entity.AvailabilityWindow
	err := database.Conn(ctx, r.db).Where("id = ?", id).First(&window).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &window, nil
}

func (r *availabilityRepository) FindByStaff(ctx context.Context, staffType entity.StaffType, staffID uuid.UUID) ([]entity.AvailabilityWindow, error) {
	var windows []entity.AvailabilityWindow
	err := database.Conn(ctx, r.db).
		Where("staff_type = ? AND staff_id = ?", staffType, staffID).
		Order("CASE day_of_week " +
			"WHEN 'monday' THEN 1 WHEN 'tuesday' THEN 2 WHEN 'wednesday' THEN 3 " +
			"WHEN 'thursday' THEN 4 WHEN 'friday' THEN 5 WHEN 'saturday' THEN 6 ELSE 7 END").
		Order("start_time ASC").
		Find(&windows).Error
	if err != nil {
		return nil, err
	}
	return windows, nil
}

func (r *availabilityRepository) FindByStaffAndDay(ctx context.Context, staffType entity.StaffType, staffID uuid.UUID, dayOfWeek string) ([]entity.AvailabilityWindow, error) {
	var windows []entity.AvailabilityWindow
	err := database.Conn(ctx, r.db).
		Where("staff_type = ? AND staff_id = ? AND day_of_week = ?", staffType, staffID, dayOfWeek).
		Order("start_time ASC").
		Find(&windows).Error
	if err != nil {
		return nil, err
	}
	return windows, nil
}

func (r *availabilityRepository) FindDoctorWindows(ctx context.Context, hospitalID *uuid.UUID) ([]entity.AvailabilityWindow, error) {
	var windows []entity.AvailabilityWindow
	query := database.Conn(ctx, r.db).
		Model(&entity.AvailabilityWindow{}).
		Where("availabilities.staff_type = ?", entity.StaffTypeDoctor)

	if hospitalID != nil {
		query = query.Joins("JOIN doctors ON doctors.id = availabilities.staff_id").
			Where("doctors.hospital_id = ?", *hospitalID)
	}

	if err := query.Find(&windows).Error; err != nil {
		return nil, err
	}
	return windows, nil
}

func (r *availabilityRepository) Update(ctx context.Context, window *entity.AvailabilityWindow) error {
	return database.Conn(ctx, r.db).Save(window).Error
}

func (r *availabilityRepository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	result := database.Conn(ctx, r.db).Where("id = ?", id).Delete(&entity.AvailabilityWindow{})
	return result.RowsAffected, result.Error
}

package repository

import (
	"context"
	"errors"
	"strings"

	"hospital-crm/internal/domain/entity"
	domainRepo "hospital-crm/internal/domain/repository"
	"hospital-crm/internal/infrastructure/database"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type doctorRepository struct {
	db *gorm.DB
}

func NewDoctorRepository(db *gorm.DB) domainRepo.DoctorRepository {
	return &doctorRepository{db: db}
}

func (r *doctorRepository) Create(ctx context.Context, doctor *entity.Doctor) error {
	return database.Conn(ctx, r.db).Create(doctor).Error
}

func (r *doctorRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Doctor, error) {
	var doctor entity.Doctor
	err := database.Conn(ctx, r.db).Preload("User").Where("id = ?", id).First(&doctor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &doctor, nil
}

// FindByHospital returns every doctor of a hospital ordered by name then id.
func (r *doctorRepository) FindByHospital(ctx context.Context, hospitalID uuid.UUID) ([]entity.Doctor, error) {
	var doctors []entity.Doctor
	err := database.Conn(ctx, r.db).
		Joins("User").
		Where("doctors.hospital_id = ?", hospitalID).
		Order(`"User"."full_name" ASC, doctors.id ASC`).
		Find(&doctors).Error
	if err != nil {
		return nil, err
	}
	return doctors, nil
}

func (r *doctorRepository) Update(ctx context.Context, doctor *entity.Doctor) error {
	db := database.Conn(ctx, r.db)
	if err := db.Save(&doctor.User).Error; err != nil {
		return err
	}
	return db.Omit("User").Save(doctor).Error
}

type nurseRepository struct {
	db *gorm.DB
}

func NewNurseRepository(db *gorm.DB) domainRepo.NurseRepository {
	return &nurseRepository{db: db}
}

func (r *nurseRepository) Create(ctx context.Context, nurse *entity.Nurse) error {
	return database.Conn(ctx, r.db).Create(nurse).Error
}

func (r *nurseRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Nurse, error) {
	var nurse entity.Nurse
	err := database.Conn(ctx, r.db).Preload("User").Where("id = ?", id).First(&nurse).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &nurse, nil
}

// FindByHospital returns every nurse of a hospital ordered by name then id.
func (r *nurseRepository) FindByHospital(ctx context.Context, hospitalID uuid.UUID) ([]entity.Nurse, error) {
	var nurses []entity.Nurse
	err := database.Conn(ctx, r.db).
		Joins("User").
		Where("nurses.hospital_id = ?", hospitalID).
		Order(`"User"."full_name" ASC, nurses.id ASC`).
		Find(&nurses).Error
	if err != nil {
		return nil, err
	}
	return nurses, nil
}

func (r *nurseRepository) Update(ctx context.Context, nurse *entity.Nurse) error {
	db := database.Conn(ctx, r.db)
	if err := db.Save(&nurse.User).Error; err != nil {
		return err
	}
	return db.Omit("User").Save(nurse).Error
}

type patientRepository struct {
	db *gorm.DB
}

func NewPatientRepository(db *gorm.DB) domainRepo.PatientRepository {
	return &patientRepository{db: db}
}

func (r *patientRepository) Create(ctx context.Context, patient *entity.Patient) error {
	return database.Conn(ctx, r.db).Create(patient).Error
}

func (r *patientRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Patient, error) {
	var patient entity.Patient
	err := database.Conn(ctx, r.db).Where("id = ?", id).First(&patient).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &patient, nil
}

func (r *patientRepository) FindAllByHospital(ctx context.Context, hospitalID uuid.UUID, search string, limit, offset int) ([]entity.Patient, int64, error) {
	var patients []entity.Patient
	var total int64

	query := database.Conn(ctx, r.db).Model(&entity.Patient{}).Where("hospital_id = ?", hospitalID)
	if search = strings.TrimSpace(search); search != "" {
		like := "%" + search + "%"
		query = query.Where("full_name ILIKE ? OR phone_number ILIKE ?", like, like)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Limit(limit).Offset(offset).Order("full_name ASC, id ASC").Find(&patients).Error; err != nil {
		return nil, 0, err
	}

	return patients, total, nil
}

func (r *patientRepository) Update(ctx context.Context, patient *entity.Patient) error {
	return database.Conn(ctx, r.db).Save(patient).Error
}

func (r *patientRepository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	result := database.Conn(ctx, r.db).Where("id = ?", id).Delete(&entity.Patient{})
	return result.RowsAffected, result.Error
}

package usecase

import (
	"context"
	"strings"

	"hospital-crm/internal/converter"
	"hospital-crm/internal/delivery/dto"
	"hospital-crm/internal/delivery/http/middleware"
	"hospital-crm/internal/domain/entity"
	"hospital-crm/internal/domain/repository"
	"hospital-crm/internal/infrastructure/database"
	"hospital-crm/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// StaffUsecase manages the doctor and nurse records the slot engine reads.
// Credentials are owned by the identity service, so only the profile and its
// User row are written here.
type StaffUsecase interface {
	CreateDoctor(ctx context.Context, hospitalID uuid.UUID, req *dto.CreateDoctorRequest) (*dto.DoctorResponse, error)
	GetDoctor(ctx context.Context, id uuid.UUID) (*dto.DoctorResponse, error)
	ListDoctors(ctx context.Context, hospitalID uuid.UUID) ([]dto.DoctorResponse, error)
	UpdateDoctor(ctx context.Context, id uuid.UUID, req *dto.UpdateDoctorRequest) (*dto.DoctorResponse, error)
	SetDoctorAvailability(ctx context.Context, id uuid.UUID, available bool) (*dto.DoctorResponse, error)

	CreateNurse(ctx context.Context, hospitalID uuid.UUID, req *dto.CreateNurseRequest) (*dto.NurseResponse, error)
	GetNurse(ctx context.Context, id uuid.UUID) (*dto.NurseResponse, error)
	ListNurses(ctx context.Context, hospitalID uuid.UUID) ([]dto.NurseResponse, error)
	UpdateNurse(ctx context.Context, id uuid.UUID, req *dto.UpdateNurseRequest) (*dto.NurseResponse, error)
	SetNurseAvailability(ctx context.Context, id uuid.UUID, available bool) (*dto.NurseResponse, error)
}

type staffUsecase struct {
	log          *logrus.Logger
	transactor   database.Transactor
	doctorRepo   repository.DoctorRepository
	nurseRepo    repository.NurseRepository
	auditService service.AuditService
}

func NewStaffUsecase(
	log *logrus.Logger,
	transactor database.Transactor,
	doctorRepo repository.DoctorRepository,
	nurseRepo repository.NurseRepository,
	auditService service.AuditService,
) StaffUsecase {
	return &staffUsecase{
		log:          log,
		transactor:   transactor,
		doctorRepo:   doctorRepo,
		nurseRepo:    nurseRepo,
		auditService: auditService,
	}
}

func (u *staffUsecase) CreateDoctor(ctx context.Context, hospitalID uuid.UUID, req *dto.CreateDoctorRequest) (*dto.DoctorResponse, error) {
	if !middleware.CanAccessHospital(ctx, hospitalID) {
		return nil, ErrForbidden
	}

	doctor := &entity.Doctor{
		HospitalID:      hospitalID,
		Specialization:  strings.TrimSpace(req.Specialization),
		LicenseNumber:   strings.TrimSpace(req.LicenseNumber),
		ExperienceYears: req.ExperienceYears,
		Tags:            joinTags(req.Tags),
		IsAvailable:     true,
		User:            newStaffUser(hospitalID, entity.RoleDoctor, req.Email, req.FullName, req.PhoneNumber),
	}

	err := u.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := u.doctorRepo.Create(ctx, doctor); err != nil {
			return mapStaffWriteError(err)
		}
		return u.auditService.LogCreate(ctx, middleware.ActorFromContext(ctx), entity.AuditActionDoctorCreate, "doctor", doctor.ID.String(), converter.DoctorToResponse(doctor))
	})
	if err != nil {
		if !IsConflict(err) && !IsNotFound(err) {
			u.log.Warnf("Failed to create doctor for hospital %s: %+v", hospitalID, err)
		}
		return nil, err
	}

	return converter.DoctorToResponse(doctor), nil
}

func (u *staffUsecase) GetDoctor(ctx context.Context, id uuid.UUID) (*dto.DoctorResponse, error) {
	doctor, err := u.findDoctor(ctx, id)
	if err != nil {
		return nil, err
	}

	return converter.DoctorToResponse(doctor), nil
}

func (u *staffUsecase) ListDoctors(ctx context.Context, hospitalID uuid.UUID) ([]dto.DoctorResponse, error) {
	if !middleware.CanAccessHospital(ctx, hospitalID) {
		return nil, ErrForbidden
	}

	doctors, err := u.doctorRepo.FindByHospital(ctx, hospitalID)
	if err != nil {
		u.log.Warnf("Failed to list doctors for hospital %s: %+v", hospitalID, err)
		return nil, err
	}

	return converter.DoctorsToResponses(doctors), nil
}

func (u *staffUsecase) UpdateDoctor(ctx context.Context, id uuid.UUID, req *dto.UpdateDoctorRequest) (*dto.DoctorResponse, error) {
	doctor, err := u.findDoctor(ctx, id)
	if err != nil {
		return nil, err
	}

	oldValue := converter.DoctorToResponse(doctor)

	if req.FullName != "" {
		doctor.User.FullName = strings.TrimSpace(req.FullName)
	}
	if req.PhoneNumber != "" {
		doctor.User.PhoneNumber = req.PhoneNumber
	}
	if req.Specialization != "" {
		doctor.Specialization = strings.TrimSpace(req.Specialization)
	}
	if req.LicenseNumber != "" {
		doctor.LicenseNumber = strings.TrimSpace(req.LicenseNumber)
	}
	if req.ExperienceYears != nil {
		doctor.ExperienceYears = *req.ExperienceYears
	}
	if req.Tags != nil {
		doctor.Tags = joinTags(req.Tags)
	}
	if req.IsAvailable != nil {
		doctor.IsAvailable = *req.IsAvailable
	}

	return u.saveDoctor(ctx, doctor, oldValue)
}

// SetDoctorAvailability switches a doctor in or out of hospital-wide
// availability listings. Existing appointments are left untouched.
func (u *staffUsecase) SetDoctorAvailability(ctx context.Context, id uuid.UUID, available bool) (*dto.DoctorResponse, error) {
	doctor, err := u.findDoctor(ctx, id)
	if err != nil {
		return nil, err
	}
	if doctor.IsAvailable == available {
		return converter.DoctorToResponse(doctor), nil
	}

	oldValue := converter.DoctorToResponse(doctor)
	doctor.IsAvailable = available

	return u.saveDoctor(ctx, doctor, oldValue)
}

func (u *staffUsecase) saveDoctor(ctx context.Context, doctor *entity.Doctor, oldValue *dto.DoctorResponse) (*dto.DoctorResponse, error) {
	err := u.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := u.doctorRepo.Update(ctx, doctor); err != nil {
			return mapStaffWriteError(err)
		}
		return u.auditService.LogUpdate(ctx, middleware.ActorFromContext(ctx), entity.AuditActionDoctorUpdate, "doctor", doctor.ID.String(), oldValue, converter.DoctorToResponse(doctor))
	})
	if err != nil {
		if !IsConflict(err) {
			u.log.Warnf("Failed to update doctor %s: %+v", doctor.ID, err)
		}
		return nil, err
	}

	return converter.DoctorToResponse(doctor), nil
}

func (u *staffUsecase) findDoctor(ctx context.Context, id uuid.UUID) (*entity.Doctor, error) {
	doctor, err := u.doctorRepo.FindByID(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", id, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}
	if !middleware.CanAccessHospital(ctx, doctor.HospitalID) {
		return nil, ErrForbidden
	}
	return doctor, nil
}

func (u *staffUsecase) CreateNurse(ctx context.Context, hospitalID uuid.UUID, req *dto.CreateNurseRequest) (*dto.NurseResponse, error) {
	if !middleware.CanAccessHospital(ctx, hospitalID) {
		return nil, ErrForbidden
	}

	shift := req.ShiftType
	if shift == "" {
		shift = entity.ShiftDay
	}

	nurse := &entity.Nurse{
		HospitalID:  hospitalID,
		ShiftType:   shift,
		IsAvailable: true,
		User:        newStaffUser(hospitalID, entity.RoleNurse, req.Email, req.FullName, req.PhoneNumber),
	}

	err := u.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := u.nurseRepo.Create(ctx, nurse); err != nil {
			return mapStaffWriteError(err)
		}
		return u.auditService.LogCreate(ctx, middleware.ActorFromContext(ctx), entity.AuditActionNurseCreate, "nurse", nurse.ID.String(), converter.NurseToResponse(nurse))
	})
	if err != nil {
		if !IsConflict(err) && !IsNotFound(err) {
			u.log.Warnf("Failed to create nurse for hospital %s: %+v", hospitalID, err)
		}
		return nil, err
	}

	return converter.NurseToResponse(nurse), nil
}

func (u *staffUsecase) GetNurse(ctx context.Context, id uuid.UUID) (*dto.NurseResponse, error) {
	nurse, err := u.findNurse(ctx, id)
	if err != nil {
		return nil, err
	}

	return converter.NurseToResponse(nurse), nil
}

func (u *staffUsecase) ListNurses(ctx context.Context, hospitalID uuid.UUID) ([]dto.NurseResponse, error) {
	if !middleware.CanAccessHospital(ctx, hospitalID) {
		return nil, ErrForbidden
	}

	nurses, err := u.nurseRepo.FindByHospital(ctx, hospitalID)
	if err != nil {
		u.log.Warnf("Failed to list nurses for hospital %s: %+v", hospitalID, err)
		return nil, err
	}

	return converter.NursesToResponses(nurses), nil
}

func (u *staffUsecase) UpdateNurse(ctx context.Context, id uuid.UUID, req *dto.UpdateNurseRequest) (*dto.NurseResponse, error) {
	nurse, err := u.findNurse(ctx, id)
	if err != nil {
		return nil, err
	}

	oldValue := converter.NurseToResponse(nurse)

	if req.FullName != "" {
		nurse.User.FullName = strings.TrimSpace(req.FullName)
	}
	if req.PhoneNumber != "" {
		nurse.User.PhoneNumber = req.PhoneNumber
	}
	if req.ShiftType != "" {
		nurse.ShiftType = req.ShiftType
	}
	if req.IsAvailable != nil {
		nurse.IsAvailable = *req.IsAvailable
	}

	return u.saveNurse(ctx, nurse, oldValue)
}

func (u *staffUsecase) SetNurseAvailability(ctx context.Context, id uuid.UUID, available bool) (*dto.NurseResponse, error) {
	nurse, err := u.findNurse(ctx, id)
	if err != nil {
		return nil, err
	}
	if nurse.IsAvailable == available {
		return converter.NurseToResponse(nurse), nil
	}

	oldValue := converter.NurseToResponse(nurse)
	nurse.IsAvailable = available

	return u.saveNurse(ctx, nurse, oldValue)
}

func (u *staffUsecase) saveNurse(ctx context.Context, nurse *entity.Nurse, oldValue *dto.NurseResponse) (*dto.NurseResponse, error) {
	err := u.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := u.nurseRepo.Update(ctx, nurse); err != nil {
			return mapStaffWriteError(err)
		}
		return u.auditService.LogUpdate(ctx, middleware.ActorFromContext(ctx), entity.AuditActionNurseUpdate, "nurse", nurse.ID.String(), oldValue, converter.NurseToResponse(nurse))
	})
	if err != nil {
		if !IsConflict(err) {
			u.log.Warnf("Failed to update nurse %s: %+v", nurse.ID, err)
		}
		return nil, err
	}

	return converter.NurseToResponse(nurse), nil
}

func (u *staffUsecase) findNurse(ctx context.Context, id uuid.UUID) (*entity.Nurse, error) {
	nurse, err := u.nurseRepo.FindByID(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to find nurse %s: %+v", id, err)
		return nil, err
	}
	if nurse == nil {
		return nil, ErrStaffNotFound
	}
	if !middleware.CanAccessHospital(ctx, nurse.HospitalID) {
		return nil, ErrForbidden
	}
	return nurse, nil
}

func newStaffUser(hospitalID uuid.UUID, role, email, fullName, phone string) entity.User {
	return entity.User{
		FullName:    strings.TrimSpace(fullName),
		Email:       strings.ToLower(strings.TrimSpace(email)),
		PhoneNumber: phone,
		Role:        role,
		HospitalID:  &hospitalID,
	}
}

// joinTags stores tags as the comma separated column Doctor.TagList reads.
func joinTags(tags []string) string {
	cleaned := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(strings.ReplaceAll(t, ",", " ")); t != "" {
			cleaned = append(cleaned, t)
		}
	}
	return strings.Join(cleaned, ",")
}

func mapStaffWriteError(err error) error {
	switch {
	case isDuplicateKeyError(err, "email"):
		return ErrEmailExists
	case isDuplicateKeyError(err, "license_number"):
		return ErrLicenseExists
	case isForeignKeyError(err, "hospital"):
		return ErrHospitalNotFound
	}
	return err
}

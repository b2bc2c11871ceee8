package usecase

import (
	"context"
	"strings"
	"time"

	"hospital-crm/internal/converter"
	"hospital-crm/internal/delivery/dto"
	"hospital-crm/internal/delivery/http/middleware"
	"hospital-crm/internal/domain/entity"
	"hospital-crm/internal/domain/repository"
	"hospital-crm/internal/infrastructure/database"
	"hospital-crm/internal/service"
	"hospital-crm/pkg/timeslot"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type PatientUsecase interface {
	CreatePatient(ctx context.Context, hospitalID uuid.UUID, req *dto.CreatePatientRequest) (*dto.PatientResponse, error)
	GetPatient(ctx context.Context, id uuid.UUID) (*dto.PatientResponse, error)
	ListPatients(ctx context.Context, hospitalID uuid.UUID, search string, page, limit int) ([]dto.PatientResponse, int64, error)
	UpdatePatient(ctx context.Context, id uuid.UUID, req *dto.UpdatePatientRequest) (*dto.PatientResponse, error)
	DeletePatient(ctx context.Context, id uuid.UUID) error
}

type patientUsecase struct {
	log          *logrus.Logger
	transactor   database.Transactor
	patientRepo  repository.PatientRepository
	auditService service.AuditService
}

func NewPatientUsecase(
	log *logrus.Logger,
	transactor database.Transactor,
	patientRepo repository.PatientRepository,
	auditService service.AuditService,
) PatientUsecase {
	return &patientUsecase{
		log:          log,
		transactor:   transactor,
		patientRepo:  patientRepo,
		auditService: auditService,
	}
}

func (u *patientUsecase) CreatePatient(ctx context.Context, hospitalID uuid.UUID, req *dto.CreatePatientRequest) (*dto.PatientResponse, error) {
	if !middleware.CanAccessHospital(ctx, hospitalID) {
		return nil, ErrForbidden
	}

	dob, err := parseBirthDate(req.DateOfBirth)
	if err != nil {
		return nil, err
	}

	patient := &entity.Patient{
		HospitalID:  hospitalID,
		FullName:    strings.TrimSpace(req.FullName),
		PhoneNumber: req.PhoneNumber,
		DateOfBirth: dob,
		Gender:      req.Gender,
		Address:     req.Address,
	}

	err = u.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := u.patientRepo.Create(ctx, patient); err != nil {
			if isForeignKeyError(err, "hospital") {
				return ErrHospitalNotFound
			}
			return err
		}
		return u.auditService.LogCreate(ctx, middleware.ActorFromContext(ctx), entity.AuditActionPatientCreate, "patient", patient.ID.String(), converter.PatientToResponse(patient))
	})
	if err != nil {
		if !IsNotFound(err) {
			u.log.Warnf("Failed to create patient for hospital %s: %+v", hospitalID, err)
		}
		return nil, err
	}

	return converter.PatientToResponse(patient), nil
}

func (u *patientUsecase) GetPatient(ctx context.Context, id uuid.UUID) (*dto.PatientResponse, error) {
	patient, err := u.find(ctx, id)
	if err != nil {
		return nil, err
	}

	return converter.PatientToResponse(patient), nil
}

func (u *patientUsecase) ListPatients(ctx context.Context, hospitalID uuid.UUID, search string, page, limit int) ([]dto.PatientResponse, int64, error) {
	if !middleware.CanAccessHospital(ctx, hospitalID) {
		return nil, 0, ErrForbidden
	}

	page, limit = normalizePage(page, limit)
	offset := (page - 1) * limit

	patients, total, err := u.patientRepo.FindAllByHospital(ctx, hospitalID, search, limit, offset)
	if err != nil {
		u.log.Warnf("Failed to list patients for hospital %s: %+v", hospitalID, err)
		return nil, 0, err
	}

	return converter.PatientsToResponses(patients), total, nil
}

func (u *patientUsecase) UpdatePatient(ctx context.Context, id uuid.UUID, req *dto.UpdatePatientRequest) (*dto.PatientResponse, error) {
	patient, err := u.find(ctx, id)
	if err != nil {
		return nil, err
	}

	oldValue := converter.PatientToResponse(patient)

	if req.FullName != "" {
		patient.FullName = strings.TrimSpace(req.FullName)
	}
	if req.PhoneNumber != "" {
		patient.PhoneNumber = req.PhoneNumber
	}
	if req.DateOfBirth != "" {
		dob, err := parseBirthDate(req.DateOfBirth)
		if err != nil {
			return nil, err
		}
		patient.DateOfBirth = dob
	}
	if req.Gender != "" {
		patient.Gender = req.Gender
	}
	if req.Address != "" {
		patient.Address = req.Address
	}

	err = u.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := u.patientRepo.Update(ctx, patient); err != nil {
			return err
		}
		return u.auditService.LogUpdate(ctx, middleware.ActorFromContext(ctx), entity.AuditActionPatientUpdate, "patient", id.String(), oldValue, converter.PatientToResponse(patient))
	})
	if err != nil {
		u.log.Warnf("Failed to update patient %s: %+v", id, err)
		return nil, err
	}

	return converter.PatientToResponse(patient), nil
}

// DeletePatient removes the patient and, through the foreign key, their
// appointments.
func (u *patientUsecase) DeletePatient(ctx context.Context, id uuid.UUID) error {
	patient, err := u.find(ctx, id)
	if err != nil {
		return err
	}

	return u.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		affected, err := u.patientRepo.Delete(ctx, id)
		if err != nil {
			u.log.Warnf("Failed to delete patient %s: %+v", id, err)
			return err
		}
		if affected == 0 {
			return ErrPatientNotFound
		}
		return u.auditService.LogDelete(ctx, middleware.ActorFromContext(ctx), entity.AuditActionPatientDelete, "patient", id.String(), converter.PatientToResponse(patient))
	})
}

func (u *patientUsecase) find(ctx context.Context, id uuid.UUID) (*entity.Patient, error) {
	patient, err := u.patientRepo.FindByID(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to find patient %s: %+v", id, err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}
	if !middleware.CanAccessHospital(ctx, patient.HospitalID) {
		return nil, ErrForbidden
	}
	return patient, nil
}

// parseBirthDate accepts an empty string as "unknown".
func parseBirthDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	d, err := timeslot.ParseDate(s)
	if err != nil {
		return nil, ErrInvalidDate
	}
	return &d, nil
}

package usecase

import (
	"context"
	"errors"
	"time"

	"hospital-crm/config"
	"hospital-crm/internal/converter"
	"hospital-crm/internal/delivery/dto"
	"hospital-crm/internal/delivery/http/middleware"
	"hospital-crm/internal/domain/entity"
	"hospital-crm/internal/domain/repository"
	"hospital-crm/internal/infrastructure/database"
	"hospital-crm/internal/service"
	"hospital-crm/pkg/metrics"
	"hospital-crm/pkg/timeslot"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// SlotLocker is the fast-path guard taken before the booking transaction.
type SlotLocker interface {
	Acquire(ctx context.Context, doctorID uuid.UUID, date time.Time, slot string) (*service.SlotLock, error)
	Release(ctx context.Context, lock *service.SlotLock) error
}

type AppointmentUsecase interface {
	BookAppointment(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error)
	GetAppointment(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error)
	ListAppointments(ctx context.Context, params *dto.AppointmentListParams) ([]dto.AppointmentResponse, int64, error)
	UpdateConsultation(ctx context.Context, id uuid.UUID, req *dto.UpdateConsultationRequest) (*dto.AppointmentResponse, error)
	RescheduleAppointment(ctx context.Context, id uuid.UUID, req *dto.RescheduleAppointmentRequest) (*dto.AppointmentResponse, error)
	CancelAppointment(ctx context.Context, id uuid.UUID) error
}

type appointmentUsecase struct {
	log             *logrus.Logger
	transactor      database.Transactor
	doctorRepo      repository.DoctorRepository
	patientRepo     repository.PatientRepository
	appointmentRepo repository.AppointmentRepository
	auditService    service.AuditService
	slotLocker      SlotLocker
	engine          *slotEngine
}

func NewAppointmentUsecase(
	log *logrus.Logger,
	cfg config.BookingConfig,
	transactor database.Transactor,
	doctorRepo repository.DoctorRepository,
	patientRepo repository.PatientRepository,
	availabilityRepo repository.AvailabilityRepository,
	appointmentRepo repository.AppointmentRepository,
	auditService service.AuditService,
	slotLocker SlotLocker,
) AppointmentUsecase {
	return &appointmentUsecase{
		log:             log,
		transactor:      transactor,
		doctorRepo:      doctorRepo,
		patientRepo:     patientRepo,
		appointmentRepo: appointmentRepo,
		auditService:    auditService,
		slotLocker:      slotLocker,
		engine:          newSlotEngine(log, availabilityRepo, appointmentRepo, time.Duration(cfg.SlotDurationMinutes)*time.Minute),
	}
}

// BookAppointment writes a new appointment for a free slot on the doctor's grid.
//
// Flow:
// 1. Validate date and slot format
// 2. Doctor and patient must exist
// 3. Slot must be on the doctor's grid for that weekday
// 4. Take the Redis slot lock (held by someone else -> conflict)
// 5. In one transaction: re-read the ledger, insert, write the audit row.
// The partial unique index on (doctor_id, date, slot) decides any race that
// gets past the lock.
func (u *appointmentUsecase) BookAppointment(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	date, err := timeslot.ParseDate(req.Date)
	if err != nil {
		return nil, ErrInvalidDate
	}
	if !timeslot.IsSlotLabel(req.Slot) {
		return nil, ErrInvalidSlot
	}

	severity := req.Severity
	if severity == "" {
		severity = entity.SeverityLow
	}
	if !entity.IsValidSeverity(severity) {
		return nil, ErrInvalidSeverity
	}

	doctor, err := u.findDoctor(ctx, req.DoctorID)
	if err != nil {
		return nil, err
	}

	patient, err := u.patientRepo.FindByID(ctx, req.PatientID)
	if err != nil {
		u.log.Warnf("Failed to find patient %s: %+v", req.PatientID, err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	if err := u.ensureOnGrid(ctx, doctor.ID, date, req.Slot); err != nil {
		metrics.RecordBooking("outside_availability")
		return nil, err
	}

	release, err := u.lockSlot(ctx, doctor.ID, date, req.Slot)
	if err != nil {
		return nil, err
	}
	defer release()

	appointment := &entity.Appointment{
		PatientID:   patient.ID,
		DoctorID:    doctor.ID,
		Date:        date,
		Slot:        req.Slot,
		Severity:    severity,
		Description: req.Description,
		Status:      entity.AppointmentStatusScheduled,
	}

	err = u.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := u.ensureSlotFree(ctx, doctor.ID, date, req.Slot); err != nil {
			return err
		}

		if err := u.appointmentRepo.Create(ctx, appointment); err != nil {
			return u.mapWriteError(err)
		}

		return u.auditService.LogCreate(ctx, middleware.ActorFromContext(ctx), entity.AuditActionAppointmentCreate, "appointment", appointment.ID.String(), converter.AppointmentToResponse(appointment))
	})
	if err != nil {
		u.recordBookingFailure(err)
		if !errors.Is(err, ErrSlotConflict) && !IsNotFound(err) {
			u.log.Errorf("Failed to book slot %s on %s for doctor %s: %+v", req.Slot, req.Date, doctor.ID, err)
		}
		return nil, err
	}

	metrics.RecordBooking("created")
	u.log.Infof("Appointment booked: id=%s, doctor=%s, date=%s, slot=%s", appointment.ID, doctor.ID, req.Date, req.Slot)

	return u.reload(ctx, appointment), nil
}

func (u *appointmentUsecase) GetAppointment(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error) {
	appointment, err := u.findAppointment(ctx, id)
	if err != nil {
		return nil, err
	}
	return converter.AppointmentToResponse(appointment), nil
}

// ListAppointments pages through appointments. Callers other than super
// admins only see their own hospital.
func (u *appointmentUsecase) ListAppointments(ctx context.Context, params *dto.AppointmentListParams) ([]dto.AppointmentResponse, int64, error) {
	page, limit := normalizePage(params.Page, params.Limit)

	if params.Date != "" {
		if _, err := timeslot.ParseDate(params.Date); err != nil {
			return nil, 0, ErrInvalidDate
		}
	}

	filter := &entity.AppointmentFilter{
		DoctorID:  params.DoctorID,
		PatientID: params.PatientID,
		Date:      params.Date,
		Status:    params.Status,
		Limit:     limit,
		Offset:    (page - 1) * limit,
	}

	if role, _ := middleware.GetRoleFromContext(ctx); role != entity.RoleSuperAdmin {
		hospitalID, ok := middleware.GetHospitalIDFromContext(ctx)
		if !ok {
			return nil, 0, ErrForbidden
		}
		filter.HospitalID = &hospitalID
	}

	appointments, total, err := u.appointmentRepo.FindAll(ctx, filter)
	if err != nil {
		u.log.Warnf("Failed to list appointments: %+v", err)
		return nil, 0, err
	}

	return converter.AppointmentsToResponses(appointments), total, nil
}

// UpdateConsultation records the outcome of a visit. Only fields present in
// the request are changed; cancellation goes through CancelAppointment.
func (u *appointmentUsecase) UpdateConsultation(ctx context.Context, id uuid.UUID, req *dto.UpdateConsultationRequest) (*dto.AppointmentResponse, error) {
	appointment, err := u.findAppointment(ctx, id)
	if err != nil {
		return nil, err
	}
	if appointment.IsCancelled() {
		return nil, ErrAppointmentCancelled
	}

	oldValue := converter.AppointmentToResponse(appointment)

	if req.Description != nil {
		appointment.Description = *req.Description
	}
	if req.Severity != "" {
		if !entity.IsValidSeverity(req.Severity) {
			return nil, ErrInvalidSeverity
		}
		appointment.Severity = req.Severity
	}
	if req.Remarks != nil {
		appointment.Remarks = converter.RemarksFromRequest(req.Remarks)
	}
	if req.NextFollowup != "" {
		followup, err := timeslot.ParseDate(req.NextFollowup)
		if err != nil {
			return nil, ErrInvalidDate
		}
		appointment.NextFollowup = &followup
	}
	if req.Status != "" {
		appointment.Status = entity.AppointmentStatus(req.Status)
	}
	if req.LabReportID != nil {
		appointment.LabReportID = req.LabReportID
	}

	err = u.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := u.appointmentRepo.Update(ctx, appointment); err != nil {
			return err
		}
		return u.auditService.LogUpdate(ctx, middleware.ActorFromContext(ctx), entity.AuditActionAppointmentUpdate, "appointment", appointment.ID.String(), oldValue, converter.AppointmentToResponse(appointment))
	})
	if err != nil {
		u.log.Warnf("Failed to update appointment %s: %+v", id, err)
		return nil, err
	}

	return converter.AppointmentToResponse(appointment), nil
}

// RescheduleAppointment moves an appointment to another date and slot of the
// same doctor, applying the same checks as a new booking.
func (u *appointmentUsecase) RescheduleAppointment(ctx context.Context, id uuid.UUID, req *dto.RescheduleAppointmentRequest) (*dto.AppointmentResponse, error) {
	date, err := timeslot.ParseDate(req.Date)
	if err != nil {
		return nil, ErrInvalidDate
	}
	if !timeslot.IsSlotLabel(req.Slot) {
		return nil, ErrInvalidSlot
	}

	appointment, err := u.findAppointment(ctx, id)
	if err != nil {
		return nil, err
	}
	if appointment.IsCancelled() {
		return nil, ErrAppointmentCancelled
	}

	if appointment.Date.Equal(date) && clockLabel(appointment.Slot) == req.Slot {
		return converter.AppointmentToResponse(appointment), nil
	}

	if err := u.ensureOnGrid(ctx, appointment.DoctorID, date, req.Slot); err != nil {
		return nil, err
	}

	release, err := u.lockSlot(ctx, appointment.DoctorID, date, req.Slot)
	if err != nil {
		return nil, err
	}
	defer release()

	oldValue := converter.AppointmentToResponse(appointment)
	appointment.Date = date
	appointment.Slot = req.Slot

	err = u.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := u.ensureSlotFree(ctx, appointment.DoctorID, date, req.Slot); err != nil {
			return err
		}
		if err := u.appointmentRepo.Update(ctx, appointment); err != nil {
			return u.mapWriteError(err)
		}
		return u.auditService.LogUpdate(ctx, middleware.ActorFromContext(ctx), entity.AuditActionAppointmentReschedule, "appointment", appointment.ID.String(), oldValue, converter.AppointmentToResponse(appointment))
	})
	if err != nil {
		if !errors.Is(err, ErrSlotConflict) {
			u.log.Warnf("Failed to reschedule appointment %s: %+v", id, err)
		}
		return nil, err
	}

	u.log.Infof("Appointment rescheduled: id=%s, date=%s, slot=%s", id, req.Date, req.Slot)
	return converter.AppointmentToResponse(appointment), nil
}

// CancelAppointment soft-cancels an appointment, which frees its slot.
func (u *appointmentUsecase) CancelAppointment(ctx context.Context, id uuid.UUID) error {
	appointment, err := u.findAppointment(ctx, id)
	if err != nil {
		return err
	}
	if appointment.IsCancelled() {
		return ErrAppointmentCancelled
	}

	oldValue := converter.AppointmentToResponse(appointment)

	err = u.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		// Conditional update: 0 rows means a concurrent cancel won.
		affected, err := u.appointmentRepo.Cancel(ctx, id)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrAppointmentCancelled
		}

		appointment.Cancel()
		return u.auditService.LogUpdate(ctx, middleware.ActorFromContext(ctx), entity.AuditActionAppointmentCancel, "appointment", id.String(), oldValue, converter.AppointmentToResponse(appointment))
	})
	if err != nil {
		if !errors.Is(err, ErrAppointmentCancelled) {
			u.log.Warnf("Failed to cancel appointment %s: %+v", id, err)
		}
		return err
	}

	metrics.RecordCancellation()
	u.log.Infof("Appointment cancelled: id=%s, doctor=%s, date=%s, slot=%s", id, appointment.DoctorID, appointment.Date.Format(timeslot.DateLayout), appointment.Slot)
	return nil
}

func (u *appointmentUsecase) findDoctor(ctx context.Context, id uuid.UUID) (*entity.Doctor, error) {
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

// findAppointment loads an appointment and checks the caller may see it.
func (u *appointmentUsecase) findAppointment(ctx context.Context, id uuid.UUID) (*entity.Appointment, error) {
	appointment, err := u.appointmentRepo.FindByID(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", id, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}

	doctor, err := u.findDoctor(ctx, appointment.DoctorID)
	if err != nil {
		return nil, err
	}
	appointment.Doctor = *doctor

	return appointment, nil
}

func (u *appointmentUsecase) ensureOnGrid(ctx context.Context, doctorID uuid.UUID, date time.Time, slot string) error {
	windows, err := u.engine.windows(ctx, entity.StaffTypeDoctor, doctorID, date)
	if err != nil {
		return err
	}
	grid, err := u.engine.grid(windows)
	if err != nil {
		return err
	}
	if !timeslot.Contains(grid, slot) {
		return ErrSlotOutsideAvailability
	}
	return nil
}

func (u *appointmentUsecase) ensureSlotFree(ctx context.Context, doctorID uuid.UUID, date time.Time, slot string) error {
	booked, err := u.appointmentRepo.FindBookedSlots(ctx, doctorID, date)
	if err != nil {
		return err
	}
	if timeslot.Contains(booked, slot) {
		return ErrSlotConflict
	}
	return nil
}

// lockSlot takes the Redis lock and returns its release func. When Redis is
// down the booking continues on the database guard alone.
func (u *appointmentUsecase) lockSlot(ctx context.Context, doctorID uuid.UUID, date time.Time, slot string) (func(), error) {
	noop := func() {}
	if u.slotLocker == nil {
		return noop, nil
	}

	lock, err := u.slotLocker.Acquire(ctx, doctorID, date, slot)
	if err != nil {
		if errors.Is(err, service.ErrSlotLocked) {
			metrics.RecordBooking("locked")
			return nil, ErrSlotConflict
		}
		metrics.RecordSlotLockFailure()
		u.log.Warnf("Slot lock unavailable, relying on database guard: %+v", err)
		return noop, nil
	}

	return func() {
		releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := u.slotLocker.Release(releaseCtx, lock); err != nil {
			u.log.Warnf("Failed to release slot lock (expires on its own): %+v", err)
		}
	}, nil
}

func (u *appointmentUsecase) mapWriteError(err error) error {
	switch {
	case isDuplicateKeyError(err, entity.SlotUniqueConstraint):
		return ErrSlotConflict
	case isForeignKeyError(err, "patient_id"):
		return ErrPatientNotFound
	case isForeignKeyError(err, "doctor_id"):
		return ErrDoctorNotFound
	}
	return err
}

func (u *appointmentUsecase) recordBookingFailure(err error) {
	switch {
	case errors.Is(err, ErrSlotConflict):
		metrics.RecordBooking("conflict")
	default:
		metrics.RecordBooking("error")
	}
}

// reload fetches the appointment with doctor and patient for the response.
func (u *appointmentUsecase) reload(ctx context.Context, appointment *entity.Appointment) *dto.AppointmentResponse {
	full, err := u.appointmentRepo.FindByID(ctx, appointment.ID)
	if err != nil || full == nil {
		u.log.Warnf("Failed to reload appointment %s: %+v", appointment.ID, err)
		return converter.AppointmentToResponse(appointment)
	}
	return converter.AppointmentToResponse(full)
}

func clockLabel(s string) string {
	label, err := timeslot.Normalize(s)
	if err != nil {
		return s
	}
	return label
}

// normalizePage applies the default page size of 10 and caps it at 100.
func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}

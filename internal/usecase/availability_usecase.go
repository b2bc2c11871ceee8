package usecase

import (
	"context"
	"time"

	"hospital-crm/config"
	"hospital-crm/internal/converter"
	"hospital-crm/internal/delivery/dto"
	"hospital-crm/internal/delivery/http/middleware"
	"hospital-crm/internal/domain/entity"
	"hospital-crm/internal/domain/repository"
	"hospital-crm/pkg/metrics"
	"hospital-crm/pkg/timeslot"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	slotMessageAvailable   = "Slot is available"
	slotMessageBooked      = "Slot is already booked"
	slotMessageOutsideGrid = "Doctor is not available at this time"
)

type AvailabilityUsecase interface {
	ListHospitalAvailability(ctx context.Context, hospitalID uuid.UUID, date string) (*dto.HospitalAvailabilityResponse, error)
	ListStaffSlots(ctx context.Context, staffType string, staffID uuid.UUID, date string) (*dto.StaffSlotsResponse, error)
	CheckSlot(ctx context.Context, doctorID uuid.UUID, date, slot string) (*dto.SlotCheckResponse, error)
}

type availabilityUsecase struct {
	log        *logrus.Logger
	cfg        config.BookingConfig
	doctorRepo repository.DoctorRepository
	nurseRepo  repository.NurseRepository
	engine     *slotEngine
	now        func() time.Time
}

func NewAvailabilityUsecase(
	log *logrus.Logger,
	cfg config.BookingConfig,
	doctorRepo repository.DoctorRepository,
	nurseRepo repository.NurseRepository,
	availabilityRepo repository.AvailabilityRepository,
	appointmentRepo repository.AppointmentRepository,
) AvailabilityUsecase {
	return &availabilityUsecase{
		log:        log,
		cfg:        cfg,
		doctorRepo: doctorRepo,
		nurseRepo:  nurseRepo,
		engine:     newSlotEngine(log, availabilityRepo, appointmentRepo, time.Duration(cfg.SlotDurationMinutes)*time.Minute),
		now:        time.Now,
	}
}

// ListHospitalAvailability builds a snapshot for every available doctor of
// the hospital. Doctors flagged unavailable are left out entirely and an
// unknown hospital yields an empty list.
func (u *availabilityUsecase) ListHospitalAvailability(ctx context.Context, hospitalID uuid.UUID, date string) (*dto.HospitalAvailabilityResponse, error) {
	start := time.Now()
	defer func() { metrics.ObserveSnapshot("bulk", time.Since(start).Seconds()) }()

	targetDate, err := resolveDate(date, u.now(), u.cfg.Location())
	if err != nil {
		return nil, err
	}

	doctors, err := u.doctorRepo.FindByHospital(ctx, hospitalID)
	if err != nil {
		u.log.Warnf("Failed to find doctors for hospital %s: %+v", hospitalID, err)
		return nil, err
	}

	active := make([]entity.Doctor, 0, len(doctors))
	for _, doctor := range doctors {
		if doctor.IsAvailable {
			active = append(active, doctor)
		}
	}

	// Each goroutine writes only its own index, so order follows the
	// repository's name ordering.
	results := make([]dto.DoctorAvailabilityResponse, len(active))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(u.cfg.BulkConcurrency)

	for i := range active {
		doctor := &active[i]
		g.Go(func() error {
			windows, snapshot, err := u.engine.snapshot(gctx, entity.StaffTypeDoctor, doctor.ID, targetDate)
			if err != nil {
				u.log.Warnf("Failed to build availability for doctor %s: %+v", doctor.ID, err)
				return err
			}
			results[i] = converter.DoctorAvailabilityToResponse(doctor, windows, snapshot)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &dto.HospitalAvailabilityResponse{
		HospitalID: hospitalID,
		Date:       targetDate.Format(timeslot.DateLayout),
		DayOfWeek:  timeslot.WeekdayOf(targetDate),
		Doctors:    results,
	}, nil
}

// ListStaffSlots returns the slot grid of one doctor or nurse with each
// slot's status, or a not-available signal when no window covers the day.
func (u *availabilityUsecase) ListStaffSlots(ctx context.Context, staffType string, staffID uuid.UUID, date string) (*dto.StaffSlotsResponse, error) {
	start := time.Now()
	defer func() { metrics.ObserveSnapshot("single", time.Since(start).Seconds()) }()

	kind := entity.StaffType(staffType)
	if !kind.IsValid() {
		return nil, ErrInvalidStaffType
	}

	targetDate, err := resolveDate(date, u.now(), u.cfg.Location())
	if err != nil {
		return nil, err
	}

	if err := u.ensureStaffAccess(ctx, kind, staffID); err != nil {
		return nil, err
	}

	windows, snapshot, err := u.engine.snapshot(ctx, kind, staffID, targetDate)
	if err != nil {
		u.log.Warnf("Failed to build slots for %s %s: %+v", kind, staffID, err)
		return nil, err
	}

	resp := &dto.StaffSlotsResponse{
		StaffID:   staffID,
		StaffType: staffType,
		Date:      targetDate.Format(timeslot.DateLayout),
		DayOfWeek: timeslot.WeekdayOf(targetDate),
	}

	// A day whose windows yield no slot is reported the same as a day off.
	if len(windows) == 0 || len(snapshot.Grid) == 0 {
		resp.NotAvailableThisDay = true
		return resp, nil
	}

	resp.Slots = converter.SnapshotToSlotStatuses(snapshot)
	return resp, nil
}

// CheckSlot answers whether one doctor slot can still be booked.
func (u *availabilityUsecase) CheckSlot(ctx context.Context, doctorID uuid.UUID, date, slot string) (*dto.SlotCheckResponse, error) {
	targetDate, err := resolveDate(date, u.now(), u.cfg.Location())
	if err != nil {
		return nil, err
	}
	if !timeslot.IsSlotLabel(slot) {
		return nil, ErrInvalidSlot
	}

	if err := u.ensureStaffAccess(ctx, entity.StaffTypeDoctor, doctorID); err != nil {
		return nil, err
	}

	_, snapshot, err := u.engine.snapshot(ctx, entity.StaffTypeDoctor, doctorID, targetDate)
	if err != nil {
		u.log.Warnf("Failed to check slot %s for doctor %s: %+v", slot, doctorID, err)
		return nil, err
	}

	resp := &dto.SlotCheckResponse{
		DoctorID: doctorID,
		Date:     targetDate.Format(timeslot.DateLayout),
		Slot:     slot,
	}

	switch {
	case !timeslot.Contains(snapshot.Grid, slot):
		resp.Message = slotMessageOutsideGrid
	case snapshot.IsBooked(slot):
		resp.Message = slotMessageBooked
	default:
		resp.IsAvailable = true
		resp.Message = slotMessageAvailable
	}

	return resp, nil
}

// ensureStaffAccess checks that the staff member exists and belongs to a
// hospital the caller may see.
func (u *availabilityUsecase) ensureStaffAccess(ctx context.Context, kind entity.StaffType, staffID uuid.UUID) error {
	hospitalID, err := findStaffHospital(ctx, u.doctorRepo, u.nurseRepo, kind, staffID)
	if err != nil {
		if !IsNotFound(err) {
			u.log.Warnf("Failed to find %s %s: %+v", kind, staffID, err)
		}
		return err
	}
	if !middleware.CanAccessHospital(ctx, hospitalID) {
		return ErrForbidden
	}
	return nil
}

// findStaffHospital looks up a doctor or nurse and returns their hospital.
func findStaffHospital(
	ctx context.Context,
	doctorRepo repository.DoctorRepository,
	nurseRepo repository.NurseRepository,
	kind entity.StaffType,
	staffID uuid.UUID,
) (uuid.UUID, error) {
	switch kind {
	case entity.StaffTypeDoctor:
		doctor, err := doctorRepo.FindByID(ctx, staffID)
		if err != nil {
			return uuid.Nil, err
		}
		if doctor == nil {
			return uuid.Nil, ErrDoctorNotFound
		}
		return doctor.HospitalID, nil
	case entity.StaffTypeNurse:
		nurse, err := nurseRepo.FindByID(ctx, staffID)
		if err != nil {
			return uuid.Nil, err
		}
		if nurse == nil {
			return uuid.Nil, ErrStaffNotFound
		}
		return nurse.HospitalID, nil
	}
	return uuid.Nil, ErrInvalidStaffType
}

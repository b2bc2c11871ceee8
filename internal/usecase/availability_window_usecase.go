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
	"hospital-crm/pkg/timeslot"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type AvailabilityWindowUsecase interface {
	CreateWindow(ctx context.Context, req *dto.CreateAvailabilityWindowRequest) (*dto.AvailabilityWindowResponse, error)
	BulkCreateWindows(ctx context.Context, req *dto.BulkCreateAvailabilityWindowRequest) ([]dto.AvailabilityWindowResponse, error)
	UpdateWindow(ctx context.Context, id uuid.UUID, req *dto.UpdateAvailabilityWindowRequest) (*dto.AvailabilityWindowResponse, error)
	DeleteWindow(ctx context.Context, id uuid.UUID) error
	ListWindowsByStaff(ctx context.Context, staffType string, staffID uuid.UUID) ([]dto.AvailabilityWindowResponse, error)
	CountStaffByWeekday(ctx context.Context, hospitalID *uuid.UUID) (*dto.WeeklyAvailabilityResponse, error)
}

type availabilityWindowUsecase struct {
	log              *logrus.Logger
	slotDuration     time.Duration
	transactor       database.Transactor
	doctorRepo       repository.DoctorRepository
	nurseRepo        repository.NurseRepository
	availabilityRepo repository.AvailabilityRepository
	auditService     service.AuditService
}

func NewAvailabilityWindowUsecase(
	log *logrus.Logger,
	cfg config.BookingConfig,
	transactor database.Transactor,
	doctorRepo repository.DoctorRepository,
	nurseRepo repository.NurseRepository,
	availabilityRepo repository.AvailabilityRepository,
	auditService service.AuditService,
) AvailabilityWindowUsecase {
	return &availabilityWindowUsecase{
		log:              log,
		slotDuration:     time.Duration(cfg.SlotDurationMinutes) * time.Minute,
		transactor:       transactor,
		doctorRepo:       doctorRepo,
		nurseRepo:        nurseRepo,
		availabilityRepo: availabilityRepo,
		auditService:     auditService,
	}
}

func (u *availabilityWindowUsecase) CreateWindow(ctx context.Context, req *dto.CreateAvailabilityWindowRequest) (*dto.AvailabilityWindowResponse, error) {
	kind := entity.StaffType(req.StaffType)
	if err := u.ensureStaffAccess(ctx, kind, req.StaffID); err != nil {
		return nil, err
	}

	window, err := newWindow(kind, req.StaffID, u.slotDuration, req.DayOfWeek, req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}

	err = u.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		return u.insert(ctx, window)
	})
	if err != nil {
		return nil, err
	}

	return converter.AvailabilityWindowToResponse(window), nil
}

// BulkCreateWindows applies one time range to every (staff, day) pair. It is
// all or nothing: one invalid or overlapping pair rolls back the batch.
func (u *availabilityWindowUsecase) BulkCreateWindows(ctx context.Context, req *dto.BulkCreateAvailabilityWindowRequest) ([]dto.AvailabilityWindowResponse, error) {
	kind := entity.StaffType(req.StaffType)
	for _, staffID := range req.StaffIDs {
		if err := u.ensureStaffAccess(ctx, kind, staffID); err != nil {
			return nil, err
		}
	}

	windows := make([]entity.AvailabilityWindow, 0, len(req.StaffIDs)*len(req.DaysOfWeek))
	for _, staffID := range req.StaffIDs {
		for _, day := range req.DaysOfWeek {
			window, err := newWindow(kind, staffID, u.slotDuration, day, req.StartTime, req.EndTime)
			if err != nil {
				return nil, err
			}
			windows = append(windows, *window)
		}
	}

	err := u.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		// Earlier inserts are visible to later overlap checks in the same tx.
		for i := range windows {
			if err := u.insert(ctx, &windows[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.log.Infof("Created %d availability windows for %d %s(s)", len(windows), len(req.StaffIDs), kind)
	return converter.AvailabilityWindowsToResponses(windows), nil
}

func (u *availabilityWindowUsecase) UpdateWindow(ctx context.Context, id uuid.UUID, req *dto.UpdateAvailabilityWindowRequest) (*dto.AvailabilityWindowResponse, error) {
	window, err := u.findWindow(ctx, id)
	if err != nil {
		return nil, err
	}

	oldValue := converter.AvailabilityWindowToResponse(window)

	day := window.DayOfWeek
	if req.DayOfWeek != "" {
		day = req.DayOfWeek
	}
	start := window.StartTime
	if req.StartTime != "" {
		start = req.StartTime
	}
	end := window.EndTime
	if req.EndTime != "" {
		end = req.EndTime
	}

	updated, err := newWindow(window.StaffType, window.StaffID, u.slotDuration, day, start, end)
	if err != nil {
		return nil, err
	}
	window.DayOfWeek = updated.DayOfWeek
	window.StartTime = updated.StartTime
	window.EndTime = updated.EndTime

	err = u.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := u.ensureNoOverlap(ctx, window); err != nil {
			return err
		}
		if err := u.availabilityRepo.Update(ctx, window); err != nil {
			return mapWindowWriteError(err)
		}
		return u.auditService.LogUpdate(ctx, middleware.ActorFromContext(ctx), entity.AuditActionAvailabilityUpdate, "availability", window.ID.String(), oldValue, converter.AvailabilityWindowToResponse(window))
	})
	if err != nil {
		if !IsValidationError(err) && !errors.Is(err, ErrWindowOverlap) && !IsNotFound(err) {
			u.log.Warnf("Failed to update availability window %s: %+v", id, err)
		}
		return nil, err
	}

	return converter.AvailabilityWindowToResponse(window), nil
}

func (u *availabilityWindowUsecase) DeleteWindow(ctx context.Context, id uuid.UUID) error {
	window, err := u.findWindow(ctx, id)
	if err != nil {
		return err
	}

	return u.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		affected, err := u.availabilityRepo.Delete(ctx, id)
		if err != nil {
			u.log.Warnf("Failed to delete availability window %s: %+v", id, err)
			return err
		}
		if affected == 0 {
			return ErrWindowNotFound
		}
		return u.auditService.LogDelete(ctx, middleware.ActorFromContext(ctx), entity.AuditActionAvailabilityDelete, "availability", id.String(), converter.AvailabilityWindowToResponse(window))
	})
}

func (u *availabilityWindowUsecase) ListWindowsByStaff(ctx context.Context, staffType string, staffID uuid.UUID) ([]dto.AvailabilityWindowResponse, error) {
	kind := entity.StaffType(staffType)
	if err := u.ensureStaffAccess(ctx, kind, staffID); err != nil {
		return nil, err
	}

	windows, err := u.availabilityRepo.FindByStaff(ctx, kind, staffID)
	if err != nil {
		u.log.Warnf("Failed to list windows for %s %s: %+v", kind, staffID, err)
		return nil, err
	}

	return converter.AvailabilityWindowsToResponses(windows), nil
}

// CountStaffByWeekday counts distinct doctors with at least one window on
// each weekday. A nil hospitalID counts across every hospital.
func (u *availabilityWindowUsecase) CountStaffByWeekday(ctx context.Context, hospitalID *uuid.UUID) (*dto.WeeklyAvailabilityResponse, error) {
	if hospitalID == nil {
		if role, _ := middleware.GetRoleFromContext(ctx); role != entity.RoleSuperAdmin {
			return nil, ErrForbidden
		}
	} else if !middleware.CanAccessHospital(ctx, *hospitalID) {
		return nil, ErrForbidden
	}

	windows, err := u.availabilityRepo.FindDoctorWindows(ctx, hospitalID)
	if err != nil {
		u.log.Warnf("Failed to load doctor windows: %+v", err)
		return nil, err
	}

	staffByDay := make(map[string]map[uuid.UUID]struct{})
	for _, w := range windows {
		if staffByDay[w.DayOfWeek] == nil {
			staffByDay[w.DayOfWeek] = make(map[uuid.UUID]struct{})
		}
		staffByDay[w.DayOfWeek][w.StaffID] = struct{}{}
	}

	counts := make(map[string]int, len(staffByDay))
	for day, staff := range staffByDay {
		counts[day] = len(staff)
	}

	return converter.WeekdayCountsToResponse(hospitalID, counts), nil
}

// insert checks overlap and writes one window plus its audit row. It must run
// inside a transaction.
func (u *availabilityWindowUsecase) insert(ctx context.Context, window *entity.AvailabilityWindow) error {
	if err := u.ensureNoOverlap(ctx, window); err != nil {
		return err
	}
	if err := u.availabilityRepo.Create(ctx, window); err != nil {
		mapped := mapWindowWriteError(err)
		if mapped == err {
			u.log.Warnf("Failed to create availability window for %s %s: %+v", window.StaffType, window.StaffID, err)
		}
		return mapped
	}
	return u.auditService.LogCreate(ctx, middleware.ActorFromContext(ctx), entity.AuditActionAvailabilityCreate, "availability", window.ID.String(), converter.AvailabilityWindowToResponse(window))
}

func (u *availabilityWindowUsecase) ensureNoOverlap(ctx context.Context, window *entity.AvailabilityWindow) error {
	existing, err := u.availabilityRepo.FindByStaffAndDay(ctx, window.StaffType, window.StaffID, window.DayOfWeek)
	if err != nil {
		return err
	}

	start, _ := timeslot.ParseClock(window.StartTime)
	end, _ := timeslot.ParseClock(window.EndTime)

	for _, other := range existing {
		if other.ID == window.ID {
			continue
		}
		otherStart, err := timeslot.ParseClock(other.StartTime)
		if err != nil {
			return err
		}
		otherEnd, err := timeslot.ParseClock(other.EndTime)
		if err != nil {
			return err
		}
		if timeslot.Overlaps(start, end, otherStart, otherEnd) {
			return ErrWindowOverlap
		}
	}
	return nil
}

func (u *availabilityWindowUsecase) findWindow(ctx context.Context, id uuid.UUID) (*entity.AvailabilityWindow, error) {
	window, err := u.availabilityRepo.FindByID(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to find availability window %s: %+v", id, err)
		return nil, err
	}
	if window == nil {
		return nil, ErrWindowNotFound
	}
	if err := u.ensureStaffAccess(ctx, window.StaffType, window.StaffID); err != nil {
		return nil, err
	}
	return window, nil
}

func (u *availabilityWindowUsecase) ensureStaffAccess(ctx context.Context, kind entity.StaffType, staffID uuid.UUID) error {
	if !kind.IsValid() {
		return ErrInvalidStaffType
	}
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

// newWindow validates and normalises a window before it is written. A window
// must fit at least one slot, otherwise it would yield an empty grid.
func newWindow(kind entity.StaffType, staffID uuid.UUID, slotDuration time.Duration, day, start, end string) (*entity.AvailabilityWindow, error) {
	if !kind.IsValid() {
		return nil, ErrInvalidStaffType
	}
	if !timeslot.IsWeekday(day) {
		return nil, ErrInvalidWeekday
	}

	from, err := timeslot.ParseClock(start)
	if err != nil {
		return nil, ErrInvalidSlot
	}
	to, err := timeslot.ParseClock(end)
	if err != nil {
		return nil, ErrInvalidSlot
	}
	if from >= to {
		return nil, ErrInvalidWindow
	}
	if slotDuration <= 0 {
		slotDuration = timeslot.DefaultDuration
	}
	if time.Duration(to-from)*time.Minute < slotDuration {
		return nil, ErrWindowTooShort
	}

	return &entity.AvailabilityWindow{
		StaffType: kind,
		StaffID:   staffID,
		DayOfWeek: day,
		StartTime: from.String(),
		EndTime:   to.String(),
	}, nil
}

// mapWindowWriteError turns constraint violations into domain errors. The
// exclusion constraint catches overlaps that a concurrent writer committed
// after ensureNoOverlap read the day.
func mapWindowWriteError(err error) error {
	switch {
	case isCheckViolation(err, "chk_availabilities_window"):
		return ErrInvalidWindow
	case isExclusionViolation(err, entity.WindowOverlapConstraint):
		return ErrWindowOverlap
	}
	return err
}

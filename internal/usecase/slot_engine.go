package usecase

import (
	"context"
	"time"

	"hospital-crm/internal/domain/entity"
	"hospital-crm/internal/domain/repository"
	"hospital-crm/pkg/timeslot"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// slotEngine resolves windows for a weekday, expands them into the slot grid
// and subtracts the booking ledger. It holds no state between calls.
type slotEngine struct {
	log              *logrus.Logger
	availabilityRepo repository.AvailabilityRepository
	appointmentRepo  repository.AppointmentRepository
	duration         time.Duration
}

func newSlotEngine(
	log *logrus.Logger,
	availabilityRepo repository.AvailabilityRepository,
	appointmentRepo repository.AppointmentRepository,
	duration time.Duration,
) *slotEngine {
	if duration <= 0 {
		duration = timeslot.DefaultDuration
	}
	return &slotEngine{
		log:              log,
		availabilityRepo: availabilityRepo,
		appointmentRepo:  appointmentRepo,
		duration:         duration,
	}
}

// windows returns the staff member's windows for the weekday of date.
func (e *slotEngine) windows(ctx context.Context, staffType entity.StaffType, staffID uuid.UUID, date time.Time) ([]entity.AvailabilityWindow, error) {
	return e.availabilityRepo.FindByStaffAndDay(ctx, staffType, staffID, timeslot.WeekdayOf(date))
}

// grid merges the windows into one ascending, de-duplicated slot list.
func (e *slotEngine) grid(windows []entity.AvailabilityWindow) ([]string, error) {
	ranges := make([]timeslot.Window, len(windows))
	for i, w := range windows {
		ranges[i] = timeslot.Window{Start: w.StartTime, End: w.EndTime}
	}
	return timeslot.Merge(ranges, e.duration)
}

// booked reads the ledger. Nurses are not booked through appointments.
func (e *slotEngine) booked(ctx context.Context, staffType entity.StaffType, staffID uuid.UUID, date time.Time) ([]string, error) {
	if staffType != entity.StaffTypeDoctor {
		return nil, nil
	}
	return e.appointmentRepo.FindBookedSlots(ctx, staffID, date)
}

// snapshot runs the full pipeline for one staff member and date. The windows
// are returned too so callers can tell "no windows" from "fully booked".
func (e *slotEngine) snapshot(ctx context.Context, staffType entity.StaffType, staffID uuid.UUID, date time.Time) ([]entity.AvailabilityWindow, entity.AvailabilitySnapshot, error) {
	windows, err := e.windows(ctx, staffType, staffID, date)
	if err != nil {
		return nil, entity.AvailabilitySnapshot{}, err
	}

	grid, err := e.grid(windows)
	if err != nil {
		return nil, entity.AvailabilitySnapshot{}, err
	}

	booked, err := e.booked(ctx, staffType, staffID, date)
	if err != nil {
		return nil, entity.AvailabilitySnapshot{}, err
	}

	snapshot := entity.BuildSnapshot(grid, booked)
	if dropped := countDistinct(booked) - snapshot.BookedCount; dropped > 0 {
		e.log.Debugf("Ignoring %d booked slot(s) off the grid for %s %s on %s", dropped, staffType, staffID, date.Format(timeslot.DateLayout))
	}

	return windows, snapshot, nil
}

func countDistinct(items []string) int {
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		seen[item] = struct{}{}
	}
	return len(seen)
}

// resolveDate parses an ISO date, or returns today in loc when raw is empty.
// The result is always midnight UTC so it compares cleanly with date columns.
func resolveDate(raw string, now time.Time, loc *time.Location) (time.Time, error) {
	if raw == "" {
		local := now.In(loc)
		return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	date, err := timeslot.ParseDate(raw)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return date, nil
}

package converter

import (
	"hospital-crm/internal/delivery/dto"
	"hospital-crm/internal/domain/entity"
	"hospital-crm/pkg/timeslot"

	"github.com/google/uuid"
)

// clockLabel turns a stored time column into "HH:MM", leaving unparseable
// values untouched.
func clockLabel(s string) string {
	label, err := timeslot.Normalize(s)
	if err != nil {
		return s
	}
	return label
}

// AvailabilityWindowToResponse converts an AvailabilityWindow entity to AvailabilityWindowResponse DTO
func AvailabilityWindowToResponse(window *entity.AvailabilityWindow) *dto.AvailabilityWindowResponse {
	if window == nil {
		return nil
	}

	return &dto.AvailabilityWindowResponse{
		ID:        window.ID,
		StaffType: string(window.StaffType),
		StaffID:   window.StaffID,
		DayOfWeek: window.DayOfWeek,
		StartTime: clockLabel(window.StartTime),
		EndTime:   clockLabel(window.EndTime),
		CreatedAt: window.CreatedAt,
		UpdatedAt: window.UpdatedAt,
	}
}

// AvailabilityWindowsToResponses converts a slice of AvailabilityWindow entities to slice of AvailabilityWindowResponse DTOs
func AvailabilityWindowsToResponses(windows []entity.AvailabilityWindow) []dto.AvailabilityWindowResponse {
	responses := make([]dto.AvailabilityWindowResponse, len(windows))
	for i := range windows {
		responses[i] = *AvailabilityWindowToResponse(&windows[i])
	}
	return responses
}

func WindowTimesToResponses(windows []entity.AvailabilityWindow) []dto.WindowTimeResponse {
	responses := make([]dto.WindowTimeResponse, len(windows))
	for i, w := range windows {
		responses[i] = dto.WindowTimeResponse{
			StartTime: clockLabel(w.StartTime),
			EndTime:   clockLabel(w.EndTime),
		}
	}
	return responses
}

// DoctorAvailabilityToResponse pairs doctor metadata with one snapshot.
func DoctorAvailabilityToResponse(doctor *entity.Doctor, windows []entity.AvailabilityWindow, snapshot entity.AvailabilitySnapshot) dto.DoctorAvailabilityResponse {
	return dto.DoctorAvailabilityResponse{
		DoctorID:        doctor.ID,
		Name:            doctor.User.FullName,
		Specialization:  doctor.Specialization,
		ExperienceYears: doctor.ExperienceYears,
		Tags:            doctor.TagList(),
		Availability:    WindowTimesToResponses(windows),
		AvailableSlots:  snapshot.AvailableSlots,
		BookedSlots:     snapshot.BookedSlots,
		TotalSlots:      snapshot.TotalSlots,
		BookedCount:     snapshot.BookedCount,
		FreeCount:       snapshot.FreeCount,
	}
}

// SnapshotToSlotStatuses lists the grid in order with each slot's status.
func SnapshotToSlotStatuses(snapshot entity.AvailabilitySnapshot) []dto.SlotStatusResponse {
	slots := make([]dto.SlotStatusResponse, len(snapshot.Grid))
	for i, slot := range snapshot.Grid {
		status := entity.SlotStatusAvailable
		if snapshot.IsBooked(slot) {
			status = entity.SlotStatusBooked
		}
		slots[i] = dto.SlotStatusResponse{Time: slot, Status: status}
	}
	return slots
}

// WeekdayCountsToResponse orders per-day doctor counts Monday first and
// includes days nobody works.
func WeekdayCountsToResponse(hospitalID *uuid.UUID, counts map[string]int) *dto.WeeklyAvailabilityResponse {
	days := make([]dto.WeekdayCountResponse, len(timeslot.Weekdays))
	for i, day := range timeslot.Weekdays {
		days[i] = dto.WeekdayCountResponse{DayOfWeek: day, DoctorCount: counts[day]}
	}
	return &dto.WeeklyAvailabilityResponse{
		HospitalID: hospitalID,
		Days:       days,
	}
}

package usecase

import (
	"errors"
	"testing"

	"hospital-crm/internal/delivery/dto"
	"hospital-crm/internal/domain/entity"

	"github.com/google/uuid"
)

func windowReq(staffID uuid.UUID, day, start, end string) *dto.CreateAvailabilityWindowRequest {
	return &dto.CreateAvailabilityWindowRequest{
		StaffType: "doctor",
		StaffID:   staffID,
		DayOfWeek: day,
		StartTime: start,
		EndTime:   end,
	}
}

func TestCreateWindow(t *testing.T) {
	f := newFixture()
	doctor := f.addDoctor("Dr. Ayu", true)
	uc := f.windowAdmin()
	ctx := f.adminCtx()

	resp, err := uc.CreateWindow(ctx, windowReq(doctor.ID, "monday", "09:00", "12:00"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StartTime != "09:00" || resp.EndTime != "12:00" || resp.DayOfWeek != "monday" {
		t.Errorf("unexpected window: %+v", resp)
	}

	// Touching at 12:00 is not an overlap.
	if _, err := uc.CreateWindow(ctx, windowReq(doctor.ID, "monday", "12:00", "14:00")); err != nil {
		t.Errorf("adjacent window rejected: %v", err)
	}
	if _, err := uc.CreateWindow(ctx, windowReq(doctor.ID, "monday", "11:30", "13:00")); !errors.Is(err, ErrWindowOverlap) {
		t.Errorf("expected ErrWindowOverlap, got %v", err)
	}
	if _, err := uc.CreateWindow(ctx, windowReq(doctor.ID, "tuesday", "11:30", "13:00")); err != nil {
		t.Errorf("same hours on another day rejected: %v", err)
	}
	if n := len(f.audit.actions); n != 3 {
		t.Errorf("expected 3 audit entries, got %d", n)
	}
}

func TestCreateWindow_Validation(t *testing.T) {
	f := newFixture()
	doctor := f.addDoctor("Dr. Ayu", true)
	uc := f.windowAdmin()
	ctx := f.adminCtx()

	cases := []struct {
		name string
		req  *dto.CreateAvailabilityWindowRequest
		want error
	}{
		{"start after end", windowReq(doctor.ID, "monday", "12:00", "09:00"), ErrInvalidWindow},
		{"empty range", windowReq(doctor.ID, "monday", "09:00", "09:00"), ErrInvalidWindow},
		{"shorter than a slot", windowReq(doctor.ID, "monday", "09:00", "09:20"), ErrWindowTooShort},
		{"bad weekday", windowReq(doctor.ID, "Monday", "09:00", "10:00"), ErrInvalidWeekday},
		{"bad clock", windowReq(doctor.ID, "monday", "9am", "10:00"), ErrInvalidSlot},
		{"unknown doctor", windowReq(uuid.New(), "monday", "09:00", "10:00"), ErrDoctorNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := uc.CreateWindow(ctx, tc.req); !errors.Is(err, tc.want) {
				t.Errorf("expected %v, got %v", tc.want, err)
			}
		})
	}

	bad := windowReq(doctor.ID, "monday", "09:00", "10:00")
	bad.StaffType = "porter"
	if _, err := uc.CreateWindow(ctx, bad); !errors.Is(err, ErrInvalidStaffType) {
		t.Errorf("expected ErrInvalidStaffType, got %v", err)
	}

	if len(f.windows.windows) != 0 {
		t.Errorf("rejected windows must not be stored, got %d", len(f.windows.windows))
	}
}

func TestCreateWindow_ExactlyOneSlot(t *testing.T) {
	f := newFixture()
	doctor := f.addDoctor("Dr. Ayu", true)
	ctx := f.adminCtx()

	if _, err := f.windowAdmin().CreateWindow(ctx, windowReq(doctor.ID, "monday", "09:00", "09:30")); err != nil {
		t.Fatalf("one-slot window rejected: %v", err)
	}

	resp, err := f.availability().ListStaffSlots(ctx, "doctor", doctor.ID, "2024-06-03")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.NotAvailableThisDay || len(resp.Slots) != 1 || resp.Slots[0].Time != "09:00" {
		t.Errorf("expected a single 09:00 slot, got %+v", resp)
	}
}

func TestUpdateWindow_RejectsShrinkBelowOneSlot(t *testing.T) {
	f := newFixture()
	doctor := f.addDoctor("Dr. Ayu", true)
	uc := f.windowAdmin()
	ctx := f.adminCtx()

	window, err := uc.CreateWindow(ctx, windowReq(doctor.ID, "monday", "09:00", "10:00"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := uc.UpdateWindow(ctx, window.ID, &dto.UpdateAvailabilityWindowRequest{EndTime: "09:15"}); !errors.Is(err, ErrWindowTooShort) {
		t.Errorf("expected ErrWindowTooShort, got %v", err)
	}
}

func TestCreateWindow_ConcurrentOverlapHitsExclusionConstraint(t *testing.T) {
	f := newFixture()
	doctor := f.addDoctor("Dr. Ayu", true)
	uc := f.windowAdmin()
	ctx := f.adminCtx()

	if _, err := uc.CreateWindow(ctx, windowReq(doctor.ID, "monday", "09:00", "12:00")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The second writer reads the day before the first commit is visible.
	f.windows.hideDay = true
	if _, err := uc.CreateWindow(ctx, windowReq(doctor.ID, "monday", "11:00", "13:00")); !errors.Is(err, ErrWindowOverlap) {
		t.Errorf("expected ErrWindowOverlap, got %v", err)
	}
	if _, err := uc.CreateWindow(ctx, windowReq(doctor.ID, "monday", "12:00", "13:00")); err != nil {
		t.Errorf("adjacent window rejected: %v", err)
	}
	if n := len(f.windows.windows); n != 2 {
		t.Errorf("expected 2 stored windows, got %d", n)
	}
}

func TestCreateWindow_OtherHospitalForbidden(t *testing.T) {
	f := newFixture()
	doctor := f.addDoctor("Dr. Ayu", true)

	_, err := f.windowAdmin().CreateWindow(ctxAs(entity.RoleHospitalAdmin, uuid.New()), windowReq(doctor.ID, "monday", "09:00", "10:00"))
	if !errors.Is(err, ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
}

func TestBulkCreateWindows(t *testing.T) {
	f := newFixture()
	ayu := f.addDoctor("Dr. Ayu", true)
	budi := f.addDoctor("Dr. Budi", true)

	resp, err := f.windowAdmin().BulkCreateWindows(f.adminCtx(), &dto.BulkCreateAvailabilityWindowRequest{
		StaffType:  "doctor",
		StaffIDs:   []uuid.UUID{ayu.ID, budi.ID},
		DaysOfWeek: []string{"monday", "wednesday", "friday"},
		StartTime:  "08:00",
		EndTime:    "12:00",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp) != 6 {
		t.Errorf("expected 6 windows, got %d", len(resp))
	}
}

func TestBulkCreateWindows_RepeatedDayOverlaps(t *testing.T) {
	f := newFixture()
	ayu := f.addDoctor("Dr. Ayu", true)

	_, err := f.windowAdmin().BulkCreateWindows(f.adminCtx(), &dto.BulkCreateAvailabilityWindowRequest{
		StaffType:  "doctor",
		StaffIDs:   []uuid.UUID{ayu.ID},
		DaysOfWeek: []string{"monday", "monday"},
		StartTime:  "08:00",
		EndTime:    "12:00",
	})
	if !errors.Is(err, ErrWindowOverlap) {
		t.Errorf("expected ErrWindowOverlap, got %v", err)
	}
}

func TestUpdateWindow(t *testing.T) {
	f := newFixture()
	doctor := f.addDoctor("Dr. Ayu", true)
	uc := f.windowAdmin()
	ctx := f.adminCtx()

	morning, err := uc.CreateWindow(ctx, windowReq(doctor.ID, "monday", "09:00", "12:00"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := uc.CreateWindow(ctx, windowReq(doctor.ID, "monday", "14:00", "16:00")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Extending within its own range must not collide with itself.
	updated, err := uc.UpdateWindow(ctx, morning.ID, &dto.UpdateAvailabilityWindowRequest{StartTime: "08:00"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.StartTime != "08:00" || updated.EndTime != "12:00" {
		t.Errorf("unexpected window: %+v", updated)
	}

	if _, err := uc.UpdateWindow(ctx, morning.ID, &dto.UpdateAvailabilityWindowRequest{EndTime: "15:00"}); !errors.Is(err, ErrWindowOverlap) {
		t.Errorf("expected ErrWindowOverlap, got %v", err)
	}
	if _, err := uc.UpdateWindow(ctx, morning.ID, &dto.UpdateAvailabilityWindowRequest{EndTime: "07:00"}); !errors.Is(err, ErrInvalidWindow) {
		t.Errorf("expected ErrInvalidWindow, got %v", err)
	}
	if _, err := uc.UpdateWindow(ctx, uuid.New(), &dto.UpdateAvailabilityWindowRequest{EndTime: "13:00"}); !errors.Is(err, ErrWindowNotFound) {
		t.Errorf("expected ErrWindowNotFound, got %v", err)
	}
}

func TestDeleteWindow(t *testing.T) {
	f := newFixture()
	doctor := f.addDoctor("Dr. Ayu", true)
	uc := f.windowAdmin()
	ctx := f.adminCtx()

	window, err := uc.CreateWindow(ctx, windowReq(doctor.ID, "monday", "09:00", "12:00"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := uc.DeleteWindow(ctx, window.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := uc.DeleteWindow(ctx, window.ID); !errors.Is(err, ErrWindowNotFound) {
		t.Errorf("expected ErrWindowNotFound, got %v", err)
	}

	windows, err := uc.ListWindowsByStaff(ctx, "doctor", doctor.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(windows) != 0 {
		t.Errorf("expected no windows, got %d", len(windows))
	}
}

func TestCountStaffByWeekday(t *testing.T) {
	f := newFixture()
	ayu := f.addDoctor("Dr. Ayu", true)
	budi := f.addDoctor("Dr. Budi", true)
	f.windows.addRaw(entity.StaffTypeDoctor, ayu.ID, "monday", "09:00", "10:00")
	f.windows.addRaw(entity.StaffTypeDoctor, ayu.ID, "monday", "14:00", "15:00")
	f.windows.addRaw(entity.StaffTypeDoctor, budi.ID, "monday", "09:00", "10:00")
	f.windows.addRaw(entity.StaffTypeDoctor, budi.ID, "friday", "09:00", "10:00")
	f.windows.addRaw(entity.StaffTypeNurse, uuid.New(), "sunday", "09:00", "10:00")

	uc := f.windowAdmin()
	resp, err := uc.CountStaffByWeekday(f.adminCtx(), &f.hospitalID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	counts := make(map[string]int)
	for _, d := range resp.Days {
		counts[d.DayOfWeek] = d.DoctorCount
	}
	if len(resp.Days) != 7 {
		t.Errorf("expected all 7 weekdays, got %d", len(resp.Days))
	}
	if counts["monday"] != 2 || counts["friday"] != 1 || counts["sunday"] != 0 {
		t.Errorf("unexpected counts: %v", counts)
	}

	if _, err := uc.CountStaffByWeekday(f.adminCtx(), nil); !errors.Is(err, ErrForbidden) {
		t.Errorf("expected ErrForbidden for platform-wide count, got %v", err)
	}
	if _, err := uc.CountStaffByWeekday(ctxAs(entity.RoleSuperAdmin, uuid.Nil), nil); err != nil {
		t.Errorf("super admin platform-wide count failed: %v", err)
	}
}

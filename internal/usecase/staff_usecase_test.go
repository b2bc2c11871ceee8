package usecase

import (
	"errors"
	"testing"

	"hospital-crm/internal/delivery/dto"
	"hospital-crm/internal/domain/entity"

	"github.com/google/uuid"
)

func TestCreateDoctor(t *testing.T) {
	f := newFixture()

	doctor, err := f.staff().CreateDoctor(f.adminCtx(), f.hospitalID, &dto.CreateDoctorRequest{
		Email:           " Dr.Sari@Example.com ",
		FullName:        "Dr. Sari",
		Specialization:  "pediatrics",
		LicenseNumber:   "STR-001",
		ExperienceYears: 4,
		Tags:            []string{"kids", " vaccines ", ""},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doctor.ID == uuid.Nil || doctor.UserID == uuid.Nil {
		t.Errorf("expected generated ids, got %+v", doctor)
	}
	if doctor.Email != "dr.sari@example.com" {
		t.Errorf("expected normalized email, got %q", doctor.Email)
	}
	if !doctor.IsAvailable {
		t.Error("expected a new doctor to be available")
	}
	if len(doctor.Tags) != 2 || doctor.Tags[0] != "kids" || doctor.Tags[1] != "vaccines" {
		t.Errorf("expected cleaned tags, got %v", doctor.Tags)
	}
	if len(f.audit.actions) != 1 || f.audit.actions[0] != entity.AuditActionDoctorCreate {
		t.Errorf("expected a doctor.create audit row, got %v", f.audit.actions)
	}

	listed, err := f.staff().ListDoctors(f.adminCtx(), f.hospitalID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(listed) != 1 || listed[0].ID != doctor.ID {
		t.Errorf("expected the new doctor in the listing, got %+v", listed)
	}
}

func TestCreateDoctor_Conflicts(t *testing.T) {
	f := newFixture()
	uc := f.staff()
	base := dto.CreateDoctorRequest{Email: "a@example.com", FullName: "Dr. A", Specialization: "gp", LicenseNumber: "L-1"}
	if _, err := uc.CreateDoctor(f.adminCtx(), f.hospitalID, &base); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sameEmail := base
	sameEmail.LicenseNumber = "L-2"
	if _, err := uc.CreateDoctor(f.adminCtx(), f.hospitalID, &sameEmail); !errors.Is(err, ErrEmailExists) {
		t.Errorf("expected ErrEmailExists, got %v", err)
	}

	sameLicense := base
	sameLicense.Email = "b@example.com"
	if _, err := uc.CreateDoctor(f.adminCtx(), f.hospitalID, &sameLicense); !errors.Is(err, ErrLicenseExists) {
		t.Errorf("expected ErrLicenseExists, got %v", err)
	}
	if !IsConflict(ErrEmailExists) || !IsConflict(ErrLicenseExists) {
		t.Error("expected duplicate identity errors to be conflicts")
	}

	if len(f.audit.actions) != 1 {
		t.Errorf("expected only the first create to be audited, got %v", f.audit.actions)
	}
}

func TestCreateDoctor_OtherHospitalForbidden(t *testing.T) {
	f := newFixture()
	req := &dto.CreateDoctorRequest{Email: "a@example.com", FullName: "Dr. A", Specialization: "gp", LicenseNumber: "L-1"}

	if _, err := f.staff().CreateDoctor(f.adminCtx(), uuid.New(), req); !errors.Is(err, ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
	if _, err := f.staff().ListDoctors(f.adminCtx(), uuid.New()); !errors.Is(err, ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
}

func TestSetDoctorAvailability_RemovesDoctorFromHospitalListing(t *testing.T) {
	f := newFixture()
	ayu := f.addDoctor("Dr. Ayu", true)
	budi := f.addDoctor("Dr. Budi", true)

	resp, err := f.staff().SetDoctorAvailability(f.adminCtx(), ayu.ID, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.IsAvailable {
		t.Error("expected the doctor to be unavailable")
	}
	if len(f.audit.actions) != 1 || f.audit.actions[0] != entity.AuditActionDoctorUpdate {
		t.Errorf("expected a doctor.update audit row, got %v", f.audit.actions)
	}

	snapshot, err := f.availability().ListHospitalAvailability(f.adminCtx(), f.hospitalID, "2024-06-03")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(snapshot.Doctors) != 1 || snapshot.Doctors[0].DoctorID != budi.ID {
		t.Errorf("expected only Dr. Budi in the listing, got %+v", snapshot.Doctors)
	}

	// Setting the current value again changes nothing and is not audited.
	if _, err := f.staff().SetDoctorAvailability(f.adminCtx(), ayu.ID, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.audit.actions) != 1 {
		t.Errorf("expected no extra audit row, got %v", f.audit.actions)
	}

	if _, err := f.staff().SetDoctorAvailability(f.adminCtx(), ayu.ID, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	snapshot, err = f.availability().ListHospitalAvailability(f.adminCtx(), f.hospitalID, "2024-06-03")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(snapshot.Doctors) != 2 {
		t.Errorf("expected both doctors after re-enabling, got %d", len(snapshot.Doctors))
	}
}

func TestSetDoctorAvailability_Errors(t *testing.T) {
	f := newFixture()
	doctor := f.addDoctor("Dr. Ayu", true)

	if _, err := f.staff().SetDoctorAvailability(f.adminCtx(), uuid.New(), false); !errors.Is(err, ErrDoctorNotFound) {
		t.Errorf("expected ErrDoctorNotFound, got %v", err)
	}
	other := ctxAs(entity.RoleHospitalAdmin, uuid.New())
	if _, err := f.staff().SetDoctorAvailability(other, doctor.ID, false); !errors.Is(err, ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
	if len(f.audit.actions) != 0 {
		t.Errorf("expected no audit rows, got %v", f.audit.actions)
	}
}

func TestUpdateDoctor_Partial(t *testing.T) {
	f := newFixture()
	doctor := f.addDoctor("Dr. Ayu", true)
	years := 12

	resp, err := f.staff().UpdateDoctor(f.adminCtx(), doctor.ID, &dto.UpdateDoctorRequest{
		Specialization:  "neurology",
		ExperienceYears: &years,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Specialization != "neurology" || resp.ExperienceYears != 12 {
		t.Errorf("expected updated fields, got %+v", resp)
	}
	if resp.FullName != "Dr. Ayu" || !resp.IsAvailable {
		t.Errorf("expected untouched fields to keep their values, got %+v", resp)
	}

	stored, err := f.staff().GetDoctor(f.adminCtx(), doctor.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored.Specialization != "neurology" {
		t.Errorf("expected the update to be persisted, got %q", stored.Specialization)
	}
}

func TestUpdateDoctor_LicenseTaken(t *testing.T) {
	f := newFixture()
	uc := f.staff()
	first, err := uc.CreateDoctor(f.adminCtx(), f.hospitalID, &dto.CreateDoctorRequest{Email: "a@example.com", FullName: "Dr. A", Specialization: "gp", LicenseNumber: "L-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := uc.CreateDoctor(f.adminCtx(), f.hospitalID, &dto.CreateDoctorRequest{Email: "b@example.com", FullName: "Dr. B", Specialization: "gp", LicenseNumber: "L-2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := uc.UpdateDoctor(f.adminCtx(), second.ID, &dto.UpdateDoctorRequest{LicenseNumber: first.LicenseNumber}); !errors.Is(err, ErrLicenseExists) {
		t.Errorf("expected ErrLicenseExists, got %v", err)
	}
}

func TestNurseManagement(t *testing.T) {
	f := newFixture()
	uc := f.staff()

	nurse, err := uc.CreateNurse(f.adminCtx(), f.hospitalID, &dto.CreateNurseRequest{
		Email:     "rina@example.com",
		FullName:  "Rina",
		ShiftType: "night",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if nurse.ShiftType != "night" || !nurse.IsAvailable {
		t.Errorf("unexpected nurse: %+v", nurse)
	}

	if _, err := uc.CreateNurse(f.adminCtx(), f.hospitalID, &dto.CreateNurseRequest{Email: "rina@example.com", FullName: "Rina Two"}); !errors.Is(err, ErrEmailExists) {
		t.Errorf("expected ErrEmailExists, got %v", err)
	}

	updated, err := uc.UpdateNurse(f.adminCtx(), nurse.ID, &dto.UpdateNurseRequest{ShiftType: "day"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.ShiftType != "day" || updated.FullName != "Rina" {
		t.Errorf("unexpected update result: %+v", updated)
	}

	off, err := uc.SetNurseAvailability(f.adminCtx(), nurse.ID, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if off.IsAvailable {
		t.Error("expected the nurse to be unavailable")
	}

	listed, err := uc.ListNurses(f.adminCtx(), f.hospitalID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(listed) != 1 || listed[0].IsAvailable {
		t.Errorf("expected one unavailable nurse, got %+v", listed)
	}

	if _, err := uc.GetNurse(f.adminCtx(), uuid.New()); !errors.Is(err, ErrStaffNotFound) {
		t.Errorf("expected ErrStaffNotFound, got %v", err)
	}
	if _, err := uc.GetNurse(ctxAs(entity.RoleHospitalAdmin, uuid.New()), nurse.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}

	want := []string{entity.AuditActionNurseCreate, entity.AuditActionNurseUpdate, entity.AuditActionNurseUpdate}
	if len(f.audit.actions) != len(want) {
		t.Fatalf("expected audit actions %v, got %v", want, f.audit.actions)
	}
	for i := range want {
		if f.audit.actions[i] != want[i] {
			t.Errorf("audit[%d]: expected %s, got %s", i, want[i], f.audit.actions[i])
		}
	}
}

package usecase

import (
	"context"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"hospital-crm/config"
	"hospital-crm/internal/delivery/http/middleware"
	"hospital-crm/internal/domain/entity"
	"hospital-crm/internal/service"
	"hospital-crm/pkg/jwt"
	"hospital-crm/pkg/timeslot"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func testBookingConfig() config.BookingConfig {
	return config.BookingConfig{
		SlotDurationMinutes: 30,
		SlotLockTTL:         10 * time.Second,
		TimeZone:            "UTC",
		BulkConcurrency:     4,
	}
}

func ctxAs(role string, hospitalID uuid.UUID) context.Context {
	claims := &jwt.Claims{
		UserID:    uuid.New(),
		Role:      role,
		TokenType: jwt.AccessToken,
		TokenID:   uuid.NewString(),
	}
	if hospitalID != uuid.Nil {
		claims.HospitalID = &hospitalID
	}
	return middleware.WithClaims(context.Background(), claims)
}

type fakeTransactor struct{}

func (fakeTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeDoctorRepo struct {
	mu      sync.Mutex
	doctors []entity.Doctor
}

func (r *fakeDoctorRepo) add(hospitalID uuid.UUID, name string, available bool) *entity.Doctor {
	r.mu.Lock()
	defer r.mu.Unlock()
	d := entity.Doctor{
		ID:              uuid.New(),
		HospitalID:      hospitalID,
		Specialization:  "cardiology",
		ExperienceYears: 7,
		Tags:            "heart,echo",
		IsAvailable:     available,
		User:            entity.User{ID: uuid.New(), FullName: name},
	}
	r.doctors = append(r.doctors, d)
	return &r.doctors[len(r.doctors)-1]
}

func (r *fakeDoctorRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Doctor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.doctors {
		if d.ID == id {
			doctor := d
			return &doctor, nil
		}
	}
	return nil, nil
}

func (r *fakeDoctorRepo) FindByHospital(ctx context.Context, hospitalID uuid.UUID) ([]entity.Doctor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Doctor
	for _, d := range r.doctors {
		if d.HospitalID == hospitalID {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].User.FullName < out[j].User.FullName })
	return out, nil
}

// Create mimics the users email and doctors license unique keys.
func (r *fakeDoctorRepo) Create(ctx context.Context, doctor *entity.Doctor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.doctors {
		if d.User.Email != "" && d.User.Email == doctor.User.Email {
			return &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}
		}
		if d.LicenseNumber != "" && d.LicenseNumber == doctor.LicenseNumber {
			return &pgconn.PgError{Code: "23505", ConstraintName: "doctors_license_number_key"}
		}
	}
	doctor.ID = uuid.New()
	doctor.User.ID = uuid.New()
	doctor.UserID = doctor.User.ID
	r.doctors = append(r.doctors, *doctor)
	return nil
}

func (r *fakeDoctorRepo) Update(ctx context.Context, doctor *entity.Doctor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.doctors {
		if r.doctors[i].ID != doctor.ID && r.doctors[i].LicenseNumber != "" && r.doctors[i].LicenseNumber == doctor.LicenseNumber {
			return &pgconn.PgError{Code: "23505", ConstraintName: "doctors_license_number_key"}
		}
	}
	for i := range r.doctors {
		if r.doctors[i].ID == doctor.ID {
			r.doctors[i] = *doctor
		}
	}
	return nil
}

type fakeNurseRepo struct {
	mu     sync.Mutex
	nurses map[uuid.UUID]*entity.Nurse
}

func (r *fakeNurseRepo) Create(ctx context.Context, nurse *entity.Nurse) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.nurses {
		if n.User.Email == nurse.User.Email {
			return &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}
		}
	}
	nurse.ID = uuid.New()
	nurse.User.ID = uuid.New()
	nurse.UserID = nurse.User.ID
	stored := *nurse
	r.nurses[nurse.ID] = &stored
	return nil
}

func (r *fakeNurseRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Nurse, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.nurses[id]
	if !ok {
		return nil, nil
	}
	nurse := *n
	return &nurse, nil
}

func (r *fakeNurseRepo) FindByHospital(ctx context.Context, hospitalID uuid.UUID) ([]entity.Nurse, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Nurse
	for _, n := range r.nurses {
		if n.HospitalID == hospitalID {
			out = append(out, *n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].User.FullName < out[j].User.FullName })
	return out, nil
}

func (r *fakeNurseRepo) Update(ctx context.Context, nurse *entity.Nurse) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *nurse
	r.nurses[nurse.ID] = &stored
	return nil
}

type fakePatientRepo struct {
	mu       sync.Mutex
	patients map[uuid.UUID]*entity.Patient
}

func (r *fakePatientRepo) add(hospitalID uuid.UUID) *entity.Patient {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := &entity.Patient{ID: uuid.New(), HospitalID: hospitalID, FullName: "Pat"}
	r.patients[p.ID] = p
	return p
}

func (r *fakePatientRepo) Create(ctx context.Context, patient *entity.Patient) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	patient.ID = uuid.New()
	stored := *patient
	r.patients[patient.ID] = &stored
	return nil
}

func (r *fakePatientRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.patients[id]
	if !ok {
		return nil, nil
	}
	patient := *p
	return &patient, nil
}

func (r *fakePatientRepo) FindAllByHospital(ctx context.Context, hospitalID uuid.UUID, search string, limit, offset int) ([]entity.Patient, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []entity.Patient
	for _, p := range r.patients {
		if p.HospitalID != hospitalID {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.FullName), strings.ToLower(search)) && !strings.Contains(p.PhoneNumber, search) {
			continue
		}
		matched = append(matched, *p)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].FullName < matched[j].FullName })
	total := int64(len(matched))
	if offset >= len(matched) {
		return []entity.Patient{}, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (r *fakePatientRepo) Update(ctx context.Context, patient *entity.Patient) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *patient
	r.patients[patient.ID] = &stored
	return nil
}

func (r *fakePatientRepo) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.patients[id]; !ok {
		return 0, nil
	}
	delete(r.patients, id)
	return 1, nil
}

type fakeAvailabilityRepo struct {
	mu       sync.Mutex
	windows  []entity.AvailabilityWindow
	doctorOf map[uuid.UUID]uuid.UUID // staff id -> hospital id, for FindDoctorWindows
	// hideDay makes FindByStaffAndDay miss committed windows, as a concurrent
	// writer would under READ COMMITTED. Writes still hit the exclusion check.
	hideDay bool
}

// conflicts mimics excl_availabilities_overlap. Caller holds mu.
func (r *fakeAvailabilityRepo) conflicts(window *entity.AvailabilityWindow) error {
	start, _ := timeslot.ParseClock(window.StartTime)
	end, _ := timeslot.ParseClock(window.EndTime)
	for _, w := range r.windows {
		if w.ID == window.ID || w.StaffType != window.StaffType || w.StaffID != window.StaffID || w.DayOfWeek != window.DayOfWeek {
			continue
		}
		otherStart, _ := timeslot.ParseClock(w.StartTime)
		otherEnd, _ := timeslot.ParseClock(w.EndTime)
		if timeslot.Overlaps(start, end, otherStart, otherEnd) {
			return &pgconn.PgError{Code: "23P01", ConstraintName: entity.WindowOverlapConstraint}
		}
	}
	return nil
}

// addRaw stores a window the way Postgres returns time columns.
func (r *fakeAvailabilityRepo) addRaw(kind entity.StaffType, staffID uuid.UUID, day, start, end string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.windows = append(r.windows, entity.AvailabilityWindow{
		ID:        uuid.New(),
		StaffType: kind,
		StaffID:   staffID,
		DayOfWeek: day,
		StartTime: start + ":00",
		EndTime:   end + ":00",
	})
}

func (r *fakeAvailabilityRepo) Create(ctx context.Context, window *entity.AvailabilityWindow) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.conflicts(window); err != nil {
		return err
	}
	window.ID = uuid.New()
	r.windows = append(r.windows, *window)
	return nil
}

func (r *fakeAvailabilityRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.AvailabilityWindow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, w := range r.windows {
		if w.ID == id {
			window := w
			return &window, nil
		}
	}
	return nil, nil
}

func (r *fakeAvailabilityRepo) FindByStaff(ctx context.Context, staffType entity.StaffType, staffID uuid.UUID) ([]entity.AvailabilityWindow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.AvailabilityWindow
	for _, w := range r.windows {
		if w.StaffType == staffType && w.StaffID == staffID {
			out = append(out, w)
		}
	}
	return out, nil
}

func (r *fakeAvailabilityRepo) FindByStaffAndDay(ctx context.Context, staffType entity.StaffType, staffID uuid.UUID, dayOfWeek string) ([]entity.AvailabilityWindow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.hideDay {
		return nil, nil
	}
	var out []entity.AvailabilityWindow
	for _, w := range r.windows {
		if w.StaffType == staffType && w.StaffID == staffID && w.DayOfWeek == dayOfWeek {
			out = append(out, w)
		}
	}
	return out, nil
}

func (r *fakeAvailabilityRepo) FindDoctorWindows(ctx context.Context, hospitalID *uuid.UUID) ([]entity.AvailabilityWindow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.AvailabilityWindow
	for _, w := range r.windows {
		if w.StaffType != entity.StaffTypeDoctor {
			continue
		}
		if hospitalID != nil && r.doctorOf[w.StaffID] != *hospitalID {
			continue
		}
		out = append(out, w)
	}
	return out, nil
}

func (r *fakeAvailabilityRepo) Update(ctx context.Context, window *entity.AvailabilityWindow) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.conflicts(window); err != nil {
		return err
	}
	for i := range r.windows {
		if r.windows[i].ID == window.ID {
			r.windows[i] = *window
		}
	}
	return nil
}

func (r *fakeAvailabilityRepo) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.windows {
		if r.windows[i].ID == id {
			r.windows = append(r.windows[:i], r.windows[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

// fakeAppointmentRepo enforces the partial unique index the way Postgres does.
type fakeAppointmentRepo struct {
	mu           sync.Mutex
	appointments []entity.Appointment
	// hideLedger makes FindBookedSlots report nothing, simulating a
	// concurrent insert that the ledger read did not see.
	hideLedger bool
}

func uniqueViolation() error {
	return &pgconn.PgError{Code: "23505", ConstraintName: entity.SlotUniqueConstraint}
}

func (r *fakeAppointmentRepo) taken(a *entity.Appointment) bool {
	for _, other := range r.appointments {
		if other.ID != a.ID && !other.IsCancelled() && other.DoctorID == a.DoctorID && other.Date.Equal(a.Date) && other.Slot == a.Slot {
			return true
		}
	}
	return false
}

func (r *fakeAppointmentRepo) Create(ctx context.Context, appointment *entity.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.taken(appointment) {
		return uniqueViolation()
	}
	appointment.ID = uuid.New()
	appointment.CreatedAt = time.Now()
	appointment.UpdatedAt = appointment.CreatedAt
	r.appointments = append(r.appointments, *appointment)
	return nil
}

func (r *fakeAppointmentRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.appointments {
		if a.ID == id {
			appointment := a
			return &appointment, nil
		}
	}
	return nil, nil
}

func (r *fakeAppointmentRepo) FindAll(ctx context.Context, filter *entity.AppointmentFilter) ([]entity.Appointment, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Appointment
	for _, a := range r.appointments {
		if filter.DoctorID != nil && a.DoctorID != *filter.DoctorID {
			continue
		}
		if filter.Date != "" && a.Date.Format(timeslot.DateLayout) != filter.Date {
			continue
		}
		if filter.Status != "" && string(a.Status) != filter.Status {
			continue
		}
		out = append(out, a)
	}
	return out, int64(len(out)), nil
}

func (r *fakeAppointmentRepo) FindBookedSlots(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.hideLedger {
		return nil, nil
	}
	var slots []string
	for _, a := range r.appointments {
		if a.DoctorID == doctorID && a.Date.Equal(date) && !a.IsCancelled() {
			slots = append(slots, a.Slot)
		}
	}
	return slots, nil
}

func (r *fakeAppointmentRepo) Update(ctx context.Context, appointment *entity.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !appointment.IsCancelled() && r.taken(appointment) {
		return uniqueViolation()
	}
	for i := range r.appointments {
		if r.appointments[i].ID == appointment.ID {
			r.appointments[i] = *appointment
		}
	}
	return nil
}

func (r *fakeAppointmentRepo) Cancel(ctx context.Context, id uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.appointments {
		if r.appointments[i].ID == id && !r.appointments[i].IsCancelled() {
			r.appointments[i].Status = entity.AppointmentStatusCancelled
			return 1, nil
		}
	}
	return 0, nil
}

type fakeAuditService struct {
	mu      sync.Mutex
	actions []string
}

func (s *fakeAuditService) record(action string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.actions = append(s.actions, action)
	return nil
}

func (s *fakeAuditService) LogCreate(ctx context.Context, userID *uuid.UUID, action string, entityName string, entityID string, newValue interface{}) error {
	return s.record(action)
}

func (s *fakeAuditService) LogUpdate(ctx context.Context, userID *uuid.UUID, action string, entityName string, entityID string, oldValue, newValue interface{}) error {
	return s.record(action)
}

func (s *fakeAuditService) LogDelete(ctx context.Context, userID *uuid.UUID, action string, entityName string, entityID string, oldValue interface{}) error {
	return s.record(action)
}

type fakeSlotLocker struct {
	mu       sync.Mutex
	held     map[string]bool
	err      error
	released int
}

func (l *fakeSlotLocker) Acquire(ctx context.Context, doctorID uuid.UUID, date time.Time, slot string) (*service.SlotLock, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return nil, l.err
	}
	key := service.SlotLockKey(doctorID, date, slot)
	if l.held[key] {
		return nil, service.ErrSlotLocked
	}
	l.held[key] = true
	return &service.SlotLock{Key: key, Token: "t"}, nil
}

func (l *fakeSlotLocker) Release(ctx context.Context, lock *service.SlotLock) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.held, lock.Key)
	l.released++
	return nil
}

// fixture wires every fake around one hospital.
type fixture struct {
	hospitalID   uuid.UUID
	doctors      *fakeDoctorRepo
	nurses       *fakeNurseRepo
	patients     *fakePatientRepo
	windows      *fakeAvailabilityRepo
	appointments *fakeAppointmentRepo
	audit        *fakeAuditService
	locker       *fakeSlotLocker
}

func newFixture() *fixture {
	return &fixture{
		hospitalID:   uuid.New(),
		doctors:      &fakeDoctorRepo{},
		nurses:       &fakeNurseRepo{nurses: map[uuid.UUID]*entity.Nurse{}},
		patients:     &fakePatientRepo{patients: map[uuid.UUID]*entity.Patient{}},
		windows:      &fakeAvailabilityRepo{doctorOf: map[uuid.UUID]uuid.UUID{}},
		appointments: &fakeAppointmentRepo{},
		audit:        &fakeAuditService{},
		locker:       &fakeSlotLocker{held: map[string]bool{}},
	}
}

func (f *fixture) addDoctor(name string, available bool) *entity.Doctor {
	d := f.doctors.add(f.hospitalID, name, available)
	f.windows.doctorOf[d.ID] = f.hospitalID
	return d
}

func (f *fixture) availability() AvailabilityUsecase {
	return NewAvailabilityUsecase(testLogger(), testBookingConfig(), f.doctors, f.nurses, f.windows, f.appointments)
}

func (f *fixture) booking() AppointmentUsecase {
	return NewAppointmentUsecase(testLogger(), testBookingConfig(), fakeTransactor{}, f.doctors, f.patients, f.windows, f.appointments, f.audit, f.locker)
}

func (f *fixture) windowAdmin() AvailabilityWindowUsecase {
	return NewAvailabilityWindowUsecase(testLogger(), testBookingConfig(), fakeTransactor{}, f.doctors, f.nurses, f.windows, f.audit)
}

func (f *fixture) staff() StaffUsecase {
	return NewStaffUsecase(testLogger(), fakeTransactor{}, f.doctors, f.nurses, f.audit)
}

func (f *fixture) patientAdmin() PatientUsecase {
	return NewPatientUsecase(testLogger(), fakeTransactor{}, f.patients, f.audit)
}

func (f *fixture) adminCtx() context.Context {
	return ctxAs(entity.RoleHospitalAdmin, f.hospitalID)
}

package usecase

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrDoctorNotFound      = errors.New("doctor not found")
	ErrPatientNotFound     = errors.New("patient not found")
	ErrStaffNotFound       = errors.New("staff member not found")
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrWindowNotFound      = errors.New("availability window not found")
	ErrMedicineNotFound    = errors.New("medicine not found")
	ErrAuditLogNotFound    = errors.New("audit log not found")
	ErrHospitalNotFound    = errors.New("hospital not found")

	ErrInvalidDate             = errors.New("invalid date format, use YYYY-MM-DD")
	ErrInvalidSlot             = errors.New("invalid slot format, use zero-padded HH:MM")
	ErrInvalidStaffType        = errors.New("staff type must be doctor or nurse")
	ErrInvalidWeekday          = errors.New("day of week must be a lowercase English weekday name")
	ErrInvalidSeverity         = errors.New("severity must be one of low, medium, high, critical")
	ErrInvalidWindow           = errors.New("availability window must start before it ends")
	ErrWindowTooShort          = errors.New("availability window must be at least one slot long")
	ErrInvalidPrice            = errors.New("price must not be negative")
	ErrSlotOutsideAvailability = errors.New("slot is outside the doctor's availability for that day")
	ErrInvalidQuantity         = errors.New("quantity must be greater than zero")
	ErrInsufficientStock       = errors.New("not enough stock")

	ErrWindowOverlap        = errors.New("availability window overlaps an existing window for that day")
	ErrSlotConflict         = errors.New("slot no longer available, please pick another")
	ErrAppointmentCancelled = errors.New("appointment is already cancelled")
	ErrEmailExists          = errors.New("email already exists")
	ErrLicenseExists        = errors.New("license number already exists")

	ErrForbidden = errors.New("you don't have access to this resource")
)

// IsNotFound groups the lookup failures the delivery layer maps to 404.
func IsNotFound(err error) bool {
	switch {
	case errors.Is(err, ErrDoctorNotFound),
		errors.Is(err, ErrPatientNotFound),
		errors.Is(err, ErrStaffNotFound),
		errors.Is(err, ErrAppointmentNotFound),
		errors.Is(err, ErrWindowNotFound),
		errors.Is(err, ErrMedicineNotFound),
		errors.Is(err, ErrAuditLogNotFound),
		errors.Is(err, ErrHospitalNotFound):
		return true
	}
	return false
}

// IsValidationError groups malformed or out-of-range input.
func IsValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidDate),
		errors.Is(err, ErrInvalidSlot),
		errors.Is(err, ErrInvalidStaffType),
		errors.Is(err, ErrInvalidWeekday),
		errors.Is(err, ErrInvalidSeverity),
		errors.Is(err, ErrInvalidWindow),
		errors.Is(err, ErrWindowTooShort),
		errors.Is(err, ErrInvalidPrice),
		errors.Is(err, ErrInvalidQuantity),
		errors.Is(err, ErrInsufficientStock),
		errors.Is(err, ErrSlotOutsideAvailability):
		return true
	}
	return false
}

// IsConflict groups errors caused by the current state of stored data.
func IsConflict(err error) bool {
	switch {
	case errors.Is(err, ErrSlotConflict),
		errors.Is(err, ErrWindowOverlap),
		errors.Is(err, ErrAppointmentCancelled),
		errors.Is(err, ErrEmailExists),
		errors.Is(err, ErrLicenseExists):
		return true
	}
	return false
}

// isDuplicateKeyError checks if the error is a PostgreSQL unique constraint violation
// containing the specified constraint name
func isDuplicateKeyError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// PostgreSQL error code 23505 = unique_violation
		if pgErr.Code == "23505" && strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName)) {
			return true
		}
	}
	return false
}

// isForeignKeyError checks if the error is a PostgreSQL foreign key violation
// containing the specified constraint name
func isForeignKeyError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// PostgreSQL error code 23503 = foreign_key_violation
		if pgErr.Code == "23503" && strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName)) {
			return true
		}
	}
	return false
}

// isCheckViolation checks if the error is a PostgreSQL check constraint violation
func isCheckViolation(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// PostgreSQL error code 23514 = check_violation
		if pgErr.Code == "23514" && strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName)) {
			return true
		}
	}
	return false
}

// isExclusionViolation checks if the error is a PostgreSQL exclusion constraint violation
func isExclusionViolation(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// PostgreSQL error code 23P01 = exclusion_violation
		if pgErr.Code == "23P01" && strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName)) {
			return true
		}
	}
	return false
}

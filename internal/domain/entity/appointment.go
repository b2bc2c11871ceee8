package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "scheduled"
	AppointmentStatusStarted   AppointmentStatus = "started"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

// Severity levels recorded at booking and consultation time
const (
	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

// SlotUniqueConstraint is the partial unique index guarding (doctor, date, slot).
const SlotUniqueConstraint = "uq_appointments_doctor_date_slot"

// Appointment represents a single booked consultation
type Appointment struct {
	ID           uuid.UUID           `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	PatientID    uuid.UUID           `gorm:"type:uuid;not null;index" json:"patient_id"`
	DoctorID     uuid.UUID           `gorm:"type:uuid;not null;index" json:"doctor_id"`
	Date         time.Time           `gorm:"type:date;not null;index" json:"date"`
	Slot         string              `gorm:"type:varchar(5);not null" json:"slot"`
	Severity     string              `gorm:"type:varchar(10);not null;default:'low'" json:"severity"`
	Description  string              `gorm:"type:text" json:"description,omitempty"`
	Remarks      *AppointmentRemarks `gorm:"type:jsonb" json:"remarks,omitempty"`
	NextFollowup *time.Time          `gorm:"type:date" json:"next_followup,omitempty"`
	LabReportID  *uuid.UUID          `gorm:"type:uuid" json:"lab_report_id,omitempty"`
	Status       AppointmentStatus   `gorm:"type:varchar(20);not null;default:'scheduled';index" json:"status"`
	CreatedAt    time.Time           `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time           `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Doctor  Doctor  `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
	Patient Patient `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// IsCancelled checks if the appointment has been cancelled
func (a *Appointment) IsCancelled() bool {
	return a.Status == AppointmentStatusCancelled
}

// Cancel changes appointment status to cancelled
func (a *Appointment) Cancel() {
	a.Status = AppointmentStatusCancelled
}

// AppointmentRemarks is the structured consultation note stored as jsonb
type AppointmentRemarks struct {
	Text     string   `json:"text,omitempty"`
	Lab      []string `json:"lab"`
	Medicine []string `json:"medicine"`
}

// Value returns json value, implement driver.Valuer interface
func (r AppointmentRemarks) Value() (driver.Value, error) {
	if r.Lab == nil {
		r.Lab = []string{}
	}
	if r.Medicine == nil {
		r.Medicine = []string{}
	}
	return json.Marshal(r)
}

// Scan scan value into AppointmentRemarks, implements sql.Scanner interface
func (r *AppointmentRemarks) Scan(value interface{}) error {
	if value == nil {
		*r = AppointmentRemarks{}
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New(fmt.Sprint("Failed to unmarshal remarks value:", value))
	}
	return json.Unmarshal(bytes, r)
}

// IsValidSeverity checks a severity string against the known levels
func IsValidSeverity(s string) bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

package entity

import (
	"time"

	"github.com/google/uuid"
)

// StaffType distinguishes who an availability window belongs to
type StaffType string

const (
	StaffTypeDoctor StaffType = "doctor"
	StaffTypeNurse  StaffType = "nurse"
)

// IsValid checks the staff type against the known values
func (s StaffType) IsValid() bool {
	return s == StaffTypeDoctor || s == StaffTypeNurse
}

// WindowOverlapConstraint is the exclusion constraint that keeps windows of one
// staff member on one weekday from intersecting.
const WindowOverlapConstraint = "excl_availabilities_overlap"

// AvailabilityWindow is a weekly recurring time range for one staff member.
// StartTime and EndTime are Postgres time columns and may scan back as
// "HH:MM:SS"; callers normalise through pkg/timeslot.
type AvailabilityWindow struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	StaffType StaffType `gorm:"type:varchar(10);not null" json:"staff_type"`
	StaffID   uuid.UUID `gorm:"type:uuid;not null;index" json:"staff_id"`
	DayOfWeek string    `gorm:"type:varchar(10);not null" json:"day_of_week"`
	StartTime string    `gorm:"type:time;not null" json:"start_time"`
	EndTime   string    `gorm:"type:time;not null" json:"end_time"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (AvailabilityWindow) TableName() string {
	return "availabilities"
}

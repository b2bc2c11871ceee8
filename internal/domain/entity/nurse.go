package entity

import "github.com/google/uuid"

// ShiftType values for nurses
const (
	ShiftDay   = "day"
	ShiftNight = "night"
)

type Nurse struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	HospitalID  uuid.UUID `gorm:"type:uuid;not null;index" json:"hospital_id"`
	ShiftType   string    `gorm:"type:varchar(10);not null;default:'day'" json:"shift_type"`
	IsAvailable bool      `gorm:"not null;default:true" json:"is_available"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Nurse) TableName() string {
	return "nurses"
}

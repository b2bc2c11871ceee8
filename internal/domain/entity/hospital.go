package entity

import (
	"time"

	"github.com/google/uuid"
)

// Hospital is the tenant boundary for staff, patients and inventory
type Hospital struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name           string    `gorm:"type:varchar(255);not null;index" json:"name"`
	LicenseNumber  string    `gorm:"type:varchar(100);uniqueIndex" json:"license_number"`
	Specialization string    `gorm:"type:varchar(100)" json:"specialization,omitempty"`
	Address        string    `gorm:"type:text" json:"address,omitempty"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Hospital) TableName() string {
	return "hospitals"
}

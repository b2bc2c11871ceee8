package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is the shared identity row behind doctors, nurses and patients.
// Credentials live with the external auth service.
type User struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	FullName    string     `gorm:"type:varchar(255);not null;index" json:"full_name"`
	Email       string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PhoneNumber string     `gorm:"type:varchar(20)" json:"phone_number,omitempty"`
	Role        string     `gorm:"type:varchar(30);not null;index" json:"role"`
	HospitalID  *uuid.UUID `gorm:"type:uuid;index" json:"hospital_id,omitempty"`
	IsActive    *bool      `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

package entity

import (
	"strings"

	"github.com/google/uuid"
)

// Doctor represents doctor-specific profile data
type Doctor struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID          uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	HospitalID      uuid.UUID `gorm:"type:uuid;not null;index" json:"hospital_id"`
	Specialization  string    `gorm:"type:varchar(100);not null;index" json:"specialization"`
	LicenseNumber   string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"license_number"`
	ExperienceYears int       `gorm:"not null;default:0" json:"experience_years"`
	Tags            string    `gorm:"type:text" json:"tags,omitempty"`
	IsAvailable     bool      `gorm:"not null;default:true" json:"is_available"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Doctor) TableName() string {
	return "doctors"
}

// TagList splits the comma separated tags column.
func (d *Doctor) TagList() []string {
	if strings.TrimSpace(d.Tags) == "" {
		return []string{}
	}
	parts := strings.Split(d.Tags, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

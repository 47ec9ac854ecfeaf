package models

import (
	"time"

	"gorm.io/gorm"
)

// Enrollment links a student to a program. Families holding an active or
// trial enrollment are treated as customers, not leads.
type Enrollment struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	FamilyID  uint           `gorm:"index;not null" json:"family_id"`
	StudentID uint           `gorm:"index;not null" json:"student_id"`
	Program   string         `json:"program,omitempty"`
	Status    string         `gorm:"index;not null" json:"status"`
	StartedAt *time.Time     `gorm:"index" json:"started_at,omitempty"`
	EndedAt   *time.Time     `gorm:"index" json:"ended_at,omitempty"`
	CreatedAt time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Family  *Family  `gorm:"foreignKey:FamilyID" json:"family,omitempty"`
	Student *Student `gorm:"foreignKey:StudentID" json:"student,omitempty"`

	OnboardingItems []OnboardingItem `gorm:"foreignKey:EnrollmentID" json:"onboarding_items,omitempty"`
}

// TableName sets the table name.
func (Enrollment) TableName() string {
	return "enrollments"
}

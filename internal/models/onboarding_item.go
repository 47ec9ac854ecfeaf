package models

import (
	"time"

	"gorm.io/gorm"
)

// OnboardingItem is a form or document a family must complete after
// enrollment.
type OnboardingItem struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	EnrollmentID uint           `gorm:"index;not null" json:"enrollment_id"`
	Name         string         `gorm:"not null" json:"name"`
	ItemType     string         `gorm:"index;not null" json:"item_type"`
	Status       string         `gorm:"index;not null" json:"status"`
	FormID       string         `gorm:"index" json:"form_id,omitempty"`
	FormURL      string         `gorm:"type:text" json:"form_url,omitempty"`
	DocumentURL  string         `gorm:"type:text" json:"document_url,omitempty"`
	SentAt       *time.Time     `gorm:"index" json:"sent_at,omitempty"`
	CompletedAt  *time.Time     `gorm:"index" json:"completed_at,omitempty"`
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName sets the table name.
func (OnboardingItem) TableName() string {
	return "onboarding_items"
}

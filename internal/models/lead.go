package models

import (
	"time"

	"gorm.io/gorm"
)

// Lead is a prospective, not-yet-enrolled contact captured from an external
// form. Deduplicated on (email, lead_type) while in status new or contacted.
type Lead struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	Email     string         `gorm:"index;not null" json:"email"`
	LeadType  string         `gorm:"index;not null" json:"lead_type"`
	Name      string         `json:"name,omitempty"`
	Status    string         `gorm:"index;not null" json:"status"`
	FamilyID  *uint          `gorm:"index" json:"family_id,omitempty"`
	Details   JSON           `gorm:"type:json" json:"details,omitempty"` // type-specific form fields
	CreatedAt time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName sets the table name.
func (Lead) TableName() string {
	return "leads"
}

package models

import (
	"time"

	"gorm.io/gorm"
)

// Family is a customer household. Email is matched case-insensitively
// when resolving inbound leads.
type Family struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	Name      string         `gorm:"not null" json:"name"`
	Email     string         `gorm:"index;not null" json:"email"`
	Phone     string         `json:"phone,omitempty"`
	Status    string         `gorm:"index;not null" json:"status"`
	IsLead    bool           `gorm:"index;not null;default:false" json:"is_lead"` // legacy flag, migrated by cmd/migrate-leads
	CreatedAt time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Students    []Student    `gorm:"foreignKey:FamilyID" json:"students,omitempty"`
	Enrollments []Enrollment `gorm:"foreignKey:FamilyID" json:"enrollments,omitempty"`
}

// TableName sets the table name.
func (Family) TableName() string {
	return "families"
}

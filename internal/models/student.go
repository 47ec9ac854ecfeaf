package models

import (
	"time"

	"gorm.io/gorm"
)

// Student belongs to a family. Name follows the stored "Last, First"
// convention inherited from the roster system.
type Student struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	FamilyID  uint           `gorm:"index;not null" json:"family_id"`
	Name      string         `gorm:"not null" json:"name"`
	Grade     string         `json:"grade,omitempty"`
	CreatedAt time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName sets the table name.
func (Student) TableName() string {
	return "students"
}

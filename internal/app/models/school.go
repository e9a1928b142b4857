package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// School groups student profiles
type School struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"Id"`
	Name        string    `gorm:"not null" json:"Name" example:"Hillside Primary"`
	Description string    `gorm:"not null;default:''" json:"Description" example:"Rural primary school"`
	District    string    `gorm:"not null" json:"District" example:"Kisumu"`
	Status      string    `gorm:"not null;default:Active" json:"Status" example:"Active"`
	CreatedAt   time.Time `json:"CreatedAt"`
	UpdatedAt   time.Time `json:"UpdatedAt"`
}

func (School) TableName() string { return "schools" }

func (s *School) BeforeCreate(tx *gorm.DB) error {
	newIDIfNil(&s.ID)
	if s.Status == "" {
		s.Status = SchoolStatusActive
	}
	return nil
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StudentProfile is the school record of a student. UserID links it to a
// login account when one exists.
type StudentProfile struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"Id"`
	UserID     *uuid.UUID `gorm:"type:uuid" json:"UserId,omitempty"`
	SchoolID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"SchoolId"`
	Name       string     `gorm:"not null" json:"Name" example:"Amani Otieno"`
	Age        string     `gorm:"type:varchar(10);not null" json:"Age" example:"12"`
	Gender     string     `gorm:"not null" json:"Gender" example:"Female"`
	Address    string     `gorm:"not null" json:"Address"`
	Phone      string     `gorm:"not null" json:"Phone"`
	Email      string     `gorm:"not null" json:"Email"`
	ParentName string     `gorm:"not null" json:"ParentName"`
	CreatedAt  time.Time  `json:"CreatedAt"`
	UpdatedAt  time.Time  `json:"UpdatedAt"`

	School *School `gorm:"foreignKey:SchoolID" json:"School,omitempty"`
}

func (StudentProfile) TableName() string { return "student_profiles" }

func (p *StudentProfile) BeforeCreate(tx *gorm.DB) error {
	newIDIfNil(&p.ID)
	return nil
}

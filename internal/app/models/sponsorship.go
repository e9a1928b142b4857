package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Sponsorship links one sponsor user to one student user
type Sponsorship struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"Id"`
	SponsorID uuid.UUID      `gorm:"type:uuid;not null;index" json:"SponsorId"`
	StudentID uuid.UUID      `gorm:"type:uuid;not null;index" json:"StudentId"`
	StartDate datatypes.Date `gorm:"not null" json:"StartDate" swaggertype:"string" example:"2024-01-01"`
	Status    string         `gorm:"type:varchar(50);not null" json:"Status" example:"Active"`
	CreatedAt time.Time      `json:"CreatedAt"`
	UpdatedAt time.Time      `json:"UpdatedAt"`

	Sponsor *User `gorm:"foreignKey:SponsorID" json:"Sponsor,omitempty"`
	Student *User `gorm:"foreignKey:StudentID" json:"Student,omitempty"`
}

func (Sponsorship) TableName() string { return "sponsorships" }

func (s *Sponsorship) BeforeCreate(tx *gorm.DB) error {
	newIDIfNil(&s.ID)
	if s.Status == "" {
		s.Status = SponsorshipStatusActive
	}
	return nil
}

// Involves reports whether userID is the sponsor or the student
func (s *Sponsorship) Involves(userID uuid.UUID) bool {
	return s.SponsorID == userID || s.StudentID == userID
}

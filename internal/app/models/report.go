package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Report is a term report for a student. No endpoint writes it yet.
type Report struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"Id"`
	StudentID   uuid.UUID `gorm:"type:uuid;not null" json:"StudentId"`
	Term        string    `gorm:"type:varchar(50);not null" json:"Term"`
	Performance string    `gorm:"not null" json:"Performance"`
	Attendance  string    `gorm:"type:varchar(50);not null" json:"Attendance"`
	UploadedBy  uuid.UUID `gorm:"type:uuid;not null" json:"UploadedBy"`
	UploadedAt  time.Time `gorm:"not null" json:"UploadedAt"`
}

func (Report) TableName() string { return "reports" }

func (r *Report) BeforeCreate(tx *gorm.DB) error {
	newIDIfNil(&r.ID)
	nowIfZero(&r.UploadedAt)
	return nil
}

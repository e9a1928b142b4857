package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EmailLog keeps a copy of every message sent to a user
type EmailLog struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"Id"`
	UserID  uuid.UUID `gorm:"type:uuid;not null" json:"UserId"`
	Subject string    `gorm:"not null" json:"Subject"`
	Content string    `gorm:"not null" json:"Content"`
	SentAt  time.Time `gorm:"not null" json:"SentAt"`
}

func (EmailLog) TableName() string { return "email_logs" }

func (l *EmailLog) BeforeCreate(tx *gorm.DB) error {
	newIDIfNil(&l.ID)
	nowIfZero(&l.SentAt)
	return nil
}

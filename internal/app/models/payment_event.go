package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PaymentEvent records every webhook event id that has been handled
type PaymentEvent struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"Id"`
	EventID     string         `gorm:"type:varchar(255);not null;uniqueIndex" json:"EventId"`
	Provider    string         `gorm:"type:varchar(50);not null" json:"Provider"`
	Type        string         `gorm:"type:varchar(100);not null" json:"Type"`
	Status      string         `gorm:"type:varchar(30);not null" json:"Status"`
	Payload     datatypes.JSON `json:"Payload,omitempty" swaggertype:"object"`
	ProcessedAt *time.Time     `json:"ProcessedAt,omitempty"`
	CreatedAt   time.Time      `json:"CreatedAt"`
}

func (PaymentEvent) TableName() string { return "payment_events" }

func (e *PaymentEvent) BeforeCreate(tx *gorm.DB) error {
	newIDIfNil(&e.ID)
	if e.Provider == "" {
		e.Provider = PaymentProviderStripe
	}
	return nil
}

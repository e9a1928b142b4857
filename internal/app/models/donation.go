package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Donation is a monetary contribution recorded against a sponsorship.
// PaymentReference holds the Stripe object id when the donation came from a
// payment and is unique when set.
type Donation struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey" json:"Id"`
	SponsorshipID    uuid.UUID `gorm:"type:uuid;not null;index" json:"SponsorshipId"`
	Amount           float64   `gorm:"type:numeric(10,2);not null" json:"Amount" example:"50"`
	DonatedAt        time.Time `gorm:"not null" json:"DonatedAt"`
	PaymentReference *string   `gorm:"type:varchar(255)" json:"PaymentReference,omitempty" example:"pi_3Nx..."`

	Sponsorship *Sponsorship `gorm:"foreignKey:SponsorshipID" json:"Sponsorship,omitempty"`
}

func (Donation) TableName() string { return "donations" }

func (d *Donation) BeforeCreate(tx *gorm.DB) error {
	newIDIfNil(&d.ID)
	nowIfZero(&d.DonatedAt)
	return nil
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// Role defines the user role type
type Role string

const (
	RoleAdmin   Role = "Admin"
	RoleSchool  Role = "School"
	RoleSponsor Role = "Sponsor"
	RoleStudent Role = "Student"
)

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleSchool, RoleSponsor, RoleStudent:
		return true
	}
	return false
}

// Sponsorship statuses used by the API. Status is a free string column.
const (
	SponsorshipStatusActive = "Active"
	SponsorshipStatusPaused = "Paused"
	SponsorshipStatusEnded  = "Ended"
)

const SchoolStatusActive = "Active"

// Payment event bookkeeping
const (
	PaymentEventProcessed = "processed"
	PaymentEventIgnored   = "ignored"
	PaymentProviderStripe = "stripe"
)

const (
	placeholderEmailDomain   = "example.com"
	placeholderEmailIDPrefix = 8
)

func newIDIfNil(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

func nowIfZero(t *time.Time) {
	if t.IsZero() {
		*t = time.Now()
	}
}

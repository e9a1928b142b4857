package repositories

import (
	"context"

	"github.com/yigit/edusponsor/internal/db"
	"gorm.io/gorm"
)

// Repositories holds all the repository instances
type Repositories struct {
	Users         UserRepository
	Schools       SchoolRepository
	Students      StudentRepository
	Sponsorships  SponsorshipRepository
	Donations     DonationRepository
	PaymentEvents PaymentEventRepository
	EmailLogs     EmailLogRepository
	Tx            Transactor
}

// Transactor runs fn with repositories bound to a single transaction
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(repos *Repositories) error) error
}

// NewRepositories initializes all repositories on the given gorm handle
func NewRepositories(gdb *gorm.DB) *Repositories {
	repos := &Repositories{
		Users:         NewUserRepository(gdb),
		Schools:       NewSchoolRepository(gdb),
		Students:      NewStudentRepository(gdb),
		Sponsorships:  NewSponsorshipRepository(gdb),
		Donations:     NewDonationRepository(gdb),
		PaymentEvents: NewPaymentEventRepository(gdb),
		EmailLogs:     NewEmailLogRepository(gdb),
	}
	repos.Tx = &gormTransactor{db: gdb}
	return repos
}

type gormTransactor struct {
	db *gorm.DB
}

func (t *gormTransactor) WithinTransaction(ctx context.Context, fn func(repos *Repositories) error) error {
	return db.WithTransaction(ctx, t.db, func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}

package repositories

import (
	"context"
	"fmt"

	"github.com/yigit/edusponsor/internal/app/models"
	"github.com/yigit/edusponsor/internal/pkg/apperrors"
	"github.com/yigit/edusponsor/internal/pkg/dberrors"
	"gorm.io/gorm"
)

// PaymentEventRepository is the webhook idempotency ledger
type PaymentEventRepository interface {
	// Record inserts the event and returns apperrors.ErrEventAlreadyHandled
	// when the event id was recorded before
	Record(ctx context.Context, event *models.PaymentEvent) error
}

type paymentEventRepository struct {
	db *gorm.DB
}

func NewPaymentEventRepository(db *gorm.DB) PaymentEventRepository {
	return &paymentEventRepository{db: db}
}

func (r *paymentEventRepository) Record(ctx context.Context, event *models.PaymentEvent) error {
	if err := r.db.WithContext(ctx).Create(event).Error; err != nil {
		if dberrors.IsDuplicateConstraintError(err, dberrors.PaymentEventsEventIDKey) {
			return apperrors.ErrEventAlreadyHandled
		}
		return fmt.Errorf("error recording payment event: %w", err)
	}
	return nil
}

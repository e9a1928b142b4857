package repositories

import (
	"context"
	"fmt"

	"github.com/yigit/edusponsor/internal/app/models"
	"gorm.io/gorm"
)

// EmailLogRepository stores copies of messages sent to users
type EmailLogRepository interface {
	Create(ctx context.Context, entry *models.EmailLog) error
}

type emailLogRepository struct {
	db *gorm.DB
}

func NewEmailLogRepository(db *gorm.DB) EmailLogRepository {
	return &emailLogRepository{db: db}
}

func (r *emailLogRepository) Create(ctx context.Context, entry *models.EmailLog) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("error creating email log: %w", err)
	}
	return nil
}

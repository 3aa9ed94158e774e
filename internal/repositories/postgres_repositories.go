package repositories

import (
	"context"
	"time"

	"food-storefront/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type orderReceiptRepository struct {
	db *gorm.DB
}

func NewOrderReceiptRepository(db *gorm.DB) OrderReceiptRepository {
	return &orderReceiptRepository{db: db}
}

func (r *orderReceiptRepository) Create(ctx context.Context, receipt *models.OrderReceipt) error {
	if receipt.ID == uuid.Nil {
		receipt.ID = uuid.New()
	}
	if receipt.CreatedAt.IsZero() {
		receipt.CreatedAt = time.Now()
	}
	return r.db.WithContext(ctx).Create(receipt).Error
}

func (r *orderReceiptRepository) ListBySession(ctx context.Context, sessionID string, limit, offset int) ([]models.OrderReceipt, error) {
	var receipts []models.OrderReceipt
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&receipts).Error
	return receipts, err
}

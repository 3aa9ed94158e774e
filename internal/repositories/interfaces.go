package repositories

import (
	"context"
	"errors"

	"food-storefront/internal/models"
)

var ErrNotFound = errors.New("record not found")

// CuisineRepository interface for MongoDB catalog snapshot operations
type CuisineRepository interface {
	// SaveCatalog upserts each cuisine, recording its position in the slice.
	SaveCatalog(ctx context.Context, cuisines []models.Cuisine) error
	GetByID(ctx context.Context, cuisineID string) (*models.Cuisine, error)
	FindItem(ctx context.Context, itemID string) (*models.Item, error)
	List(ctx context.Context, limit, offset int) ([]models.Cuisine, error)
}

// OrderReceiptRepository interface for PostgreSQL receipt operations
type OrderReceiptRepository interface {
	Create(ctx context.Context, receipt *models.OrderReceipt) error
	ListBySession(ctx context.Context, sessionID string, limit, offset int) ([]models.OrderReceipt, error)
}

package handlers

import (
	"context"

	"food-storefront/internal/models"
	"food-storefront/internal/services"
)

// CatalogServiceInterface defines the contract for catalog service
type CatalogServiceInterface interface {
	ListCuisines(ctx context.Context, q services.CatalogQuery) ([]models.Cuisine, error)
	GetCuisine(ctx context.Context, cuisineID string) (*models.Cuisine, error)
	FilterItems(ctx context.Context, req *services.FilterItemsRequest) ([]models.Item, error)
}

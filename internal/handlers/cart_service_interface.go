package handlers

import (
	"context"

	"food-storefront/internal/models"
	"food-storefront/internal/pricing"
	"food-storefront/internal/services"
)

// CartServiceInterface defines the contract for cart service
type CartServiceInterface interface {
	GetCart(ctx context.Context, sessionID string) (*services.CartResponse, error)
	AddItem(ctx context.Context, sessionID string, req *services.AddItemRequest) (*services.CartResponse, error)
	RemoveItem(ctx context.Context, sessionID, itemID string) (*services.CartResponse, error)
	ClearCart(ctx context.Context, sessionID string) error
	Totals(ctx context.Context, sessionID string) (*pricing.PriceBreakdown, error)
	Checkout(ctx context.Context, sessionID string) (*services.CheckoutResponse, error)
	ListOrders(ctx context.Context, sessionID string, limit, offset int) ([]models.OrderReceipt, error)
}

// SessionServiceInterface defines the contract for storefront sessions
type SessionServiceInterface interface {
	StartSession(ctx context.Context) (*services.SessionResponse, error)
	EndSession(ctx context.Context, sessionID string) error
}

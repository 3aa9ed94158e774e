package handlers

import (
	"net/http"
	"strconv"

	"food-storefront/internal/middleware"
	"food-storefront/internal/services"

	"github.com/gin-gonic/gin"
)

type CartHandler struct {
	cartService CartServiceInterface
}

func NewCartHandler(cartService CartServiceInterface) *CartHandler {
	return &CartHandler{
		cartService: cartService,
	}
}

// RegisterRoutes registers the routes for cart management
func (h *CartHandler) RegisterRoutes(router *gin.RouterGroup, authMiddleware *middleware.AuthMiddleware) {
	// All cart routes require a session
	cart := router.Group("/cart", authMiddleware.AuthRequired())
	{
		cart.GET("", h.GetCart)
		cart.POST("/items", h.AddItem)
		cart.DELETE("/items/:item_id", h.RemoveItem)
		cart.DELETE("", h.ClearCart)
		cart.GET("/totals", h.GetTotals)
		cart.POST("/checkout", h.Checkout)
	}

	orders := router.Group("/orders", authMiddleware.AuthRequired())
	{
		orders.GET("", h.ListOrders)
	}
}

// GetCart godoc
// @Summary Get the session's cart
// @Tags cart
// @Produce json
// @Success 200 {object} services.CartResponse
// @Failure 401 {object} ErrorResponse
// @Router /cart [get]
func (h *CartHandler) GetCart(c *gin.Context) {
	cart, err := h.cartService.GetCart(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		respondError(c, "Failed to get cart", err)
		return
	}

	c.JSON(http.StatusOK, cart)
}

// AddItem godoc
// @Summary Add item to cart
// @Description Appends a catalog item; adding the same item twice adds two lines
// @Tags cart
// @Accept json
// @Produce json
// @Param item body services.AddItemRequest true "Item"
// @Success 200 {object} services.CartResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /cart/items [post]
func (h *CartHandler) AddItem(c *gin.Context) {
	var req services.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request",
			Message: err.Error(),
		})
		return
	}

	cart, err := h.cartService.AddItem(c.Request.Context(), middleware.GetSessionID(c), &req)
	if err != nil {
		respondError(c, "Failed to add item", err)
		return
	}

	c.JSON(http.StatusOK, cart)
}

// RemoveItem godoc
// @Summary Remove item from cart
// @Description Removes the first line with the given item id, if any
// @Tags cart
// @Produce json
// @Param item_id path string true "Item ID"
// @Success 200 {object} services.CartResponse
// @Failure 401 {object} ErrorResponse
// @Router /cart/items/{item_id} [delete]
func (h *CartHandler) RemoveItem(c *gin.Context) {
	cart, err := h.cartService.RemoveItem(c.Request.Context(), middleware.GetSessionID(c), c.Param("item_id"))
	if err != nil {
		respondError(c, "Failed to remove item", err)
		return
	}

	c.JSON(http.StatusOK, cart)
}

// ClearCart godoc
// @Summary Clear cart
// @Tags cart
// @Success 204
// @Failure 401 {object} ErrorResponse
// @Router /cart [delete]
func (h *CartHandler) ClearCart(c *gin.Context) {
	if err := h.cartService.ClearCart(c.Request.Context(), middleware.GetSessionID(c)); err != nil {
		respondError(c, "Failed to clear cart", err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetTotals godoc
// @Summary Price breakdown
// @Description Unrounded subtotal, CGST, SGST and grand total plus a two-place display form
// @Tags cart
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} ErrorResponse
// @Router /cart/totals [get]
func (h *CartHandler) GetTotals(c *gin.Context) {
	totals, err := h.cartService.Totals(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		respondError(c, "Failed to compute totals", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"totals":  totals,
		"display": totals.Display(),
	})
}

// Checkout godoc
// @Summary Place the order
// @Description Submits the cart; the cart is cleared only when the gateway accepts it
// @Tags cart
// @Produce json
// @Success 200 {object} services.CheckoutResponse
// @Failure 409 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /cart/checkout [post]
func (h *CartHandler) Checkout(c *gin.Context) {
	result, err := h.cartService.Checkout(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		respondError(c, "Checkout failed", err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ListOrders godoc
// @Summary Order receipts for the session
// @Tags orders
// @Produce json
// @Param limit query int false "Limit" default(20)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} ErrorResponse
// @Router /orders [get]
func (h *CartHandler) ListOrders(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	receipts, err := h.cartService.ListOrders(c.Request.Context(), middleware.GetSessionID(c), limit, offset)
	if err != nil {
		respondError(c, "Failed to list orders", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": receipts,
		"count":  len(receipts),
	})
}

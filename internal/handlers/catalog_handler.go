package handlers

import (
	"net/http"

	"food-storefront/internal/services"

	"github.com/gin-gonic/gin"
)

type CatalogHandler struct {
	catalogService CatalogServiceInterface
}

func NewCatalogHandler(catalogService CatalogServiceInterface) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
	}
}

// RegisterRoutes registers the public catalog routes
func (h *CatalogHandler) RegisterRoutes(router *gin.RouterGroup) {
	catalog := router.Group("/catalog")
	{
		catalog.GET("", h.ListCuisines)
		catalog.GET("/cuisines/:id", h.GetCuisine)
		catalog.POST("/filter", h.FilterItems)
	}
}

// ListCuisines godoc
// @Summary List cuisines
// @Description One catalog page, optionally narrowed by cuisine name
// @Tags catalog
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param count query int false "Cuisines per page" default(10)
// @Param cuisine query string false "Cuisine name contains"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /catalog [get]
func (h *CatalogHandler) ListCuisines(c *gin.Context) {
	var query services.CatalogQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid query",
			Message: err.Error(),
		})
		return
	}

	cuisines, err := h.catalogService.ListCuisines(c.Request.Context(), query)
	if err != nil {
		respondError(c, "Failed to load catalog", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"cuisines": cuisines,
		"count":    len(cuisines),
	})
}

// GetCuisine godoc
// @Summary Get a cuisine
// @Tags catalog
// @Produce json
// @Param id path string true "Cuisine ID"
// @Success 200 {object} models.Cuisine
// @Failure 404 {object} ErrorResponse
// @Router /catalog/cuisines/{id} [get]
func (h *CatalogHandler) GetCuisine(c *gin.Context) {
	cuisine, err := h.catalogService.GetCuisine(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, "Cuisine not found", err)
		return
	}

	c.JSON(http.StatusOK, cuisine)
}

// FilterItems godoc
// @Summary Filter items
// @Description Items matching cuisine type, price range and minimum rating
// @Tags catalog
// @Accept json
// @Produce json
// @Param filter body services.FilterItemsRequest true "Filter"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /catalog/filter [post]
func (h *CatalogHandler) FilterItems(c *gin.Context) {
	var req services.FilterItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request",
			Message: err.Error(),
		})
		return
	}

	items, err := h.catalogService.FilterItems(c.Request.Context(), &req)
	if err != nil {
		respondError(c, "Failed to filter items", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"count": len(items),
	})
}

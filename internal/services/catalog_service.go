package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"food-storefront/internal/gateway"
	"food-storefront/internal/models"
	"food-storefront/internal/repositories"
	"food-storefront/pkg/cache"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrItemNotFound    = errors.New("item not found")
	ErrCuisineNotFound = errors.New("cuisine not found")
	ErrInvalidFilter   = errors.New("invalid item filter")
)

// CatalogCache is the subset of the Redis cache used for catalog pages.
type CatalogCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
}

// CatalogGateway is the catalog half of the remote gateway.
type CatalogGateway interface {
	FetchCatalog(ctx context.Context, page, count int) ([]models.Cuisine, error)
	FetchFilteredItems(ctx context.Context, filter gateway.Filter) ([]models.Item, error)
}

type CatalogOptions struct {
	DefaultPage  int
	DefaultCount int
	CacheTTL     time.Duration
}

type CatalogService struct {
	gateway   CatalogGateway
	snapshots repositories.CuisineRepository // nil when MongoDB is unavailable
	cache     CatalogCache                   // nil disables caching
	opts      CatalogOptions
	logger    *zap.SugaredLogger
}

func NewCatalogService(
	gw CatalogGateway,
	snapshots repositories.CuisineRepository,
	cache CatalogCache,
	opts CatalogOptions,
	logger *zap.SugaredLogger,
) *CatalogService {
	if opts.DefaultPage <= 0 {
		opts.DefaultPage = 1
	}
	if opts.DefaultCount <= 0 {
		opts.DefaultCount = 10
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	return &CatalogService{
		gateway:   gw,
		snapshots: snapshots,
		cache:     cache,
		opts:      opts,
		logger:    logger,
	}
}

type CatalogQuery struct {
	Page    int    `form:"page" binding:"omitempty,gte=1"`
	Count   int    `form:"count" binding:"omitempty,gte=1,lte=100"`
	Cuisine string `form:"cuisine"`
}

type FilterItemsRequest struct {
	CuisineType string `json:"cuisine_type"`
	MinPrice    string `json:"min_price" binding:"omitempty,numeric,excludes=-"`
	MaxPrice    string `json:"max_price" binding:"omitempty,numeric,excludes=-"`
	PriceRange  string `json:"price_range"`
	MinRating   string `json:"min_rating" binding:"omitempty,numeric,excludes=-"`
}

// validate rejects bounds that are not non-negative numbers; a negative
// bound would make the "min-max" price range ambiguous.
func (r *FilterItemsRequest) validate() error {
	bounds := []struct{ name, value string }{
		{"min_price", r.MinPrice},
		{"max_price", r.MaxPrice},
		{"min_rating", r.MinRating},
	}
	for _, b := range bounds {
		if b.value == "" {
			continue
		}
		d, err := decimal.NewFromString(b.value)
		if err != nil || d.IsNegative() {
			return fmt.Errorf("%w: %s must be a non-negative number, got %q", ErrInvalidFilter, b.name, b.value)
		}
	}
	return nil
}

// ListCuisines returns one catalog page, optionally narrowed to cuisines whose
// name contains q.Cuisine.
func (s *CatalogService) ListCuisines(ctx context.Context, q CatalogQuery) ([]models.Cuisine, error) {
	page, count := q.Page, q.Count
	if page <= 0 {
		page = s.opts.DefaultPage
	}
	if count <= 0 {
		count = s.opts.DefaultCount
	}

	cuisines, err := s.loadPage(ctx, page, count)
	if err != nil {
		return nil, err
	}
	return FilterCuisinesByName(cuisines, q.Cuisine), nil
}

// FilterCuisinesByName keeps cuisines whose name contains name. An empty name
// keeps everything.
func FilterCuisinesByName(cuisines []models.Cuisine, name string) []models.Cuisine {
	filtered := make([]models.Cuisine, 0, len(cuisines))
	for _, cuisine := range cuisines {
		if name == "" || strings.Contains(cuisine.CuisineName, name) {
			filtered = append(filtered, cuisine)
		}
	}
	return filtered
}

func (s *CatalogService) loadPage(ctx context.Context, page, count int) ([]models.Cuisine, error) {
	cacheKey := fmt.Sprintf("catalog:%d:%d", page, count)

	if s.cache != nil {
		var cached []models.Cuisine
		err := s.cache.Get(ctx, cacheKey, &cached)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.Warnw("catalog cache read failed", "key", cacheKey, "error", err)
		}
	}

	cuisines, err := s.gateway.FetchCatalog(ctx, page, count)
	if err != nil {
		return s.fromSnapshot(ctx, page, count, err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, cuisines, s.opts.CacheTTL); err != nil {
			s.logger.Warnw("catalog cache write failed", "key", cacheKey, "error", err)
		}
	}
	s.saveSnapshot(ctx, cuisines)

	return cuisines, nil
}

// saveSnapshot stores the cuisines that pass validation; a cuisine without an
// id cannot be keyed in the snapshot store.
func (s *CatalogService) saveSnapshot(ctx context.Context, cuisines []models.Cuisine) {
	if s.snapshots == nil {
		return
	}

	valid := make([]models.Cuisine, 0, len(cuisines))
	for _, cuisine := range cuisines {
		if err := cuisine.Validate(); err != nil {
			s.logger.Warnw("skipping invalid cuisine in snapshot", "cuisine_id", cuisine.CuisineID, "error", err)
			continue
		}
		valid = append(valid, cuisine)
	}

	if err := s.snapshots.SaveCatalog(ctx, valid); err != nil {
		s.logger.Warnw("catalog snapshot save failed", "error", err)
	}
}

// fromSnapshot serves the last saved catalog when the gateway is down. The
// gateway error is returned if there is nothing to serve.
func (s *CatalogService) fromSnapshot(ctx context.Context, page, count int, gatewayErr error) ([]models.Cuisine, error) {
	if s.snapshots == nil {
		return nil, gatewayErr
	}

	cuisines, err := s.snapshots.List(ctx, count, (page-1)*count)
	if err != nil || len(cuisines) == 0 {
		s.logger.Errorw("catalog unavailable", "gateway_error", gatewayErr, "snapshot_error", err)
		return nil, gatewayErr
	}

	s.logger.Warnw("gateway unavailable, serving catalog snapshot", "error", gatewayErr, "cuisines", len(cuisines))
	return cuisines, nil
}

func (s *CatalogService) GetCuisine(ctx context.Context, cuisineID string) (*models.Cuisine, error) {
	if s.snapshots == nil {
		return nil, ErrCuisineNotFound
	}

	cuisine, err := s.snapshots.GetByID(ctx, cuisineID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrCuisineNotFound
	}
	if err != nil {
		return nil, err
	}
	return cuisine, nil
}

// FindItem resolves an item id against the snapshot store, then against the
// default catalog page.
func (s *CatalogService) FindItem(ctx context.Context, itemID string) (*models.Item, error) {
	if s.snapshots != nil {
		item, err := s.snapshots.FindItem(ctx, itemID)
		if err == nil {
			return item, nil
		}
		if !errors.Is(err, repositories.ErrNotFound) {
			s.logger.Warnw("snapshot item lookup failed", "item_id", itemID, "error", err)
		}
	}

	cuisines, err := s.loadPage(ctx, s.opts.DefaultPage, s.opts.DefaultCount)
	if err != nil {
		return nil, err
	}
	for _, cuisine := range cuisines {
		if item, ok := cuisine.FindItem(itemID); ok {
			return &item, nil
		}
	}
	return nil, ErrItemNotFound
}

// FilterItems queries the gateway's filtered item list. An explicit
// price_range wins over min/max bounds.
func (s *CatalogService) FilterItems(ctx context.Context, req *FilterItemsRequest) ([]models.Item, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	priceRange := req.PriceRange
	if priceRange == "" {
		priceRange = gateway.PriceRange(req.MinPrice, req.MaxPrice)
	}

	items, err := s.gateway.FetchFilteredItems(ctx, gateway.Filter{
		CuisineType: req.CuisineType,
		PriceRange:  priceRange,
		MinRating:   req.MinRating,
	})
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.Item{}
	}
	return items, nil
}

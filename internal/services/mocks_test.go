package services

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"food-storefront/internal/gateway"
	"food-storefront/internal/models"
	"food-storefront/pkg/cache"

	"github.com/stretchr/testify/mock"
)

type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) FetchCatalog(ctx context.Context, page, count int) ([]models.Cuisine, error) {
	args := m.Called(ctx, page, count)
	cuisines, _ := args.Get(0).([]models.Cuisine)
	return cuisines, args.Error(1)
}

func (m *mockGateway) FetchFilteredItems(ctx context.Context, filter gateway.Filter) ([]models.Item, error) {
	args := m.Called(ctx, filter)
	items, _ := args.Get(0).([]models.Item)
	return items, args.Error(1)
}

func (m *mockGateway) SubmitOrder(ctx context.Context, itemIDs []string) (string, error) {
	args := m.Called(ctx, itemIDs)
	return args.String(0), args.Error(1)
}

type mockCuisineRepo struct {
	mock.Mock
}

func (m *mockCuisineRepo) SaveCatalog(ctx context.Context, cuisines []models.Cuisine) error {
	return m.Called(ctx, cuisines).Error(0)
}

func (m *mockCuisineRepo) GetByID(ctx context.Context, cuisineID string) (*models.Cuisine, error) {
	args := m.Called(ctx, cuisineID)
	cuisine, _ := args.Get(0).(*models.Cuisine)
	return cuisine, args.Error(1)
}

func (m *mockCuisineRepo) FindItem(ctx context.Context, itemID string) (*models.Item, error) {
	args := m.Called(ctx, itemID)
	item, _ := args.Get(0).(*models.Item)
	return item, args.Error(1)
}

func (m *mockCuisineRepo) List(ctx context.Context, limit, offset int) ([]models.Cuisine, error) {
	args := m.Called(ctx, limit, offset)
	cuisines, _ := args.Get(0).([]models.Cuisine)
	return cuisines, args.Error(1)
}

type mockReceiptRepo struct {
	mock.Mock
}

func (m *mockReceiptRepo) Create(ctx context.Context, receipt *models.OrderReceipt) error {
	return m.Called(ctx, receipt).Error(0)
}

func (m *mockReceiptRepo) ListBySession(ctx context.Context, sessionID string, limit, offset int) ([]models.OrderReceipt, error) {
	args := m.Called(ctx, sessionID, limit, offset)
	receipts, _ := args.Get(0).([]models.OrderReceipt)
	return receipts, args.Error(1)
}

// memoryCache stores JSON like the Redis cache does.
type memoryCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	ttls    map[string]time.Duration
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (c *memoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.entries[key]
	if !ok {
		return cache.ErrCacheMiss
	}
	return json.Unmarshal(data, dest)
}

func (c *memoryCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = data
	c.ttls[key] = expiration
	return nil
}

type publishedEvent struct {
	topic string
	key   string
	value interface{}
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, topic, key string, value interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{topic: topic, key: key, value: value})
	return p.err
}

func (p *recordingPublisher) Close() error {
	return nil
}

func sampleCatalog() []models.Cuisine {
	return []models.Cuisine{
		{
			CuisineID:   "1",
			CuisineName: "North Indian",
			Items: []models.Item{
				models.NewItem("101", "Butter Chicken", "", "100", "4.5"),
				models.NewItem("102", "Dal Makhani", "", "50", "4.2"),
			},
		},
		{
			CuisineID:   "2",
			CuisineName: "Chinese",
			Items: []models.Item{
				models.NewItem("201", "Hakka Noodles", "", "80.50", "4.0"),
			},
		},
	}
}

package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"food-storefront/internal/models"
)

const (
	ActionItemList       = "get_item_list"
	ActionItemByFilter   = "get_item_by_filter"
	ActionPlaceOrder     = "place_order"
	DefaultOrderMessage  = "Order placed successfully"
	defaultClientTimeout = 30 * time.Second
)

var (
	ErrTransport = errors.New("gateway transport error")
	ErrDecode    = errors.New("gateway decode error")
	ErrStatus    = errors.New("gateway returned non-success status")
)

type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Client talks to the remote catalog/order API. Every call is a JSON POST to
// BaseURL+action with the partner key and proxy action headers set.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultClientTimeout
	}

	baseURL := cfg.BaseURL
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	return &Client{
		baseURL: baseURL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Filter narrows a filtered item query. Empty fields are not sent.
type Filter struct {
	CuisineType string `json:"cuisine_type,omitempty"`
	PriceRange  string `json:"price_range,omitempty"`
	MinRating   string `json:"min_rating,omitempty"`
}

// PriceRange formats a "min-max" range; it is empty unless both bounds are set.
func PriceRange(min, max string) string {
	if min == "" || max == "" {
		return ""
	}
	return min + "-" + max
}

type itemListRequest struct {
	Page  int `json:"page"`
	Count int `json:"count"`
}

type placeOrderRequest struct {
	Items []orderLine `json:"items"`
}

type orderLine struct {
	ID string `json:"id"`
}

type catalogResponse struct {
	Cuisines []models.Cuisine `json:"cuisines"`
}

func (c *Client) FetchCatalog(ctx context.Context, page, count int) ([]models.Cuisine, error) {
	var resp catalogResponse
	body, err := c.post(ctx, ActionItemList, itemListRequest{Page: page, Count: count})
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDecode, ActionItemList, err)
	}
	return resp.Cuisines, nil
}

func (c *Client) FetchFilteredItems(ctx context.Context, filter Filter) ([]models.Item, error) {
	var resp catalogResponse
	body, err := c.post(ctx, ActionItemByFilter, filter)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDecode, ActionItemByFilter, err)
	}

	items := make([]models.Item, 0)
	for _, cuisine := range resp.Cuisines {
		items = append(items, cuisine.Items...)
	}
	return items, nil
}

// SubmitOrder places an order for the given item identifiers. Any parseable
// JSON body on a 2xx response counts as success.
func (c *Client) SubmitOrder(ctx context.Context, itemIDs []string) (string, error) {
	req := placeOrderRequest{Items: make([]orderLine, 0, len(itemIDs))}
	for _, id := range itemIDs {
		req.Items = append(req.Items, orderLine{ID: id})
	}

	body, err := c.post(ctx, ActionPlaceOrder, req)
	if err != nil {
		return "", err
	}

	var decoded interface{}
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrDecode, ActionPlaceOrder, err)
	}

	return confirmationMessage(decoded), nil
}

func confirmationMessage(decoded interface{}) string {
	fields, ok := decoded.(map[string]interface{})
	if !ok {
		return DefaultOrderMessage
	}
	for _, key := range []string{"outcome_message", "response_message", "message"} {
		if msg, ok := fields[key].(string); ok && msg != "" {
			return msg
		}
	}
	return DefaultOrderMessage
}

func (c *Client) post(ctx context.Context, action string, payload interface{}) ([]byte, error) {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s request: %w", action, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+action, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrTransport, action, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Partner-API-Key", c.apiKey)
	req.Header.Set("X-Forward-Proxy-Action", action)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrTransport, action, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrTransport, action, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %s: status %d: %s", ErrStatus, action, resp.StatusCode, string(body))
	}

	return body, nil
}

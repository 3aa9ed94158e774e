package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const catalogBody = `{
  "cuisines": [
    {
      "cuisine_id": "1",
      "cuisine_name": "North Indian",
      "cuisine_image_url": "https://img/north.png",
      "items": [
        {"id": "101", "name": "Butter Chicken", "image_url": "https://img/bc.png", "price": "250.00", "rating": "4.5"},
        {"id": "102", "name": "Dal Makhani", "image_url": "https://img/dm.png", "price": "n/a", "rating": "4.1"}
      ]
    },
    {
      "cuisine_id": "2",
      "cuisine_name": "Chinese",
      "cuisine_image_url": "https://img/ch.png",
      "items": [
        {"id": "201", "name": "Hakka Noodles", "image_url": "https://img/hn.png", "price": 180, "rating": 4}
      ]
    }
  ]
}`

type capturedRequest struct {
	path   string
	method string
	header http.Header
	body   map[string]interface{}
}

func newTestServer(t *testing.T, status int, body string) (*httptest.Server, *capturedRequest) {
	t.Helper()
	captured := &capturedRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.path = r.URL.Path
		captured.method = r.Method
		captured.header = r.Header.Clone()
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &captured.body)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, captured
}

func newTestClient(baseURL string) *Client {
	return NewClient(Config{BaseURL: baseURL, APIKey: "test-key", Timeout: 2 * time.Second})
}

func TestFetchCatalog(t *testing.T) {
	srv, captured := newTestServer(t, http.StatusOK, catalogBody)
	client := newTestClient(srv.URL)

	cuisines, err := client.FetchCatalog(context.Background(), 1, 10)

	require.NoError(t, err)
	require.Len(t, cuisines, 2)
	assert.Equal(t, "North Indian", cuisines[0].CuisineName)
	assert.Equal(t, "250", cuisines[0].Items[0].Price.String())
	assert.True(t, cuisines[0].Items[1].Price.IsZero(), "malformed price decodes as zero")
	assert.Equal(t, "180", cuisines[1].Items[0].Price.String())

	assert.Equal(t, "/"+ActionItemList, captured.path)
	assert.Equal(t, http.MethodPost, captured.method)
	assert.Equal(t, "test-key", captured.header.Get("X-Partner-API-Key"))
	assert.Equal(t, ActionItemList, captured.header.Get("X-Forward-Proxy-Action"))
	assert.Equal(t, "application/json", captured.header.Get("Content-Type"))
	assert.Equal(t, float64(1), captured.body["page"])
	assert.Equal(t, float64(10), captured.body["count"])
}

func TestFetchFilteredItems_FlattensCuisinesAndOmitsEmptyFields(t *testing.T) {
	srv, captured := newTestServer(t, http.StatusOK, catalogBody)
	client := newTestClient(srv.URL)

	items, err := client.FetchFilteredItems(context.Background(), Filter{
		CuisineType: "Chinese",
		PriceRange:  PriceRange("100", "200"),
	})

	require.NoError(t, err)
	assert.Len(t, items, 3)
	assert.Equal(t, "101", items[0].ID)
	assert.Equal(t, "201", items[2].ID)

	assert.Equal(t, ActionItemByFilter, captured.header.Get("X-Forward-Proxy-Action"))
	assert.Equal(t, "Chinese", captured.body["cuisine_type"])
	assert.Equal(t, "100-200", captured.body["price_range"])
	_, hasRating := captured.body["min_rating"]
	assert.False(t, hasRating)
}

func TestPriceRange(t *testing.T) {
	assert.Equal(t, "10-20", PriceRange("10", "20"))
	assert.Equal(t, "", PriceRange("10", ""))
	assert.Equal(t, "", PriceRange("", "20"))
}

func TestSubmitOrder_SendsItemsAndReturnsMessage(t *testing.T) {
	srv, captured := newTestServer(t, http.StatusOK, `{"outcome_message":"Order placed, ref 42"}`)
	client := newTestClient(srv.URL)

	msg, err := client.SubmitOrder(context.Background(), []string{"101", "101", "201"})

	require.NoError(t, err)
	assert.Equal(t, "Order placed, ref 42", msg)
	assert.Equal(t, ActionPlaceOrder, captured.header.Get("X-Forward-Proxy-Action"))

	lines, ok := captured.body["items"].([]interface{})
	require.True(t, ok)
	require.Len(t, lines, 3)
	assert.Equal(t, map[string]interface{}{"id": "101"}, lines[0])
	assert.Equal(t, map[string]interface{}{"id": "201"}, lines[2])
}

func TestSubmitOrder_EmptyOrderIsForwarded(t *testing.T) {
	srv, captured := newTestServer(t, http.StatusOK, `[]`)
	client := newTestClient(srv.URL)

	msg, err := client.SubmitOrder(context.Background(), nil)

	require.NoError(t, err)
	assert.Equal(t, DefaultOrderMessage, msg)
	assert.Equal(t, []interface{}{}, captured.body["items"])
}

func TestSubmitOrder_Failures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{name: "unparseable body", status: http.StatusOK, body: "<html>oops</html>", wantErr: ErrDecode},
		{name: "server error with json body", status: http.StatusInternalServerError, body: `{"message":"boom"}`, wantErr: ErrStatus},
		{name: "client error", status: http.StatusBadRequest, body: `{}`, wantErr: ErrStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newTestServer(t, tt.status, tt.body)
			client := newTestClient(srv.URL)

			_, err := client.SubmitOrder(context.Background(), []string{"1"})

			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestSubmitOrder_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := newTestClient(url).SubmitOrder(context.Background(), []string{"1"})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransport)
}

func TestNewClient_AppendsTrailingSlash(t *testing.T) {
	client := NewClient(Config{BaseURL: "https://example.test/api"})
	assert.Equal(t, "https://example.test/api/", client.baseURL)
	assert.Equal(t, defaultClientTimeout, client.httpClient.Timeout)
}

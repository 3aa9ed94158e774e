package models

import (
	"encoding/json"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

// Item is a purchasable dish. Cart operations compare items by ID only.
type Item struct {
	ID       string          `json:"id" validate:"required"`
	Name     string          `json:"name" validate:"required"`
	ImageURL string          `json:"image_url"`
	Price    decimal.Decimal `json:"price"`
	Rating   decimal.Decimal `json:"rating"`
}

// Cuisine groups the items of one cuisine category, in catalog order.
type Cuisine struct {
	CuisineID       string `json:"cuisine_id" validate:"required"`
	CuisineName     string `json:"cuisine_name" validate:"required"`
	CuisineImageURL string `json:"cuisine_image_url"`
	Items           []Item `json:"items" validate:"dive"`
}

// itemWire is the gateway representation, where price and rating are text.
type itemWire struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	ImageURL string          `json:"image_url"`
	Price    json.RawMessage `json:"price"`
	Rating   json.RawMessage `json:"rating"`
}

// NewItem builds an item from its wire text. A price that is not a
// non-negative decimal becomes zero.
func NewItem(id, name, imageURL, price, rating string) Item {
	return Item{
		ID:       id,
		Name:     name,
		ImageURL: imageURL,
		Price:    ParsePrice(price),
		Rating:   parseDecimal(rating),
	}
}

// ParsePrice parses a price string, falling back to zero for malformed or
// negative input.
func ParsePrice(text string) decimal.Decimal {
	d := parseDecimal(text)
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

func parseDecimal(text string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(text))
	if err != nil {
		return decimal.Zero
	}
	return d
}

func (i *Item) UnmarshalJSON(data []byte) error {
	var w itemWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*i = NewItem(w.ID, w.Name, w.ImageURL, rawText(w.Price), rawText(w.Rating))
	return nil
}

// rawText accepts both "12.50" and 12.50.
func rawText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

func (i Item) Validate() error {
	return validate.Struct(i)
}

func (c Cuisine) Validate() error {
	return validate.Struct(c)
}

// FindItem returns the first item of the cuisine with the given ID.
func (c Cuisine) FindItem(id string) (Item, bool) {
	for _, item := range c.Items {
		if item.ID == id {
			return item, true
		}
	}
	return Item{}, false
}

// ItemIDs returns the identifiers of items in order.
func ItemIDs(items []Item) []string {
	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	return ids
}

package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StringArray type for PostgreSQL jsonb arrays
type StringArray []string

func (s StringArray) Value() (driver.Value, error) {
	if s == nil {
		return json.Marshal([]string{})
	}
	return json.Marshal([]string(s))
}

func (s *StringArray) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("type assertion to []byte failed")
	}

	return json.Unmarshal(bytes, s)
}

const (
	ReceiptStatusCompleted = "completed"
	ReceiptStatusFailed    = "failed"
)

// OrderReceipt model - PostgreSQL (one row per order submission attempt)
type OrderReceipt struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	SessionID  string          `gorm:"index;not null" json:"session_id"`
	ItemIDs    StringArray     `gorm:"type:jsonb" json:"item_ids"`
	Subtotal   decimal.Decimal `gorm:"type:numeric" json:"subtotal"`
	CGST       decimal.Decimal `gorm:"type:numeric" json:"cgst"`
	SGST       decimal.Decimal `gorm:"type:numeric" json:"sgst"`
	GrandTotal decimal.Decimal `gorm:"type:numeric" json:"grand_total"`
	Status     string          `gorm:"not null" json:"status"` // completed, failed
	Message    string          `json:"message"`
	CreatedAt  time.Time       `json:"created_at"`
}

package pricing

import (
	"food-storefront/internal/models"

	"github.com/shopspring/decimal"
)

// Flat tax rates applied to the subtotal.
var (
	CGSTRate = decimal.RequireFromString("0.025")
	SGSTRate = decimal.RequireFromString("0.025")
)

// PriceBreakdown holds unrounded totals. Round only for display.
type PriceBreakdown struct {
	Subtotal   decimal.Decimal `json:"subtotal"`
	CGST       decimal.Decimal `json:"cgst"`
	SGST       decimal.Decimal `json:"sgst"`
	GrandTotal decimal.Decimal `json:"grand_total"`
}

// DisplayTotals is a PriceBreakdown rounded to two places.
type DisplayTotals struct {
	Subtotal   string `json:"subtotal"`
	CGST       string `json:"cgst"`
	SGST       string `json:"sgst"`
	GrandTotal string `json:"grand_total"`
}

// ComputeTotals sums item prices and applies CGST and SGST. Negative prices
// count as zero. It never fails.
func ComputeTotals(items []models.Item) PriceBreakdown {
	subtotal := decimal.Zero
	for _, item := range items {
		if item.Price.IsNegative() {
			continue
		}
		subtotal = subtotal.Add(item.Price)
	}

	cgst := subtotal.Mul(CGSTRate)
	sgst := subtotal.Mul(SGSTRate)

	return PriceBreakdown{
		Subtotal:   subtotal,
		CGST:       cgst,
		SGST:       sgst,
		GrandTotal: subtotal.Add(cgst).Add(sgst),
	}
}

func (b PriceBreakdown) Display() DisplayTotals {
	return DisplayTotals{
		Subtotal:   b.Subtotal.StringFixed(2),
		CGST:       b.CGST.StringFixed(2),
		SGST:       b.SGST.StringFixed(2),
		GrandTotal: b.GrandTotal.StringFixed(2),
	}
}

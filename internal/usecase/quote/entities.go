package quote

import (
	"time"

	"github.com/shopspring/decimal"
)

// ItemInput prices one RFQ line. LineNumber defaults to the item's
// position; TotalPrice defaults to UnitPrice * Quantity.
type ItemInput struct {
	LineNumber *int
	UnitPrice  *decimal.Decimal
	Quantity   *decimal.Decimal
	TotalPrice *decimal.Decimal
	Notes      string
}

type SubmitInput struct {
	TotalAmount    *decimal.Decimal
	Currency       string
	DeliveryPeriod string
	DeliveryTerms  string
	Notes          string
	Items          []ItemInput
	IPAddress      string
}

type UpdateInput struct {
	TotalAmount    *decimal.Decimal
	Currency       *string
	DeliveryPeriod *string
	DeliveryTerms  *string
	Notes          *string
}

type ComparisonRow struct {
	ID             uint64          `json:"id"`
	SupplierID     uint64          `json:"supplier_id"`
	SupplierName   string          `json:"supplier_name"`
	Status         string          `json:"status"`
	TotalAmount    decimal.Decimal `json:"total_price"`
	Currency       string          `json:"currency"`
	DeliveryPeriod string          `json:"delivery_period"`
	SubmittedAt    *time.Time      `json:"submitted_at"`
}

type Comparison struct {
	QuoteCount   int              `json:"quote_count"`
	LowestPrice  *decimal.Decimal `json:"lowest_price"`
	HighestPrice *decimal.Decimal `json:"highest_price"`
	AveragePrice *decimal.Decimal `json:"average_price"`
	Quotes       []ComparisonRow  `json:"quotes"`
}

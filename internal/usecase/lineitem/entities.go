package lineitem

import (
	"time"

	"github.com/shopspring/decimal"

	"sourcing-workflow/internal/domain/rfq"
)

type SubmitInput struct {
	RfqID           uint64
	LineItemID      uint64
	SelectedQuoteID uint64
}

type DecisionInput struct {
	RfqID      uint64
	LineItemID uint64
	Decision   string
	Comments   string
	// NewQuoteID redirects the line item to another quote of the same RFQ.
	NewQuoteID *uint64
}

type InvitePurchasersInput struct {
	RfqID        uint64
	LineItemID   uint64
	PurchaserIDs []string
	Message      string
}

// PendingItem is a line item waiting on the caller's role, with the RFQ and
// selected quote summarised next to it.
type PendingItem struct {
	rfq.LineItem
	RfqTitle             string           `json:"rfq_title"`
	RfqCreatedBy         string           `json:"rfq_created_by"`
	RequestingDepartment string           `json:"requesting_department"`
	SupplierID           *uint64          `json:"supplier_id"`
	SupplierName         string           `json:"supplier_name"`
	QuoteAmount          *decimal.Decimal `json:"quote_amount"`
	QuoteCurrency        string           `json:"quote_currency"`
	WaitingSince         time.Time        `json:"waiting_since"`
}

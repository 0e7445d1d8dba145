package rfq

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"sourcing-workflow/internal/domain/invitation"
	domainQuote "sourcing-workflow/internal/domain/quote"
	domainRfq "sourcing-workflow/internal/domain/rfq"
	"sourcing-workflow/internal/usecase/visibility"
)

type LineItemInput struct {
	ItemName           string
	Specifications     string
	Quantity           decimal.Decimal
	Unit               string
	EstimatedUnitPrice *decimal.Decimal
	Notes              string
}

type CreateInput struct {
	Title                string
	Description          string
	Currency             string
	BudgetAmount         *decimal.Decimal
	ValidUntil           *time.Time
	RequestingDepartment string
	LineItems            []LineItemInput
}

// UpdateInput changes only the fields that are set.
type UpdateInput struct {
	Title        *string
	Description  *string
	Currency     *string
	BudgetAmount *decimal.Decimal
	ValidUntil   *time.Time
}

type ListInput struct {
	Status  string
	Keyword string
	Page    int
	Limit   int
}

type ListResult struct {
	Items []domainRfq.Rfq `json:"items"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

type ReviewInput struct {
	SelectedQuoteID uint64
	ReviewScores    json.RawMessage
	Comments        string
}

type InvitationsResult struct {
	Count       int                     `json:"count"`
	Invitations []invitation.Invitation `json:"invitations"`
	// Skipped lists suppliers that already hold an active invitation.
	Skipped []uint64 `json:"skipped"`
}

// WithItems is an RFQ together with its line items in line order.
type WithItems struct {
	domainRfq.Rfq
	LineItems []domainRfq.LineItem `json:"line_items"`
}

type AttachmentView struct {
	domainQuote.Attachment
	DownloadURL string `json:"download_url"`
}

type QuoteView struct {
	domainQuote.Quote
	SupplierName string                 `json:"supplier_name"`
	Items        []domainQuote.LineItem `json:"quote_items"`
	Attachments  []AttachmentView       `json:"attachments"`
}

type InvitationView struct {
	invitation.Invitation
	SupplierName  string `json:"supplier_name"`
	SupplierEmail string `json:"supplier_email"`
}

type Details struct {
	WithItems
	Quotes           []QuoteView        `json:"quotes"`
	Invitations      []InvitationView   `json:"invitations"`
	QuotesVisible    bool               `json:"quotes_visible"`
	VisibilityReason *visibility.Reason `json:"visibility_reason"`
}

type SupplierInvitation struct {
	invitation.Invitation
	RfqStatus     string     `json:"rfq_status"`
	QuoteStatus   string     `json:"quote_status"`
	ValidUntil    *time.Time `json:"valid_until"`
	DaysRemaining *int       `json:"days_remaining"`
	NeedsResponse bool       `json:"needs_response"`
}

// SupplierView is what an invited supplier sees: the RFQ, its own latest
// quote and nothing about competitors.
type SupplierView struct {
	WithItems
	Quote      *QuoteView         `json:"quote"`
	Invitation SupplierInvitation `json:"invitation"`
}

type SupplierInvitationRow struct {
	domainRfq.Rfq
	InvitationID     uint64    `json:"invitation_id"`
	InvitationStatus string    `json:"invitation_status"`
	InvitationSentAt time.Time `json:"invitation_sent_at"`
	QuoteID          *uint64   `json:"quote_id"`
	QuoteStatus      string    `json:"quote_status"`
	NeedsResponse    bool      `json:"needs_response"`
}

const QuoteNotSubmitted = "not_submitted"

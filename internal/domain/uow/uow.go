package uow

import (
	"context"

	"sourcing-workflow/internal/domain/history"
	"sourcing-workflow/internal/domain/invitation"
	"sourcing-workflow/internal/domain/purchaseorder"
	"sourcing-workflow/internal/domain/quote"
	"sourcing-workflow/internal/domain/rfq"
)

// Repos are bound to one transaction. Code running inside a unit of work
// must only touch these, never the root repositories.
type Repos struct {
	Rfqs            rfq.Repository
	LineItems       rfq.LineItemRepository
	Reviews         rfq.ReviewRepository
	Quotes          quote.Repository
	Invitations     invitation.Repository
	ApprovalHistory history.ApprovalRepository
	PurchaseOrders  purchaseorder.Repository
}

type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// WithinLineItemTx locks the line item row first, then passes it in.
	WithinLineItemTx(ctx context.Context, lineItemID uint64, fn func(r Repos, li *rfq.LineItem) error) error
}

// Package selection keeps quote selected/submitted status consistent with
// the line items and RFQs that point at them. Callers run it inside a unit
// of work with the transaction-bound repositories.
package selection

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"sourcing-workflow/internal/apperr"
	"sourcing-workflow/internal/domain/status"
	"sourcing-workflow/internal/domain/uow"
)

// Promote marks the quote selected. A quote that is already selected is left alone.
func Promote(ctx context.Context, r uow.Repos, quoteID uint64, at time.Time) error {
	q, err := r.Quotes.GetByID(ctx, quoteID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound("Quote", quoteID)
	}
	if err != nil {
		return err
	}
	if q.Status == status.QuoteSelected {
		return nil
	}
	if err := status.For(status.EntityQuote).Check(q.Status, status.QuoteSelected); err != nil {
		return err
	}
	return r.Quotes.UpdateStatus(ctx, q.ID, status.QuoteSelected, at)
}

// DemoteIfUnreferenced returns a selected quote to submitted once no line
// item other than exceptLineItemID still selects it.
func DemoteIfUnreferenced(ctx context.Context, r uow.Repos, quoteID, exceptLineItemID uint64, at time.Time) error {
	n, err := r.LineItems.CountBySelectedQuote(ctx, quoteID, exceptLineItemID)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	q, err := r.Quotes.GetByID(ctx, quoteID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if q.Status != status.QuoteSelected {
		return nil
	}
	return r.Quotes.UpdateStatus(ctx, q.ID, status.QuoteSubmitted, at)
}

package rfq

import (
	"context"
	"fmt"

	"sourcing-workflow/internal/apperr"
	"sourcing-workflow/internal/domain/actor"
	"sourcing-workflow/internal/domain/priceaudit"
	"sourcing-workflow/internal/usecase/audit"
	"sourcing-workflow/internal/usecase/visibility"
)

// PriceReport returns the RFQ's price audit rows. It carries quoted prices,
// so procurement viewers are held back by the visibility gate.
func (u *Usecase) PriceReport(ctx context.Context, act actor.Actor, rfqID uint64) ([]priceaudit.Record, error) {
	if err := u.perms.Require(act, actor.RfqViewQuotes); err != nil {
		return nil, err
	}
	x, err := u.load(ctx, rfqID)
	if err != nil {
		return nil, err
	}
	res, err := u.gate.EvaluateLoaded(ctx, x, act)
	if err != nil {
		return nil, err
	}
	if res.Locked {
		e := apperr.Conflict(visibility.LockMessage)
		e.Details = map[string]any{"visibility_reason": res.Reason()}
		return nil, e
	}
	out, err := u.prices.Report(ctx, rfqID)
	if err != nil {
		return nil, fmt.Errorf("price report for rfq %d: %w", rfqID, err)
	}
	if out == nil {
		out = []priceaudit.Record{}
	}
	return out, nil
}

// MarkPrExported stamps the purchase requisition export on the given line
// items of the creator's RFQ.
func (u *Usecase) MarkPrExported(ctx context.Context, act actor.Actor, rfqID uint64, lineItemIDs []uint64) error {
	if err := u.perms.Require(act, actor.RfqCreate); err != nil {
		return err
	}
	x, err := u.load(ctx, rfqID)
	if err != nil {
		return err
	}
	if x.CreatedBy != act.ID {
		return apperr.AuthorizationDenied("Only RFQ creator can export purchase requisitions")
	}
	if len(lineItemIDs) == 0 {
		return apperr.Validation("At least one line item is required")
	}
	items, err := u.lineItems.ListByIDs(ctx, rfqID, lineItemIDs)
	if err != nil {
		return err
	}
	found := make(map[uint64]bool, len(items))
	for _, li := range items {
		found[li.ID] = true
	}
	for _, id := range lineItemIDs {
		if !found[id] {
			return apperr.NotFound("Line item", id)
		}
	}

	now := u.clock.Now()
	u.prices.UpdatePrExport(ctx, rfqID, lineItemIDs, act.ID, &now)
	u.audit.Record(ctx, act, entityType, rfqID, audit.ActionPrExport, map[string]any{"lineItemIds": lineItemIDs})
	return nil
}

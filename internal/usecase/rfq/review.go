package rfq

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"sourcing-workflow/internal/apperr"
	"sourcing-workflow/internal/domain/actor"
	"sourcing-workflow/internal/domain/invitation"
	domainRfq "sourcing-workflow/internal/domain/rfq"
	"sourcing-workflow/internal/domain/status"
	"sourcing-workflow/internal/domain/uow"
	"sourcing-workflow/internal/usecase/audit"
	"sourcing-workflow/internal/usecase/selection"
	"sourcing-workflow/pkg/id"
)

const (
	ApprovalReviewed = "reviewed"
	DecisionSelected = "selected"
)

// SendInvitations invites suppliers to a published RFQ. Suppliers that
// already hold an active invitation are skipped; declined or revoked ones
// are invited again.
func (u *Usecase) SendInvitations(ctx context.Context, act actor.Actor, rfqID uint64, supplierIDs []uint64) (*InvitationsResult, error) {
	if err := u.perms.Require(act, actor.RfqInviteSuppliers); err != nil {
		return nil, err
	}
	x, err := u.load(ctx, rfqID)
	if err != nil {
		return nil, err
	}
	if x.Status != status.RfqPublished {
		return nil, apperr.WrongStatus("Can only invite suppliers to published RFQ", x.Status, status.RfqPublished)
	}

	seen := map[uint64]bool{}
	var wanted []uint64
	for _, sid := range supplierIDs {
		if sid != 0 && !seen[sid] {
			seen[sid] = true
			wanted = append(wanted, sid)
		}
	}
	if len(wanted) == 0 {
		return nil, apperr.Validation("At least one supplier ID is required")
	}

	found, err := u.suppliers.ListByIDs(ctx, wanted)
	if err != nil {
		return nil, err
	}
	known := make(map[uint64]bool, len(found))
	for _, s := range found {
		known[s.ID] = true
	}
	for _, sid := range wanted {
		if !known[sid] {
			return nil, apperr.NotFound("Supplier", sid)
		}
	}

	existing, err := u.invitations.ListByRfq(ctx, rfqID)
	if err != nil {
		return nil, err
	}
	active := map[uint64]bool{}
	for _, inv := range existing {
		if !inv.Inactive() {
			active[inv.SupplierID] = true
		}
	}

	now := u.clock.Now()
	res := &InvitationsResult{Invitations: []invitation.Invitation{}, Skipped: []uint64{}}
	var batch []invitation.Invitation
	for _, sid := range wanted {
		if active[sid] {
			res.Skipped = append(res.Skipped, sid)
			continue
		}
		batch = append(batch, invitation.Invitation{
			RfqID:      rfqID,
			SupplierID: sid,
			Status:     invitation.StatusSent,
			Token:      id.NewID32(),
			InvitedBy:  act.ID,
			InvitedAt:  now,
			CreatedAt:  now,
			UpdatedAt:  now,
		})
	}
	if len(batch) > 0 {
		if err := u.invitations.CreateBatch(ctx, batch); err != nil {
			return nil, fmt.Errorf("send invitations for rfq %d: %w", rfqID, err)
		}
		res.Invitations = batch
	}
	res.Count = len(batch)

	u.audit.Record(ctx, act, entityType, rfqID, audit.ActionSendInvitations, map[string]any{
		"supplierIds": wanted,
		"sent":        res.Count,
		"skipped":     res.Skipped,
	})
	return res, nil
}

// Review selects the winning quote and closes the RFQ in one unit of work,
// then brings the price audit snapshot in line.
func (u *Usecase) Review(ctx context.Context, act actor.Actor, rfqID uint64, in ReviewInput) (*domainRfq.Rfq, error) {
	if err := u.perms.RequireAny(act, actor.ProcurementPermissions...); err != nil {
		return nil, err
	}
	scores := bytes.TrimSpace(in.ReviewScores)
	if in.SelectedQuoteID == 0 || len(scores) == 0 || bytes.Equal(scores, []byte("null")) {
		return nil, apperr.MissingFields("selectedQuoteId", "reviewScores")
	}
	x, err := u.load(ctx, rfqID)
	if err != nil {
		return nil, err
	}
	if x.Status != status.RfqInProgress && x.Status != status.RfqPublished {
		return nil, apperr.WrongStatus("RFQ is not in a state that allows review",
			x.Status, status.RfqInProgress, status.RfqPublished)
	}
	q, err := u.quotes.GetByID(ctx, in.SelectedQuoteID)
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && q.RfqID != rfqID) {
		return nil, apperr.NotFound("Quote", in.SelectedQuoteID)
	}
	if err != nil {
		return nil, err
	}

	reviewer := act.Name
	if reviewer == "" {
		reviewer = act.ID
	}
	quoteID := q.ID
	now := u.clock.Now()
	out, err := u.machine.Transition(ctx, x, status.RfqClosed, act, "RFQ reviewed and closed by "+reviewer,
		func(ctx context.Context, x *domainRfq.Rfq, target string) (*domainRfq.Rfq, error) {
			var saved *domainRfq.Rfq
			err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
				// the guarded update also takes the row lock for the rest of the tx
				ok, err := r.Rfqs.UpdateStatus(ctx, x.ID, x.Status, target, now)
				if err != nil {
					return err
				}
				current, err := r.Rfqs.GetByID(ctx, x.ID)
				if err != nil {
					return err
				}
				if !ok {
					return apperr.WrongStatus("RFQ status changed concurrently", current.Status, x.Status)
				}
				current.SelectedQuoteID = &quoteID
				current.ApprovalStatus = ApprovalReviewed
				current.ReviewCompletedAt = &now
				current.UpdatedAt = now
				if err := r.Rfqs.Save(ctx, current); err != nil {
					return err
				}
				if err := selection.Promote(ctx, r, quoteID, now); err != nil {
					return err
				}
				if err := r.Reviews.Create(ctx, &domainRfq.Review{
					RfqID:           x.ID,
					SelectedQuoteID: quoteID,
					ReviewScores:    string(scores),
					Comments:        strings.TrimSpace(in.Comments),
					ReviewedBy:      reviewer,
					ReviewedAt:      now,
				}); err != nil {
					return err
				}
				saved = current
				return nil
			})
			return saved, err
		})
	if err != nil {
		return nil, err
	}

	u.audit.Record(ctx, act, entityType, out.ID, audit.ActionReview, map[string]any{
		"selectedQuoteId": quoteID,
		"comments":        strings.TrimSpace(in.Comments),
	})
	u.prices.SyncSelectedForRfq(ctx, out.ID, &quoteID)
	u.prices.UpdateApprovalForRfq(ctx, out.ID, ApprovalReviewed, DecisionSelected, &now)
	return out, nil
}

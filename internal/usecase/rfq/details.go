package rfq

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"gorm.io/gorm"

	"sourcing-workflow/internal/apperr"
	"sourcing-workflow/internal/domain/actor"
	"sourcing-workflow/internal/domain/invitation"
	domainQuote "sourcing-workflow/internal/domain/quote"
	domainRfq "sourcing-workflow/internal/domain/rfq"
	"sourcing-workflow/internal/domain/status"
	"sourcing-workflow/internal/domain/supplier"
)

// Details builds the composite view for internal users. Quote data is
// stripped while the visibility gate is locked for the viewer, and a
// department user only ever sees the selected quote.
func (u *Usecase) Details(ctx context.Context, act actor.Actor, id uint64) (*Details, error) {
	if act.Anonymous() {
		return nil, apperr.AuthenticationRequired()
	}
	x, err := u.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !u.canView(act, x) {
		return nil, apperr.AuthorizationDenied("No permission to view this RFQ")
	}

	d, err := u.build(ctx, x)
	if err != nil {
		return nil, err
	}
	res, err := u.gate.EvaluateLoaded(ctx, x, act)
	if err != nil {
		return nil, err
	}
	switch {
	case res.Locked:
		d.Quotes = []QuoteView{}
	case act.Role == actor.RoleDepartmentUser:
		d.Quotes = onlySelected(d.Quotes, x.SelectedQuoteID)
	}
	d.QuotesVisible = !res.Locked
	d.VisibilityReason = res.Reason()
	return d, nil
}

func (u *Usecase) canView(act actor.Actor, x *domainRfq.Rfq) bool {
	if x.CreatedBy == act.ID || u.perms.Has(act, actor.RfqViewAll) {
		return true
	}
	return act.Role == actor.RoleDepartmentUser &&
		act.Department != "" &&
		strings.EqualFold(act.Department, x.RequestingDepartment)
}

func onlySelected(quotes []QuoteView, selectedID *uint64) []QuoteView {
	out := []QuoteView{}
	if selectedID == nil {
		return out
	}
	for _, q := range quotes {
		if q.ID == *selectedID {
			out = append(out, q)
		}
	}
	return out
}

// SupplierView is the invited supplier's page for one RFQ.
func (u *Usecase) SupplierView(ctx context.Context, act actor.Actor, id uint64) (*SupplierView, error) {
	if act.Anonymous() {
		return nil, apperr.AuthenticationRequired()
	}
	if !act.IsSupplier() {
		return nil, apperr.AuthorizationDenied("Only suppliers can access this RFQ")
	}
	x, err := u.load(ctx, id)
	if err != nil {
		return nil, err
	}
	inv, err := u.invitations.GetForSupplier(ctx, id, *act.SupplierID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.AuthorizationDenied("No invitation found for this supplier")
	}
	if err != nil {
		return nil, err
	}

	items, err := u.lineItems.ListByRfq(ctx, id)
	if err != nil {
		return nil, err
	}
	view := &SupplierView{WithItems: WithItems{Rfq: *x, LineItems: items}}

	quoteStatus := QuoteNotSubmitted
	q, err := u.quotes.GetLatestForSupplier(ctx, id, *act.SupplierID)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
	case err != nil:
		return nil, err
	default:
		views, err := u.quoteViews(ctx, x.ID, []domainQuote.Quote{*q})
		if err != nil {
			return nil, err
		}
		view.Quote = &views[0]
		quoteStatus = q.Status
	}

	view.Invitation = SupplierInvitation{
		Invitation:    *inv,
		RfqStatus:     x.Status,
		QuoteStatus:   quoteStatus,
		ValidUntil:    x.ValidUntil,
		DaysRemaining: u.daysRemaining(x),
		NeedsResponse: u.needsResponse(x, inv, quoteStatus),
	}
	return view, nil
}

// SupplierInvitations lists the caller's invitations newest first. status
// filters on the invitation status; onlyOpen keeps the ones still awaiting
// a quote.
func (u *Usecase) SupplierInvitations(ctx context.Context, act actor.Actor, st string, onlyOpen bool) ([]SupplierInvitationRow, error) {
	if act.Anonymous() {
		return nil, apperr.AuthenticationRequired()
	}
	if !act.IsSupplier() {
		return nil, apperr.AuthorizationDenied("Only suppliers can list invitations")
	}
	supplierID := *act.SupplierID
	invs, err := u.invitations.ListBySupplier(ctx, supplierID, strings.TrimSpace(st))
	if err != nil {
		return nil, err
	}
	out := []SupplierInvitationRow{}
	if len(invs) == 0 {
		return out, nil
	}

	ids := make([]uint64, 0, len(invs))
	for _, inv := range invs {
		ids = append(ids, inv.RfqID)
	}
	rfqs, err := u.rfqs.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint64]domainRfq.Rfq, len(rfqs))
	for _, x := range rfqs {
		byID[x.ID] = x
	}

	for i := range invs {
		inv := &invs[i]
		x, ok := byID[inv.RfqID]
		if !ok {
			continue
		}
		row := SupplierInvitationRow{
			Rfq:              x,
			InvitationID:     inv.ID,
			InvitationStatus: inv.Status,
			InvitationSentAt: inv.InvitedAt,
			QuoteStatus:      QuoteNotSubmitted,
		}
		q, err := u.quotes.GetLatestForSupplier(ctx, x.ID, supplierID)
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
		case err != nil:
			return nil, err
		default:
			qid := q.ID
			row.QuoteID = &qid
			row.QuoteStatus = q.Status
		}
		row.NeedsResponse = u.needsResponse(&x, inv, row.QuoteStatus)
		if onlyOpen && !row.NeedsResponse {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

// needsResponse is true while the RFQ accepts quotes and the supplier has
// nothing live on it.
func (u *Usecase) needsResponse(x *domainRfq.Rfq, inv *invitation.Invitation, quoteStatus string) bool {
	if inv.Inactive() {
		return false
	}
	if x.Status != status.RfqPublished && x.Status != status.RfqInProgress {
		return false
	}
	if x.DeadlinePassed(u.clock.Now()) {
		return false
	}
	switch quoteStatus {
	case QuoteNotSubmitted, status.QuoteDraft, status.QuoteWithdrawn:
		return true
	}
	return false
}

// daysRemaining rounds up, so anything left today counts as one day.
func (u *Usecase) daysRemaining(x *domainRfq.Rfq) *int {
	if x.ValidUntil == nil {
		return nil
	}
	days := int(math.Ceil(x.ValidUntil.Sub(u.clock.Now()).Hours() / 24))
	return &days
}

func (u *Usecase) build(ctx context.Context, x *domainRfq.Rfq) (*Details, error) {
	items, err := u.lineItems.ListByRfq(ctx, x.ID)
	if err != nil {
		return nil, err
	}
	quotes, err := u.quotes.ListLatestByRfq(ctx, x.ID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(quotes, func(i, j int) bool {
		a, b := quotes[i].SubmittedAt, quotes[j].SubmittedAt
		if a == nil || b == nil {
			return a != nil
		}
		return a.After(*b)
	})
	qv, err := u.quoteViews(ctx, x.ID, quotes)
	if err != nil {
		return nil, err
	}
	invs, err := u.invitationViews(ctx, x.ID)
	if err != nil {
		return nil, err
	}
	return &Details{
		WithItems:   WithItems{Rfq: *x, LineItems: items},
		Quotes:      qv,
		Invitations: invs,
	}, nil
}

func (u *Usecase) quoteViews(ctx context.Context, rfqID uint64, quotes []domainQuote.Quote) ([]QuoteView, error) {
	out := make([]QuoteView, 0, len(quotes))
	if len(quotes) == 0 {
		return out, nil
	}
	quoteIDs := make([]uint64, len(quotes))
	supplierIDs := make([]uint64, len(quotes))
	for i, q := range quotes {
		quoteIDs[i], supplierIDs[i] = q.ID, q.SupplierID
	}

	lines, err := u.quotes.ListLineItems(ctx, quoteIDs...)
	if err != nil {
		return nil, err
	}
	linesBy := map[uint64][]domainQuote.LineItem{}
	for _, l := range lines {
		linesBy[l.QuoteID] = append(linesBy[l.QuoteID], l)
	}

	files, err := u.quotes.ListAttachments(ctx, quoteIDs...)
	if err != nil {
		return nil, err
	}
	filesBy := map[uint64][]AttachmentView{}
	for _, f := range files {
		if f.QuoteID == nil {
			continue
		}
		filesBy[*f.QuoteID] = append(filesBy[*f.QuoteID], AttachmentView{
			Attachment:  f,
			DownloadURL: u.downloadURL(rfqID, f.StoredName),
		})
	}

	sups, err := u.suppliers.ListByIDs(ctx, supplierIDs)
	if err != nil {
		return nil, err
	}
	names := supplier.Names(sups)

	for _, q := range quotes {
		v := QuoteView{
			Quote:        q,
			SupplierName: names[q.SupplierID],
			Items:        linesBy[q.ID],
			Attachments:  filesBy[q.ID],
		}
		if v.Items == nil {
			v.Items = []domainQuote.LineItem{}
		}
		if v.Attachments == nil {
			v.Attachments = []AttachmentView{}
		}
		out = append(out, v)
	}
	return out, nil
}

func (u *Usecase) invitationViews(ctx context.Context, rfqID uint64) ([]InvitationView, error) {
	invs, err := u.invitations.ListByRfq(ctx, rfqID)
	if err != nil {
		return nil, err
	}
	out := make([]InvitationView, 0, len(invs))
	if len(invs) == 0 {
		return out, nil
	}
	ids := make([]uint64, len(invs))
	for i, inv := range invs {
		ids[i] = inv.SupplierID
	}
	sups, err := u.suppliers.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint64]supplier.Supplier, len(sups))
	for _, s := range sups {
		byID[s.ID] = s
	}
	for _, inv := range invs {
		s := byID[inv.SupplierID]
		out = append(out, InvitationView{Invitation: inv, SupplierName: s.CompanyName, SupplierEmail: s.ContactEmail})
	}
	return out, nil
}

func (u *Usecase) downloadURL(rfqID uint64, storedName string) string {
	if strings.TrimSpace(storedName) == "" {
		return ""
	}
	return fmt.Sprintf("%s/%d/%s", u.opts.AttachmentURLPrefix, rfqID, storedName)
}

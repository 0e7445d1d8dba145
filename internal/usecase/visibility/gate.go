// Package visibility decides whether competing quotes may be shown to a viewer.
package visibility

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"sourcing-workflow/internal/domain/actor"
	"sourcing-workflow/internal/domain/invitation"
	"sourcing-workflow/internal/domain/quote"
	"sourcing-workflow/internal/domain/rfq"
	"sourcing-workflow/pkg/clock"
)

const LockMessage = "Quotes are hidden until every invited supplier has submitted a quote or the RFQ deadline has passed."

type Context struct {
	RfqExists      bool       `json:"rfq_exists"`
	InvitedCount   int64      `json:"total_invited"`
	SubmittedCount int64      `json:"submitted_count"`
	DeadlinePassed bool       `json:"deadline_passed"`
	AllSubmitted   bool       `json:"all_submitted"`
	Unlocked       bool       `json:"unlocked"`
	Deadline       *time.Time `json:"deadline"`
}

type Result struct {
	Locked  bool
	Context Context
}

// Reason is the payload shown next to a locked quote list.
type Reason struct {
	TotalInvited   int64      `json:"total_invited"`
	SubmittedCount int64      `json:"submitted_count"`
	Deadline       *time.Time `json:"deadline"`
	Message        string     `json:"message"`
}

func (r Result) Reason() *Reason {
	if !r.Locked {
		return nil
	}
	return &Reason{
		TotalInvited:   r.Context.InvitedCount,
		SubmittedCount: r.Context.SubmittedCount,
		Deadline:       r.Context.Deadline,
		Message:        LockMessage,
	}
}

// Gate re-evaluates on every read; nothing about the unlock is stored.
type Gate struct {
	rfqs        rfq.Repository
	invitations invitation.Repository
	quotes      quote.Repository
	perms       actor.PermissionChecker
	clock       clock.Clock
}

func NewGate(rfqs rfq.Repository, invitations invitation.Repository, quotes quote.Repository,
	perms actor.PermissionChecker, clk clock.Clock) *Gate {
	if clk == nil {
		clk = clock.System
	}
	return &Gate{rfqs: rfqs, invitations: invitations, quotes: quotes, perms: perms, clock: clk}
}

// Evaluate loads the RFQ first. A missing RFQ is reported unlocked with an
// empty context; callers are expected to have returned not-found already.
func (g *Gate) Evaluate(ctx context.Context, rfqID uint64, viewer actor.Actor) (Result, error) {
	x, err := g.rfqs.GetByID(ctx, rfqID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Result{}, nil
	}
	if err != nil {
		return Result{}, err
	}
	return g.EvaluateLoaded(ctx, x, viewer)
}

func (g *Gate) EvaluateLoaded(ctx context.Context, x *rfq.Rfq, viewer actor.Actor) (Result, error) {
	invited, err := g.invitations.CountActiveSuppliers(ctx, x.ID)
	if err != nil {
		return Result{}, err
	}
	submitted, err := g.quotes.CountSubmittedSuppliers(ctx, x.ID)
	if err != nil {
		return Result{}, err
	}

	c := Context{
		RfqExists:      true,
		InvitedCount:   invited,
		SubmittedCount: submitted,
		DeadlinePassed: x.DeadlinePassed(g.clock.Now()),
		Deadline:       x.ValidUntil,
	}
	if invited > 0 {
		c.AllSubmitted = submitted >= invited
	} else {
		c.AllSubmitted = submitted > 0
	}
	c.Unlocked = c.DeadlinePassed || c.AllSubmitted

	if !g.IsProcurementViewer(viewer) {
		return Result{Locked: false, Context: c}, nil
	}
	return Result{Locked: !c.Unlocked, Context: c}, nil
}

// IsProcurementViewer reports whether the blind-quote rule applies to a.
func (g *Gate) IsProcurementViewer(a actor.Actor) bool {
	return g.perms.HasAny(a, actor.ProcurementPermissions...)
}

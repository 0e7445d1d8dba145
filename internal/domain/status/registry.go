// Package status is the single registry of legal statuses and transitions
// for every workflow entity.
package status

import (
	"fmt"

	"sourcing-workflow/internal/apperr"
)

type Entity string

const (
	EntityRfq           Entity = "rfq"
	EntityQuote         Entity = "quote"
	EntityLineItem      Entity = "line_item"
	EntityPurchaseOrder Entity = "purchase_order"
)

const (
	RfqDraft      = "draft"
	RfqPublished  = "published"
	RfqInProgress = "in_progress"
	RfqClosed     = "closed"
	RfqCancelled  = "cancelled"
	RfqConfirmed  = "confirmed"
)

const (
	QuoteDraft     = "draft"
	QuoteSubmitted = "submitted"
	QuoteWithdrawn = "withdrawn"
	QuoteSelected  = "selected"
)

const (
	LineItemDraft           = "draft"
	LineItemPendingDirector = "pending_director"
	LineItemPendingPO       = "pending_po"
	LineItemCompleted       = "completed"
	LineItemRejected        = "rejected"
)

const (
	PODraft     = "draft"
	POSubmitted = "submitted"
	POConfirmed = "confirmed"
)

// Table is the ordered status list and adjacency map of one entity.
type Table struct {
	entity Entity
	order  []string
	next   map[string][]string
}

var tables = map[Entity]*Table{
	EntityRfq: {
		entity: EntityRfq,
		order:  []string{RfqDraft, RfqPublished, RfqInProgress, RfqClosed, RfqCancelled, RfqConfirmed},
		next: map[string][]string{
			RfqDraft:      {RfqPublished, RfqCancelled},
			RfqPublished:  {RfqInProgress, RfqClosed, RfqCancelled},
			RfqInProgress: {RfqConfirmed, RfqClosed, RfqCancelled},
			RfqClosed:     {},
			RfqCancelled:  {},
			RfqConfirmed:  {RfqClosed},
		},
	},
	EntityQuote: {
		entity: EntityQuote,
		order:  []string{QuoteDraft, QuoteSubmitted, QuoteWithdrawn, QuoteSelected},
		next: map[string][]string{
			QuoteDraft:     {QuoteSubmitted, QuoteWithdrawn},
			QuoteSubmitted: {QuoteSelected, QuoteWithdrawn},
			QuoteSelected:  {QuoteSubmitted},
			QuoteWithdrawn: {},
		},
	},
	EntityLineItem: {
		entity: EntityLineItem,
		order: []string{LineItemDraft, LineItemPendingDirector, LineItemPendingPO,
			LineItemCompleted, LineItemRejected},
		next: map[string][]string{
			LineItemDraft:           {LineItemPendingDirector},
			LineItemRejected:        {LineItemPendingDirector},
			LineItemPendingDirector: {LineItemPendingPO, LineItemDraft, LineItemRejected},
			LineItemPendingPO:       {LineItemCompleted, LineItemDraft},
			LineItemCompleted:       {},
		},
	},
	EntityPurchaseOrder: {
		entity: EntityPurchaseOrder,
		order:  []string{PODraft, POSubmitted, POConfirmed},
		next: map[string][]string{
			PODraft:     {POSubmitted},
			POSubmitted: {POConfirmed},
			POConfirmed: {},
		},
	},
}

// For panics on an unregistered entity; the set is closed.
func For(e Entity) *Table {
	t, ok := tables[e]
	if !ok {
		panic(fmt.Sprintf("status: no table for entity %q", e))
	}
	return t
}

func (t *Table) Entity() Entity { return t.entity }

func (t *Table) Statuses() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

func (t *Table) IsValid(s string) bool {
	for _, v := range t.order {
		if v == s {
			return true
		}
	}
	return false
}

func (t *Table) Allowed(from string) []string {
	next := t.next[from]
	out := make([]string, len(next))
	copy(out, next)
	return out
}

func (t *Table) CanTransition(from, to string) bool {
	for _, s := range t.next[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Check returns a validation error for an unknown target and an
// invalid-transition error when to is not reachable from from.
func (t *Table) Check(from, to string) error {
	if !t.IsValid(to) {
		return apperr.Validation(fmt.Sprintf("Unknown %s status %q", t.entity, to))
	}
	if !t.CanTransition(from, to) {
		return apperr.InvalidTransition(from, to, t.Allowed(from))
	}
	return nil
}

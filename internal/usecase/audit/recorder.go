// Package audit writes the fire-and-forget business audit trail.
package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"sourcing-workflow/internal/domain/actor"
	"sourcing-workflow/internal/domain/auditlog"
	"sourcing-workflow/pkg/clock"
)

const (
	ActionCreate          = "create"
	ActionUpdate          = "update"
	ActionPublish         = "publish"
	ActionClose           = "close"
	ActionCancel          = "cancel"
	ActionDelete          = "delete"
	ActionSendInvitations = "send_invitations"
	ActionReview          = "review"
	ActionPrExport        = "pr_export"

	ActionSubmitForApproval = "submit_for_approval"
	ActionInvitePurchasers  = "invite_purchasers"

	ActionPOCreate  = "po_create"
	ActionPOUpdate  = "po_update"
	ActionPOSubmit  = "po_submit"
	ActionPOConfirm = "po_confirm"
	ActionPODelete  = "po_delete"

	ActionQuoteSubmit   = "quote_submit"
	ActionQuoteUpdate   = "quote_update"
	ActionQuoteWithdraw = "quote_withdraw"
)

// DirectorAction is director_approved or director_rejected.
func DirectorAction(decision string) string { return "director_" + decision }

// Recorder never reports failure to the caller.
type Recorder interface {
	Record(ctx context.Context, act actor.Actor, entityType string, entityID any, action string, changes any)
}

type Log struct {
	repo  auditlog.Repository
	clock clock.Clock
	log   *zap.Logger
}

func NewLog(repo auditlog.Repository, clk clock.Clock, log *zap.Logger) *Log {
	if clk == nil {
		clk = clock.System
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Log{repo: repo, clock: clk, log: log}
}

func (l *Log) Record(ctx context.Context, act actor.Actor, entityType string, entityID any, action string, changes any) {
	entry := &auditlog.Entry{
		ActorID:    act.ID,
		ActorName:  act.Name,
		EntityType: entityType,
		EntityID:   fmt.Sprint(entityID),
		Action:     action,
		CreatedAt:  l.clock.Now(),
	}
	if changes != nil {
		raw, err := json.Marshal(changes)
		if err != nil {
			l.log.Warn("audit changes not serialisable", zap.String("action", action), zap.Error(err))
		} else {
			entry.Changes = string(raw)
		}
	}
	if err := l.repo.Create(ctx, entry); err != nil {
		l.log.Warn("audit log write failed",
			zap.String("entity_type", entityType),
			zap.String("entity_id", entry.EntityID),
			zap.String("action", action),
			zap.Error(err),
		)
	}
}

// Nop drops every entry.
type Nop struct{}

func (Nop) Record(context.Context, actor.Actor, string, any, string, any) {}

// Package statemachine performs validated status transitions for any
// workflow entity and records a best-effort status history row after each.
package statemachine

import (
	"context"

	"go.uber.org/zap"

	"sourcing-workflow/internal/domain/actor"
	"sourcing-workflow/internal/domain/history"
	"sourcing-workflow/internal/domain/status"
	"sourcing-workflow/pkg/clock"
)

// Stateful is anything that carries a registry status.
type Stateful interface {
	CurrentStatus() string
	EntityID() uint64
}

// Mutator persists the new status (plus whatever else the caller bundles)
// and returns the updated entity. It must not be retried by the machine.
type Mutator[T Stateful] func(ctx context.Context, e T, target string) (T, error)

type Machine[T Stateful] struct {
	table   *status.Table
	history history.StatusRepository
	clock   clock.Clock
}

// New wraps hist so that history write failures are logged and dropped.
func New[T Stateful](entity status.Entity, hist history.StatusRepository, clk clock.Clock, log *zap.Logger) *Machine[T] {
	if clk == nil {
		clk = clock.System
	}
	return &Machine[T]{
		table:   status.For(entity),
		history: NewBestEffortHistory(hist, log),
		clock:   clk,
	}
}

func (m *Machine[T]) Entity() status.Entity { return m.table.Entity() }

func (m *Machine[T]) CanTransition(e T, target string) bool {
	return m.table.CanTransition(e.CurrentStatus(), target)
}

// Available lists the statuses reachable from e's current status.
func (m *Machine[T]) Available(e T) []string {
	return m.table.Allowed(e.CurrentStatus())
}

func (m *Machine[T]) Validate(e T, target string) error {
	return m.table.Check(e.CurrentStatus(), target)
}

// Transition validates from -> target, runs mutate and, only when mutate
// succeeded, appends a status history row. A failed history write never
// fails the transition.
func (m *Machine[T]) Transition(ctx context.Context, e T, target string, act actor.Actor, reason string, mutate Mutator[T]) (T, error) {
	var zero T
	from := e.CurrentStatus()
	if err := m.table.Check(from, target); err != nil {
		return zero, err
	}

	out, err := mutate(ctx, e, target)
	if err != nil {
		return zero, err
	}

	_ = m.history.Create(ctx, &history.StatusHistory{
		EntityType: string(m.table.Entity()),
		EntityID:   e.EntityID(),
		FromStatus: from,
		ToStatus:   target,
		ChangedBy:  act.ID,
		Reason:     reason,
		CreatedAt:  m.clock.Now(),
	})
	return out, nil
}

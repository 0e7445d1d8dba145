package uowmock

import (
	"context"
	"errors"
	"testing"

	"sourcing-workflow/internal/domain/rfq"
	"sourcing-workflow/internal/domain/uow"
	"sourcing-workflow/internal/testutil/historymock"
)

func TestUoW_WithinTx_ForwardsRepos(t *testing.T) {
	ctx := context.Background()
	approvals := &historymock.ApprovalRepo{}
	repos := uow.Repos{ApprovalHistory: approvals}

	called := false
	m := New().WithWithinTx(func(gotCtx context.Context, fn func(r uow.Repos) error) error {
		if gotCtx != ctx {
			t.Fatalf("WithinTx: ctx mismatch")
		}
		return fn(repos)
	})
	err := m.WithinTx(ctx, func(r uow.Repos) error {
		called = true
		if r.ApprovalHistory != approvals {
			t.Fatalf("WithinTx: repos not forwarded")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithinTx: unexpected err: %v", err)
	}
	if !called {
		t.Fatalf("WithinTx: body not called")
	}
}

func TestUoW_WithinLineItemTx_PassesLockedRow(t *testing.T) {
	locked := &rfq.LineItem{ID: 7, Status: "draft"}
	m := New().WithWithinLineItemTx(func(_ context.Context, id uint64, fn func(uow.Repos, *rfq.LineItem) error) error {
		if id != 7 {
			t.Fatalf("WithinLineItemTx: got id %d", id)
		}
		return fn(uow.Repos{}, locked)
	})
	var got *rfq.LineItem
	if err := m.WithinLineItemTx(context.Background(), 7, func(_ uow.Repos, li *rfq.LineItem) error {
		got = li
		return nil
	}); err != nil {
		t.Fatalf("WithinLineItemTx: unexpected err: %v", err)
	}
	if got != locked {
		t.Fatalf("WithinLineItemTx: locked row not forwarded")
	}
}

func TestUoW_Failing(t *testing.T) {
	sentinel := errors.New("boom")
	m := Failing(sentinel)
	if err := m.WithinTx(context.Background(), func(uow.Repos) error {
		t.Fatalf("body must not run")
		return nil
	}); !errors.Is(err, sentinel) {
		t.Fatalf("WithinTx: want %v, got %v", sentinel, err)
	}
	if err := m.WithinLineItemTx(context.Background(), 1, func(uow.Repos, *rfq.LineItem) error {
		t.Fatalf("body must not run")
		return nil
	}); !errors.Is(err, sentinel) {
		t.Fatalf("WithinLineItemTx: want %v, got %v", sentinel, err)
	}
}

func TestUoW_Unimplemented(t *testing.T) {
	m := New()
	if err := m.WithinTx(context.Background(), func(uow.Repos) error { return nil }); !errors.Is(err, errUnimplemented) {
		t.Fatalf("WithinTx: want errUnimplemented, got %v", err)
	}
	if err := m.WithinLineItemTx(context.Background(), 1, func(uow.Repos, *rfq.LineItem) error { return nil }); !errors.Is(err, errUnimplemented) {
		t.Fatalf("WithinLineItemTx: want errUnimplemented, got %v", err)
	}
}

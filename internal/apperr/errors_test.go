package apperr

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestSentinelsMatchByKind(t *testing.T) {
	cases := []struct {
		err      error
		sentinel error
		kind     Kind
	}{
		{NotFound("RFQ", 7), ErrNotFound, KindNotFound},
		{Validation("bad"), ErrValidation, KindValidation},
		{Conflict("busy"), ErrConflict, KindConflict},
		{AuthenticationRequired(), ErrAuthenticationRequired, KindAuthenticationRequired},
		{AuthorizationDenied("nope"), ErrAuthorizationDenied, KindAuthorizationDenied},
		{InvalidTransition("draft", "closed", nil), ErrInvalidTransition, KindInvalidTransition},
	}
	for _, tc := range cases {
		wrapped := fmt.Errorf("outer: %w", tc.err)
		if !errors.Is(wrapped, tc.sentinel) {
			t.Fatalf("errors.Is(%v, sentinel %v) = false", wrapped, tc.kind)
		}
		if got := KindOf(wrapped); got != tc.kind {
			t.Fatalf("KindOf = %v, want %v", got, tc.kind)
		}
	}
}

func TestDifferentKindsDoNotMatch(t *testing.T) {
	if errors.Is(Conflict("x"), ErrNotFound) {
		t.Fatal("conflict must not match not-found sentinel")
	}
	if KindOf(errors.New("plain")) != KindInternal {
		t.Fatal("plain errors are internal")
	}
}

func TestInvalidTransitionMessage(t *testing.T) {
	e := InvalidTransition("closed", "published", nil)
	want := `Invalid state transition: Cannot change from "closed" to "published". Allowed transitions: none`
	if e.Message != want {
		t.Fatalf("message = %q, want %q", e.Message, want)
	}

	e = InvalidTransition("draft", "closed", []string{"published", "cancelled"})
	if !strings.HasSuffix(e.Message, "Allowed transitions: published, cancelled") {
		t.Fatalf("allowed list missing: %q", e.Message)
	}
}

func TestMissingFieldsAndWrongStatus(t *testing.T) {
	e := MissingFields("selectedQuoteId", "reviewScores")
	if e.Message != "Missing required fields: selectedQuoteId, reviewScores" {
		t.Fatalf("unexpected message %q", e.Message)
	}
	ws := WrongStatus("Line item is not pending director approval", "pending_po", "pending_director")
	if ws.Kind != KindConflict || !strings.Contains(ws.Message, "(status: pending_po)") {
		t.Fatalf("unexpected wrong status error: %+v", ws)
	}
}

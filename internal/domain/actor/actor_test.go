package actor

import (
	"errors"
	"testing"

	"sourcing-workflow/internal/apperr"
)

func TestStaticChecker_Require(t *testing.T) {
	var c StaticChecker

	if err := c.Require(Actor{}, RfqCreate); !errors.Is(err, apperr.ErrAuthenticationRequired) {
		t.Fatalf("anonymous => want authentication required, got %v", err)
	}

	buyer := Actor{ID: "u-1", Permissions: []Permission{RfqCreate}}
	if err := c.Require(buyer, RfqCreate); err != nil {
		t.Fatalf("holder should pass, got %v", err)
	}
	if err := c.Require(buyer, RfqPublish); !errors.Is(err, apperr.ErrAuthorizationDenied) {
		t.Fatalf("missing permission => want authorization denied, got %v", err)
	}
}

func TestStaticChecker_HasAny(t *testing.T) {
	var c StaticChecker
	director := Actor{ID: "d-1", Permissions: []Permission{ProcurementDirectorRfqApprove}}

	if !c.HasAny(director, ProcurementPermissions...) {
		t.Fatal("director should count as procurement")
	}
	if c.HasAny(Actor{ID: "s-1"}, ProcurementPermissions...) {
		t.Fatal("bare actor should not count as procurement")
	}
	if err := c.RequireAny(director, PurchaserRfqTarget, ProcurementDirectorRfqApprove); err != nil {
		t.Fatalf("RequireAny: %v", err)
	}
}

func TestParsePermissions(t *testing.T) {
	got := ParsePermissions(" rfq.create, ,rfq.publish ")
	if len(got) != 2 || got[0] != RfqCreate || got[1] != RfqPublish {
		t.Fatalf("unexpected parse: %v", got)
	}
	if ParsePermissions("") != nil {
		t.Fatal("empty header => nil")
	}
}

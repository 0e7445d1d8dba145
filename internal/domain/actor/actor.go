package actor

import (
	"strings"

	"sourcing-workflow/internal/apperr"
)

type Permission string

const (
	RfqCreate          Permission = "rfq.create"
	RfqPublish         Permission = "rfq.publish"
	RfqClose           Permission = "rfq.close"
	RfqInviteSuppliers Permission = "rfq.invite_suppliers"
	RfqViewAll         Permission = "rfq.view_all"
	RfqEditAll         Permission = "rfq.edit_all"
	RfqViewQuotes      Permission = "rfq.view_quotes"

	PurchaserRfqTarget            Permission = "purchaser.rfq_target"
	ProcurementManagerRfqReview   Permission = "procurement_manager.rfq_review"
	ProcurementDirectorRfqApprove Permission = "procurement_director.rfq_approve"
)

// ProcurementPermissions mark a viewer as a quote evaluator.
var ProcurementPermissions = []Permission{
	PurchaserRfqTarget,
	ProcurementManagerRfqReview,
	ProcurementDirectorRfqApprove,
}

type Role string

const (
	RolePurchaser           Role = "purchaser"
	RoleProcurementManager  Role = "procurement_manager"
	RoleProcurementDirector Role = "procurement_director"
	RoleDepartmentUser      Role = "department_user"
	RoleSupplier            Role = "supplier"
)

// Actor is the caller identity resolved outside the engine.
type Actor struct {
	ID          string
	Name        string
	Role        Role
	SupplierID  *uint64
	Department  string
	Permissions []Permission
}

func (a Actor) Anonymous() bool { return strings.TrimSpace(a.ID) == "" }

func (a Actor) IsSupplier() bool { return a.SupplierID != nil }

// PermissionChecker answers permission questions for an actor.
type PermissionChecker interface {
	Has(a Actor, p Permission) bool
	HasAny(a Actor, ps ...Permission) bool
	Require(a Actor, p Permission) error
	RequireAny(a Actor, ps ...Permission) error
}

// StaticChecker trusts the permission list carried on the actor.
type StaticChecker struct{}

func (StaticChecker) Has(a Actor, p Permission) bool {
	for _, got := range a.Permissions {
		if got == p {
			return true
		}
	}
	return false
}

func (c StaticChecker) HasAny(a Actor, ps ...Permission) bool {
	for _, p := range ps {
		if c.Has(a, p) {
			return true
		}
	}
	return false
}

func (c StaticChecker) Require(a Actor, p Permission) error {
	return c.RequireAny(a, p)
}

func (c StaticChecker) RequireAny(a Actor, ps ...Permission) error {
	if a.Anonymous() {
		return apperr.AuthenticationRequired()
	}
	if c.HasAny(a, ps...) {
		return nil
	}
	names := make([]string, len(ps))
	for i, p := range ps {
		names[i] = string(p)
	}
	return apperr.AuthorizationDenied("Missing required permission: " + strings.Join(names, " or "))
}

// ParsePermissions splits a comma separated permission header.
func ParsePermissions(raw string) []Permission {
	var out []Permission
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, Permission(p))
		}
	}
	return out
}

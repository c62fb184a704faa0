package access

import (
	"context"
	"time"

	"github.com/immocore/immocore/internal/membership"
	"github.com/immocore/immocore/internal/org"
)

// Reason codes carried on every decision. The precedence of the rules that
// produce them is part of the resolver's contract.
const (
	ReasonPlatformAdminOverride   = "platform_admin_override"
	ReasonDirectMembership        = "direct_membership"
	ReasonHierarchicalInheritance = "hierarchical_inheritance"
	ReasonDelegation              = "delegation"
	ReasonNoGrantFound            = "no_grant_found"
)

// Decision is the outcome of a resolution. Deny is data, not an error:
// callers render "no access" without exception handling.
type Decision struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason"`
}

// Allow builds an allowing decision with the given reason
func Allow(reason string) Decision {
	return Decision{Allowed: true, Reason: reason}
}

// Deny builds a denying decision
func Deny() Decision {
	return Decision{Allowed: false, Reason: ReasonNoGrantFound}
}

// OrganizationDirectory is the read-only view of the organization tree the
// resolver consults
type OrganizationDirectory interface {
	Get(ctx context.Context, id string) (*org.Organization, error)
	AncestorsOf(ctx context.Context, id string) ([]*org.Organization, error)
}

// MembershipDirectory is the read-only view of the membership registry
type MembershipDirectory interface {
	IsPlatformAdmin(ctx context.Context, principalID string) (bool, error)
	RoleOf(ctx context.Context, principalID, tenantID string) (membership.Role, bool, error)
	ListForPrincipal(ctx context.Context, principalID string) ([]*membership.Membership, error)
}

// GrantLedger is the read-only view of the delegation ledger
type GrantLedger interface {
	ActiveGrants(ctx context.Context, delegateOrgID, targetOrgID string, now time.Time) (map[string]bool, error)
}

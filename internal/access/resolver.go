// Copyright 2026 The Immocore Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package access

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/immocore/immocore/internal/membership"
	"github.com/immocore/immocore/internal/org"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Resolver is the pure decision component. It consults the organization
// tree, the membership registry and the delegation ledger and never mutates
// any of them; any number of resolutions may run concurrently.
type Resolver struct {
	orgs        OrganizationDirectory
	memberships MembershipDirectory
	grants      GrantLedger
	policy      Policy
	decisions   metric.Int64Counter
}

// NewResolver creates a new access resolver
func NewResolver(orgs OrganizationDirectory, memberships MembershipDirectory, grants GrantLedger, policy Policy) *Resolver {
	return &Resolver{
		orgs:        orgs,
		memberships: memberships,
		grants:      grants,
		policy:      policy,
	}
}

// WithDecisionCounter attaches a counter recording every decision by
// outcome and reason
func (r *Resolver) WithDecisionCounter(counter metric.Int64Counter) *Resolver {
	r.decisions = counter
	return r
}

// Resolve decides whether principalID may exercise requiredScope against
// targetOrgID at instant now. Rules are evaluated in contract order, first
// match wins:
//
//  1. a platform admin is allowed everywhere, lockdown and delegations
//     are irrelevant
//  2. a direct membership in the target with role at or above the policy
//     minimum for the scope allows
//  3. an org_admin-or-higher membership in an ancestor allows, unless any
//     organization on the path below that ancestor down to and including
//     the target has parent_access_blocked set
//  4. an active delegation from any org the principal belongs to onto the
//     target that carries the scope allows
//  5. otherwise deny with no_grant_found
//
// Unknown principals or organizations fail to match any rule and resolve to
// a deny, never an error; only store failures surface as errors.
func (r *Resolver) Resolve(ctx context.Context, principalID, targetOrgID, requiredScope string, now time.Time) (Decision, error) {
	decision, err := r.resolve(ctx, principalID, targetOrgID, requiredScope, now)
	if err != nil {
		return Decision{}, err
	}

	slog.DebugContext(ctx, "access_resolved",
		slog.String("principal_id", principalID),
		slog.String("target_org_id", targetOrgID),
		slog.String("scope", requiredScope),
		slog.Bool("allowed", decision.Allowed),
		slog.String("reason", decision.Reason),
	)
	if r.decisions != nil {
		r.decisions.Add(ctx, 1, metric.WithAttributes(
			attribute.Bool("allowed", decision.Allowed),
			attribute.String("reason", decision.Reason),
		))
	}
	return decision, nil
}

func (r *Resolver) resolve(ctx context.Context, principalID, targetOrgID, requiredScope string, now time.Time) (Decision, error) {
	// Rule 1: global platform admin override
	isAdmin, err := r.memberships.IsPlatformAdmin(ctx, principalID)
	if err != nil {
		return Decision{}, fmt.Errorf("failed to check platform admin: %w", err)
	}
	if isAdmin {
		return Allow(ReasonPlatformAdminOverride), nil
	}

	target, err := r.orgs.Get(ctx, targetOrgID)
	if err != nil {
		if errors.Is(err, org.ErrNotFound) {
			// Authorization failures never crash a caller: an unknown
			// target simply matches no rule.
			return Deny(), nil
		}
		return Decision{}, fmt.Errorf("failed to load target organization: %w", err)
	}

	// Rule 2: direct membership at or above the scope's minimum role
	role, ok, err := r.memberships.RoleOf(ctx, principalID, targetOrgID)
	if err != nil {
		return Decision{}, fmt.Errorf("failed to check direct membership: %w", err)
	}
	if ok && role.AtLeast(r.policy.MinimumFor(requiredScope)) {
		return Allow(ReasonDirectMembership), nil
	}

	// Rule 3: hierarchical inheritance
	decision, err := r.resolveInheritance(ctx, principalID, target)
	if err != nil {
		return Decision{}, err
	}
	if decision.Allowed {
		return decision, nil
	}

	// Rule 4: delegation
	decision, err = r.resolveDelegation(ctx, principalID, targetOrgID, requiredScope, now)
	if err != nil {
		return Decision{}, err
	}
	if decision.Allowed {
		return decision, nil
	}

	// Rule 5: nothing matched
	return Deny(), nil
}

// resolveInheritance walks the target's ancestors nearest first. A node
// with parent_access_blocked suppresses every ancestor above it, the
// blocking node itself included in the suppressed path when the target is
// locked down.
func (r *Resolver) resolveInheritance(ctx context.Context, principalID string, target *org.Organization) (Decision, error) {
	if target.IsRoot() {
		return Deny(), nil
	}
	if target.ParentAccessBlocked {
		return Deny(), nil
	}

	ancestors, err := r.orgs.AncestorsOf(ctx, target.ID)
	if err != nil {
		if errors.Is(err, org.ErrNotFound) {
			return Deny(), nil
		}
		return Decision{}, fmt.Errorf("failed to load ancestors: %w", err)
	}

	// Root first in storage order; evaluate nearest ancestor first so a
	// lockdown can cut the walk short.
	for i := len(ancestors) - 1; i >= 0; i-- {
		anc := ancestors[i]
		role, ok, err := r.memberships.RoleOf(ctx, principalID, anc.ID)
		if err != nil {
			return Decision{}, fmt.Errorf("failed to check ancestor membership: %w", err)
		}
		if ok && role.AtLeast(membership.RoleOrgAdmin) {
			return Allow(ReasonHierarchicalInheritance), nil
		}
		// This ancestor blocks everything above it.
		if anc.ParentAccessBlocked {
			return Deny(), nil
		}
	}
	return Deny(), nil
}

// resolveDelegation checks every organization the principal belongs to for
// an active delegation onto the target carrying the required scope
func (r *Resolver) resolveDelegation(ctx context.Context, principalID, targetOrgID, requiredScope string, now time.Time) (Decision, error) {
	memberships, err := r.memberships.ListForPrincipal(ctx, principalID)
	if err != nil {
		return Decision{}, fmt.Errorf("failed to list principal memberships: %w", err)
	}

	seen := make(map[string]bool, len(memberships))
	for _, m := range memberships {
		if m.TenantID == targetOrgID || seen[m.TenantID] {
			continue
		}
		seen[m.TenantID] = true

		grants, err := r.grants.ActiveGrants(ctx, m.TenantID, targetOrgID, now)
		if err != nil {
			return Decision{}, fmt.Errorf("failed to load delegation grants: %w", err)
		}
		if grants[requiredScope] {
			return Allow(ReasonDelegation), nil
		}
	}
	return Deny(), nil
}

package access

import (
	"github.com/immocore/immocore/internal/membership"
)

// Policy maps scopes to the minimum role a direct membership must rank at
// or above to satisfy them. Role-gated scopes are configuration the resolver
// takes as input, not hard-coded rules; scopes themselves stay opaque.
type Policy struct {
	MinimumRoles   map[string]membership.Role
	DefaultMinimum membership.Role
}

// DefaultPolicy treats every scope as satisfiable by any direct membership
func DefaultPolicy() Policy {
	return Policy{
		MinimumRoles:   map[string]membership.Role{},
		DefaultMinimum: membership.RoleMember,
	}
}

// MinimumFor returns the minimum direct-membership role for a scope
func (p Policy) MinimumFor(scope string) membership.Role {
	if r, ok := p.MinimumRoles[scope]; ok {
		return r
	}
	if p.DefaultMinimum != "" {
		return p.DefaultMinimum
	}
	return membership.RoleMember
}

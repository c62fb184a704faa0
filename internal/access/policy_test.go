package access

import (
	"testing"

	"github.com/immocore/immocore/internal/membership"
	"github.com/stretchr/testify/assert"
)

// TestPurpose: Validates scope-to-minimum-role resolution with and without overrides.
// Scope: Unit Test
// Expected: Configured scopes use their entry, everything else falls back to the default minimum.
// Test Case ID: ACC-09
func TestPolicy_MinimumFor(t *testing.T) {
	p := Policy{
		MinimumRoles: map[string]membership.Role{
			"org.manage": membership.RoleOrgAdmin,
		},
		DefaultMinimum: membership.RoleMember,
	}

	assert.Equal(t, membership.RoleOrgAdmin, p.MinimumFor("org.manage"))
	assert.Equal(t, membership.RoleMember, p.MinimumFor("listings:read"))

	// Zero-value policy still yields a sane minimum.
	assert.Equal(t, membership.RoleMember, Policy{}.MinimumFor("anything"))
}

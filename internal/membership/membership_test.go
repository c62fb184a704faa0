package membership

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestPurpose: Validates role comparison uses ranks, not string ordering.
// Scope: Unit Test
// Expected: platform_admin >= org_admin >= member holds despite string order saying otherwise.
// Test Case ID: MEM-01
func TestRole_AtLeast(t *testing.T) {
	tests := []struct {
		name     string
		role     Role
		minimum  Role
		expected bool
	}{
		{"member meets member", RoleMember, RoleMember, true},
		{"member below org_admin", RoleMember, RoleOrgAdmin, false},
		{"member below platform_admin", RoleMember, RolePlatformAdmin, false},
		{"org_admin meets member", RoleOrgAdmin, RoleMember, true},
		{"org_admin meets org_admin", RoleOrgAdmin, RoleOrgAdmin, true},
		{"org_admin below platform_admin", RoleOrgAdmin, RolePlatformAdmin, false},
		// Lexicographically "platform_admin" > "org_admin" would be false.
		{"platform_admin meets org_admin", RolePlatformAdmin, RoleOrgAdmin, true},
		{"platform_admin meets member", RolePlatformAdmin, RoleMember, true},
		{"unknown role meets nothing", Role("superuser"), RoleMember, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.role.AtLeast(tt.minimum))
		})
	}
}

// TestPurpose: Validates role validity checks.
// Scope: Unit Test
// Expected: Only the three defined roles are valid.
// Test Case ID: MEM-02
func TestRole_Valid(t *testing.T) {
	assert.True(t, RoleMember.Valid())
	assert.True(t, RoleOrgAdmin.Valid())
	assert.True(t, RolePlatformAdmin.Valid())
	assert.False(t, Role("").Valid())
	assert.False(t, Role("owner").Valid())
}

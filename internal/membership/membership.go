package membership

import (
	"time"
)

// Role is a ranked membership role. Comparisons always go through Rank so
// that privilege checks are ordering-based, never string equality.
type Role string

const (
	RoleMember        Role = "member"
	RoleOrgAdmin      Role = "org_admin"
	RolePlatformAdmin Role = "platform_admin"
)

// roleRanks fixes the total order member < org_admin < platform_admin
var roleRanks = map[Role]int{
	RoleMember:        1,
	RoleOrgAdmin:      2,
	RolePlatformAdmin: 3,
}

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	_, ok := roleRanks[r]
	return ok
}

// Rank returns the role's position in the total order, 0 for unknown roles
func (r Role) Rank() int {
	return roleRanks[r]
}

// AtLeast reports whether r ranks at or above other
func (r Role) AtLeast(other Role) bool {
	return r.Rank() >= other.Rank()
}

// Membership is a principal's ranked role within exactly one organization.
// The (PrincipalID, TenantID) pair is unique.
type Membership struct {
	ID          string    `json:"id"`
	PrincipalID string    `json:"principal_id"`
	TenantID    string    `json:"tenant_id"`
	Role        Role      `json:"role"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

package delegation

import (
	"time"
)

// Status is a delegation's stored lifecycle state
type Status string

const (
	StatusActive  Status = "active"
	StatusRevoked Status = "revoked"
	StatusExpired Status = "expired"
)

// ScopeManage is the reserved scope gating delegation create/revoke itself
const ScopeManage = "delegation.manage"

// Delegation is a time-bounded, revocable grant of named scopes from one
// organization's members onto another organization's resources, independent
// of tree position. The grant fields (orgs, scopes, granted_by, granted_at)
// are immutable; only status and the revoked_* pair ever change, and the
// only transitions are active→revoked and active→expired, both terminal.
type Delegation struct {
	ID            string     `json:"id"`
	DelegateOrgID string     `json:"delegate_org_id"`
	TargetOrgID   string     `json:"target_org_id"`
	Scopes        []string   `json:"scopes"`
	GrantedBy     string     `json:"granted_by"`
	GrantedAt     time.Time  `json:"granted_at"`
	ExpiresAt     *time.Time `json:"expires_at"`
	Status        Status     `json:"status"`
	RevokedBy     *string    `json:"revoked_by"`
	RevokedAt     *time.Time `json:"revoked_at"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// EffectiveStatus computes the delegation's state at a given instant.
// Revocation wins over everything; a passed expires_at makes the delegation
// expired even while the stored status still says active. Expiry is lazy:
// nothing sweeps the table, readers re-materialize on the fly.
func (d *Delegation) EffectiveStatus(now time.Time) Status {
	if d.Status == StatusRevoked {
		return StatusRevoked
	}
	if d.ExpiresAt != nil && !now.Before(*d.ExpiresAt) {
		return StatusExpired
	}
	return d.Status
}

// HasScope reports whether the delegation grants the named scope. Scopes are
// opaque identifiers; comparison is exact.
func (d *Delegation) HasScope(scope string) bool {
	for _, s := range d.Scopes {
		if s == scope {
			return true
		}
	}
	return false
}

package membership

import (
	"context"
	"errors"
)

var (
	ErrNotFound    = errors.New("membership not found")
	ErrInvalidRole = errors.New("unknown membership role")
)

// Repository defines the interface for membership storage
type Repository interface {
	// Upsert inserts or replaces the single membership row for the
	// (principal, tenant) pair
	Upsert(ctx context.Context, m *Membership) error
	Delete(ctx context.Context, principalID, tenantID string) error
	Get(ctx context.Context, principalID, tenantID string) (*Membership, error)
	ListForPrincipal(ctx context.Context, principalID string) ([]*Membership, error)
	ListForTenant(ctx context.Context, tenantID string) ([]*Membership, error)
	HasRoleAnywhere(ctx context.Context, principalID string, role Role) (bool, error)
}

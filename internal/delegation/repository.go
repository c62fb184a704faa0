package delegation

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound         = errors.New("delegation not found")
	ErrSelfDelegation   = errors.New("delegate and target organization must differ")
	ErrEmptyScopes      = errors.New("scopes must not be empty")
	ErrAlreadyFinalized = errors.New("delegation is already revoked or expired")
)

// ListFilter narrows List results
type ListFilter struct {
	DelegateOrgID string
	TargetOrgID   string
}

// Repository defines the interface for delegation storage.
// MarkRevoked must be a single conditional transition on status=active so
// that two concurrent revokes produce exactly one success.
type Repository interface {
	Create(ctx context.Context, d *Delegation) error
	GetByID(ctx context.Context, id string) (*Delegation, error)
	// MarkRevoked transitions active→revoked and returns ErrAlreadyFinalized
	// if the row was not in the active state
	MarkRevoked(ctx context.Context, id, revokedBy string, revokedAt time.Time) (*Delegation, error)
	ListBetween(ctx context.Context, delegateOrgID, targetOrgID string) ([]*Delegation, error)
	List(ctx context.Context, filter ListFilter) ([]*Delegation, error)
}

package org

import (
	"context"
	"errors"
)

var (
	ErrNotFound            = errors.New("organization not found")
	ErrParentNotFound      = errors.New("parent organization not found")
	ErrRootMustBeInternal  = errors.New("root organizations must be of type internal")
	ErrDisallowedChildType = errors.New("org type not allowed under this parent")
	ErrImmutableField      = errors.New("field is immutable after creation")
	ErrRootLockdown        = errors.New("a root organization cannot be locked down")
	ErrSlugTaken           = errors.New("slug already in use")
	ErrInvalidOrgType      = errors.New("unknown org type")
)

// ListFilter narrows List results
type ListFilter struct {
	Type   *OrgType
	Search string // matches against name and slug
}

// Repository defines the interface for organization storage.
// CreateChild must compute depth and materialized path from the parent row
// inside a single transaction so two concurrent children of the same parent
// never observe a stale parent snapshot.
type Repository interface {
	CreateRoot(ctx context.Context, o *Organization) error
	CreateChild(ctx context.Context, o *Organization, parentID string) error
	GetByID(ctx context.Context, id string) (*Organization, error)
	GetByIDs(ctx context.Context, ids []string) ([]*Organization, error)
	Update(ctx context.Context, o *Organization) error
	SetParentAccessBlocked(ctx context.Context, id string, blocked bool) (*Organization, error)
	List(ctx context.Context, filter ListFilter) ([]*Organization, error)
}

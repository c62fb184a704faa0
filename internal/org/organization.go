package org

import (
	"strings"
	"time"
)

// OrgType classifies an organization's position in the tenant hierarchy
type OrgType string

const (
	TypeInternal   OrgType = "internal"
	TypePartner    OrgType = "partner"
	TypeSubPartner OrgType = "sub_partner"
	TypeClient     OrgType = "client"
	TypeRenter     OrgType = "renter"
)

// allowedChildren fixes which org types may be created under which parent type.
// Roots are always internal; client and renter organizations are leaves.
var allowedChildren = map[OrgType][]OrgType{
	TypeInternal:   {TypePartner},
	TypePartner:    {TypeSubPartner, TypeClient},
	TypeSubPartner: {TypeClient},
	TypeClient:     {},
	TypeRenter:     {},
}

// Valid reports whether t is a known org type
func (t OrgType) Valid() bool {
	_, ok := allowedChildren[t]
	return ok
}

// AllowsChild reports whether an organization of type t may have a child of type child
func (t OrgType) AllowsChild(child OrgType) bool {
	for _, c := range allowedChildren[t] {
		if c == child {
			return true
		}
	}
	return false
}

// RootPath is the materialized path of a root organization
const RootPath = "/"

// ScopeManage is the reserved scope gating organization and membership
// administration
const ScopeManage = "org.manage"

// Organization is a node in the tenant hierarchy.
// OrgType, ParentID, Depth and MaterializedPath are fixed at creation;
// ParentAccessBlocked is the only hierarchy-relevant mutable field.
type Organization struct {
	ID                  string    `json:"id"`
	Name                string    `json:"name"`
	Slug                string    `json:"slug"`
	OrgType             OrgType   `json:"org_type"`
	ParentID            *string   `json:"parent_id"`
	Depth               int       `json:"depth"`
	MaterializedPath    string    `json:"materialized_path"`
	ParentAccessBlocked bool      `json:"parent_access_blocked"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// IsRoot reports whether the organization has no parent
func (o *Organization) IsRoot() bool {
	return o.ParentID == nil
}

// ChildPath computes the materialized path a child of this organization carries
func (o *Organization) ChildPath() string {
	return o.MaterializedPath + o.ID + "/"
}

// AncestorIDs returns the ids encoded in the materialized path, root first.
// The path "/a/b/" decodes to [a, b].
func (o *Organization) AncestorIDs() []string {
	trimmed := strings.Trim(o.MaterializedPath, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

// HasAncestor reports whether candidateID appears on the organization's
// ancestor path. A single containment check on the materialized path, no
// recursive lookups.
func (o *Organization) HasAncestor(candidateID string) bool {
	return strings.Contains(o.MaterializedPath, "/"+candidateID+"/")
}

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

package org

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/immocore/immocore/internal/audit"
)

// Service provides organization tree business logic
type Service struct {
	repo        Repository
	auditLogger audit.Logger
}

// NewService creates a new organization service
func NewService(repo Repository, auditLogger audit.Logger) *Service {
	return &Service{
		repo:        repo,
		auditLogger: auditLogger,
	}
}

// Create creates a new organization. A nil parentID creates a root, which
// must be of type internal. For children the parent must exist and orgType
// must be in the parent type's allowed-children set. Depth and materialized
// path are derived from the parent inside the store transaction, so the
// operation is all-or-nothing even under concurrent sibling creation.
func (s *Service) Create(ctx context.Context, parentID *string, orgType OrgType, name, slug, actorID string) (*Organization, error) {
	if name == "" {
		return nil, fmt.Errorf("organization name is required")
	}
	if slug == "" {
		return nil, fmt.Errorf("organization slug is required")
	}
	if !orgType.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidOrgType, orgType)
	}

	now := time.Now()
	o := &Organization{
		ID:        uuid.Must(uuid.NewV7()).String(),
		Name:      name,
		Slug:      slug,
		OrgType:   orgType,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if parentID == nil {
		if orgType != TypeInternal {
			return nil, ErrRootMustBeInternal
		}
		o.Depth = 0
		o.MaterializedPath = RootPath
		if err := s.repo.CreateRoot(ctx, o); err != nil {
			return nil, fmt.Errorf("failed to create organization: %w", err)
		}
	} else {
		parent, err := s.repo.GetByID(ctx, *parentID)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrParentNotFound, *parentID)
		}
		if !parent.OrgType.AllowsChild(orgType) {
			return nil, fmt.Errorf("%w: %s under %s", ErrDisallowedChildType, orgType, parent.OrgType)
		}
		o.ParentID = parentID
		if err := s.repo.CreateChild(ctx, o, *parentID); err != nil {
			return nil, fmt.Errorf("failed to create organization: %w", err)
		}
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:        audit.TypeOrganizationCreated,
		ActorID:     actorID,
		TargetOrgID: o.ID,
		Payload: map[string]any{
			"org_type": string(o.OrgType),
			"slug":     o.Slug,
		},
	})

	return o, nil
}

// Get retrieves an organization by ID
func (s *Service) Get(ctx context.Context, id string) (*Organization, error) {
	return s.repo.GetByID(ctx, id)
}

// List lists organizations, optionally filtered by type and a name/slug search
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Organization, error) {
	return s.repo.List(ctx, filter)
}

// Update changes the mutable descriptive fields (name, slug). Attempts to
// change org_type, parent_id, depth or the materialized path are rejected
// with ErrImmutableField.
func (s *Service) Update(ctx context.Context, id string, update OrganizationUpdate) (*Organization, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.OrgType != nil && *update.OrgType != o.OrgType {
		return nil, fmt.Errorf("%w: org_type", ErrImmutableField)
	}
	if update.ParentID != nil && (o.ParentID == nil || *update.ParentID != *o.ParentID) {
		return nil, fmt.Errorf("%w: parent_id", ErrImmutableField)
	}
	if update.Depth != nil && *update.Depth != o.Depth {
		return nil, fmt.Errorf("%w: depth", ErrImmutableField)
	}
	if update.MaterializedPath != nil && *update.MaterializedPath != o.MaterializedPath {
		return nil, fmt.Errorf("%w: materialized_path", ErrImmutableField)
	}

	if update.Name != nil {
		if *update.Name == "" {
			return nil, fmt.Errorf("organization name is required")
		}
		o.Name = *update.Name
	}
	if update.Slug != nil {
		if *update.Slug == "" {
			return nil, fmt.Errorf("organization slug is required")
		}
		o.Slug = *update.Slug
	}
	o.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, o); err != nil {
		return nil, fmt.Errorf("failed to update organization: %w", err)
	}
	return o, nil
}

// OrganizationUpdate carries a partial update. Immutable fields are listed so
// that attempts to change them fail loudly instead of being silently dropped.
type OrganizationUpdate struct {
	Name             *string
	Slug             *string
	OrgType          *OrgType
	ParentID         *string
	Depth            *int
	MaterializedPath *string
}

// SetLockdown toggles parent_access_blocked. Only organizations with a
// parent can be locked down. Setting the current value again is a no-op and
// is not audited.
func (s *Service) SetLockdown(ctx context.Context, id string, blocked bool, actorID, reason string) (*Organization, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.IsRoot() {
		return nil, ErrRootLockdown
	}
	if o.ParentAccessBlocked == blocked {
		return o, nil
	}

	updated, err := s.repo.SetParentAccessBlocked(ctx, id, blocked)
	if err != nil {
		return nil, fmt.Errorf("failed to set lockdown: %w", err)
	}

	payload := map[string]any{"blocked": blocked}
	if reason != "" {
		payload["reason"] = reason
	}
	s.auditLogger.Log(ctx, audit.Event{
		Type:        audit.TypeParentAccessBlockedChanged,
		ActorID:     actorID,
		TargetOrgID: id,
		Payload:     payload,
	})

	return updated, nil
}

// AncestorsOf returns the organization's ancestors ordered root first,
// resolved from the materialized path in a single batched lookup.
func (s *Service) AncestorsOf(ctx context.Context, id string) ([]*Organization, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	ids := o.AncestorIDs()
	if len(ids) == 0 {
		return nil, nil
	}

	ancestors, err := s.repo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load ancestors: %w", err)
	}
	sort.Slice(ancestors, func(i, j int) bool {
		return ancestors[i].Depth < ancestors[j].Depth
	})
	return ancestors, nil
}

// IsAncestor reports whether candidateID is an ancestor of orgID
func (s *Service) IsAncestor(ctx context.Context, candidateID, orgID string) (bool, error) {
	o, err := s.repo.GetByID(ctx, orgID)
	if err != nil {
		return false, err
	}
	return o.HasAncestor(candidateID), nil
}

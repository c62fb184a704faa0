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

package membership

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/immocore/immocore/internal/audit"
)

// Service provides membership registry business logic
type Service struct {
	repo        Repository
	auditLogger audit.Logger
}

// NewService creates a new membership service
func NewService(repo Repository, auditLogger audit.Logger) *Service {
	return &Service{
		repo:        repo,
		auditLogger: auditLogger,
	}
}

// Assign upserts the membership row for the (principal, tenant) pair.
// Changing an existing membership's role is allowed.
func (s *Service) Assign(ctx context.Context, principalID, tenantID string, role Role, actorID string) (*Membership, error) {
	if principalID == "" {
		return nil, fmt.Errorf("principal id is required")
	}
	if tenantID == "" {
		return nil, fmt.Errorf("tenant id is required")
	}
	if !role.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRole, role)
	}

	now := time.Now()
	m := &Membership{
		ID:          uuid.Must(uuid.NewV7()).String(),
		PrincipalID: principalID,
		TenantID:    tenantID,
		Role:        role,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Upsert(ctx, m); err != nil {
		return nil, fmt.Errorf("failed to assign membership: %w", err)
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:        audit.TypeMembershipAssigned,
		ActorID:     actorID,
		TargetOrgID: tenantID,
		Payload: map[string]any{
			"principal_id": principalID,
			"role":         string(role),
		},
	})

	return m, nil
}

// Revoke deletes the membership, removing all access instantly. Revoking a
// membership that does not exist is a no-op.
func (s *Service) Revoke(ctx context.Context, principalID, tenantID, actorID string) error {
	err := s.repo.Delete(ctx, principalID, tenantID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to revoke membership: %w", err)
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:        audit.TypeMembershipRevoked,
		ActorID:     actorID,
		TargetOrgID: tenantID,
		Payload:     map[string]any{"principal_id": principalID},
	})

	return nil
}

// RoleOf returns the principal's role in the tenant, or ok=false if the
// principal holds no membership there
func (s *Service) RoleOf(ctx context.Context, principalID, tenantID string) (Role, bool, error) {
	m, err := s.repo.Get(ctx, principalID, tenantID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return m.Role, true, nil
}

// IsPlatformAdmin reports whether the principal holds platform_admin in any
// tenant. The role is a global capability, not a per-tenant one.
func (s *Service) IsPlatformAdmin(ctx context.Context, principalID string) (bool, error) {
	return s.repo.HasRoleAnywhere(ctx, principalID, RolePlatformAdmin)
}

// ListForPrincipal returns every membership the principal holds
func (s *Service) ListForPrincipal(ctx context.Context, principalID string) ([]*Membership, error) {
	return s.repo.ListForPrincipal(ctx, principalID)
}

// ListForTenant returns every membership within a tenant
func (s *Service) ListForTenant(ctx context.Context, tenantID string) ([]*Membership, error) {
	return s.repo.ListForTenant(ctx, tenantID)
}

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

package delegation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/immocore/immocore/internal/audit"
)

// Service provides delegation ledger business logic
type Service struct {
	repo        Repository
	auditLogger audit.Logger
}

// NewService creates a new delegation service
func NewService(repo Repository, auditLogger audit.Logger) *Service {
	return &Service{
		repo:        repo,
		auditLogger: auditLogger,
	}
}

// Create records a new active delegation. Self-delegation and empty scope
// sets are rejected. Whether grantedBy may create the delegation at all is
// the caller's concern, resolved against the delegate/target pair with the
// reserved delegation.manage scope before this is invoked.
func (s *Service) Create(ctx context.Context, delegateOrgID, targetOrgID string, scopes []string, expiresAt *time.Time, grantedBy string) (*Delegation, error) {
	if delegateOrgID == "" || targetOrgID == "" {
		return nil, fmt.Errorf("delegate and target organization ids are required")
	}
	if delegateOrgID == targetOrgID {
		return nil, ErrSelfDelegation
	}
	if len(scopes) == 0 {
		return nil, ErrEmptyScopes
	}
	for _, scope := range scopes {
		if scope == "" {
			return nil, fmt.Errorf("%w: empty scope identifier", ErrEmptyScopes)
		}
	}

	now := time.Now()
	d := &Delegation{
		ID:            uuid.Must(uuid.NewV7()).String(),
		DelegateOrgID: delegateOrgID,
		TargetOrgID:   targetOrgID,
		Scopes:        scopes,
		GrantedBy:     grantedBy,
		GrantedAt:     now,
		ExpiresAt:     expiresAt,
		Status:        StatusActive,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Create(ctx, d); err != nil {
		return nil, fmt.Errorf("failed to create delegation: %w", err)
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:        audit.TypeDelegationCreated,
		ActorID:     grantedBy,
		TargetOrgID: targetOrgID,
		Payload: map[string]any{
			"delegation_id":   d.ID,
			"delegate_org_id": delegateOrgID,
			"scopes":          scopes,
		},
	})

	return d, nil
}

// Get retrieves a delegation by ID
func (s *Service) Get(ctx context.Context, id string) (*Delegation, error) {
	return s.repo.GetByID(ctx, id)
}

// List lists delegations, optionally filtered by delegate and target org
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Delegation, error) {
	return s.repo.List(ctx, filter)
}

// Revoke transitions an active delegation to revoked. Revoking a delegation
// that is already revoked, or whose expiry has passed, fails with
// ErrAlreadyFinalized and leaves the stored row untouched: revocation is an
// audited act, so a no-op retry is rejected rather than silently accepted.
// Two concurrent revokes of the same delegation produce exactly one success,
// the store transition is conditional on the active status.
func (s *Service) Revoke(ctx context.Context, id, revokedBy string) (*Delegation, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if d.EffectiveStatus(now) != StatusActive {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyFinalized, d.EffectiveStatus(now))
	}

	revoked, err := s.repo.MarkRevoked(ctx, id, revokedBy, now)
	if err != nil {
		return nil, err
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:        audit.TypeDelegationRevoked,
		ActorID:     revokedBy,
		TargetOrgID: revoked.TargetOrgID,
		Payload: map[string]any{
			"delegation_id":   revoked.ID,
			"delegate_org_id": revoked.DelegateOrgID,
		},
	})

	return revoked, nil
}

// ActiveGrants returns the union of scopes over all delegations between the
// pair whose effective status at now is active
func (s *Service) ActiveGrants(ctx context.Context, delegateOrgID, targetOrgID string, now time.Time) (map[string]bool, error) {
	delegations, err := s.repo.ListBetween(ctx, delegateOrgID, targetOrgID)
	if err != nil {
		return nil, fmt.Errorf("failed to list delegations: %w", err)
	}

	grants := make(map[string]bool)
	for _, d := range delegations {
		if d.EffectiveStatus(now) != StatusActive {
			continue
		}
		for _, scope := range d.Scopes {
			grants[scope] = true
		}
	}
	return grants, nil
}

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

package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/immocore/immocore/internal/membership"
	"github.com/jackc/pgx/v5"
)

// MembershipRepository implements membership.Repository
type MembershipRepository struct {
	db *DB
}

// NewMembershipRepository creates a new membership repository
func NewMembershipRepository(db *DB) *MembershipRepository {
	return &MembershipRepository{db: db}
}

const membershipColumns = `id, principal_id, tenant_id, role, created_at, updated_at`

// Upsert inserts or replaces the membership row for the (principal, tenant)
// pair. The existing row's id and created_at survive a role change.
func (r *MembershipRepository) Upsert(ctx context.Context, m *membership.Membership) error {
	err := r.db.pool.QueryRow(ctx, `
		INSERT INTO memberships (id, principal_id, tenant_id, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (principal_id, tenant_id)
		DO UPDATE SET role = EXCLUDED.role, updated_at = EXCLUDED.updated_at
		RETURNING id, created_at
	`, m.ID, m.PrincipalID, m.TenantID, m.Role, m.CreatedAt, m.UpdatedAt).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert membership: %w", err)
	}
	return nil
}

// Delete removes the membership row
func (r *MembershipRepository) Delete(ctx context.Context, principalID, tenantID string) error {
	result, err := r.db.pool.Exec(ctx, `
		DELETE FROM memberships WHERE principal_id = $1 AND tenant_id = $2
	`, principalID, tenantID)
	if err != nil {
		return fmt.Errorf("failed to delete membership: %w", err)
	}
	if result.RowsAffected() == 0 {
		return membership.ErrNotFound
	}
	return nil
}

// Get retrieves the membership for a (principal, tenant) pair
func (r *MembershipRepository) Get(ctx context.Context, principalID, tenantID string) (*membership.Membership, error) {
	row := r.db.pool.QueryRow(ctx, `
		SELECT `+membershipColumns+` FROM memberships
		WHERE principal_id = $1 AND tenant_id = $2
	`, principalID, tenantID)
	return scanMembership(row)
}

// ListForPrincipal retrieves every membership a principal holds
func (r *MembershipRepository) ListForPrincipal(ctx context.Context, principalID string) ([]*membership.Membership, error) {
	rows, err := r.db.pool.Query(ctx, `
		SELECT `+membershipColumns+` FROM memberships WHERE principal_id = $1
	`, principalID)
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}
	defer rows.Close()
	return collectMemberships(rows)
}

// ListForTenant retrieves every membership within a tenant
func (r *MembershipRepository) ListForTenant(ctx context.Context, tenantID string) ([]*membership.Membership, error) {
	rows, err := r.db.pool.Query(ctx, `
		SELECT `+membershipColumns+` FROM memberships WHERE tenant_id = $1
	`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tenant memberships: %w", err)
	}
	defer rows.Close()
	return collectMemberships(rows)
}

// HasRoleAnywhere reports whether the principal holds the role in any tenant
func (r *MembershipRepository) HasRoleAnywhere(ctx context.Context, principalID string, role membership.Role) (bool, error) {
	var exists bool
	err := r.db.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM memberships WHERE principal_id = $1 AND role = $2
		)
	`, principalID, role).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check role: %w", err)
	}
	return exists, nil
}

func scanMembership(row pgx.Row) (*membership.Membership, error) {
	var m membership.Membership
	err := row.Scan(&m.ID, &m.PrincipalID, &m.TenantID, &m.Role, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, membership.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan membership: %w", err)
	}
	return &m, nil
}

func collectMemberships(rows pgx.Rows) ([]*membership.Membership, error) {
	var memberships []*membership.Membership
	for rows.Next() {
		m, err := scanMembership(rows)
		if err != nil {
			return nil, err
		}
		memberships = append(memberships, m)
	}
	return memberships, rows.Err()
}

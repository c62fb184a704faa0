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
	"time"

	"github.com/immocore/immocore/internal/delegation"
	"github.com/jackc/pgx/v5"
)

// DelegationRepository implements delegation.Repository
type DelegationRepository struct {
	db *DB
}

// NewDelegationRepository creates a new delegation repository
func NewDelegationRepository(db *DB) *DelegationRepository {
	return &DelegationRepository{db: db}
}

const delegationColumns = `id, delegate_org_id, target_org_id, scopes, granted_by, granted_at, expires_at, status, revoked_by, revoked_at, created_at, updated_at`

// Create inserts a new delegation row
func (r *DelegationRepository) Create(ctx context.Context, d *delegation.Delegation) error {
	_, err := r.db.pool.Exec(ctx, `
		INSERT INTO delegations (id, delegate_org_id, target_org_id, scopes, granted_by, granted_at, expires_at, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, d.ID, d.DelegateOrgID, d.TargetOrgID, d.Scopes, d.GrantedBy, d.GrantedAt, d.ExpiresAt, d.Status, d.CreatedAt, d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create delegation: %w", err)
	}
	return nil
}

// GetByID retrieves a delegation by ID
func (r *DelegationRepository) GetByID(ctx context.Context, id string) (*delegation.Delegation, error) {
	row := r.db.pool.QueryRow(ctx, `
		SELECT `+delegationColumns+` FROM delegations WHERE id = $1
	`, id)
	return scanDelegation(row)
}

// MarkRevoked performs the single conditional transition active→revoked.
// The WHERE clause on status makes concurrent revokes race safely: exactly
// one UPDATE matches, the loser gets ErrAlreadyFinalized.
func (r *DelegationRepository) MarkRevoked(ctx context.Context, id, revokedBy string, revokedAt time.Time) (*delegation.Delegation, error) {
	row := r.db.pool.QueryRow(ctx, `
		UPDATE delegations
		SET status = $2, revoked_by = $3, revoked_at = $4, updated_at = $4
		WHERE id = $1 AND status = $5
		RETURNING `+delegationColumns+`
	`, id, delegation.StatusRevoked, revokedBy, revokedAt, delegation.StatusActive)

	d, err := scanDelegation(row)
	if err != nil {
		if errors.Is(err, delegation.ErrNotFound) {
			// Row exists but is not active, or does not exist at all.
			if _, getErr := r.GetByID(ctx, id); getErr == nil {
				return nil, delegation.ErrAlreadyFinalized
			}
			return nil, delegation.ErrNotFound
		}
		return nil, err
	}
	return d, nil
}

// ListBetween retrieves all delegations from delegate onto target,
// regardless of status
func (r *DelegationRepository) ListBetween(ctx context.Context, delegateOrgID, targetOrgID string) ([]*delegation.Delegation, error) {
	rows, err := r.db.pool.Query(ctx, `
		SELECT `+delegationColumns+` FROM delegations
		WHERE delegate_org_id = $1 AND target_org_id = $2
	`, delegateOrgID, targetOrgID)
	if err != nil {
		return nil, fmt.Errorf("failed to list delegations: %w", err)
	}
	defer rows.Close()
	return collectDelegations(rows)
}

// List retrieves delegations with optional delegate/target filters
func (r *DelegationRepository) List(ctx context.Context, filter delegation.ListFilter) ([]*delegation.Delegation, error) {
	query := `SELECT ` + delegationColumns + ` FROM delegations WHERE TRUE`
	args := []any{}
	if filter.DelegateOrgID != "" {
		args = append(args, filter.DelegateOrgID)
		query += fmt.Sprintf(" AND delegate_org_id = $%d", len(args))
	}
	if filter.TargetOrgID != "" {
		args = append(args, filter.TargetOrgID)
		query += fmt.Sprintf(" AND target_org_id = $%d", len(args))
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list delegations: %w", err)
	}
	defer rows.Close()
	return collectDelegations(rows)
}

func scanDelegation(row pgx.Row) (*delegation.Delegation, error) {
	var d delegation.Delegation
	err := row.Scan(&d.ID, &d.DelegateOrgID, &d.TargetOrgID, &d.Scopes, &d.GrantedBy,
		&d.GrantedAt, &d.ExpiresAt, &d.Status, &d.RevokedBy, &d.RevokedAt, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, delegation.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan delegation: %w", err)
	}
	return &d, nil
}

func collectDelegations(rows pgx.Rows) ([]*delegation.Delegation, error) {
	var delegations []*delegation.Delegation
	for rows.Next() {
		d, err := scanDelegation(rows)
		if err != nil {
			return nil, err
		}
		delegations = append(delegations, d)
	}
	return delegations, rows.Err()
}

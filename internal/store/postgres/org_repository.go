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

	"github.com/immocore/immocore/internal/org"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

// OrgRepository implements org.Repository
type OrgRepository struct {
	db *DB
}

// NewOrgRepository creates a new organization repository
func NewOrgRepository(db *DB) *OrgRepository {
	return &OrgRepository{db: db}
}

const orgColumns = `id, name, slug, org_type, parent_id, depth, materialized_path, parent_access_blocked, created_at, updated_at`

func scanOrg(row pgx.Row) (*org.Organization, error) {
	var o org.Organization
	err := row.Scan(&o.ID, &o.Name, &o.Slug, &o.OrgType, &o.ParentID, &o.Depth,
		&o.MaterializedPath, &o.ParentAccessBlocked, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, org.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan organization: %w", err)
	}
	return &o, nil
}

// CreateRoot inserts a root organization
func (r *OrgRepository) CreateRoot(ctx context.Context, o *org.Organization) error {
	_, err := r.db.pool.Exec(ctx, `
		INSERT INTO organizations (id, name, slug, org_type, parent_id, depth, materialized_path, parent_access_blocked, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NULL, 0, $5, FALSE, $6, $7)
	`, o.ID, o.Name, o.Slug, o.OrgType, org.RootPath, o.CreatedAt, o.UpdatedAt)
	if err != nil {
		return translateOrgError(err)
	}
	return nil
}

// CreateChild inserts a child organization. The parent row is locked for the
// duration of the transaction and depth/materialized_path are derived from
// it there, so two concurrent children of the same parent serialize and
// neither observes a stale parent snapshot.
func (r *OrgRepository) CreateChild(ctx context.Context, o *org.Organization, parentID string) error {
	tx, err := r.db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var parentDepth int
	var parentPath string
	err = tx.QueryRow(ctx, `
		SELECT depth, materialized_path || id || '/'
		FROM organizations
		WHERE id = $1
		FOR UPDATE
	`, parentID).Scan(&parentDepth, &parentPath)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return org.ErrParentNotFound
		}
		return fmt.Errorf("failed to lock parent organization: %w", err)
	}

	o.Depth = parentDepth + 1
	o.MaterializedPath = parentPath

	_, err = tx.Exec(ctx, `
		INSERT INTO organizations (id, name, slug, org_type, parent_id, depth, materialized_path, parent_access_blocked, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, FALSE, $8, $9)
	`, o.ID, o.Name, o.Slug, o.OrgType, parentID, o.Depth, o.MaterializedPath, o.CreatedAt, o.UpdatedAt)
	if err != nil {
		return translateOrgError(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit organization: %w", err)
	}
	return nil
}

// GetByID retrieves an organization by ID
func (r *OrgRepository) GetByID(ctx context.Context, id string) (*org.Organization, error) {
	row := r.db.pool.QueryRow(ctx, `
		SELECT `+orgColumns+` FROM organizations WHERE id = $1
	`, id)
	return scanOrg(row)
}

// GetByIDs retrieves a batch of organizations
func (r *OrgRepository) GetByIDs(ctx context.Context, ids []string) ([]*org.Organization, error) {
	rows, err := r.db.pool.Query(ctx, `
		SELECT `+orgColumns+` FROM organizations WHERE id = ANY($1)
	`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get organizations: %w", err)
	}
	defer rows.Close()
	return collectOrgs(rows)
}

// Update persists the mutable descriptive fields (name, slug)
func (r *OrgRepository) Update(ctx context.Context, o *org.Organization) error {
	result, err := r.db.pool.Exec(ctx, `
		UPDATE organizations SET name = $2, slug = $3, updated_at = $4 WHERE id = $1
	`, o.ID, o.Name, o.Slug, o.UpdatedAt)
	if err != nil {
		return translateOrgError(err)
	}
	if result.RowsAffected() == 0 {
		return org.ErrNotFound
	}
	return nil
}

// SetParentAccessBlocked toggles the lockdown flag and returns the updated row
func (r *OrgRepository) SetParentAccessBlocked(ctx context.Context, id string, blocked bool) (*org.Organization, error) {
	row := r.db.pool.QueryRow(ctx, `
		UPDATE organizations SET parent_access_blocked = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+orgColumns+`
	`, id, blocked)
	return scanOrg(row)
}

// List retrieves organizations, optionally filtered by type and a name/slug search
func (r *OrgRepository) List(ctx context.Context, filter org.ListFilter) ([]*org.Organization, error) {
	query := `SELECT ` + orgColumns + ` FROM organizations WHERE TRUE`
	args := []any{}
	if filter.Type != nil {
		args = append(args, *filter.Type)
		query += fmt.Sprintf(" AND org_type = $%d", len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		query += fmt.Sprintf(" AND (name ILIKE $%d OR slug ILIKE $%d)", len(args), len(args))
	}
	query += " ORDER BY materialized_path, name"

	rows, err := r.db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list organizations: %w", err)
	}
	defer rows.Close()
	return collectOrgs(rows)
}

func collectOrgs(rows pgx.Rows) ([]*org.Organization, error) {
	var orgs []*org.Organization
	for rows.Next() {
		o, err := scanOrg(rows)
		if err != nil {
			return nil, err
		}
		orgs = append(orgs, o)
	}
	return orgs, rows.Err()
}

func translateOrgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return org.ErrSlugTaken
	}
	return fmt.Errorf("organization store: %w", err)
}

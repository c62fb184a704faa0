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

//go:build integration
// +build integration

package postgres

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/immocore/immocore/internal/delegation"
	"github.com/immocore/immocore/internal/org"
)

func testDB(t *testing.T) *DB {
	t.Helper()

	ctx := context.Background()
	cfg := Config{
		Host:         "localhost",
		Port:         "5432",
		User:         "immocore",
		Password:     "immocore_dev_password",
		Database:     "immocore",
		SSLMode:      "disable",
		MaxOpenConns: 5,
		MaxIdleConns: 5,
	}

	db, err := New(ctx, cfg)
	if err != nil {
		t.Skipf("Skipping integration test: failed to connect to database: %v", err)
	}
	t.Cleanup(db.Close)

	if err := db.Migrate(ctx, InitialSchema); err != nil {
		t.Fatalf("failed to apply schema: %v", err)
	}
	return db
}

func newTestOrg(orgType org.OrgType, slug string) *org.Organization {
	now := time.Now()
	return &org.Organization{
		ID:        uuid.Must(uuid.NewV7()).String(),
		Name:      slug,
		Slug:      slug,
		OrgType:   orgType,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// TestPurpose: Validates depth and materialized path are derived inside the insert transaction.
// Scope: Database Integration Test
// Expected: A child created under a root carries depth 1 and the path /<rootID>/; a grandchild extends it.
// Test Case ID: PG-01
func TestOrgRepository_PathDerivation(t *testing.T) {
	db := testDB(t)
	repo := NewOrgRepository(db)
	ctx := context.Background()

	root := newTestOrg(org.TypeInternal, "pg01-root-"+uuid.NewString()[:8])
	root.Depth = 0
	root.MaterializedPath = org.RootPath
	if err := repo.CreateRoot(ctx, root); err != nil {
		t.Fatalf("failed to create root: %v", err)
	}
	defer db.pool.Exec(ctx, "DELETE FROM organizations WHERE id = $1", root.ID)

	child := newTestOrg(org.TypePartner, "pg01-partner-"+uuid.NewString()[:8])
	child.ParentID = &root.ID
	if err := repo.CreateChild(ctx, child, root.ID); err != nil {
		t.Fatalf("failed to create child: %v", err)
	}
	defer db.pool.Exec(ctx, "DELETE FROM organizations WHERE id = $1", child.ID)

	stored, err := repo.GetByID(ctx, child.ID)
	if err != nil {
		t.Fatalf("failed to load child: %v", err)
	}
	if stored.Depth != 1 {
		t.Errorf("expected depth 1, got %d", stored.Depth)
	}
	wantPath := org.RootPath + root.ID + "/"
	if stored.MaterializedPath != wantPath {
		t.Errorf("expected path %q, got %q", wantPath, stored.MaterializedPath)
	}

	grandchild := newTestOrg(org.TypeClient, "pg01-client-"+uuid.NewString()[:8])
	grandchild.ParentID = &child.ID
	if err := repo.CreateChild(ctx, grandchild, child.ID); err != nil {
		t.Fatalf("failed to create grandchild: %v", err)
	}
	defer db.pool.Exec(ctx, "DELETE FROM organizations WHERE id = $1", grandchild.ID)

	stored, err = repo.GetByID(ctx, grandchild.ID)
	if err != nil {
		t.Fatalf("failed to load grandchild: %v", err)
	}
	if stored.Depth != 2 {
		t.Errorf("expected depth 2, got %d", stored.Depth)
	}
	if !stored.HasAncestor(root.ID) || !stored.HasAncestor(child.ID) {
		t.Errorf("grandchild path %q misses an ancestor", stored.MaterializedPath)
	}
}

// TestPurpose: Validates concurrent revocations of one delegation produce exactly one winner.
// Scope: Database Integration Test
// Expected: The conditional status transition succeeds once; every other attempt gets ErrAlreadyFinalized.
// Test Case ID: PG-02
func TestDelegationRepository_RevokeRace(t *testing.T) {
	db := testDB(t)
	orgRepo := NewOrgRepository(db)
	repo := NewDelegationRepository(db)
	ctx := context.Background()

	root := newTestOrg(org.TypeInternal, "pg02-root-"+uuid.NewString()[:8])
	root.MaterializedPath = org.RootPath
	if err := orgRepo.CreateRoot(ctx, root); err != nil {
		t.Fatalf("failed to create root: %v", err)
	}
	defer db.pool.Exec(ctx, "DELETE FROM organizations WHERE id = $1", root.ID)

	partner := newTestOrg(org.TypePartner, "pg02-partner-"+uuid.NewString()[:8])
	partner.ParentID = &root.ID
	if err := orgRepo.CreateChild(ctx, partner, root.ID); err != nil {
		t.Fatalf("failed to create partner: %v", err)
	}
	defer db.pool.Exec(ctx, "DELETE FROM organizations WHERE id = $1", partner.ID)

	now := time.Now()
	d := &delegation.Delegation{
		ID:            uuid.Must(uuid.NewV7()).String(),
		DelegateOrgID: partner.ID,
		TargetOrgID:   root.ID,
		Scopes:        []string{"listings:read"},
		GrantedBy:     "integration-test",
		GrantedAt:     now,
		Status:        delegation.StatusActive,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := repo.Create(ctx, d); err != nil {
		t.Fatalf("failed to create delegation: %v", err)
	}
	defer db.pool.Exec(ctx, "DELETE FROM delegations WHERE id = $1", d.ID)

	const attempts = 8
	var wg sync.WaitGroup
	results := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = repo.MarkRevoked(ctx, d.ID, "integration-test", time.Now())
		}(i)
	}
	wg.Wait()

	winners := 0
	for i, err := range results {
		switch {
		case err == nil:
			winners++
		case errors.Is(err, delegation.ErrAlreadyFinalized):
		default:
			t.Errorf("attempt %d: unexpected error: %v", i, err)
		}
	}
	if winners != 1 {
		t.Errorf("expected exactly one successful revoke, got %d", winners)
	}
}

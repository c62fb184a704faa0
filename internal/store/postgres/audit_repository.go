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
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/immocore/immocore/internal/audit"
)

// AuditEventRepository implements audit.Store against the append-only
// audit_events table. There is deliberately no update or delete.
type AuditEventRepository struct {
	db *DB
}

// NewAuditEventRepository creates a new audit event repository
func NewAuditEventRepository(db *DB) *AuditEventRepository {
	return &AuditEventRepository{db: db}
}

// Append persists an audit event
func (r *AuditEventRepository) Append(ctx context.Context, event audit.Event) error {
	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return fmt.Errorf("failed to encode audit payload: %w", err)
	}

	var targetOrgID *string
	if event.TargetOrgID != "" {
		targetOrgID = &event.TargetOrgID
	}

	_, err = r.db.pool.Exec(ctx, `
		INSERT INTO audit_events (id, actor_id, target_org_id, event_type, payload, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, uuid.Must(uuid.NewV7()).String(), event.ActorID, targetOrgID, event.Type, payload, event.OccurredAt)
	if err != nil {
		return fmt.Errorf("failed to append audit event: %w", err)
	}
	return nil
}

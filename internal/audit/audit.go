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

package audit

import (
	"context"
	"log/slog"
	"time"
)

// Event types
const (
	TypeOrganizationCreated        = "organization_created"
	TypeParentAccessBlockedChanged = "parent_access_blocked_changed"
	TypeMembershipAssigned         = "membership_assigned"
	TypeMembershipRevoked          = "membership_revoked"
	TypeDelegationCreated          = "delegation_created"
	TypeDelegationRevoked          = "delegation_revoked"
)

// Event represents an auditable action against an organization
type Event struct {
	Type        string
	ActorID     string
	TargetOrgID string
	Payload     map[string]any
	OccurredAt  time.Time
}

// Logger defines the interface for audit logging. The trail is write-only:
// nothing in the authorization core reads it back for decisions.
type Logger interface {
	Log(ctx context.Context, event Event)
}

// SlogLogger implements Logger using slog
type SlogLogger struct{}

// NewSlogLogger creates a new audit logger
func NewSlogLogger() *SlogLogger {
	return &SlogLogger{}
}

// Log records an audit event
func (l *SlogLogger) Log(ctx context.Context, event Event) {
	// Ensure timestamp is set
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}

	attrs := []any{
		slog.String("audit_type", event.Type),
		slog.String("actor_id", event.ActorID),
		slog.String("target_org_id", event.TargetOrgID),
		slog.Time("occurred_at", event.OccurredAt),
	}

	// Flatten payload
	if len(event.Payload) > 0 {
		group := []any{}
		for k, v := range event.Payload {
			// Redact secrets
			if isSecret(k) {
				v = "[REDACTED]"
			}
			group = append(group, slog.Any(k, v))
		}
		attrs = append(attrs, slog.Group("payload", group...))
	}

	// Log at INFO level with "audit" component
	slog.InfoContext(ctx, "AUDIT_EVENT", append(attrs, slog.String("component", "audit"))...)
}

// isSecret checks if a key likely contains a secret
func isSecret(key string) bool {
	secrets := []string{"password", "secret", "token", "key", "authorization"}
	for _, s := range secrets {
		if key == s {
			return true
		}
	}
	return false
}

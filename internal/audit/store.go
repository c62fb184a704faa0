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

// Store defines the interface for the append-only audit event table
type Store interface {
	Append(ctx context.Context, event Event) error
}

// StoreLogger implements Logger by appending events to a Store. Append
// failures are logged and swallowed: a broken audit sink must not fail the
// mutation it documents.
type StoreLogger struct {
	store Store
}

// NewStoreLogger creates an audit logger backed by a persistent store
func NewStoreLogger(store Store) *StoreLogger {
	return &StoreLogger{store: store}
}

// Log appends an audit event to the store
func (l *StoreLogger) Log(ctx context.Context, event Event) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}
	if err := l.store.Append(ctx, event); err != nil {
		slog.ErrorContext(ctx, "failed to append audit event",
			slog.String("audit_type", event.Type),
			slog.String("target_org_id", event.TargetOrgID),
			slog.String("error", err.Error()),
		)
	}
}

// Multi fans a single audit event out to multiple loggers
type Multi struct {
	loggers []Logger
}

// NewMulti combines several audit loggers into one
func NewMulti(loggers ...Logger) *Multi {
	return &Multi{loggers: loggers}
}

// Log forwards the event to every configured logger
func (m *Multi) Log(ctx context.Context, event Event) {
	for _, l := range m.loggers {
		l.Log(ctx, event)
	}
}

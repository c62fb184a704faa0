package audit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type capturingStore struct {
	events []Event
	err    error
}

func (s *capturingStore) Append(ctx context.Context, event Event) error {
	if s.err != nil {
		return s.err
	}
	s.events = append(s.events, event)
	return nil
}

// TestPurpose: Validates payload keys carrying credentials are redacted.
// Scope: Unit Test
// Expected: Exact secret key names match; ordinary keys pass through.
// Test Case ID: AUD-01
func TestIsSecret(t *testing.T) {
	assert.True(t, isSecret("password"))
	assert.True(t, isSecret("secret"))
	assert.True(t, isSecret("token"))
	assert.True(t, isSecret("key"))
	assert.True(t, isSecret("authorization"))
	assert.False(t, isSecret("reason"))
	assert.False(t, isSecret("org_type"))
	assert.False(t, isSecret("passwords"))
}

// TestPurpose: Validates the store-backed logger persists events and stamps missing timestamps.
// Scope: Unit Test
// Expected: The appended event carries a non-zero occurred_at.
// Test Case ID: AUD-02
func TestStoreLogger_Log(t *testing.T) {
	store := &capturingStore{}
	logger := NewStoreLogger(store)

	logger.Log(context.Background(), Event{
		Type:        TypeDelegationCreated,
		ActorID:     "admin-1",
		TargetOrgID: "client-1",
	})

	assert.Len(t, store.events, 1)
	assert.Equal(t, TypeDelegationCreated, store.events[0].Type)
	assert.False(t, store.events[0].OccurredAt.IsZero())
}

// TestPurpose: Validates a broken audit sink never fails the caller.
// Scope: Unit Test
// Expected: Log returns normally when the store errors.
// Test Case ID: AUD-03
func TestStoreLogger_SwallowsAppendFailure(t *testing.T) {
	store := &capturingStore{err: errors.New("connection refused")}
	logger := NewStoreLogger(store)

	assert.NotPanics(t, func() {
		logger.Log(context.Background(), Event{Type: TypeMembershipAssigned})
	})
	assert.Empty(t, store.events)
}

// TestPurpose: Validates fan-out to multiple audit sinks.
// Scope: Unit Test
// Expected: Every configured logger receives the event once.
// Test Case ID: AUD-04
func TestMulti_Log(t *testing.T) {
	first := &capturingStore{}
	second := &capturingStore{}
	multi := NewMulti(NewStoreLogger(first), NewStoreLogger(second))

	event := Event{
		Type:        TypeParentAccessBlockedChanged,
		TargetOrgID: "client-1",
		OccurredAt:  time.Now(),
	}
	multi.Log(context.Background(), event)

	assert.Len(t, first.events, 1)
	assert.Len(t, second.events, 1)
	assert.Equal(t, event.Type, second.events[0].Type)
}

package delegation

import (
	"context"
	"testing"
	"time"

	"github.com/immocore/immocore/internal/audit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) Create(ctx context.Context, d *Delegation) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *mockRepo) GetByID(ctx context.Context, id string) (*Delegation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Delegation), args.Error(1)
}

func (m *mockRepo) MarkRevoked(ctx context.Context, id, revokedBy string, revokedAt time.Time) (*Delegation, error) {
	args := m.Called(ctx, id, revokedBy, revokedAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Delegation), args.Error(1)
}

func (m *mockRepo) ListBetween(ctx context.Context, delegateOrgID, targetOrgID string) ([]*Delegation, error) {
	args := m.Called(ctx, delegateOrgID, targetOrgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Delegation), args.Error(1)
}

func (m *mockRepo) List(ctx context.Context, filter ListFilter) ([]*Delegation, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Delegation), args.Error(1)
}

type mockAudit struct {
	mock.Mock
}

func (m *mockAudit) Log(ctx context.Context, event audit.Event) {
	m.Called(ctx, event)
}

// TestPurpose: Validates delegation creation records an active grant with an audit entry.
// Scope: Unit Test
// Expected: The delegation starts active with granted_at set and the creation is audited.
// Test Case ID: DEL-03
func TestDelegation_Service_Create(t *testing.T) {
	repo := new(mockRepo)
	auditLogger := new(mockAudit)
	service := NewService(repo, auditLogger)
	ctx := context.Background()

	repo.On("Create", ctx, mock.MatchedBy(func(d *Delegation) bool {
		return d.Status == StatusActive && d.DelegateOrgID == "partner-1" && d.TargetOrgID == "client-1"
	})).Return(nil)
	auditLogger.On("Log", ctx, mock.MatchedBy(func(e audit.Event) bool {
		return e.Type == audit.TypeDelegationCreated && e.TargetOrgID == "client-1"
	})).Return()

	d, err := service.Create(ctx, "partner-1", "client-1", []string{"listings:read"}, nil, "admin-1")
	assert.NoError(t, err)
	assert.Equal(t, StatusActive, d.Status)
	assert.Nil(t, d.ExpiresAt)
	repo.AssertExpectations(t)
	auditLogger.AssertExpectations(t)
}

// TestPurpose: Validates create-time input rejections.
// Scope: Unit Test
// Expected: Self-delegation and empty or blank scope sets fail without a store call.
// Test Case ID: DEL-04
func TestDelegation_Service_Create_Rejections(t *testing.T) {
	repo := new(mockRepo)
	service := NewService(repo, new(mockAudit))
	ctx := context.Background()

	_, err := service.Create(ctx, "org-1", "org-1", []string{"listings:read"}, nil, "admin-1")
	assert.ErrorIs(t, err, ErrSelfDelegation)

	_, err = service.Create(ctx, "partner-1", "client-1", nil, nil, "admin-1")
	assert.ErrorIs(t, err, ErrEmptyScopes)

	_, err = service.Create(ctx, "partner-1", "client-1", []string{"listings:read", ""}, nil, "admin-1")
	assert.ErrorIs(t, err, ErrEmptyScopes)

	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// TestPurpose: Validates revocation of an active delegation.
// Scope: Unit Test
// Expected: The conditional transition runs and the revocation is audited.
// Test Case ID: DEL-05
func TestDelegation_Service_Revoke(t *testing.T) {
	repo := new(mockRepo)
	auditLogger := new(mockAudit)
	service := NewService(repo, auditLogger)
	ctx := context.Background()

	active := &Delegation{
		ID:            "del-1",
		DelegateOrgID: "partner-1",
		TargetOrgID:   "client-1",
		Status:        StatusActive,
	}
	revokedBy := "admin-1"
	revokedCopy := *active
	revokedCopy.Status = StatusRevoked
	revokedCopy.RevokedBy = &revokedBy

	repo.On("GetByID", ctx, "del-1").Return(active, nil)
	repo.On("MarkRevoked", ctx, "del-1", revokedBy, mock.AnythingOfType("time.Time")).Return(&revokedCopy, nil)
	auditLogger.On("Log", ctx, mock.MatchedBy(func(e audit.Event) bool {
		return e.Type == audit.TypeDelegationRevoked && e.Payload["delegation_id"] == "del-1"
	})).Return()

	d, err := service.Revoke(ctx, "del-1", revokedBy)
	assert.NoError(t, err)
	assert.Equal(t, StatusRevoked, d.Status)
	auditLogger.AssertExpectations(t)
}

// TestPurpose: Validates revocation conflicts on finalized delegations.
// Scope: Unit Test
// Expected: Already-revoked and lazily-expired delegations both fail with ErrAlreadyFinalized.
// Test Case ID: DEL-06
func TestDelegation_Service_Revoke_AlreadyFinalized(t *testing.T) {
	repo := new(mockRepo)
	service := NewService(repo, new(mockAudit))
	ctx := context.Background()

	repo.On("GetByID", ctx, "del-revoked").Return(&Delegation{
		ID:     "del-revoked",
		Status: StatusRevoked,
	}, nil)

	_, err := service.Revoke(ctx, "del-revoked", "admin-1")
	assert.ErrorIs(t, err, ErrAlreadyFinalized)

	// Stored status is still active, but the expiry has passed.
	past := time.Now().Add(-time.Hour)
	repo.On("GetByID", ctx, "del-expired").Return(&Delegation{
		ID:        "del-expired",
		Status:    StatusActive,
		ExpiresAt: &past,
	}, nil)

	_, err = service.Revoke(ctx, "del-expired", "admin-1")
	assert.ErrorIs(t, err, ErrAlreadyFinalized)

	repo.AssertNotCalled(t, "MarkRevoked", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// TestPurpose: Validates active grant computation between an org pair.
// Scope: Unit Test
// Expected: Scopes union over effectively active delegations only; revoked and expired rows contribute nothing.
// Test Case ID: DEL-07
func TestDelegation_Service_ActiveGrants(t *testing.T) {
	repo := new(mockRepo)
	service := NewService(repo, new(mockAudit))
	ctx := context.Background()
	now := time.Now()
	past := now.Add(-time.Minute)
	future := now.Add(time.Hour)

	repo.On("ListBetween", ctx, "partner-1", "client-1").Return([]*Delegation{
		{Status: StatusActive, Scopes: []string{"listings:read"}},
		{Status: StatusActive, ExpiresAt: &future, Scopes: []string{"contacts:read"}},
		{Status: StatusRevoked, Scopes: []string{"listings:write"}},
		{Status: StatusActive, ExpiresAt: &past, Scopes: []string{"contacts:write"}},
	}, nil)

	grants, err := service.ActiveGrants(ctx, "partner-1", "client-1", now)
	assert.NoError(t, err)
	assert.True(t, grants["listings:read"])
	assert.True(t, grants["contacts:read"])
	assert.False(t, grants["listings:write"])
	assert.False(t, grants["contacts:write"])
	assert.Len(t, grants, 2)
}

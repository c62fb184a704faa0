package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/immocore/immocore/internal/access"
	"github.com/immocore/immocore/internal/membership"
	"github.com/immocore/immocore/internal/org"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDirectory struct {
	orgs map[string]*org.Organization
}

func (f *fakeDirectory) Get(ctx context.Context, id string) (*org.Organization, error) {
	o, ok := f.orgs[id]
	if !ok {
		return nil, org.ErrNotFound
	}
	return o, nil
}

func (f *fakeDirectory) AncestorsOf(ctx context.Context, id string) ([]*org.Organization, error) {
	return nil, nil
}

type fakeMemberships struct {
	roles map[string]membership.Role
}

func (f *fakeMemberships) IsPlatformAdmin(ctx context.Context, principalID string) (bool, error) {
	return false, nil
}

func (f *fakeMemberships) RoleOf(ctx context.Context, principalID, tenantID string) (membership.Role, bool, error) {
	role, ok := f.roles[principalID+"/"+tenantID]
	return role, ok, nil
}

func (f *fakeMemberships) ListForPrincipal(ctx context.Context, principalID string) ([]*membership.Membership, error) {
	return nil, nil
}

type fakeGrants struct{}

func (f *fakeGrants) ActiveGrants(ctx context.Context, delegateOrgID, targetOrgID string, now time.Time) (map[string]bool, error) {
	return nil, nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	dir := &fakeDirectory{orgs: map[string]*org.Organization{
		"client-1": {ID: "client-1", OrgType: org.TypeClient, Depth: 0, MaterializedPath: org.RootPath},
	}}
	members := &fakeMemberships{roles: map[string]membership.Role{
		"user-1/client-1": membership.RoleMember,
	}}
	resolver := access.NewResolver(dir, members, &fakeGrants{}, access.DefaultPolicy())

	handler := NewHandler(nil, nil, nil, resolver)
	return NewRouter(handler, NewRateLimiter(100, 100))
}

// TestPurpose: Validates liveness and readiness probes bypass principal identification.
// Scope: Integration Test
// Expected: Both endpoints return 200 without X-Principal-ID.
// Test Case ID: HTTP-01
func TestRouter_HealthEndpoints(t *testing.T) {
	router := newTestRouter(t)

	for _, path := range []string{"/health", "/ready"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}

// TestPurpose: Validates the API surface requires a pre-authenticated principal.
// Scope: Integration Test
// Expected: Requests without X-Principal-ID are rejected with 401.
// Test Case ID: HTTP-02
func TestRouter_RequiresPrincipal(t *testing.T) {
	router := newTestRouter(t)

	body := bytes.NewBufferString(`{"target_org_id":"client-1","scope":"listings:read"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/access/resolve", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// TestPurpose: Validates the resolve endpoint returns decisions for allow and deny alike.
// Scope: Integration Test
// Expected: 200 with the decision body in both outcomes; deny carries no_grant_found.
// Test Case ID: HTTP-03
func TestRouter_Resolve(t *testing.T) {
	router := newTestRouter(t)

	resolve := func(principal, target, scope string) access.Decision {
		payload, err := json.Marshal(map[string]string{
			"target_org_id": target,
			"scope":         scope,
		})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/access/resolve", bytes.NewReader(payload))
		req.Header.Set(PrincipalHeader, principal)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var decision access.Decision
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&decision))
		return decision
	}

	allowed := resolve("user-1", "client-1", "listings:read")
	assert.True(t, allowed.Allowed)
	assert.Equal(t, access.ReasonDirectMembership, allowed.Reason)

	denied := resolve("stranger", "client-1", "listings:read")
	assert.False(t, denied.Allowed)
	assert.Equal(t, access.ReasonNoGrantFound, denied.Reason)
}

// TestPurpose: Validates malformed and incomplete resolve queries are rejected.
// Scope: Integration Test
// Expected: 400 on invalid JSON and on missing required fields.
// Test Case ID: HTTP-04
func TestRouter_Resolve_BadRequest(t *testing.T) {
	router := newTestRouter(t)

	for _, body := range []string{`not json`, `{"scope":"listings:read"}`} {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/access/resolve", bytes.NewBufferString(body))
		req.Header.Set(PrincipalHeader, "user-1")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	}
}

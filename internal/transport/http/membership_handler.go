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

package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/immocore/immocore/internal/membership"
	"github.com/immocore/immocore/internal/org"
)

// AssignMembershipRequest represents a role assignment
type AssignMembershipRequest struct {
	Role string `json:"role" binding:"required" example:"org_admin"`
}

// AssignMembership handles assigning or changing a principal's role in a tenant
// @Summary Assign Membership
// @Description Upsert the principal's membership in the tenant
// @Tags Membership
// @Accept json
// @Produce json
// @Param tenantID path string true "Tenant (organization) ID"
// @Param principalID path string true "Principal ID"
// @Param request body AssignMembershipRequest true "Role"
// @Success 200 {object} membership.Membership
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /orgs/{tenantID}/members/{principalID} [put]
func (h *Handler) AssignMembership(w http.ResponseWriter, r *http.Request) {
	tenantID := chi.URLParam(r, "tenantID")
	principalID := chi.URLParam(r, "principalID")

	var req AssignMembershipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Role == "" {
		respondError(w, http.StatusBadRequest, "role is required")
		return
	}

	if !h.authorize(w, r, tenantID, org.ScopeManage) {
		return
	}

	m, err := h.membershipService.Assign(r.Context(), principalID, tenantID, membership.Role(req.Role), GetPrincipalID(r.Context()))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, m)
}

// RevokeMembership handles removing a principal's membership
// @Summary Revoke Membership
// @Description Delete the principal's membership; all access is removed instantly
// @Tags Membership
// @Produce json
// @Param tenantID path string true "Tenant (organization) ID"
// @Param principalID path string true "Principal ID"
// @Success 204
// @Failure 403 {object} map[string]string
// @Router /orgs/{tenantID}/members/{principalID} [delete]
func (h *Handler) RevokeMembership(w http.ResponseWriter, r *http.Request) {
	tenantID := chi.URLParam(r, "tenantID")
	principalID := chi.URLParam(r, "principalID")

	if !h.authorize(w, r, tenantID, org.ScopeManage) {
		return
	}

	if err := h.membershipService.Revoke(r.Context(), principalID, tenantID, GetPrincipalID(r.Context())); err != nil {
		respondDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListMembers handles listing a tenant's memberships
// @Summary List Members
// @Tags Membership
// @Produce json
// @Param tenantID path string true "Tenant (organization) ID"
// @Success 200 {array} membership.Membership
// @Router /orgs/{tenantID}/members [get]
func (h *Handler) ListMembers(w http.ResponseWriter, r *http.Request) {
	tenantID := chi.URLParam(r, "tenantID")

	if !h.authorize(w, r, tenantID, org.ScopeManage) {
		return
	}

	members, err := h.membershipService.ListForTenant(r.Context(), tenantID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	if members == nil {
		members = []*membership.Membership{}
	}
	respondJSON(w, http.StatusOK, members)
}

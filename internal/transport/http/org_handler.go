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
	"github.com/immocore/immocore/internal/org"
)

// CreateOrganizationRequest represents organization creation data
type CreateOrganizationRequest struct {
	ParentID *string `json:"parent_id" example:"0192f3a1-..."`
	OrgType  string  `json:"org_type" binding:"required" example:"partner"`
	Name     string  `json:"name" binding:"required" example:"Acme Partner GmbH"`
	Slug     string  `json:"slug" binding:"required" example:"acme-partner"`
}

// CreateOrganization handles organization creation
// @Summary Create Organization
// @Description Create a new organization in the tenant hierarchy
// @Tags Organization
// @Accept json
// @Produce json
// @Param request body CreateOrganizationRequest true "Organization Data"
// @Success 201 {object} org.Organization
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /orgs [post]
func (h *Handler) CreateOrganization(w http.ResponseWriter, r *http.Request) {
	var req CreateOrganizationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" || req.Slug == "" || req.OrgType == "" {
		respondError(w, http.StatusBadRequest, "name, slug and org_type are required")
		return
	}

	// Root creation has no parent to resolve against; only a platform
	// admin clears the resolver there.
	targetOrgID := ""
	if req.ParentID != nil {
		targetOrgID = *req.ParentID
	}
	if !h.authorize(w, r, targetOrgID, org.ScopeManage) {
		return
	}

	o, err := h.orgService.Create(r.Context(), req.ParentID, org.OrgType(req.OrgType), req.Name, req.Slug, GetPrincipalID(r.Context()))
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, o)
}

// ListOrganizations handles organization listing
// @Summary List Organizations
// @Description List organizations with optional type and search filters
// @Tags Organization
// @Produce json
// @Param type query string false "Org type filter"
// @Param search query string false "Name/slug search"
// @Success 200 {array} org.Organization
// @Router /orgs [get]
func (h *Handler) ListOrganizations(w http.ResponseWriter, r *http.Request) {
	filter := org.ListFilter{Search: r.URL.Query().Get("search")}
	if t := r.URL.Query().Get("type"); t != "" {
		orgType := org.OrgType(t)
		if !orgType.Valid() {
			respondError(w, http.StatusBadRequest, "unknown org type")
			return
		}
		filter.Type = &orgType
	}

	orgs, err := h.orgService.List(r.Context(), filter)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	if orgs == nil {
		orgs = []*org.Organization{}
	}
	respondJSON(w, http.StatusOK, orgs)
}

// GetOrganization handles fetching a single organization
// @Summary Get Organization
// @Tags Organization
// @Produce json
// @Param orgID path string true "Organization ID"
// @Success 200 {object} org.Organization
// @Failure 404 {object} map[string]string
// @Router /orgs/{orgID} [get]
func (h *Handler) GetOrganization(w http.ResponseWriter, r *http.Request) {
	o, err := h.orgService.Get(r.Context(), chi.URLParam(r, "orgID"))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, o)
}

// UpdateOrganizationRequest represents a partial organization update.
// Immutable fields are accepted in the body so that attempts to change them
// are rejected explicitly instead of being dropped.
type UpdateOrganizationRequest struct {
	Name             *string `json:"name"`
	Slug             *string `json:"slug"`
	OrgType          *string `json:"org_type"`
	ParentID         *string `json:"parent_id"`
	Depth            *int    `json:"depth"`
	MaterializedPath *string `json:"materialized_path"`
}

// UpdateOrganization handles updates of the mutable descriptive fields
// @Summary Update Organization
// @Description Update name/slug; immutable fields are rejected
// @Tags Organization
// @Accept json
// @Produce json
// @Param orgID path string true "Organization ID"
// @Param request body UpdateOrganizationRequest true "Update Data"
// @Success 200 {object} org.Organization
// @Failure 400 {object} map[string]string
// @Router /orgs/{orgID} [patch]
func (h *Handler) UpdateOrganization(w http.ResponseWriter, r *http.Request) {
	orgID := chi.URLParam(r, "orgID")

	var req UpdateOrganizationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if !h.authorize(w, r, orgID, org.ScopeManage) {
		return
	}

	update := org.OrganizationUpdate{
		Name:             req.Name,
		Slug:             req.Slug,
		ParentID:         req.ParentID,
		Depth:            req.Depth,
		MaterializedPath: req.MaterializedPath,
	}
	if req.OrgType != nil {
		orgType := org.OrgType(*req.OrgType)
		update.OrgType = &orgType
	}

	o, err := h.orgService.Update(r.Context(), orgID, update)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, o)
}

// SetLockdownRequest represents a lockdown toggle
type SetLockdownRequest struct {
	Blocked bool   `json:"blocked"`
	Reason  string `json:"reason" example:"partner offboarding"`
}

// SetLockdown handles toggling parent_access_blocked
// @Summary Set Lockdown
// @Description Block or unblock inherited ancestor access to this organization
// @Tags Organization
// @Accept json
// @Produce json
// @Param orgID path string true "Organization ID"
// @Param request body SetLockdownRequest true "Lockdown Data"
// @Success 200 {object} org.Organization
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /orgs/{orgID}/lockdown [put]
func (h *Handler) SetLockdown(w http.ResponseWriter, r *http.Request) {
	orgID := chi.URLParam(r, "orgID")

	var req SetLockdownRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if !h.authorize(w, r, orgID, org.ScopeManage) {
		return
	}

	o, err := h.orgService.SetLockdown(r.Context(), orgID, req.Blocked, GetPrincipalID(r.Context()), req.Reason)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, o)
}

// ListAncestors handles fetching an organization's ancestor chain
// @Summary List Ancestors
// @Description List an organization's ancestors, root first
// @Tags Organization
// @Produce json
// @Param orgID path string true "Organization ID"
// @Success 200 {array} org.Organization
// @Failure 404 {object} map[string]string
// @Router /orgs/{orgID}/ancestors [get]
func (h *Handler) ListAncestors(w http.ResponseWriter, r *http.Request) {
	ancestors, err := h.orgService.AncestorsOf(r.Context(), chi.URLParam(r, "orgID"))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	if ancestors == nil {
		ancestors = []*org.Organization{}
	}
	respondJSON(w, http.StatusOK, ancestors)
}

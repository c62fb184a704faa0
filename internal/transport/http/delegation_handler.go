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
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/immocore/immocore/internal/delegation"
)

// CreateDelegationRequest represents delegation creation data
type CreateDelegationRequest struct {
	DelegateOrgID string     `json:"delegate_org_id" binding:"required"`
	TargetOrgID   string     `json:"target_org_id" binding:"required"`
	Scopes        []string   `json:"scopes" binding:"required" example:"listings:read,contacts:read"`
	ExpiresAt     *time.Time `json:"expires_at"`
}

// CreateDelegation handles delegation creation
// @Summary Create Delegation
// @Description Grant scoped access from one organization onto another
// @Tags Delegation
// @Accept json
// @Produce json
// @Param request body CreateDelegationRequest true "Delegation Data"
// @Success 201 {object} delegation.Delegation
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /delegations [post]
func (h *Handler) CreateDelegation(w http.ResponseWriter, r *http.Request) {
	var req CreateDelegationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.DelegateOrgID == "" || req.TargetOrgID == "" {
		respondError(w, http.StatusBadRequest, "delegate_org_id and target_org_id are required")
		return
	}

	// Who may delegate is itself an access question, resolved against the
	// target org with the reserved scope.
	if !h.authorize(w, r, req.TargetOrgID, delegation.ScopeManage) {
		return
	}

	d, err := h.delegationService.Create(r.Context(), req.DelegateOrgID, req.TargetOrgID, req.Scopes, req.ExpiresAt, GetPrincipalID(r.Context()))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, d)
}

// ListDelegations handles delegation listing
// @Summary List Delegations
// @Tags Delegation
// @Produce json
// @Param delegate query string false "Delegate org filter"
// @Param target query string false "Target org filter"
// @Success 200 {array} delegation.Delegation
// @Router /delegations [get]
func (h *Handler) ListDelegations(w http.ResponseWriter, r *http.Request) {
	filter := delegation.ListFilter{
		DelegateOrgID: r.URL.Query().Get("delegate"),
		TargetOrgID:   r.URL.Query().Get("target"),
	}

	delegations, err := h.delegationService.List(r.Context(), filter)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	if delegations == nil {
		delegations = []*delegation.Delegation{}
	}
	respondJSON(w, http.StatusOK, delegations)
}

// RevokeDelegation handles revoking an active delegation
// @Summary Revoke Delegation
// @Description Transition an active delegation to revoked; already finalized delegations conflict
// @Tags Delegation
// @Produce json
// @Param delegationID path string true "Delegation ID"
// @Success 200 {object} delegation.Delegation
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /delegations/{delegationID}/revoke [post]
func (h *Handler) RevokeDelegation(w http.ResponseWriter, r *http.Request) {
	delegationID := chi.URLParam(r, "delegationID")

	d, err := h.delegationService.Get(r.Context(), delegationID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	if !h.authorize(w, r, d.TargetOrgID, delegation.ScopeManage) {
		return
	}

	revoked, err := h.delegationService.Revoke(r.Context(), delegationID, GetPrincipalID(r.Context()))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, revoked)
}

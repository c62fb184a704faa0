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
)

// ResolveRequest represents an access resolution query. PrincipalID defaults
// to the caller; supplying another principal lets admin tooling answer
// "would this user get in" questions.
type ResolveRequest struct {
	PrincipalID string `json:"principal_id"`
	TargetOrgID string `json:"target_org_id" binding:"required"`
	Scope       string `json:"scope" binding:"required" example:"listings:read"`
}

// Resolve handles access resolution
// @Summary Resolve Access
// @Description Decide whether a principal may exercise a scope against an organization
// @Tags Access
// @Accept json
// @Produce json
// @Param request body ResolveRequest true "Resolution Query"
// @Success 200 {object} access.Decision
// @Failure 400 {object} map[string]string
// @Router /access/resolve [post]
func (h *Handler) Resolve(w http.ResponseWriter, r *http.Request) {
	var req ResolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.TargetOrgID == "" || req.Scope == "" {
		respondError(w, http.StatusBadRequest, "target_org_id and scope are required")
		return
	}

	principalID := req.PrincipalID
	if principalID == "" {
		principalID = GetPrincipalID(r.Context())
	}

	decision, err := h.resolver.Resolve(r.Context(), principalID, req.TargetOrgID, req.Scope, time.Now())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "resolution failed")
		return
	}

	// Deny is a normal outcome, not an error status.
	respondJSON(w, http.StatusOK, decision)
}

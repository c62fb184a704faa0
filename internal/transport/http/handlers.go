// @title Immocore Authorization API
// @version 1.0.0
// @description Hierarchical multi-tenant authorization core
// @host localhost:8080
// @BasePath /api/v1

package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/immocore/immocore/internal/access"
	"github.com/immocore/immocore/internal/delegation"
	"github.com/immocore/immocore/internal/membership"
	"github.com/immocore/immocore/internal/org"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Handler holds HTTP handlers and dependencies
type Handler struct {
	orgService        *org.Service
	membershipService *membership.Service
	delegationService *delegation.Service
	resolver          *access.Resolver
}

// NewHandler creates a new HTTP handler
func NewHandler(
	orgService *org.Service,
	membershipService *membership.Service,
	delegationService *delegation.Service,
	resolver *access.Resolver,
) *Handler {
	return &Handler{
		orgService:        orgService,
		membershipService: membershipService,
		delegationService: delegationService,
		resolver:          resolver,
	}
}

// NewRouter creates a new HTTP router
func NewRouter(h *Handler, rateLimiter *RateLimiter) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(RateLimitMiddleware(rateLimiter))
	r.Use(func(handler http.Handler) http.Handler {
		return otelhttp.NewHandler(handler, "http_request",
			otelhttp.WithSpanNameFormatter(func(operation string, r *http.Request) string {
				return r.Method + " " + r.URL.Path
			}),
		)
	})
	r.Use(LoggingMiddleware())
	r.Use(PrincipalMiddleware)

	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(RequirePrincipal)

			r.Route("/orgs", func(r chi.Router) {
				r.Post("/", h.CreateOrganization)
				r.Get("/", h.ListOrganizations)
				r.Get("/{orgID}", h.GetOrganization)
				r.Patch("/{orgID}", h.UpdateOrganization)
				r.Put("/{orgID}/lockdown", h.SetLockdown)
				r.Get("/{orgID}/ancestors", h.ListAncestors)

				r.Put("/{tenantID}/members/{principalID}", h.AssignMembership)
				r.Delete("/{tenantID}/members/{principalID}", h.RevokeMembership)
				r.Get("/{tenantID}/members", h.ListMembers)
			})

			r.Route("/delegations", func(r chi.Router) {
				r.Post("/", h.CreateDelegation)
				r.Get("/", h.ListDelegations)
				r.Post("/{delegationID}/revoke", h.RevokeDelegation)
			})

			r.Post("/access/resolve", h.Resolve)
		})
	})

	return r
}

// Health handles liveness checks
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready handles readiness checks
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// authorize consults the resolver before a protected mutation. Deny renders
// as 403; only store failures surface as 500.
func (h *Handler) authorize(w http.ResponseWriter, r *http.Request, targetOrgID, scope string) bool {
	decision, err := h.resolver.Resolve(r.Context(), GetPrincipalID(r.Context()), targetOrgID, scope, time.Now())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "authorization check failed")
		return false
	}
	if !decision.Allowed {
		respondError(w, http.StatusForbidden, "access denied")
		return false
	}
	return true
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}

// respondDomainError maps domain sentinel errors onto HTTP statuses
func respondDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, org.ErrNotFound),
		errors.Is(err, delegation.ErrNotFound),
		errors.Is(err, membership.ErrNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, delegation.ErrAlreadyFinalized):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, org.ErrParentNotFound),
		errors.Is(err, org.ErrRootMustBeInternal),
		errors.Is(err, org.ErrDisallowedChildType),
		errors.Is(err, org.ErrImmutableField),
		errors.Is(err, org.ErrRootLockdown),
		errors.Is(err, org.ErrSlugTaken),
		errors.Is(err, org.ErrInvalidOrgType),
		errors.Is(err, membership.ErrInvalidRole),
		errors.Is(err, delegation.ErrSelfDelegation),
		errors.Is(err, delegation.ErrEmptyScopes):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}

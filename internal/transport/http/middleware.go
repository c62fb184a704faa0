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
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/immocore/immocore/internal/observability/logger"
)

// Authentication is the caller's concern: upstream has already verified the
// principal and forwards its id in X-Principal-ID. This layer never mints or
// validates credentials, it only carries the id into context so that every
// service call receives the principal explicitly instead of reading ambient
// session state.

// PrincipalHeader carries the pre-authenticated principal id
const PrincipalHeader = "X-Principal-ID"

// LoggingMiddleware logs HTTP requests
func LoggingMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Log request start
			slog.InfoContext(r.Context(), "http_request_start",
				logger.RequestID(middleware.GetReqID(r.Context())),
				logger.Method(r.Method),
				logger.Path(r.URL.Path),
				logger.RemoteAddr(r.RemoteAddr),
			)

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				slog.InfoContext(r.Context(), "http_request_end",
					logger.RequestID(middleware.GetReqID(r.Context())),
					logger.Method(r.Method),
					logger.Path(r.URL.Path),
					logger.RemoteAddr(r.RemoteAddr),
					logger.UserAgent(r.UserAgent()),
					logger.StatusCode(ww.Status()),
					logger.Duration(time.Since(start).Milliseconds()),
				)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}

// PrincipalMiddleware copies the X-Principal-ID header into the request
// context. Requests without the header pass through anonymous; handlers that
// require a principal enforce it via RequirePrincipal.
func PrincipalMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if principalID := r.Header.Get(PrincipalHeader); principalID != "" {
			r = r.WithContext(WithPrincipalID(r.Context(), principalID))
		}
		next.ServeHTTP(w, r)
	})
}

// RequirePrincipal enforces that a principal is present on the request.
func RequirePrincipal(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetPrincipalID(r.Context()) == "" {
			respondError(w, http.StatusUnauthorized, "X-Principal-ID header is required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

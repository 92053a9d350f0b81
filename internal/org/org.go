// Package org scopes requests to a restaurant. Every domain store keys its
// rows by org id; the resolver middleware decides which org a request acts on.
package org

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/Hitarth2510/thrive-backend/internal/common"
)

// HeaderOrgID lets master admins act on behalf of another restaurant.
const HeaderOrgID = "X-Org-ID"

type ctxKey struct{}

// WithOrg stores the resolved org id on the context.
func WithOrg(ctx context.Context, orgID uuid.UUID) context.Context {
	return context.WithValue(ctx, ctxKey{}, orgID)
}

// FromContext extracts the resolved org id.
func FromContext(ctx context.Context) (uuid.UUID, bool) {
	v, ok := ctx.Value(ctxKey{}).(uuid.UUID)
	if !ok || v == uuid.Nil {
		return uuid.Nil, false
	}
	return v, true
}

// MustFromContext returns the org id or uuid.Nil when absent. Handlers behind
// the resolver can rely on it being set.
func MustFromContext(ctx context.Context) uuid.UUID {
	id, _ := FromContext(ctx)
	return id
}

// Resolver derives the acting org from the authenticated identity. Master
// admins may override it with the X-Org-ID header; everyone else is pinned to
// their own restaurant.
func Resolver(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := common.IdentityFromContext(r.Context())
		if !ok {
			common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
			return
		}
		orgID, err := uuid.Parse(identity.OrgID)
		if err != nil {
			common.JSONError(w, http.StatusForbidden, "FORBIDDEN", "no restaurant associated with this account", nil)
			return
		}
		if header := strings.TrimSpace(r.Header.Get(HeaderOrgID)); header != "" {
			if identity.Role != "master_admin" {
				common.JSONError(w, http.StatusForbidden, "FORBIDDEN", "only master admins may act on another restaurant", nil)
				return
			}
			override, err := uuid.Parse(header)
			if err != nil {
				common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid X-Org-ID header", nil)
				return
			}
			orgID = override
		}
		next.ServeHTTP(w, r.WithContext(WithOrg(r.Context(), orgID)))
	})
}

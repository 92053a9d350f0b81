package org

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/Hitarth2510/thrive-backend/internal/common"
)

func resolveWith(t *testing.T, identity common.Identity, header string) (*httptest.ResponseRecorder, uuid.UUID) {
	t.Helper()
	var resolved uuid.UUID
	h := Resolver(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resolved = MustFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))
	req := httptest.NewRequest(http.MethodGet, "/pos/products", nil)
	req = req.WithContext(common.WithIdentity(req.Context(), identity))
	if header != "" {
		req.Header.Set(HeaderOrgID, header)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec, resolved
}

func TestResolverUsesIdentityOrg(t *testing.T) {
	own := uuid.New()
	rec, resolved := resolveWith(t, common.Identity{UserID: uuid.NewString(), Role: "staff", OrgID: own.String()}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, own, resolved)
}

func TestResolverMasterAdminHeaderOverride(t *testing.T) {
	other := uuid.New()
	rec, resolved := resolveWith(t, common.Identity{UserID: uuid.NewString(), Role: "master_admin", OrgID: uuid.NewString()}, other.String())
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, other, resolved)
}

func TestResolverRejectsOverrideForStaff(t *testing.T) {
	rec, _ := resolveWith(t, common.Identity{UserID: uuid.NewString(), Role: "staff", OrgID: uuid.NewString()}, uuid.NewString())
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestResolverRequiresIdentity(t *testing.T) {
	h := Resolver(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/pos/products", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

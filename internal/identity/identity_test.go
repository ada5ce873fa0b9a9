package identity

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRoleRoundTrip(t *testing.T) {
	for _, r := range []Role{RoleCustomer, RoleProvider, RoleManager, RoleAdmin, RoleSuperAdmin} {
		got, err := ParseRole(r.String())
		require.NoError(t, err)
		assert.Equal(t, r, got)
	}

	_, err := ParseRole("unknown")
	assert.ErrorIs(t, err, ErrUnknownRole)
	_, err = ParseRole("root")
	assert.ErrorIs(t, err, ErrUnknownRole)
}

func TestIsStaff(t *testing.T) {
	assert.False(t, RoleCustomer.IsStaff())
	assert.False(t, RoleProvider.IsStaff())
	assert.True(t, RoleManager.IsStaff())
	assert.True(t, RoleAdmin.IsStaff())
	assert.True(t, RoleSuperAdmin.IsStaff())
}

func TestMiddleware(t *testing.T) {
	var seen Actor
	h := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = FromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	t.Run("missing actor -> 401", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("bad role -> 401", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(HeaderActorID, "u1")
		req.Header.Set(HeaderActorRole, "wizard")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("actor in context", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		SetHeaders(req, Actor{ID: "u1", Role: RoleManager})
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, Actor{ID: "u1", Role: RoleManager}, seen)
	})
}

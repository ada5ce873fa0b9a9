package identity

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dwikikusuma/storefront-ops/pkg/httpx"
)

// Role is the closed set of actor roles.
type Role uint8

const (
	RoleUnknown Role = iota
	RoleCustomer
	RoleProvider
	RoleManager
	RoleAdmin
	RoleSuperAdmin
)

var roleNames = [...]string{
	RoleUnknown:    "unknown",
	RoleCustomer:   "customer",
	RoleProvider:   "provider",
	RoleManager:    "manager",
	RoleAdmin:      "admin",
	RoleSuperAdmin: "super_admin",
}

func (r Role) String() string {
	if int(r) < len(roleNames) {
		return roleNames[r]
	}
	return roleNames[RoleUnknown]
}

var ErrUnknownRole = errors.New("unknown role")

func ParseRole(s string) (Role, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range roleNames {
		if i != int(RoleUnknown) && name == s {
			return Role(i), nil
		}
	}
	return RoleUnknown, ErrUnknownRole
}

// IsStaff reports whether the role belongs to the operations side that may
// issue requirements and approve invoices.
func (r Role) IsStaff() bool {
	return r == RoleManager || r == RoleAdmin || r == RoleSuperAdmin
}

type Actor struct {
	ID   string
	Role Role
}

type ctxKey struct{}

func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, ctxKey{}, a)
}

func FromContext(ctx context.Context) (Actor, bool) {
	a, ok := ctx.Value(ctxKey{}).(Actor)
	return a, ok
}

const (
	HeaderActorID   = "X-Actor-Id"
	HeaderActorRole = "X-Actor-Role"
)

// Middleware trusts the actor headers stamped by the upstream auth gateway.
// Requests without them are rejected with 401.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(HeaderActorID))
		if id == "" {
			httpx.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing actor", nil)
			return
		}
		role, err := ParseRole(r.Header.Get(HeaderActorRole))
		if err != nil {
			httpx.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", err.Error(), nil)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), Actor{ID: id, Role: role})))
	})
}

// SetHeaders stamps a on an outgoing request.
func SetHeaders(r *http.Request, a Actor) {
	r.Header.Set(HeaderActorID, a.ID)
	r.Header.Set(HeaderActorRole, a.Role.String())
}

package auth

import (
	"context"

	"github.com/golang-jwt/jwt/v4"
	"github.com/pkg/errors"
)

const (
	XUserIDHeader   = "X-User-Id"
	XUserRoleHeader = "X-User-Role"
)

// Role is the closed set of caller roles. Handlers check capabilities
// through Role methods, never raw strings.
type Role string

const (
	RoleStudent   Role = "student"
	RoleLibrarian Role = "librarian"
	RoleAdmin     Role = "admin"
)

func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleStudent, RoleLibrarian, RoleAdmin:
		return r, nil
	}
	return "", errors.Errorf("unknown role %q", s)
}

// CanManageLibrary reports whether the role may mutate the catalog,
// decide borrow requests and reconcile fines.
func (r Role) CanManageLibrary() bool {
	return r == RoleLibrarian || r == RoleAdmin
}

func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

type Claims struct {
	Profile struct {
		UserID int  `json:"id"`
		Role   Role `json:"role"`
	} `json:"profile"`
	jwt.RegisteredClaims
}

type contextKey int

const (
	userIDKey contextKey = iota + 1
	roleKey
)

func SetAuthContext(ctx context.Context, userID int, role Role) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	return context.WithValue(ctx, roleKey, role)
}

func GetUserID(ctx context.Context) (int, error) {
	id, ok := ctx.Value(userIDKey).(int)
	if !ok {
		return 0, errors.New("no user id in context")
	}
	return id, nil
}

func GetRole(ctx context.Context) (Role, error) {
	role, ok := ctx.Value(roleKey).(Role)
	if !ok {
		return "", errors.New("no role in context")
	}
	return role, nil
}

package rbac

import "go-timetrack/internal/domain"

// EnforceRequest aliases the shared domain tuple so callers inside this
// package do not need to import domain directly.
type EnforceRequest = domain.EnforceRequest

type UserRole struct {
	UserID string
	RoleID string
}

type RolePermission struct {
	RoleID   string
	Resource string
	Action   string
}

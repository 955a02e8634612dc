package usecase

import (
	"github.com/google/uuid"
)

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleCleaner Role = "cleaner"
	RoleClient  Role = "client"
)

func ParseRole(s string) (Role, bool) {
	switch r := Role(s); r {
	case RoleAdmin, RoleCleaner, RoleClient:
		return r, true
	}
	return "", false
}

// Actor is the caller of an operation. For cleaners ID is the team member
// id, for clients the client id.
type Actor struct {
	ID   uuid.UUID
	Role Role
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

func requireAdmin(actor Actor, action string) error {
	if !actor.IsAdmin() {
		return authorizationError("only an admin may %s", action)
	}
	return nil
}

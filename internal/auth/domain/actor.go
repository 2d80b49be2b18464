package domain

import (
	"strings"

	"github.com/bwmarrin/snowflake"
)

// Role is the coarse permission group carried by an authenticated actor.
type Role string

const (
	RoleCustomer   Role = "customer"
	RoleAdmin      Role = "admin"
	RoleFieldStaff Role = "field_staff"
	RoleBilling    Role = "billing"
	// RoleSystem is used for internal hooks and workers; it is never issued in tokens.
	RoleSystem Role = "system"
)

func ParseRole(value string) (Role, bool) {
	switch role := Role(strings.ToLower(strings.TrimSpace(value))); role {
	case RoleCustomer, RoleAdmin, RoleFieldStaff, RoleBilling:
		return role, true
	default:
		return "", false
	}
}

// Actor identifies who is performing an operation.
type Actor struct {
	ID   snowflake.ID `json:"id"`
	Role Role         `json:"role"`
}

// SystemActor is used when the engine itself drives a change.
var SystemActor = Actor{Role: RoleSystem}

func (a Actor) IsStaff() bool {
	switch a.Role {
	case RoleAdmin, RoleFieldStaff, RoleBilling, RoleSystem:
		return true
	default:
		return false
	}
}

func (a Actor) HasRole(roles ...Role) bool {
	for _, role := range roles {
		if a.Role == role {
			return true
		}
	}
	return false
}

// IDString renders the actor id for audit records; the system actor has none.
func (a Actor) IDString() string {
	if a.ID == 0 {
		return ""
	}
	return a.ID.String()
}

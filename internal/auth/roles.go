package auth

import (
	"strings"

	"github.com/frahmantamala/epic-crm/internal/core/datamodel/user"
)

// Roles is the set of roles an operation accepts.
type Roles []user.Role

func AllRoles() Roles {
	return append(Roles(nil), user.Roles...)
}

func Only(roles ...user.Role) Roles {
	return Roles(roles)
}

func (r Roles) Contains(role user.Role) bool {
	for _, allowed := range r {
		if allowed == role {
			return true
		}
	}
	return false
}

func (r Roles) Strings() []string {
	out := make([]string, len(r))
	for i, role := range r {
		out[i] = string(role)
	}
	return out
}

func (r Roles) String() string {
	titles := make([]string, len(r))
	for i, role := range r {
		titles[i] = role.Title()
	}
	return strings.Join(titles, " | ")
}

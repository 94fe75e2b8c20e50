package authority

import "strings"

type Role string

const (
	RoleTech = Role("tech")
	RoleBoss = Role("boss")
)

func (r Role) Valid() bool {
	switch r {
	case RoleTech, RoleBoss:
		return true
	default:
		return false
	}
}

func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	return r, r.Valid()
}

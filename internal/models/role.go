package models

import "fmt"

// Role is the access level a user holds on a bill.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleViewer Role = "viewer"
)

// Capabilities lists what a role may do on a bill.
type Capabilities struct {
	RecordPayment bool
	Share         bool
	RemoveViewer  bool
}

// Viewers may record payments but not manage access.
var capabilities = map[Role]Capabilities{
	RoleOwner:  {RecordPayment: true, Share: true, RemoveViewer: true},
	RoleViewer: {RecordPayment: true},
}

// Capabilities returns the capability set of r. Unknown roles can do nothing.
func (r Role) Capabilities() Capabilities {
	return capabilities[r]
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	_, ok := capabilities[r]
	return ok
}

// rank orders roles from weakest to strongest.
func (r Role) rank() int {
	switch r {
	case RoleOwner:
		return 2
	case RoleViewer:
		return 1
	default:
		return 0
	}
}

// Strongest returns the most capable role in roles, or "" when roles is empty.
func Strongest(roles []Role) Role {
	var best Role
	for _, r := range roles {
		if r.rank() > best.rank() {
			best = r
		}
	}
	return best
}

// ParseRole converts a stored role string into a Role.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

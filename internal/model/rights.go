package model

// Role is a named bundle of rights.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Right is a named permission required by an operation.
type Right string

const (
	RightGetUsers    Right = "getUsers"
	RightManageUsers Right = "manageUsers"
)

// RightsTable maps roles to their rights. It is built once at startup and
// read-only afterwards.
type RightsTable map[Role][]Right

// DefaultRights returns the static role/right mapping.
func DefaultRights() RightsTable {
	return RightsTable{
		RoleAdmin: {RightGetUsers, RightManageUsers},
		RoleUser:  {},
	}
}

// RightsFor returns the rights granted to role. Unknown roles have none.
func (t RightsTable) RightsFor(role Role) []Right {
	return t[role]
}

// HasAll reports whether role holds every right in required.
func (t RightsTable) HasAll(role Role, required []Right) bool {
	granted := t[role]
	for _, req := range required {
		found := false
		for _, r := range granted {
			if r == req {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

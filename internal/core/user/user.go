package user

import "strings"

// Role is the authorization role of an account. Stored values are always one of
// the constants below; anything else read from a request or a legacy row goes
// through NormalizeRole first.
type Role string

const (
	RoleSubmitter Role = "submitter"
	RoleStaff     Role = "staff"
	RoleManager   Role = "manager"
	RoleAdmin     Role = "admin"
)

// ParseRole matches s case-insensitively against the known roles.
func ParseRole(s string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleSubmitter:
		return RoleSubmitter, true
	case RoleStaff:
		return RoleStaff, true
	case RoleManager:
		return RoleManager, true
	case RoleAdmin:
		return RoleAdmin, true
	}
	return "", false
}

// NormalizeRole maps unknown roles (for example "Civilian") to RoleSubmitter.
func NormalizeRole(s string) Role {
	if r, ok := ParseRole(s); ok {
		return r
	}
	return RoleSubmitter
}

func (r Role) String() string { return string(r) }

// SeesEverything reports whether the role has unrestricted grievance visibility.
func (r Role) SeesEverything() bool {
	return r == RoleAdmin || r == RoleManager
}

// IsPrivileged reports whether the role may update grievances it did not submit.
func (r Role) IsPrivileged() bool {
	return r == RoleAdmin || r == RoleManager || r == RoleStaff
}

// Identity is the authenticated requester as seen by services.
type Identity struct {
	ID         string
	Name       string
	Email      string
	Role       Role
	Department string
}

func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == RoleAdmin
}

package grievance

import (
	coreUser "github.com/frahmantamala/grievance-management/internal/core/user"
)

type ScopeKind int

const (
	// ScopeOwn limits a listing to grievances the requester submitted.
	ScopeOwn ScopeKind = iota
	// ScopeStaff covers grievances assigned to the requester plus the
	// non-closed grievances submitted from the requester's department.
	ScopeStaff
	// ScopeAll is unrestricted.
	ScopeAll
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeAll:
		return "all"
	case ScopeStaff:
		return "staff"
	default:
		return "own"
	}
}

// Scope is the visibility predicate of one requester. Repositories translate
// it into a WHERE clause; Matches evaluates it against a loaded row.
type Scope struct {
	Kind       ScopeKind
	UserID     string
	Department string
}

// VisibilityScope derives the listing scope from the requester's role.
// A nil identity sees nothing beyond its (empty) own scope.
func VisibilityScope(identity *coreUser.Identity) Scope {
	if identity == nil {
		return Scope{Kind: ScopeOwn}
	}

	switch {
	case identity.Role.SeesEverything():
		return Scope{Kind: ScopeAll, UserID: identity.ID}
	case identity.Role == coreUser.RoleStaff:
		return Scope{Kind: ScopeStaff, UserID: identity.ID, Department: identity.Department}
	default:
		return Scope{Kind: ScopeOwn, UserID: identity.ID}
	}
}

// Matches reports whether g falls inside the scope. submitterDepartment is the
// department of the account that submitted g.
func (s Scope) Matches(g *Grievance, submitterDepartment string) bool {
	if g == nil {
		return false
	}

	switch s.Kind {
	case ScopeAll:
		return true
	case ScopeStaff:
		if g.IsAssignedTo(s.UserID) {
			return true
		}
		return s.Department != "" && submitterDepartment == s.Department && g.Status != StatusClosed
	default:
		return s.UserID != "" && g.SubmittedBy == s.UserID
	}
}

// CanMutate reports whether identity may update g: the submitter always may,
// and so may any staff, manager or admin.
func CanMutate(identity *coreUser.Identity, g *Grievance) bool {
	if identity == nil || g == nil {
		return false
	}
	if g.SubmittedBy == identity.ID {
		return true
	}
	return identity.Role.IsPrivileged()
}

// CanView is the single-grievance read rule. It is aligned with CanMutate so
// that nobody can change a grievance they are not allowed to open.
func CanView(identity *coreUser.Identity, g *Grievance) bool {
	return CanMutate(identity, g)
}

// StatsScope selects the grievances aggregated by the statistics query.
type StatsScope struct {
	Global      bool
	SubmittedBy string
}

// StatisticsScope gives admins global figures; everyone else is limited to
// the grievances they submitted.
func StatisticsScope(identity *coreUser.Identity) StatsScope {
	if identity.IsAdmin() {
		return StatsScope{Global: true}
	}
	if identity == nil {
		return StatsScope{}
	}
	return StatsScope{SubmittedBy: identity.ID}
}

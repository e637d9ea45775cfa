// Package security provides branch visibility rules for every request.
package security

import (
	"fmt"

	"clinicstats/internal/core/apperror"
	appctx "clinicstats/internal/core/context"
	"clinicstats/internal/core/id"
)

// Role defines the caller's role.
type Role string

const (
	RoleAdmin  Role = appctx.RoleAdmin
	RoleBranch Role = appctx.RoleBranch
)

// Viewer is the request-scoped identity threaded into every aggregation call.
// It is built once per request from the validated token and passed explicitly;
// services never read it from ambient state.
type Viewer struct {
	UserID   string
	Role     Role
	BranchID *id.ID
}

// IsAdmin reports whether the viewer is an administrator.
func (v Viewer) IsAdmin() bool {
	return v.Role == RoleAdmin
}

// ViewerFromUser converts token identity into a Viewer.
// A malformed branch id is treated as "no branch", which fails closed for non-admins.
func ViewerFromUser(u *appctx.UserContext) Viewer {
	if u == nil {
		return Viewer{}
	}
	v := Viewer{UserID: u.UserID, Role: Role(u.Role)}
	if u.BranchID != "" {
		if bid, err := id.Parse(u.BranchID); err == nil {
			v.BranchID = &bid
		}
	}
	return v
}

// BranchScope is the set of branches visible to a request: all of them, exactly one,
// or none (non-admin without an assigned branch).
type BranchScope struct {
	all      bool
	branchID id.ID
	empty    bool
}

// AllBranches returns the administrator scope.
func AllBranches() BranchScope {
	return BranchScope{all: true}
}

// SingleBranch returns a scope limited to one branch.
func SingleBranch(branchID id.ID) BranchScope {
	return BranchScope{branchID: branchID}
}

// NoBranches returns the fail-closed scope.
func NoBranches() BranchScope {
	return BranchScope{empty: true}
}

// ResolveScope maps a viewer to its visible branches.
// Administrators see all branches; everyone else sees exactly their assigned branch,
// or nothing when no branch is assigned. There is no fallback to "all".
func ResolveScope(v Viewer) BranchScope {
	if v.IsAdmin() {
		return AllBranches()
	}
	if v.BranchID == nil || id.IsNil(*v.BranchID) {
		return NoBranches()
	}
	return SingleBranch(*v.BranchID)
}

// IsAll reports whether every branch is visible.
func (s BranchScope) IsAll() bool { return s.all }

// IsEmpty reports whether nothing is visible.
func (s BranchScope) IsEmpty() bool { return s.empty }

// BranchID returns the single visible branch, if the scope is single-branch.
func (s BranchScope) BranchID() (id.ID, bool) {
	if s.all || s.empty {
		return id.Nil(), false
	}
	return s.branchID, true
}

// BranchFilter returns the branch argument for data-access calls:
// nil for "all branches", the branch id otherwise.
// Callers must check IsEmpty first; an empty scope has no valid filter.
func (s BranchScope) BranchFilter() *id.ID {
	if bid, ok := s.BranchID(); ok {
		return &bid
	}
	return nil
}

// Contains checks if branch is visible in this scope.
func (s BranchScope) Contains(branchID id.ID) bool {
	switch {
	case s.empty:
		return false
	case s.all:
		return true
	default:
		return s.branchID == branchID
	}
}

// RequireBranch returns AuthorizationError if branch is outside the scope.
func (s BranchScope) RequireBranch(branchID id.ID) error {
	if !s.Contains(branchID) {
		return apperror.NewForbidden("branch is outside of caller scope").
			WithDetail("branch_id", branchID.String())
	}
	return nil
}

// Narrow restricts the scope to a requested branch.
// A nil request keeps the scope unchanged. An administrator may narrow to any branch;
// anyone else may only "narrow" to the branch they already see.
func (s BranchScope) Narrow(requested *id.ID) (BranchScope, error) {
	if requested == nil {
		return s, nil
	}
	if err := s.RequireBranch(*requested); err != nil {
		return s, err
	}
	return SingleBranch(*requested), nil
}

// String renders the scope for logs.
func (s BranchScope) String() string {
	switch {
	case s.empty:
		return "none"
	case s.all:
		return "all"
	default:
		return fmt.Sprintf("branch:%s", s.branchID)
	}
}

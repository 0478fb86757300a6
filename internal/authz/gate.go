package authz

import "floatflow-backend/internal/models"

type Action string

const (
	ActionCreate   Action = "create"
	ActionApprove  Action = "approve"
	ActionReject   Action = "reject"
	ActionMarkPaid Action = "mark_paid"
	ActionViewAll  Action = "view_all"
)

// permissions is the whole authorization policy in one table. A (role, action)
// pair absent here is denied; there is no fallthrough.
var permissions = map[models.UserRole]map[Action]bool{
	models.RoleAdmin: {
		ActionCreate:   true,
		ActionApprove:  true,
		ActionReject:   true,
		ActionMarkPaid: true,
		ActionViewAll:  true,
	},
	models.RoleFinance: {
		ActionCreate:   true,
		ActionApprove:  true,
		ActionReject:   true,
		ActionMarkPaid: true,
		ActionViewAll:  true,
	},
	models.RoleBranch: {
		ActionCreate:  true,
		ActionApprove: true,
		ActionReject:  true,
	},
	models.RoleAuditor: {
		ActionViewAll: true,
	},
}

// locationScoped lists the actions a branch actor may only perform on records
// of their own location.
var locationScoped = map[Action]bool{
	ActionCreate:  true,
	ActionApprove: true,
	ActionReject:  true,
}

// CanAct is the single gate consulted before every lifecycle transition. Pure
// predicate: no side effects, so the whole table is exercisable in tests.
// The expense may be nil for actions that do not target one record (view_all).
func CanAct(actor models.Actor, action Action, e *models.Expense) bool {
	if !permissions[actor.Role][action] {
		return false
	}
	if actor.Role == models.RoleBranch && locationScoped[action] {
		return e != nil && e.Location == actor.BranchLocation
	}
	return true
}

// VisibleLocation returns the location filter a role's reads are limited to;
// empty means all locations.
func VisibleLocation(actor models.Actor) string {
	if actor.Role == models.RoleBranch {
		return actor.BranchLocation
	}
	return ""
}

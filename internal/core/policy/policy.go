// Package policy holds the single authorization decision function for the
// API. Every protected operation asks Decide before touching state; role
// checks live here and nowhere else.
package policy

import "github.com/taskhub/task-assignment-api/internal/core/domain"

// Action identifies a protected operation.
type Action string

const (
	ActionListAllUsers Action = "users.list_all"
	ActionGetUserByID  Action = "users.get"
	ActionDeleteUser   Action = "users.delete"

	ActionCreateTask       Action = "tasks.create"
	ActionGetTaskByID      Action = "tasks.get"
	ActionListAllTasks     Action = "tasks.list_all"
	ActionListOwnTasks     Action = "tasks.list_own"
	ActionFilterOwnTasks   Action = "tasks.filter_own"
	ActionUpdateTaskStatus Action = "tasks.update_status"
	ActionUpdateTask       Action = "tasks.update"
	ActionDeleteTask       Action = "tasks.delete"
)

// Resource carries the attributes of the target the decision depends on.
// Only status updates need one today (the task's assignee).
type Resource struct {
	AssigneeID string
}

// Decision is the outcome of a policy check.
type Decision struct {
	Allowed bool
	Reason  string
}

var allow = Decision{Allowed: true}

func deny(reason string) Decision {
	return Decision{Reason: reason}
}

// Decide returns the allow/deny outcome for actor performing action on an
// optional resource. It is pure: no I/O, no side effects.
func Decide(actor *domain.User, action Action, res *Resource) Decision {
	if actor == nil {
		return deny("not authenticated")
	}

	switch action {
	case ActionListAllUsers:
		return adminOnly(actor, "You are not authorized to view users")
	case ActionGetUserByID:
		return adminOnly(actor, "You are not authorized to view users")
	case ActionDeleteUser:
		return adminOnly(actor, "You are not authorized to delete users")
	case ActionListAllTasks:
		return adminOnly(actor, "You are not authorised to view this route")
	case ActionCreateTask:
		return adminOnly(actor, "You are not authorized to create a task")
	case ActionUpdateTask:
		return adminOnly(actor, "You are not authorized to update this task")
	case ActionDeleteTask:
		return adminOnly(actor, "You are not authorized to delete this task")

	case ActionGetTaskByID, ActionListOwnTasks, ActionFilterOwnTasks:
		// Any authenticated actor. Reads by id carry no ownership check;
		// list/filter are implicitly scoped to the actor by the store.
		return allow

	case ActionUpdateTaskStatus:
		// Assignee only. Admins get no override here.
		if res == nil || actor.ID != res.AssigneeID {
			return deny("You are not authorized to update this task")
		}
		return allow
	}

	return deny("unknown action")
}

func adminOnly(actor *domain.User, reason string) Decision {
	if !actor.IsAdmin() {
		return deny(reason)
	}
	return allow
}

// file: service/access.go

package service

import (
	"service-desk/model"
)

// Action is something an actor may attempt.
type Action string

const (
	ActionViewOwnRequests  Action = "view_own_requests"
	ActionViewAllRequests  Action = "view_all_requests"
	ActionCreateRequest    Action = "create_request"
	ActionChangeStatus     Action = "change_request_status"
	ActionDeleteRequest    Action = "delete_request"
	ActionManageCategories Action = "manage_categories"
)

var adminOnly = map[Action]bool{
	ActionViewAllRequests: true,
	ActionChangeStatus:    true,
	ActionDeleteRequest:   true,
}

// AccessPolicy decides what an actor may do. A nil actor is anonymous.
type AccessPolicy struct {
	// CategoryRequiresAdmin restricts category management to staff and
	// superusers. Off by default: any signed-in user may manage categories.
	CategoryRequiresAdmin bool
}

// Authorize returns ErrLoginRequired for anonymous actors and
// ErrPermissionDenied when the actor lacks the role the action needs.
func (p AccessPolicy) Authorize(actor *model.User, action Action) error {
	if actor == nil || !actor.IsActive {
		return ErrLoginRequired
	}
	if p.requiresAdmin(action) && !actor.IsAdmin() {
		return ErrPermissionDenied
	}
	return nil
}

// Can reports whether Authorize would succeed.
func (p AccessPolicy) Can(actor *model.User, action Action) bool {
	return p.Authorize(actor, action) == nil
}

func (p AccessPolicy) requiresAdmin(action Action) bool {
	if action == ActionManageCategories {
		return p.CategoryRequiresAdmin
	}
	return adminOnly[action]
}

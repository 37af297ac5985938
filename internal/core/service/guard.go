package service

import (
	"errors"

	"github.com/woodhaven/storefront/internal/core/domain"
)

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrForbidden        = errors.New("forbidden")
)

// Action is a management capability checked by the guard.
type Action string

const (
	ActionViewAllOrders        Action = "viewAllOrders"
	ActionMutateAnyOrderStatus Action = "mutateAnyOrderStatus"
	ActionManageCatalog        Action = "manageCatalog"
	ActionManageRoles          Action = "manageRoles"
)

// Guard is the single authorization choke point. Every mutating path in
// the order, catalog and role services consults it; there is no second
// enforcement layer behind it.
type Guard struct{}

// Allow reports whether actor may perform action. All management
// actions require the admin role assignment.
func (Guard) Allow(actor *domain.Actor, action Action) bool {
	switch action {
	case ActionViewAllOrders, ActionMutateAnyOrderStatus, ActionManageCatalog, ActionManageRoles:
		return actor != nil && actor.Admin
	}
	return false
}

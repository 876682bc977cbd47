// Package authz maps a principal and a requested action to an allow/deny
// decision. Every rule is a pure function evaluated before the handler body
// mutates anything: a denial is surfaced as a domain error, never as a
// silently filtered result set.
package authz

import (
	"github.com/readstackapp/readstack-server/internal/domain"
	"github.com/readstackapp/readstack-server/internal/errors"
)

// Action is the operation a principal is attempting.
type Action string

// Actions understood by the access rules.
const (
	ActionView   Action = "view"
	ActionCreate Action = "create"
	ActionEdit   Action = "edit"
	ActionDelete Action = "delete"
)

// Catalog decides access to catalog authors and books: reads are open to
// everyone including anonymous callers, writes require any authenticated
// principal with no further ownership check.
func Catalog(principal *domain.User, action Action) error {
	if action == ActionView {
		return nil
	}
	if principal == nil {
		return errors.AuthRequired("authentication required to modify the catalog")
	}
	return nil
}

// Shelf decides access to bookshelf resources (shelf books, categories,
// libraries). Every action requires an authenticated principal carrying the
// matching capability; a missing capability is a denial.
func Shelf(principal *domain.User, action Action) error {
	if principal == nil {
		return errors.AuthRequired("authentication required")
	}

	caps := principal.Capabilities
	allowed := false
	switch action {
	case ActionView:
		allowed = caps.CanView
	case ActionCreate:
		allowed = caps.CanCreate
	case ActionEdit:
		allowed = caps.CanEdit
	case ActionDelete:
		allowed = caps.CanDelete
	}

	if !allowed {
		return errors.Forbiddenf("missing %s capability", action)
	}
	return nil
}

// Owned decides access to author-owned resources (posts, comments).
// Reads are open; create requires any authenticated principal; edit and
// delete require the principal to be the stored author. This is an
// ownership check, not a capability check; admins get no bypass.
func Owned(principal *domain.User, action Action, ownerID string) error {
	if action == ActionView {
		return nil
	}
	if principal == nil {
		return errors.AuthRequired("authentication required")
	}
	if action == ActionCreate {
		return nil
	}

	if principal.ID != ownerID {
		return errors.Forbidden("only the author may modify this resource")
	}
	return nil
}

// RoleGate decides access to role-gated pages. The principal's role must
// exactly match the required role; an admin is not a librarian.
func RoleGate(principal *domain.User, required domain.Role) error {
	if principal == nil {
		return errors.AuthRequired("authentication required")
	}
	if !principal.HasRole(required) {
		return errors.Forbiddenf("%s role required", required)
	}
	return nil
}

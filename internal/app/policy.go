package app

import (
	"fmt"

	"quillpost/internal/model"
)

type Action string

const (
	ActionCreate  Action = "create"
	ActionRead    Action = "read"
	ActionUpdate  Action = "update"
	ActionPublish Action = "publish"
	ActionDelete  Action = "delete"
	ActionAudit   Action = "audit"
)

// Actor is the identity behind a request. The zero value is an anonymous
// visitor.
type Actor struct {
	UserID string
	Email  string
	Role   string
}

func (a Actor) Authenticated() bool {
	return a.UserID != ""
}

func (a Actor) IsOwner() bool {
	return a.Authenticated() && a.Role == model.RoleOwner
}

func (a Actor) IsAuthorOf(post *model.Post) bool {
	return a.Authenticated() && post != nil && post.AuthorID == a.UserID
}

type Decision struct {
	Allowed bool
	Reason  string
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(reason string) Decision {
	return Decision{Reason: reason}
}

// Err converts a denial into an error wrapping ErrForbidden or
// ErrUnauthenticated. It returns nil for an allowed decision.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	if d.Reason == reasonLoginRequired {
		return ErrUnauthenticated
	}
	return fmt.Errorf("%w: %s", ErrForbidden, d.Reason)
}

const reasonLoginRequired = "authentication required"

// Authorize decides whether actor may perform action on post. post is nil for
// ActionCreate; for every other mutating action the caller must have already
// confirmed that the post exists.
func Authorize(actor Actor, action Action, post *model.Post) Decision {
	switch action {
	case ActionRead:
		return allow()
	case ActionCreate:
		if !actor.Authenticated() {
			return deny(reasonLoginRequired)
		}
		return allow()
	}

	if !actor.Authenticated() {
		return deny(reasonLoginRequired)
	}

	switch action {
	case ActionUpdate:
		if actor.IsOwner() || actor.IsAuthorOf(post) {
			return allow()
		}
		return deny("you are not authorized to update this blog")
	case ActionPublish:
		if actor.IsOwner() {
			return allow()
		}
		return deny("you are not authorized to publish blogs")
	case ActionDelete:
		if actor.IsAuthorOf(post) || actor.IsOwner() {
			return allow()
		}
		return deny("you are not authorized to delete this blog")
	case ActionAudit:
		if actor.IsOwner() {
			return allow()
		}
		return deny("you are not authorized to read the audit log")
	default:
		return deny(fmt.Sprintf("unknown action %q", action))
	}
}

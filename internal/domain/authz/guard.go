// Package authz holds the ownership rules shared by post and comment mutations.
package authz

import (
	"github.com/oksasatya/go-ddd-blog/internal/domain/entity"
	"github.com/oksasatya/go-ddd-blog/pkg/apperror"
)

const msgLoginRequired = "login required"

// CanMutate reports whether actor owns the resource.
func CanMutate(ownerID int64, actor *entity.Actor) bool {
	return actor != nil && actor.ID == ownerID
}

// RequireActor fails with Unauthenticated for anonymous requests.
func RequireActor(actor *entity.Actor) error {
	if actor == nil {
		return apperror.NewUnauthenticated(msgLoginRequired)
	}
	return nil
}

// RequireOwner fails with Unauthenticated when there is no actor and with
// Forbidden when the actor does not own the resource.
func RequireOwner(ownerID int64, actor *entity.Actor, resource string) error {
	if err := RequireActor(actor); err != nil {
		return err
	}
	if !CanMutate(ownerID, actor) {
		return apperror.NewForbidden("you can only modify your own " + resource)
	}
	return nil
}

// RequireAdmin fails with Forbidden unless the actor has the admin role.
func RequireAdmin(actor *entity.Actor) error {
	if err := RequireActor(actor); err != nil {
		return err
	}
	if actor.Role != entity.RoleAdmin {
		return apperror.NewForbidden("admin role required")
	}
	return nil
}

// Package policy wires the generic gate package to the application's models:
// ownership checks on quotes, products and customers, plus the plan quota
// that drives the upgrade paywall.
package policy

import (
	"context"

	"github.com/diewo77/quotes-app/gate"
)

// Ownable is implemented by models that have an owner.
type Ownable interface {
	GetUserID() uint
}

// OwnershipPolicy authorizes a user only for resources they own. For
// list/create (resource is nil) it allows: there is no specific resource to
// check and handlers already scope queries by user id.
type OwnershipPolicy struct{}

func NewOwnershipPolicy() *OwnershipPolicy { return &OwnershipPolicy{} }

func (p *OwnershipPolicy) Can(_ context.Context, userID uint, _ gate.Action, resource any) error {
	if resource == nil {
		return nil
	}
	ownable, ok := resource.(Ownable)
	if !ok {
		// Deny by default so resources without ownership wiring cannot leak.
		return gate.ErrUnauthorized
	}
	if ownable.GetUserID() != userID {
		return gate.ErrUnauthorized
	}
	return nil
}

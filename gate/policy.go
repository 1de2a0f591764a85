package gate

import "context"

// Policy defines authorization rules for a resource type.
// U is the user/subject type (e.g., uint for userID, *User for full user struct).
// Can returns nil when user may perform action on resource; otherwise a
// sentinel error describing the denial (ErrUnauthorized, ErrQuotaExceeded, ...)
// so callers can map distinct denials to distinct responses.
// For list/create, resource may be nil (context-only check).
type Policy[U any] interface {
	Can(ctx context.Context, user U, action Action, resource any) error
}

// PolicyFunc adapts a plain function to the Policy interface.
type PolicyFunc[U any] func(ctx context.Context, user U, action Action, resource any) error

func (f PolicyFunc[U]) Can(ctx context.Context, user U, action Action, resource any) error {
	return f(ctx, user, action, resource)
}

package gate

import "errors"

// Sentinel errors returned by Gate.Authorize.
var (
	ErrUnauthorized    = errors.New("unauthorized")
	ErrNoPolicyDefined = errors.New("no policy defined for resource")
	// ErrQuotaExceeded means the user is allowed in principle but has hit a
	// plan limit; callers typically surface an upgrade prompt instead of 403.
	ErrQuotaExceeded = errors.New("plan quota exceeded")
)

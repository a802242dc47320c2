package shares

// Sentinel errors surfaced by the shares service and repositories.
var (
	ErrNotFound      = errNotFound{}
	ErrConflict      = errConflict{}
	ErrInvalidAction = errInvalidAction{}
)

type errNotFound struct{}

func (errNotFound) Error() string  { return "share not found" }
func (errNotFound) NotFound() bool { return true }

type errConflict struct{}

func (errConflict) Error() string { return "decision conflicts with the current share state" }

type errInvalidAction struct{}

func (errInvalidAction) Error() string { return "unknown approval action" }

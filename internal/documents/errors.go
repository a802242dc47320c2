package documents

// Sentinel errors surfaced by the documents service and repositories.
var (
	ErrNotFound        = errNotFound{}
	ErrInvalidInput    = errInvalidInput{}
	ErrForbidden       = errForbidden{}
	ErrVersionConflict = errVersionConflict{}
)

type errNotFound struct{}

func (errNotFound) Error() string  { return "document not found" }
func (errNotFound) NotFound() bool { return true }

type errInvalidInput struct{}

func (errInvalidInput) Error() string { return "invalid input" }

type errForbidden struct{}

func (errForbidden) Error() string { return "only the uploader may perform this action" }

type errVersionConflict struct{}

func (errVersionConflict) Error() string { return "document version changed concurrently" }

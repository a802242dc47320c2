package users

import "context"

// Sentinel errors surfaced by the users service and repositories.
var (
	ErrNotFound           = errNotFound{}
	ErrInvalidCredentials = errInvalidCredentials{}
)

type errNotFound struct{}

func (errNotFound) Error() string  { return "user not found" }
func (errNotFound) NotFound() bool { return true }

type errInvalidCredentials struct{}

func (errInvalidCredentials) Error() string { return "invalid username or password" }

// UsersRepo persists user accounts.
type UsersRepo interface {
	Create(ctx context.Context, user User) error
	GetByID(ctx context.Context, userID string) (User, error)
	GetByUsername(ctx context.Context, username string) (User, error)
	ListOthers(ctx context.Context, excludeUserID string) ([]User, error)
	UsernamesByID(ctx context.Context, ids []string) (map[string]string, error)
}

package history

import "context"

var ErrNotFound = errNotFound{}

type errNotFound struct{}

func (errNotFound) Error() string { return "history entry not found" }

// Repo defines persistence operations for the audit trail. Entries are
// append-only; the only delete path removes a whole document's trail.
type Repo interface {
	Append(ctx context.Context, entry Entry) error
	ListByDocument(ctx context.Context, documentID string) ([]Entry, error)
	ListUploads(ctx context.Context, documentID string) ([]Entry, error)
	FileURLs(ctx context.Context, documentID string) ([]string, error)
	DeleteByDocument(ctx context.Context, documentID string) error
}

package comments

import "context"

// ErrInvalidInput is returned for comments that fail validation.
var ErrInvalidInput = errInvalidInput{}

type errInvalidInput struct{}

func (errInvalidInput) Error() string { return "invalid comment" }

// CommentsRepo persists comments.
type CommentsRepo interface {
	Create(ctx context.Context, comment Comment) error
	ListByDocumentVersion(ctx context.Context, documentID string, version int) ([]Comment, error)
	CountByDocuments(ctx context.Context, documentIDs []string) (map[string]int, error)
	DeleteByDocument(ctx context.Context, documentID string) error
}

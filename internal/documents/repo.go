package documents

import "context"

// DocumentsRepo defines persistence operations for documents.
type DocumentsRepo interface {
	Create(ctx context.Context, doc Document) error
	GetByID(ctx context.Context, documentID string) (Document, error)
	// UpdateVersion advances a document to newVersion with the new file, but
	// only when the stored version still equals expectedVersion; otherwise it
	// returns ErrVersionConflict. Status is reset to pending.
	UpdateVersion(ctx context.Context, documentID, fileURL, fileName string, pageCount, newVersion, expectedVersion int) error
	SetStatus(ctx context.Context, documentID, status string) error
	Delete(ctx context.Context, documentID string) error
	ListUploadedBy(ctx context.Context, userID string) ([]Document, error)
	ListByIDs(ctx context.Context, documentIDs []string) ([]Document, error)
}

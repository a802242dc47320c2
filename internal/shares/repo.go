package shares

import (
	"context"
	"time"
)

// SharesRepo persists share rows and their append-only approval entries.
type SharesRepo interface {
	CreateForRecipients(ctx context.Context, documentID string, recipientIDs []string, version int) error
	ResetForVersion(ctx context.Context, documentID string, version int) error
	ListByDocument(ctx context.Context, documentID string) ([]SharedDocument, error)
	GetByDocumentAndUser(ctx context.Context, documentID, userID string) (SharedDocument, error)
	UpdateDecision(ctx context.Context, shareID, status string, isApproved bool, approvalDate *time.Time, version int) error
	AppendApproval(ctx context.Context, entry ApprovalEntry) error
	ListApprovalsByDocument(ctx context.Context, documentID string) (map[string][]ApprovalEntry, error)
	DocumentIDsSharedWith(ctx context.Context, userID string) ([]string, error)
	DeleteByDocument(ctx context.Context, documentID string) error
}

package shares

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"docshare-backend/internal/shared/storage/db"
)

const (
	statusPending  = "pending"
	statusApproved = "approved"
	statusRejected = "rejected"
)

// PGRepo implements SharesRepo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const shareColumns = `id, document_id, shared_with_user_id, current_version, approval_status, is_approved, approval_date`

// CreateForRecipients inserts a pending share row per recipient.
// Recipients that already have a row for the document are skipped.
func (r *PGRepo) CreateForRecipients(ctx context.Context, documentID string, recipientIDs []string, version int) error {
	const query = `
INSERT INTO shared_documents (id, document_id, shared_with_user_id, current_version, approval_status, is_approved)
VALUES ($1, $2, $3, $4, $5, FALSE)
ON CONFLICT (document_id, shared_with_user_id) DO NOTHING`

	q := db.QuerierFrom(ctx, r.DB)
	for _, recipientID := range recipientIDs {
		if _, err := q.ExecContext(ctx, query, uuid.NewString(), documentID, recipientID, version, statusPending); err != nil {
			return err
		}
	}
	return nil
}

// ResetForVersion moves every share of the document to the new version
// and back to pending, clearing prior decisions.
func (r *PGRepo) ResetForVersion(ctx context.Context, documentID string, version int) error {
	const query = `
UPDATE shared_documents
SET current_version = $1, approval_status = $2, is_approved = FALSE, approval_date = NULL
WHERE document_id = $3`

	q := db.QuerierFrom(ctx, r.DB)
	_, err := q.ExecContext(ctx, query, version, statusPending, documentID)
	return err
}

// ListByDocument lists all share rows of a document.
func (r *PGRepo) ListByDocument(ctx context.Context, documentID string) ([]SharedDocument, error) {
	const query = `
SELECT ` + shareColumns + `
FROM shared_documents
WHERE document_id = $1
ORDER BY shared_with_user_id`

	q := db.QuerierFrom(ctx, r.DB)
	rows, err := q.QueryContext(ctx, query, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SharedDocument
	for rows.Next() {
		share, err := scanShare(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, share)
	}
	return out, rows.Err()
}

// GetByDocumentAndUser fetches the unique share row for a recipient.
func (r *PGRepo) GetByDocumentAndUser(ctx context.Context, documentID, userID string) (SharedDocument, error) {
	const query = `
SELECT ` + shareColumns + `
FROM shared_documents
WHERE document_id = $1 AND shared_with_user_id = $2
LIMIT 1`

	q := db.QuerierFrom(ctx, r.DB)
	share, err := scanShare(q.QueryRowContext(ctx, query, documentID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return SharedDocument{}, ErrNotFound
		}
		return SharedDocument{}, err
	}
	return share, nil
}

// UpdateDecision writes the latest decision onto the share row.
func (r *PGRepo) UpdateDecision(ctx context.Context, shareID, status string, isApproved bool, approvalDate *time.Time, version int) error {
	const query = `
UPDATE shared_documents
SET approval_status = $1, is_approved = $2, approval_date = $3, current_version = $4
WHERE id = $5`

	var date any
	if approvalDate != nil {
		date = *approvalDate
	}

	q := db.QuerierFrom(ctx, r.DB)
	res, err := q.ExecContext(ctx, query, status, isApproved, date, version, shareID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// AppendApproval inserts one audit entry. Entries are never updated.
func (r *PGRepo) AppendApproval(ctx context.Context, entry ApprovalEntry) error {
	const query = `
INSERT INTO share_approvals (id, share_id, status, action_date, user_id, reason, version)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

	var reason any
	if entry.Reason != "" {
		reason = entry.Reason
	}

	q := db.QuerierFrom(ctx, r.DB)
	_, err := q.ExecContext(ctx, query, entry.ID, entry.ShareID, entry.Status, entry.ActionDate, entry.UserID, reason, entry.Version)
	return err
}

// ListApprovalsByDocument returns approval entries grouped by share ID,
// oldest first within each share.
func (r *PGRepo) ListApprovalsByDocument(ctx context.Context, documentID string) (map[string][]ApprovalEntry, error) {
	const query = `
SELECT a.id, a.share_id, a.status, a.action_date, a.user_id, a.reason, a.version
FROM share_approvals a
JOIN shared_documents s ON s.id = a.share_id
WHERE s.document_id = $1
ORDER BY a.action_date ASC`

	q := db.QuerierFrom(ctx, r.DB)
	rows, err := q.QueryContext(ctx, query, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string][]ApprovalEntry)
	for rows.Next() {
		var entry ApprovalEntry
		var reason sql.NullString
		if err := rows.Scan(&entry.ID, &entry.ShareID, &entry.Status, &entry.ActionDate, &entry.UserID, &reason, &entry.Version); err != nil {
			return nil, err
		}
		entry.Reason = reason.String
		out[entry.ShareID] = append(out[entry.ShareID], entry)
	}
	return out, rows.Err()
}

// DocumentIDsSharedWith lists IDs of documents shared with the user.
func (r *PGRepo) DocumentIDsSharedWith(ctx context.Context, userID string) ([]string, error) {
	const query = `
SELECT document_id
FROM shared_documents
WHERE shared_with_user_id = $1`

	q := db.QuerierFrom(ctx, r.DB)
	rows, err := q.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// DeleteByDocument removes share rows and their approval entries.
func (r *PGRepo) DeleteByDocument(ctx context.Context, documentID string) error {
	q := db.QuerierFrom(ctx, r.DB)
	if _, err := q.ExecContext(ctx, `
DELETE FROM share_approvals
WHERE share_id IN (SELECT id FROM shared_documents WHERE document_id = $1)`, documentID); err != nil {
		return err
	}
	_, err := q.ExecContext(ctx, `DELETE FROM shared_documents WHERE document_id = $1`, documentID)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanShare(row rowScanner) (SharedDocument, error) {
	var share SharedDocument
	var approvalDate sql.NullTime
	if err := row.Scan(
		&share.ID,
		&share.DocumentID,
		&share.SharedWithUserID,
		&share.CurrentVersion,
		&share.ApprovalStatus,
		&share.IsApproved,
		&approvalDate,
	); err != nil {
		return SharedDocument{}, err
	}
	if approvalDate.Valid {
		t := approvalDate.Time
		share.ApprovalDate = &t
	}
	return share, nil
}

var _ SharesRepo = (*PGRepo)(nil)

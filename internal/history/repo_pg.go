package history

import (
	"context"
	"database/sql"

	"docshare-backend/internal/shared/storage/db"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Append inserts a new history entry.
func (r *PGRepo) Append(ctx context.Context, entry Entry) error {
	const query = `
INSERT INTO document_history (
    history_id,
    document_id,
    action_type,
    action_by,
    action_date,
    version,
    previous_status,
    new_status,
    comments,
    file_url
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	q := db.QuerierFrom(ctx, r.DB)
	_, err := q.ExecContext(
		ctx,
		query,
		entry.ID,
		entry.DocumentID,
		entry.ActionType,
		entry.ActionBy,
		entry.ActionDate,
		entry.Version,
		nullableString(entry.PreviousStatus),
		nullableString(entry.NewStatus),
		nullableString(entry.Comments),
		nullableString(entry.FileURL),
	)
	return err
}

// ListByDocument returns all entries for a document, oldest first.
func (r *PGRepo) ListByDocument(ctx context.Context, documentID string) ([]Entry, error) {
	const query = `
SELECT history_id, document_id, action_type, action_by, action_date, version, previous_status, new_status, comments, file_url
FROM document_history
WHERE document_id = $1
ORDER BY action_date ASC`
	return r.list(ctx, query, documentID)
}

// ListUploads returns upload-type entries for a document, highest version first.
func (r *PGRepo) ListUploads(ctx context.Context, documentID string) ([]Entry, error) {
	const query = `
SELECT history_id, document_id, action_type, action_by, action_date, version, previous_status, new_status, comments, file_url
FROM document_history
WHERE document_id = $1 AND action_type IN ('initial_upload', 'version_update')
ORDER BY version DESC`
	return r.list(ctx, query, documentID)
}

func (r *PGRepo) list(ctx context.Context, query, documentID string) ([]Entry, error) {
	q := db.QuerierFrom(ctx, r.DB)
	rows, err := q.QueryContext(ctx, query, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var entry Entry
		var prevStatus, newStatus, comments, fileURL sql.NullString
		if err := rows.Scan(
			&entry.ID,
			&entry.DocumentID,
			&entry.ActionType,
			&entry.ActionBy,
			&entry.ActionDate,
			&entry.Version,
			&prevStatus,
			&newStatus,
			&comments,
			&fileURL,
		); err != nil {
			return nil, err
		}
		if prevStatus.Valid {
			entry.PreviousStatus = prevStatus.String
		}
		if newStatus.Valid {
			entry.NewStatus = newStatus.String
		}
		if comments.Valid {
			entry.Comments = comments.String
		}
		if fileURL.Valid {
			entry.FileURL = fileURL.String
		}
		out = append(out, entry)
	}
	return out, rows.Err()
}

// FileURLs returns the file URL of every entry that recorded one.
func (r *PGRepo) FileURLs(ctx context.Context, documentID string) ([]string, error) {
	const query = `
SELECT file_url
FROM document_history
WHERE document_id = $1 AND file_url IS NOT NULL`

	q := db.QuerierFrom(ctx, r.DB)
	rows, err := q.QueryContext(ctx, query, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			return nil, err
		}
		if url != "" {
			out = append(out, url)
		}
	}
	return out, rows.Err()
}

// DeleteByDocument removes the whole audit trail of a document.
func (r *PGRepo) DeleteByDocument(ctx context.Context, documentID string) error {
	q := db.QuerierFrom(ctx, r.DB)
	_, err := q.ExecContext(ctx, `DELETE FROM document_history WHERE document_id = $1`, documentID)
	return err
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

var _ Repo = (*PGRepo)(nil)

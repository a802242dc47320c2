package documents

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"docshare-backend/internal/shared/storage/db"
)

// PGRepo implements DocumentsRepo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const documentColumns = `document_id, title, uploaded_by, file_url, file_name, page_count, status, current_version, created_at, updated_at`

// Create inserts a new document.
func (r *PGRepo) Create(ctx context.Context, doc Document) error {
	const query = `
INSERT INTO documents (
    document_id,
    title,
    uploaded_by,
    file_url,
    file_name,
    page_count,
    status,
    current_version,
    created_at,
    updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	var pageCount any
	if doc.PageCount > 0 {
		pageCount = doc.PageCount
	}

	q := db.QuerierFrom(ctx, r.DB)
	_, err := q.ExecContext(
		ctx,
		query,
		doc.ID,
		doc.Title,
		doc.UploadedBy,
		doc.FileURL,
		doc.FileName,
		pageCount,
		doc.Status,
		doc.CurrentVersion,
		doc.CreatedAt,
		doc.UpdatedAt,
	)
	return err
}

// GetByID fetches a document by ID.
func (r *PGRepo) GetByID(ctx context.Context, documentID string) (Document, error) {
	const query = `
SELECT ` + documentColumns + `
FROM documents
WHERE document_id = $1
LIMIT 1`

	q := db.QuerierFrom(ctx, r.DB)
	doc, err := scanDocument(q.QueryRowContext(ctx, query, documentID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	return doc, nil
}

// UpdateVersion advances the document to a new version with optimistic
// concurrency on the expected current version.
func (r *PGRepo) UpdateVersion(ctx context.Context, documentID, fileURL, fileName string, pageCount, newVersion, expectedVersion int) error {
	const query = `
UPDATE documents
SET file_url = $1, file_name = $2, page_count = $3, current_version = $4, status = $5, updated_at = $6
WHERE document_id = $7 AND current_version = $8`

	var pages any
	if pageCount > 0 {
		pages = pageCount
	}

	q := db.QuerierFrom(ctx, r.DB)
	res, err := q.ExecContext(ctx, query, fileURL, fileName, pages, newVersion, StatusPending, time.Now().UTC(), documentID, expectedVersion)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrVersionConflict
	}
	return nil
}

// SetStatus updates the document-level aggregate status.
func (r *PGRepo) SetStatus(ctx context.Context, documentID, status string) error {
	const query = `
UPDATE documents
SET status = $1, updated_at = $2
WHERE document_id = $3`

	q := db.QuerierFrom(ctx, r.DB)
	res, err := q.ExecContext(ctx, query, status, time.Now().UTC(), documentID)
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

// Delete removes the document row.
func (r *PGRepo) Delete(ctx context.Context, documentID string) error {
	q := db.QuerierFrom(ctx, r.DB)
	_, err := q.ExecContext(ctx, `DELETE FROM documents WHERE document_id = $1`, documentID)
	return err
}

// ListUploadedBy lists documents uploaded by a user, newest first.
func (r *PGRepo) ListUploadedBy(ctx context.Context, userID string) ([]Document, error) {
	const query = `
SELECT ` + documentColumns + `
FROM documents
WHERE uploaded_by = $1
ORDER BY created_at DESC`

	q := db.QuerierFrom(ctx, r.DB)
	rows, err := q.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDocuments(rows)
}

// ListByIDs fetches the given documents, newest first.
func (r *PGRepo) ListByIDs(ctx context.Context, documentIDs []string) ([]Document, error) {
	if len(documentIDs) == 0 {
		return []Document{}, nil
	}
	const query = `
SELECT ` + documentColumns + `
FROM documents
WHERE document_id = ANY($1)
ORDER BY created_at DESC`

	q := db.QuerierFrom(ctx, r.DB)
	rows, err := q.QueryContext(ctx, query, documentIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDocuments(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (Document, error) {
	var doc Document
	var pageCount sql.NullInt64
	if err := row.Scan(
		&doc.ID,
		&doc.Title,
		&doc.UploadedBy,
		&doc.FileURL,
		&doc.FileName,
		&pageCount,
		&doc.Status,
		&doc.CurrentVersion,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	); err != nil {
		return Document{}, err
	}
	if pageCount.Valid {
		doc.PageCount = int(pageCount.Int64)
	}
	return doc, nil
}

func scanDocuments(rows *sql.Rows) ([]Document, error) {
	var out []Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

var _ DocumentsRepo = (*PGRepo)(nil)

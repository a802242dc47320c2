package comments

import (
	"context"
	"database/sql"

	"docshare-backend/internal/shared/storage/db"
)

// PGRepo implements CommentsRepo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a comment.
func (r *PGRepo) Create(ctx context.Context, comment Comment) error {
	const query = `
INSERT INTO comments (
    comment_id,
    document_id,
    comment_text,
    commented_by,
    page_number,
    x_position,
    y_position,
    version,
    created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	q := db.QuerierFrom(ctx, r.DB)
	_, err := q.ExecContext(
		ctx,
		query,
		comment.ID,
		comment.DocumentID,
		comment.Text,
		comment.CommentedBy,
		comment.PageNumber,
		comment.XPosition,
		comment.YPosition,
		comment.Version,
		comment.CreatedAt,
	)
	return err
}

// ListByDocumentVersion lists comments on one version of a document,
// oldest first.
func (r *PGRepo) ListByDocumentVersion(ctx context.Context, documentID string, version int) ([]Comment, error) {
	const query = `
SELECT comment_id, document_id, comment_text, commented_by, page_number, x_position, y_position, version, created_at
FROM comments
WHERE document_id = $1 AND version = $2
ORDER BY created_at ASC`

	q := db.QuerierFrom(ctx, r.DB)
	rows, err := q.QueryContext(ctx, query, documentID, version)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Comment
	for rows.Next() {
		var c Comment
		var page sql.NullInt64
		var x, y sql.NullFloat64
		if err := rows.Scan(
			&c.ID,
			&c.DocumentID,
			&c.Text,
			&c.CommentedBy,
			&page,
			&x,
			&y,
			&c.Version,
			&c.CreatedAt,
		); err != nil {
			return nil, err
		}
		if page.Valid {
			v := int(page.Int64)
			c.PageNumber = &v
		}
		if x.Valid {
			c.XPosition = &x.Float64
		}
		if y.Valid {
			c.YPosition = &y.Float64
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// CountByDocuments counts comments per document across all versions.
func (r *PGRepo) CountByDocuments(ctx context.Context, documentIDs []string) (map[string]int, error) {
	out := make(map[string]int, len(documentIDs))
	if len(documentIDs) == 0 {
		return out, nil
	}
	const query = `
SELECT document_id, COUNT(*)
FROM comments
WHERE document_id = ANY($1)
GROUP BY document_id`

	q := db.QuerierFrom(ctx, r.DB)
	rows, err := q.QueryContext(ctx, query, documentIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		var count int
		if err := rows.Scan(&id, &count); err != nil {
			return nil, err
		}
		out[id] = count
	}
	return out, rows.Err()
}

// DeleteByDocument removes all comments of a document.
func (r *PGRepo) DeleteByDocument(ctx context.Context, documentID string) error {
	q := db.QuerierFrom(ctx, r.DB)
	_, err := q.ExecContext(ctx, `DELETE FROM comments WHERE document_id = $1`, documentID)
	return err
}

var _ CommentsRepo = (*PGRepo)(nil)

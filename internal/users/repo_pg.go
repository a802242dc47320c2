package users

import (
	"context"
	"database/sql"
	"errors"

	"docshare-backend/internal/shared/storage/db"
)

// PGRepo implements UsersRepo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Create(ctx context.Context, user User) error {
	const query = `
INSERT INTO users (user_id, username, password_hash, created_at)
VALUES ($1, $2, $3, $4)`

	q := db.QuerierFrom(ctx, r.DB)
	_, err := q.ExecContext(ctx, query, user.ID, user.Username, user.PasswordHash, user.CreatedAt)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, userID string) (User, error) {
	const query = `
SELECT user_id, username, password_hash, created_at
FROM users
WHERE user_id = $1
LIMIT 1`

	return r.getOne(ctx, query, userID)
}

func (r *PGRepo) GetByUsername(ctx context.Context, username string) (User, error) {
	const query = `
SELECT user_id, username, password_hash, created_at
FROM users
WHERE username = $1
LIMIT 1`

	return r.getOne(ctx, query, username)
}

func (r *PGRepo) getOne(ctx context.Context, query string, arg any) (User, error) {
	q := db.QuerierFrom(ctx, r.DB)
	var user User
	err := q.QueryRowContext(ctx, query, arg).Scan(&user.ID, &user.Username, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	return user, nil
}

// ListOthers lists every user except the given one, for recipient
// pickers.
func (r *PGRepo) ListOthers(ctx context.Context, excludeUserID string) ([]User, error) {
	const query = `
SELECT user_id, username, password_hash, created_at
FROM users
WHERE user_id <> $1
ORDER BY username`

	q := db.QuerierFrom(ctx, r.DB)
	rows, err := q.QueryContext(ctx, query, excludeUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		var user User
		if err := rows.Scan(&user.ID, &user.Username, &user.PasswordHash, &user.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, user)
	}
	return out, rows.Err()
}

// UsernamesByID resolves IDs to usernames in one query. Unknown IDs
// are absent from the result.
func (r *PGRepo) UsernamesByID(ctx context.Context, ids []string) (map[string]string, error) {
	out := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	const query = `
SELECT user_id, username
FROM users
WHERE user_id = ANY($1)`

	q := db.QuerierFrom(ctx, r.DB)
	rows, err := q.QueryContext(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id, username string
		if err := rows.Scan(&id, &username); err != nil {
			return nil, err
		}
		out[id] = username
	}
	return out, rows.Err()
}

var _ UsersRepo = (*PGRepo)(nil)

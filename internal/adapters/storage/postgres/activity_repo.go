package postgres

import (
	"context"
	"database/sql"

	"pawsera/internal/domain/activity"
)

type ActivityRepo struct {
	db *sql.DB
}

func NewActivityRepo(db *sql.DB) *ActivityRepo {
	return &ActivityRepo{db: db}
}

var _ activity.Repository = (*ActivityRepo)(nil)

func (r *ActivityRepo) Append(ctx context.Context, e activity.Entry) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO activity (id, type, message, actor_id, subject_id, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)
	`, e.ID, string(e.Type), e.Message, e.ActorID, e.SubjectID, e.CreatedAt)
	return mapErr(err)
}

func (r *ActivityRepo) ListRecent(ctx context.Context, limit int) ([]activity.Entry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, type, message, actor_id, subject_id, created_at
		FROM activity
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := make([]activity.Entry, 0)
	for rows.Next() {
		var (
			e   activity.Entry
			typ string
		)
		if err := rows.Scan(&e.ID, &typ, &e.Message, &e.ActorID, &e.SubjectID, &e.CreatedAt); err != nil {
			return nil, mapErr(err)
		}
		e.Type = activity.Type(typ)
		e.CreatedAt = e.CreatedAt.UTC()
		out = append(out, e)
	}
	return out, mapErr(rows.Err())
}

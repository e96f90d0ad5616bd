package postgres

import (
	"context"
	"database/sql"
	"strings"

	"pawsera/internal/domain/documents"
)

type DocumentsRepo struct {
	db *sql.DB
}

func NewDocumentsRepo(db *sql.DB) *DocumentsRepo {
	return &DocumentsRepo{db: db}
}

var _ documents.Repository = (*DocumentsRepo)(nil)

func (r *DocumentsRepo) Create(ctx context.Context, d documents.Document) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO documents (
			id, pet_id, owner_id,
			file_name, file_url, file_key, file_size, file_type,
			uploaded_by, uploaded_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`,
		d.ID, d.PetID, d.OwnerID,
		d.FileName, d.FileURL, d.FileKey, d.FileSize, d.FileType,
		d.UploadedBy, d.UploadedAt,
	)
	return mapErr(err)
}

func (r *DocumentsRepo) ListByPet(ctx context.Context, petID string) ([]documents.Document, error) {
	petID = strings.TrimSpace(petID)
	if petID == "" {
		return nil, nil
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, pet_id, owner_id,
			file_name, file_url, file_key, file_size, file_type,
			uploaded_by, uploaded_at
		FROM documents
		WHERE pet_id = $1
		ORDER BY uploaded_at DESC
	`, petID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := make([]documents.Document, 0)
	for rows.Next() {
		var d documents.Document
		if err := rows.Scan(
			&d.ID, &d.PetID, &d.OwnerID,
			&d.FileName, &d.FileURL, &d.FileKey, &d.FileSize, &d.FileType,
			&d.UploadedBy, &d.UploadedAt,
		); err != nil {
			return nil, mapErr(err)
		}
		d.UploadedAt = d.UploadedAt.UTC()
		out = append(out, d)
	}
	return out, mapErr(rows.Err())
}

package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"pawsera/internal/domain/records"
)

type RecordsRepo struct {
	db *sql.DB
}

func NewRecordsRepo(db *sql.DB) *RecordsRepo {
	return &RecordsRepo{db: db}
}

var _ records.Repository = (*RecordsRepo)(nil)

const recordColumns = `
	id, pet_id, owner_id,
	title, doctor, record_date, type, description,
	created_by, created_at`

func (r *RecordsRepo) Create(ctx context.Context, m records.MedicalRecord) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO medical_records (`+recordColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`,
		m.ID, m.PetID, m.OwnerID,
		m.Title, m.Doctor, m.Date, string(m.Type), m.Description,
		m.CreatedBy, m.CreatedAt,
	)
	return mapErr(err)
}

func (r *RecordsRepo) ListByPet(ctx context.Context, petID string, filter records.ListFilter) ([]records.MedicalRecord, error) {
	petID = strings.TrimSpace(petID)
	if petID == "" {
		return nil, nil
	}

	q, args := recordsListQuery(petID, filter)
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := make([]records.MedicalRecord, 0)
	for rows.Next() {
		var (
			m   records.MedicalRecord
			typ string
		)
		if err := rows.Scan(
			&m.ID, &m.PetID, &m.OwnerID,
			&m.Title, &m.Doctor, &m.Date, &typ, &m.Description,
			&m.CreatedBy, &m.CreatedAt,
		); err != nil {
			return nil, mapErr(err)
		}
		m.Type = records.Type(typ)
		m.Date = m.Date.UTC()
		m.CreatedAt = m.CreatedAt.UTC()
		out = append(out, m)
	}
	return out, mapErr(rows.Err())
}

func recordsListQuery(petID string, filter records.ListFilter) (string, []any) {
	filter = filter.Normalize()

	var w where
	w.add("pet_id = $%d", petID)

	if len(filter.Types) > 0 {
		placeholders := make([]string, 0, len(filter.Types))
		for _, t := range filter.Types {
			w.args = append(w.args, string(t))
			placeholders = append(placeholders, fmt.Sprintf("$%d", len(w.args)))
		}
		w.conds = append(w.conds, "type IN ("+strings.Join(placeholders, ",")+")")
	}
	if filter.From != nil {
		w.add("record_date >= $%d", *filter.From)
	}
	if filter.To != nil {
		w.add("record_date <= $%d", *filter.To)
	}
	// q: búsqueda simple en título, doctor y descripción
	if v := strings.TrimSpace(filter.Query); v != "" {
		w.add("(title ILIKE $%[1]d OR doctor ILIKE $%[1]d OR description ILIKE $%[1]d)", "%"+v+"%")
	}

	limit := w.next()
	w.args = append(w.args, filter.Limit)
	return `SELECT ` + recordColumns + ` FROM medical_records` + w.sql() +
		` ORDER BY record_date DESC, created_at DESC LIMIT ` + limit, w.args
}

package postgres

import (
	"context"
	"database/sql"
	"strings"

	"pawsera/internal/domain/pets"
	"pawsera/internal/platform/apperr"
)

type PetsRepo struct {
	db *sql.DB
}

func NewPetsRepo(db *sql.DB) *PetsRepo {
	return &PetsRepo{db: db}
}

var _ pets.Repository = (*PetsRepo)(nil)

const petColumns = `
	id, owner_id,
	name, species, breed, age, gender,
	weight_kg, color, microchip, image_url, notes,
	created_at, updated_at`

func (r *PetsRepo) Create(ctx context.Context, p pets.Pet) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO pets (`+petColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
	`,
		p.ID, p.OwnerID,
		p.Name, string(p.Species), p.Breed, p.Age, string(p.Gender),
		toNullFloat(p.Weight), p.Color, p.Microchip, p.ImageURL, p.Notes,
		p.CreatedAt, p.UpdatedAt,
	)
	return mapErr(err)
}

func (r *PetsRepo) Update(ctx context.Context, p pets.Pet) error {
	return requireOne(r.db.ExecContext(ctx, `
		UPDATE pets
		SET
			name = $2,
			species = $3,
			breed = $4,
			age = $5,
			gender = $6,
			weight_kg = $7,
			color = $8,
			microchip = $9,
			image_url = $10,
			notes = $11,
			updated_at = $12
		WHERE id = $1
	`,
		p.ID,
		p.Name, string(p.Species), p.Breed, p.Age, string(p.Gender),
		toNullFloat(p.Weight), p.Color, p.Microchip, p.ImageURL, p.Notes,
		p.UpdatedAt,
	))
}

func (r *PetsRepo) Delete(ctx context.Context, id string) error {
	return requireOne(r.db.ExecContext(ctx, `DELETE FROM pets WHERE id = $1`, id))
}

func (r *PetsRepo) GetByID(ctx context.Context, id string) (pets.Pet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return pets.Pet{}, apperr.ErrNotFound
	}
	return scanPet(r.db.QueryRowContext(ctx, `SELECT `+petColumns+` FROM pets WHERE id = $1`, id))
}

func (r *PetsRepo) ListByOwner(ctx context.Context, ownerID string) ([]pets.Pet, error) {
	var w where
	if v := strings.TrimSpace(ownerID); v != "" {
		w.add("owner_id = $%d", v)
	}
	rows, err := r.db.QueryContext(ctx, `SELECT `+petColumns+` FROM pets`+w.sql()+` ORDER BY created_at ASC`, w.args...)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := make([]pets.Pet, 0)
	for rows.Next() {
		p, err := scanPet(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, mapErr(rows.Err())
}

func scanPet(row scanner) (pets.Pet, error) {
	var (
		p               pets.Pet
		species, gender string
		weight          sql.NullFloat64
	)
	if err := row.Scan(
		&p.ID, &p.OwnerID,
		&p.Name, &species, &p.Breed, &p.Age, &gender,
		&weight, &p.Color, &p.Microchip, &p.ImageURL, &p.Notes,
		&p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return pets.Pet{}, mapErr(err)
	}
	p.Species = pets.Species(species)
	p.Gender = pets.Gender(gender)
	if weight.Valid {
		w := weight.Float64
		p.Weight = &w
	}
	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()
	return p, nil
}

func toNullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

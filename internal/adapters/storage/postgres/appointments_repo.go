package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"pawsera/internal/domain/appointments"
	"pawsera/internal/platform/apperr"
)

type AppointmentsRepo struct {
	db *sql.DB
}

func NewAppointmentsRepo(db *sql.DB) *AppointmentsRepo {
	return &AppointmentsRepo{db: db}
}

var _ appointments.Repository = (*AppointmentsRepo)(nil)

const appointmentColumns = `
	id, pet_id, pet_name, owner_id, vet_id, vet_name,
	day, slot_time, starts_at,
	purpose, notes, status,
	created_by, created_at, updated_at`

func (r *AppointmentsRepo) Create(ctx context.Context, a appointments.Appointment) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO appointments (`+appointmentColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
	`,
		a.ID, a.PetID, a.PetName, a.OwnerID, a.VetID, a.VetName,
		a.Date, a.Time, a.StartsAt,
		a.Purpose, a.Notes, string(a.Status),
		a.CreatedBy, a.CreatedAt, a.UpdatedAt,
	)
	return mapErr(err)
}

// Update solo cambia lo mutable: estado, notas y updated_at. El estado
// previo va en el WHERE; cero filas con el id presente = otro cambio ganó.
func (r *AppointmentsRepo) Update(ctx context.Context, a appointments.Appointment, from appointments.Status) error {
	err := requireOne(r.db.ExecContext(ctx, `
		UPDATE appointments
		SET
			status = $2,
			notes = $3,
			updated_at = $4
		WHERE id = $1 AND status = $5
	`, a.ID, string(a.Status), a.Notes, a.UpdatedAt, string(from)))
	if !errors.Is(err, apperr.ErrNotFound) {
		return err
	}
	cur, gerr := r.GetByID(ctx, a.ID)
	if gerr != nil {
		return gerr
	}
	return fmt.Errorf("%w: status is %s", apperr.ErrInvalidTransition, cur.Status)
}

func (r *AppointmentsRepo) GetByID(ctx context.Context, id string) (appointments.Appointment, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return appointments.Appointment{}, apperr.ErrNotFound
	}
	return scanAppointment(r.db.QueryRowContext(ctx, `SELECT `+appointmentColumns+` FROM appointments WHERE id = $1`, id))
}

func (r *AppointmentsRepo) List(ctx context.Context, filter appointments.ListFilter) ([]appointments.Appointment, error) {
	q, args := appointmentsListQuery(filter)
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := make([]appointments.Appointment, 0)
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, mapErr(rows.Err())
}

func appointmentsListQuery(f appointments.ListFilter) (string, []any) {
	var w where
	if v := strings.TrimSpace(f.OwnerID); v != "" {
		w.add("owner_id = $%d", v)
	}
	if v := strings.TrimSpace(f.VetID); v != "" {
		w.add("vet_id = $%d", v)
	}
	if f.Status != "" {
		w.add("status = $%d", string(f.Status))
	}
	if f.Day != nil {
		d := f.Day.UTC()
		w.add("day = $%d", time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC))
	}
	if f.From != nil {
		w.add("starts_at >= $%d", *f.From)
	}
	if f.To != nil {
		w.add("starts_at < $%d", *f.To)
	}
	return `SELECT ` + appointmentColumns + ` FROM appointments` + w.sql() + ` ORDER BY starts_at ASC, created_at ASC`, w.args
}

func scanAppointment(row scanner) (appointments.Appointment, error) {
	var (
		a      appointments.Appointment
		status string
	)
	if err := row.Scan(
		&a.ID, &a.PetID, &a.PetName, &a.OwnerID, &a.VetID, &a.VetName,
		&a.Date, &a.Time, &a.StartsAt,
		&a.Purpose, &a.Notes, &status,
		&a.CreatedBy, &a.CreatedAt, &a.UpdatedAt,
	); err != nil {
		return appointments.Appointment{}, mapErr(err)
	}
	a.Status = appointments.Status(status)
	// DATE llega como medianoche; se normaliza a UTC como el resto.
	a.Date = time.Date(a.Date.Year(), a.Date.Month(), a.Date.Day(), 0, 0, 0, 0, time.UTC)
	a.StartsAt = a.StartsAt.UTC()
	a.CreatedAt = a.CreatedAt.UTC()
	a.UpdatedAt = a.UpdatedAt.UTC()
	return a, nil
}

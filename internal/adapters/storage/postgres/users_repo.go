package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"pawsera/internal/domain/roles"
	"pawsera/internal/domain/users"
	"pawsera/internal/platform/apperr"
)

type UsersRepo struct {
	db *sql.DB
}

func NewUsersRepo(db *sql.DB) *UsersRepo {
	return &UsersRepo{db: db}
}

var _ users.Repository = (*UsersRepo)(nil)

const userColumns = `
	id, name, email, role, status,
	phone, city, specialization, clinic,
	availability, notifications,
	reviewed_by, approved_at, denied_at,
	created_at, updated_at`

func (r *UsersRepo) Create(ctx context.Context, u users.User) error {
	av, notif, err := encodePrefs(u)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
	`,
		u.ID, u.Name, u.Email, string(u.Role), string(u.Status),
		u.Phone, u.City, u.Specialization, u.Clinic,
		av, notif,
		u.ReviewedBy, nullTime(u.ApprovedAt), nullTime(u.DeniedAt),
		u.CreatedAt, u.UpdatedAt,
	)
	return mapErr(err)
}

// Update es solo perfil. Rol, estado y revisión van por UpdateStatus.
func (r *UsersRepo) Update(ctx context.Context, u users.User) error {
	av, notif, err := encodePrefs(u)
	if err != nil {
		return err
	}
	return requireOne(r.db.ExecContext(ctx, `
		UPDATE users
		SET
			name = $2,
			phone = $3,
			city = $4,
			specialization = $5,
			clinic = $6,
			availability = $7,
			notifications = $8,
			updated_at = $9
		WHERE id = $1
	`,
		u.ID, u.Name,
		u.Phone, u.City, u.Specialization, u.Clinic,
		av, notif,
		u.UpdatedAt,
	))
}

func (r *UsersRepo) UpdateStatus(ctx context.Context, u users.User, from roles.VetStatus) error {
	err := requireOne(r.db.ExecContext(ctx, `
		UPDATE users
		SET
			status = $2,
			reviewed_by = $3,
			approved_at = $4,
			denied_at = $5,
			updated_at = $6
		WHERE id = $1 AND status = $7
	`,
		u.ID, string(u.Status),
		u.ReviewedBy, nullTime(u.ApprovedAt), nullTime(u.DeniedAt),
		u.UpdatedAt, string(from),
	))
	if !errors.Is(err, apperr.ErrNotFound) {
		return err
	}
	cur, gerr := r.GetByID(ctx, u.ID)
	if gerr != nil {
		return gerr
	}
	return fmt.Errorf("%w: vet is %s", apperr.ErrInvalidTransition, cur.Status)
}

// encodePrefs serializa las preferencias a JSONB. nil se guarda como {}.
func encodePrefs(u users.User) (string, string, error) {
	av := u.Availability
	if av == nil {
		av = map[string]users.DayHours{}
	}
	notif := u.Notifications
	if notif == nil {
		notif = map[string]bool{}
	}
	a, err := json.Marshal(av)
	if err != nil {
		return "", "", fmt.Errorf("encode availability: %w", err)
	}
	n, err := json.Marshal(notif)
	if err != nil {
		return "", "", fmt.Errorf("encode notifications: %w", err)
	}
	return string(a), string(n), nil
}

func (r *UsersRepo) GetByID(ctx context.Context, id string) (users.User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return users.User{}, apperr.ErrNotFound
	}
	return scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *UsersRepo) FindByEmail(ctx context.Context, email string) (users.User, error) {
	return scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

func (r *UsersRepo) List(ctx context.Context, filter users.ListFilter) ([]users.User, error) {
	q, args := usersListQuery(filter)
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := make([]users.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, mapErr(rows.Err())
}

func usersListQuery(f users.ListFilter) (string, []any) {
	var w where
	if v := strings.TrimSpace(f.Role); v != "" {
		w.add("role = $%d", v)
	}
	if v := strings.TrimSpace(f.Status); v != "" {
		w.add("status = $%d", v)
	}
	if v := strings.TrimSpace(f.Query); v != "" {
		w.add("(name ILIKE $%[1]d OR email ILIKE $%[1]d)", "%"+v+"%")
	}
	return `SELECT ` + userColumns + ` FROM users` + w.sql() + ` ORDER BY created_at DESC`, w.args
}

func scanUser(row scanner) (users.User, error) {
	var (
		u                users.User
		role, status     string
		av, notif        []byte
		approved, denied sql.NullTime
	)
	if err := row.Scan(
		&u.ID, &u.Name, &u.Email, &role, &status,
		&u.Phone, &u.City, &u.Specialization, &u.Clinic,
		&av, &notif,
		&u.ReviewedBy, &approved, &denied,
		&u.CreatedAt, &u.UpdatedAt,
	); err != nil {
		return users.User{}, mapErr(err)
	}
	if len(av) > 0 {
		if err := json.Unmarshal(av, &u.Availability); err != nil {
			return users.User{}, fmt.Errorf("decode availability: %w", err)
		}
	}
	if len(notif) > 0 {
		if err := json.Unmarshal(notif, &u.Notifications); err != nil {
			return users.User{}, fmt.Errorf("decode notifications: %w", err)
		}
	}
	u.Role = roles.Role(role)
	u.Status = roles.VetStatus(status)
	u.ApprovedAt = timePtr(approved)
	u.DeniedAt = timePtr(denied)
	u.CreatedAt = u.CreatedAt.UTC()
	u.UpdatedAt = u.UpdatedAt.UTC()
	return u, nil
}

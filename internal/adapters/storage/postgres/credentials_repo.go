package postgres

import (
	"context"
	"database/sql"

	"pawsera/internal/ports/auth"
)

type CredentialsRepo struct {
	db *sql.DB
}

func NewCredentialsRepo(db *sql.DB) *CredentialsRepo {
	return &CredentialsRepo{db: db}
}

var _ auth.CredentialStore = (*CredentialsRepo)(nil)

func (r *CredentialsRepo) Create(ctx context.Context, c auth.Credential) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO credentials (user_id, email, password_hash, created_at)
		VALUES ($1,$2,$3,$4)
	`, c.UserID, c.Email, c.PasswordHash, c.CreatedAt)
	return mapErr(err)
}

func (r *CredentialsRepo) GetByEmail(ctx context.Context, email string) (auth.Credential, error) {
	var c auth.Credential
	err := r.db.QueryRowContext(ctx, `
		SELECT user_id, email, password_hash, created_at
		FROM credentials
		WHERE email = $1
	`, email).Scan(&c.UserID, &c.Email, &c.PasswordHash, &c.CreatedAt)
	if err != nil {
		return auth.Credential{}, mapErr(err)
	}
	return c, nil
}

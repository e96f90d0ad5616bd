package activity

import "context"

type Repository interface {
	Append(ctx context.Context, e Entry) error
	// ListRecent ordena por created_at descendente.
	ListRecent(ctx context.Context, limit int) ([]Entry, error)
}

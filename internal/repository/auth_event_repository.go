package repository

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/session-gateway/internal/domain"
)

// AuthEventRepository defines persistence access for the audit sink.
type AuthEventRepository interface {
	Create(ctx context.Context, event *domain.AuthEvent) error
	ListRecent(ctx context.Context, limit int) ([]domain.AuthEvent, error)
}

type authEventRepository struct {
	pool *pgxpool.Pool
}

// NewAuthEventRepository returns a Postgres-backed implementation.
func NewAuthEventRepository(pool *pgxpool.Pool) AuthEventRepository {
	return &authEventRepository{pool: pool}
}

func (r *authEventRepository) Create(ctx context.Context, event *domain.AuthEvent) error {
	const query = `
        INSERT INTO auth_events (id, event_type, device_id, path, detail)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING created_at`

	detail, err := json.Marshal(event.Detail)
	if err != nil {
		detail = []byte("{}")
	}

	return r.pool.QueryRow(ctx, query,
		event.ID,
		event.Type,
		event.DeviceID,
		event.Path,
		detail,
	).Scan(&event.CreatedAt)
}

func (r *authEventRepository) ListRecent(ctx context.Context, limit int) ([]domain.AuthEvent, error) {
	const query = `
        SELECT id, event_type, device_id, path, detail, created_at
        FROM auth_events ORDER BY created_at DESC LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.AuthEvent
	for rows.Next() {
		var event domain.AuthEvent
		var detail []byte
		if err := rows.Scan(&event.ID, &event.Type, &event.DeviceID, &event.Path, &detail, &event.CreatedAt); err != nil {
			return nil, err
		}
		if len(detail) > 0 {
			_ = json.Unmarshal(detail, &event.Detail)
		}
		out = append(out, event)
	}
	return out, rows.Err()
}

package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"conferencecentral/internal/domain"
)

type speakerRepository struct {
	DB *sql.DB
}

func NewSpeakerRepository(db *sql.DB) domain.SpeakerRepository {
	return &speakerRepository{DB: db}
}

// GetOrCreate is a single upsert: the no-op update makes RETURNING yield the
// existing row, so the first writer's name wins.
func (r *speakerRepository) GetOrCreate(ctx context.Context, key, name string) (*domain.Speaker, error) {
	query := `
		INSERT INTO speakers (key, name, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET key = EXCLUDED.key
		RETURNING key, name, created_at
	`
	s := &domain.Speaker{}
	if err := r.DB.QueryRowContext(ctx, query, key, name).Scan(&s.Key, &s.Name, &s.CreatedAt); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *speakerRepository) GetByKey(ctx context.Context, key string) (*domain.Speaker, error) {
	s := &domain.Speaker{}
	err := r.DB.QueryRowContext(ctx, `SELECT key, name, created_at FROM speakers WHERE key = $1`, key).
		Scan(&s.Key, &s.Name, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

func (r *speakerRepository) GetMulti(ctx context.Context, keys []string) (map[string]*domain.Speaker, error) {
	out := make(map[string]*domain.Speaker, len(keys))
	if len(keys) == 0 {
		return out, nil
	}
	rows, err := r.DB.QueryContext(ctx, `SELECT key, name, created_at FROM speakers WHERE key = ANY($1)`, pq.Array(keys))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		s := &domain.Speaker{}
		if err := rows.Scan(&s.Key, &s.Name, &s.CreatedAt); err != nil {
			return nil, err
		}
		out[s.Key] = s
	}
	return out, rows.Err()
}

func (r *speakerRepository) ListOrderedByName(ctx context.Context) ([]*domain.Speaker, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT key, name, created_at FROM speakers ORDER BY name, key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	speakers := make([]*domain.Speaker, 0)
	for rows.Next() {
		s := &domain.Speaker{}
		if err := rows.Scan(&s.Key, &s.Name, &s.CreatedAt); err != nil {
			return nil, err
		}
		speakers = append(speakers, s)
	}
	return speakers, rows.Err()
}

package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"conferencecentral/internal/domain"
)

const sessionSelect = `
	SELECT s.id, s.conference_id, c.organizer_user_id, s.name, s.highlights, s.duration_minutes,
		s.type_of_session, s.date, s.start_time, s.location, s.created_at, s.updated_at
	FROM sessions s
	INNER JOIN conferences c ON c.id = s.conference_id
`

type sessionRepository struct {
	DB *sql.DB
}

func NewSessionRepository(db *sql.DB) domain.SessionRepository {
	return &sessionRepository{DB: db}
}

func scanSession(row rowScanner) (*domain.Session, error) {
	s := &domain.Session{}
	var duration int
	var typ, start string
	err := row.Scan(&s.ID, &s.ConferenceID, &s.OrganizerUserID, &s.Name, pq.Array(&s.Highlights), &duration,
		&typ, &s.Date, &start, &s.Location, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	s.Duration = domain.ClockFromMinutes(duration)
	s.TypeOfSession = domain.TypeOfSession(typ)
	if s.StartTime, err = domain.ParseClock(start); err != nil {
		return nil, err
	}
	if s.Highlights == nil {
		s.Highlights = []string{}
	}
	s.Speakers = []string{}
	return s, nil
}

// Create inserts the session and its ordered speaker references in one transaction.
func (r *sessionRepository) Create(ctx context.Context, s *domain.Session) error {
	return withTx(ctx, r.DB, func(tx *sql.Tx) error {
		query := `
			INSERT INTO sessions (conference_id, name, highlights, duration_minutes, type_of_session, date, start_time, location, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			RETURNING id
		`
		err := tx.QueryRowContext(ctx, query,
			s.ConferenceID, s.Name, pq.Array(s.Highlights), s.Duration.Minutes(), string(s.TypeOfSession),
			s.Date, s.StartTime.String(), s.Location, s.CreatedAt, s.UpdatedAt,
		).Scan(&s.ID)
		if err != nil {
			return err
		}
		for i, key := range s.Speakers {
			if _, err := tx.ExecContext(ctx, `INSERT INTO session_speakers (session_id, position, speaker_key) VALUES ($1, $2, $3)`, s.ID, i, key); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *sessionRepository) GetByID(ctx context.Context, id int64) (*domain.Session, error) {
	s, err := scanSession(r.DB.QueryRowContext(ctx, sessionSelect+` WHERE s.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if err := r.loadSpeakers(ctx, []*domain.Session{s}); err != nil {
		return nil, err
	}
	return s, nil
}

// GetMulti returns the sessions that exist, in the order of ids.
func (r *sessionRepository) GetMulti(ctx context.Context, ids []int64) ([]*domain.Session, error) {
	if len(ids) == 0 {
		return []*domain.Session{}, nil
	}
	sessions, err := r.list(ctx, sessionSelect+` WHERE s.id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]*domain.Session, len(sessions))
	for _, s := range sessions {
		byID[s.ID] = s
	}
	ordered := make([]*domain.Session, 0, len(sessions))
	for _, id := range ids {
		if s, ok := byID[id]; ok {
			ordered = append(ordered, s)
		}
	}
	return ordered, nil
}

func (r *sessionRepository) ListByConference(ctx context.Context, conferenceID int64) ([]*domain.Session, error) {
	return r.list(ctx, sessionSelect+` WHERE s.conference_id = $1 ORDER BY s.id`, conferenceID)
}

func (r *sessionRepository) ListByConferenceAndType(ctx context.Context, conferenceID int64, t domain.TypeOfSession) ([]*domain.Session, error) {
	return r.list(ctx, sessionSelect+` WHERE s.conference_id = $1 AND s.type_of_session = $2 ORDER BY s.id`, conferenceID, string(t))
}

func (r *sessionRepository) ListBySpeaker(ctx context.Context, speakerKey string) ([]*domain.Session, error) {
	return r.list(ctx, sessionSelect+`
		WHERE EXISTS (SELECT 1 FROM session_speakers ss WHERE ss.session_id = s.id AND ss.speaker_key = $1)
		ORDER BY s.id`, speakerKey)
}

func (r *sessionRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Session, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	sessions := make([]*domain.Session, 0)
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.loadSpeakers(ctx, sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// loadSpeakers fills Speakers for all sessions with one query, keeping list order.
func (r *sessionRepository) loadSpeakers(ctx context.Context, sessions []*domain.Session) error {
	if len(sessions) == 0 {
		return nil
	}
	ids := make([]int64, len(sessions))
	for i, s := range sessions {
		ids[i] = s.ID
	}
	rows, err := r.DB.QueryContext(ctx,
		`SELECT session_id, speaker_key FROM session_speakers WHERE session_id = ANY($1) ORDER BY session_id, position`,
		pq.Array(ids))
	if err != nil {
		return err
	}
	defer rows.Close()
	bySession := make(map[int64][]string)
	for rows.Next() {
		var sessionID int64
		var key string
		if err := rows.Scan(&sessionID, &key); err != nil {
			return err
		}
		bySession[sessionID] = append(bySession[sessionID], key)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	for _, s := range sessions {
		if keys := bySession[s.ID]; keys != nil {
			s.Speakers = keys
		}
	}
	return nil
}

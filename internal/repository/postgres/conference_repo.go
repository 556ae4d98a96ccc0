package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"conferencecentral/internal/domain"
)

const conferenceColumns = `id, organizer_user_id, name, description, city, topics, month, max_attendees, seats_available, start_date, end_date, created_at, updated_at`

// conferenceColumnByProperty maps query plan properties to columns.
var conferenceColumnByProperty = map[string]string{
	domain.PropertyName:           "name",
	domain.PropertyCity:           "city",
	domain.PropertyMonth:          "month",
	domain.PropertyMaxAttendees:   "max_attendees",
	domain.PropertySeatsAvailable: "seats_available",
}

var sqlOperators = map[string]string{
	domain.OpEqual:          "=",
	domain.OpGreater:        ">",
	domain.OpGreaterOrEqual: ">=",
	domain.OpLess:           "<",
	domain.OpLessOrEqual:    "<=",
	domain.OpNotEqual:       "<>",
}

type conferenceRepository struct {
	DB *sql.DB
}

func NewConferenceRepository(db *sql.DB) domain.ConferenceRepository {
	return &conferenceRepository{DB: db}
}

func scanConference(row rowScanner) (*domain.Conference, error) {
	c := &domain.Conference{}
	var startNull, endNull sql.NullTime
	err := row.Scan(&c.ID, &c.OrganizerUserID, &c.Name, &c.Description, &c.City, pq.Array(&c.Topics),
		&c.Month, &c.MaxAttendees, &c.SeatsAvailable, &startNull, &endNull, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if startNull.Valid {
		c.StartDate = &startNull.Time
	}
	if endNull.Valid {
		c.EndDate = &endNull.Time
	}
	if c.Topics == nil {
		c.Topics = []string{}
	}
	return c, nil
}

func scanConferences(rows *sql.Rows) ([]*domain.Conference, error) {
	defer rows.Close()
	confs := make([]*domain.Conference, 0)
	for rows.Next() {
		c, err := scanConference(rows)
		if err != nil {
			return nil, err
		}
		confs = append(confs, c)
	}
	return confs, rows.Err()
}

func (r *conferenceRepository) Create(ctx context.Context, c *domain.Conference) error {
	query := `
		INSERT INTO conferences (organizer_user_id, name, description, city, topics, month, max_attendees, seats_available, start_date, end_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		c.OrganizerUserID, c.Name, c.Description, c.City, pq.Array(c.Topics), c.Month,
		c.MaxAttendees, c.SeatsAvailable, c.StartDate, c.EndDate, c.CreatedAt, c.UpdatedAt,
	).Scan(&c.ID)
}

func (r *conferenceRepository) GetByID(ctx context.Context, id int64) (*domain.Conference, error) {
	query := `SELECT ` + conferenceColumns + ` FROM conferences WHERE id = $1`
	c, err := scanConference(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

// GetMulti returns the conferences that exist, in the order of ids.
func (r *conferenceRepository) GetMulti(ctx context.Context, ids []int64) ([]*domain.Conference, error) {
	if len(ids) == 0 {
		return []*domain.Conference{}, nil
	}
	query := `SELECT ` + conferenceColumns + ` FROM conferences WHERE id = ANY($1)`
	rows, err := r.DB.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	confs, err := scanConferences(rows)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]*domain.Conference, len(confs))
	for _, c := range confs {
		byID[c.ID] = c
	}
	ordered := make([]*domain.Conference, 0, len(confs))
	for _, id := range ids {
		if c, ok := byID[id]; ok {
			ordered = append(ordered, c)
		}
	}
	return ordered, nil
}

func (r *conferenceRepository) ListByOrganizer(ctx context.Context, organizerUserID string) ([]*domain.Conference, error) {
	query := `SELECT ` + conferenceColumns + ` FROM conferences WHERE organizer_user_id = $1 ORDER BY name, id`
	rows, err := r.DB.QueryContext(ctx, query, organizerUserID)
	if err != nil {
		return nil, err
	}
	return scanConferences(rows)
}

func (r *conferenceRepository) Query(ctx context.Context, q *domain.ConferenceQuery) ([]*domain.Conference, error) {
	where, args, err := buildConferenceWhere(q.Predicates)
	if err != nil {
		return nil, err
	}
	order, err := buildConferenceOrder(q.OrderBy)
	if err != nil {
		return nil, err
	}
	query := `SELECT ` + conferenceColumns + ` FROM conferences` + where + order
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return scanConferences(rows)
}

// buildConferenceWhere renders the predicates as a conjunction with numbered
// placeholders. A predicate on topics holds when any element satisfies it.
func buildConferenceWhere(preds []domain.Predicate) (string, []any, error) {
	if len(preds) == 0 {
		return "", nil, nil
	}
	clauses := make([]string, 0, len(preds))
	args := make([]any, 0, len(preds))
	for i, p := range preds {
		op, ok := sqlOperators[p.Operator]
		if !ok {
			return "", nil, fmt.Errorf("unsupported operator %q", p.Operator)
		}
		n := i + 1
		switch {
		case p.Property == domain.PropertyTopics && p.Operator == domain.OpEqual:
			clauses = append(clauses, fmt.Sprintf("$%d = ANY(topics)", n))
		case p.Property == domain.PropertyTopics:
			clauses = append(clauses, fmt.Sprintf("EXISTS (SELECT 1 FROM unnest(topics) AS t(topic) WHERE t.topic %s $%d)", op, n))
		default:
			col, ok := conferenceColumnByProperty[p.Property]
			if !ok {
				return "", nil, fmt.Errorf("unsupported property %q", p.Property)
			}
			clauses = append(clauses, fmt.Sprintf("%s %s $%d", col, op, n))
		}
		args = append(args, p.Value)
	}
	return " WHERE " + strings.Join(clauses, " AND "), args, nil
}

func buildConferenceOrder(orderBy []string) (string, error) {
	terms := make([]string, 0, len(orderBy)+1)
	for _, prop := range orderBy {
		if prop == domain.PropertyTopics {
			terms = append(terms, "(SELECT min(t.topic) FROM unnest(topics) AS t(topic))")
			continue
		}
		col, ok := conferenceColumnByProperty[prop]
		if !ok {
			return "", fmt.Errorf("unsupported order property %q", prop)
		}
		terms = append(terms, col)
	}
	terms = append(terms, "id")
	return " ORDER BY " + strings.Join(terms, ", "), nil
}

func (r *conferenceRepository) Update(ctx context.Context, id int64, fn func(c *domain.Conference) error) (*domain.Conference, error) {
	var updated *domain.Conference
	err := withTx(ctx, r.DB, func(tx *sql.Tx) error {
		c, err := selectConferenceForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := fn(c); err != nil {
			return err
		}
		if err := updateConference(ctx, tx, c); err != nil {
			return err
		}
		updated = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func selectConferenceForUpdate(ctx context.Context, q queryer, id int64) (*domain.Conference, error) {
	query := `SELECT ` + conferenceColumns + ` FROM conferences WHERE id = $1 FOR UPDATE`
	c, err := scanConference(q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func updateConference(ctx context.Context, q queryer, c *domain.Conference) error {
	query := `
		UPDATE conferences
		SET name = $2, description = $3, city = $4, topics = $5, month = $6, max_attendees = $7,
			seats_available = $8, start_date = $9, end_date = $10, updated_at = NOW()
		WHERE id = $1
	`
	_, err := q.ExecContext(ctx, query, c.ID, c.Name, c.Description, c.City, pq.Array(c.Topics), c.Month,
		c.MaxAttendees, c.SeatsAvailable, c.StartDate, c.EndDate)
	return err
}

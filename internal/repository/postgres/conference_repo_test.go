package postgres

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"conferencecentral/internal/domain"
)

var conferenceRowColumns = []string{"id", "organizer_user_id", "name", "description", "city", "topics", "month", "max_attendees", "seats_available", "start_date", "end_date", "created_at", "updated_at"}

func conferenceRow(rows *sqlmock.Rows, id int64, name string, seats int) *sqlmock.Rows {
	ts := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	start := time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC)
	return rows.AddRow(id, "alice", name, "", "Berlin", "{Go,Cloud}", 6, 10, seats, start, nil, ts, ts)
}

func TestConferenceRepository_Create(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		wantID  int64
		wantErr bool
	}{
		{
			name: "success",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO conferences \(organizer_user_id, name, description, city, topics`).
					WithArgs("alice", "GopherCon", "", "Berlin", pq.Array([]string{"Go"}), 0, 10, 10, nil, nil, now, now).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(12)))
			},
			wantID: 12,
		},
		{
			name: "db error",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO conferences`).WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			c := &domain.Conference{
				OrganizerUserID: "alice", Name: "GopherCon", City: "Berlin", Topics: []string{"Go"},
				MaxAttendees: 10, SeatsAvailable: 10, CreatedAt: now, UpdatedAt: now,
			}
			err = NewConferenceRepository(db).Create(ctx, c)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantID, c.ID)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestConferenceRepository_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(regexp.QuoteMeta(`SELECT ` + conferenceColumns + ` FROM conferences WHERE id = $1`)).
			WithArgs(int64(12)).
			WillReturnRows(conferenceRow(sqlmock.NewRows(conferenceRowColumns), 12, "GopherCon", 4))

		c, err := NewConferenceRepository(db).GetByID(ctx, 12)
		require.NoError(t, err)
		assert.Equal(t, "GopherCon", c.Name)
		assert.Equal(t, []string{"Go", "Cloud"}, c.Topics)
		assert.Equal(t, 4, c.SeatsAvailable)
		require.NotNil(t, c.StartDate)
		assert.Nil(t, c.EndDate)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT .* FROM conferences WHERE id = \$1`).
			WithArgs(int64(99)).
			WillReturnError(sql.ErrNoRows)

		_, err = NewConferenceRepository(db).GetByID(ctx, 99)
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestConferenceRepository_GetMulti_KeepsRequestOrder(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows(conferenceRowColumns)
	conferenceRow(rows, 1, "A", 1)
	conferenceRow(rows, 2, "B", 1)
	mock.ExpectQuery(`FROM conferences WHERE id = ANY\(\$1\)`).
		WithArgs(pq.Array([]int64{2, 3, 1})).
		WillReturnRows(rows)

	got, err := NewConferenceRepository(db).GetMulti(context.Background(), []int64{2, 3, 1})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(2), got[0].ID)
	assert.Equal(t, int64(1), got[1].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBuildConferenceWhere(t *testing.T) {
	tests := []struct {
		name     string
		preds    []domain.Predicate
		wantSQL  string
		wantArgs []any
		wantErr  bool
	}{
		{name: "empty", wantSQL: ""},
		{
			name: "scalar and range",
			preds: []domain.Predicate{
				{Property: domain.PropertyCity, Operator: domain.OpEqual, Value: "Paris"},
				{Property: domain.PropertyMonth, Operator: domain.OpGreater, Value: 6},
			},
			wantSQL:  " WHERE city = $1 AND month > $2",
			wantArgs: []any{"Paris", 6},
		},
		{
			name:     "not equal",
			preds:    []domain.Predicate{{Property: domain.PropertyMaxAttendees, Operator: domain.OpNotEqual, Value: 0}},
			wantSQL:  " WHERE max_attendees <> $1",
			wantArgs: []any{0},
		},
		{
			name:     "topic equality",
			preds:    []domain.Predicate{{Property: domain.PropertyTopics, Operator: domain.OpEqual, Value: "Go"}},
			wantSQL:  " WHERE $1 = ANY(topics)",
			wantArgs: []any{"Go"},
		},
		{
			name:     "topic range",
			preds:    []domain.Predicate{{Property: domain.PropertyTopics, Operator: domain.OpLess, Value: "M"}},
			wantSQL:  " WHERE EXISTS (SELECT 1 FROM unnest(topics) AS t(topic) WHERE t.topic < $1)",
			wantArgs: []any{"M"},
		},
		{
			name:    "unknown property",
			preds:   []domain.Predicate{{Property: "organizer", Operator: domain.OpEqual, Value: "x"}},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, args, err := buildConferenceWhere(tt.preds)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, got)
			if tt.wantArgs != nil {
				assert.Equal(t, tt.wantArgs, args)
			}
		})
	}
}

func TestBuildConferenceOrder(t *testing.T) {
	got, err := buildConferenceOrder([]string{domain.PropertyMonth, domain.PropertyName})
	require.NoError(t, err)
	assert.Equal(t, " ORDER BY month, name, id", got)

	got, err = buildConferenceOrder([]string{domain.PropertyTopics, domain.PropertyName})
	require.NoError(t, err)
	assert.Equal(t, " ORDER BY (SELECT min(t.topic) FROM unnest(topics) AS t(topic)), name, id", got)

	_, err = buildConferenceOrder([]string{"bogus"})
	require.Error(t, err)
}

func TestConferenceRepository_Query(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`FROM conferences WHERE city = \$1 AND month > \$2 ORDER BY month, name, id`).
		WithArgs("Berlin", 5).
		WillReturnRows(conferenceRow(sqlmock.NewRows(conferenceRowColumns), 12, "GopherCon", 4))

	got, err := NewConferenceRepository(db).Query(context.Background(), &domain.ConferenceQuery{
		Predicates: []domain.Predicate{
			{Property: domain.PropertyCity, Operator: domain.OpEqual, Value: "Berlin"},
			{Property: domain.PropertyMonth, Operator: domain.OpGreater, Value: 5},
		},
		InequalityProperty: domain.PropertyMonth,
		OrderBy:            []string{domain.PropertyMonth, domain.PropertyName},
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestConferenceRepository_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("commits applied change", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(`FROM conferences WHERE id = \$1 FOR UPDATE`).
			WithArgs(int64(12)).
			WillReturnRows(conferenceRow(sqlmock.NewRows(conferenceRowColumns), 12, "GopherCon", 4))
		mock.ExpectExec(`UPDATE conferences`).
			WithArgs(int64(12), "GopherCon EU", "", "Berlin", sqlmock.AnyArg(), 6, 10, 4, sqlmock.AnyArg(), nil).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		got, err := NewConferenceRepository(db).Update(ctx, 12, func(c *domain.Conference) error {
			c.Name = "GopherCon EU"
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, "GopherCon EU", got.Name)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("callback error rolls back", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(`FOR UPDATE`).
			WithArgs(int64(12)).
			WillReturnRows(conferenceRow(sqlmock.NewRows(conferenceRowColumns), 12, "GopherCon", 4))
		mock.ExpectRollback()

		_, err = NewConferenceRepository(db).Update(ctx, 12, func(c *domain.Conference) error {
			return domain.ErrForbidden
		})
		require.ErrorIs(t, err, domain.ErrForbidden)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing row rolls back", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(`FOR UPDATE`).WithArgs(int64(99)).WillReturnError(sql.ErrNoRows)
		mock.ExpectRollback()

		_, err = NewConferenceRepository(db).Update(ctx, 99, func(c *domain.Conference) error {
			return errors.New("must not be called")
		})
		require.ErrorIs(t, err, domain.ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

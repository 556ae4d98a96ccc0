package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"conferencecentral/internal/domain"
)

func TestRegistrationRepository_UpdateRegistration(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	profileRows := func() *sqlmock.Rows {
		return sqlmock.NewRows(profileRowColumns).AddRow("bob", "bob", "bob@example.com", "NOT_SPECIFIED", "{}", "{}", now, now)
	}

	t.Run("both rows written on success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(`FROM conferences WHERE id = \$1 FOR UPDATE`).WithArgs(int64(12)).
			WillReturnRows(conferenceRow(sqlmock.NewRows(conferenceRowColumns), 12, "GopherCon", 1))
		mock.ExpectQuery(`FROM profiles WHERE user_id = \$1 FOR UPDATE`).WithArgs("bob").WillReturnRows(profileRows())
		mock.ExpectExec(`UPDATE conferences`).
			WithArgs(int64(12), "GopherCon", "", "Berlin", sqlmock.AnyArg(), 6, 10, 0, sqlmock.AnyArg(), nil).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE profiles`).
			WithArgs("bob", "bob", "NOT_SPECIFIED", pq.Array([]string{"k12"}), pq.Array([]string{})).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err = NewRegistrationRepository(db).UpdateRegistration(ctx, 12, "bob", func(c *domain.Conference, p *domain.Profile) error {
			c.SeatsAvailable--
			p.ConferenceKeysToAttend = append(p.ConferenceKeysToAttend, "k12")
			return nil
		})
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("neither row written on conflict", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(`FROM conferences WHERE id = \$1 FOR UPDATE`).WithArgs(int64(12)).
			WillReturnRows(conferenceRow(sqlmock.NewRows(conferenceRowColumns), 12, "GopherCon", 0))
		mock.ExpectQuery(`FROM profiles WHERE user_id = \$1 FOR UPDATE`).WithArgs("bob").WillReturnRows(profileRows())
		mock.ExpectRollback()

		err = NewRegistrationRepository(db).UpdateRegistration(ctx, 12, "bob", func(c *domain.Conference, p *domain.Profile) error {
			return domain.ErrNoSeatsAvailable
		})
		require.ErrorIs(t, err, domain.ErrNoSeatsAvailable)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

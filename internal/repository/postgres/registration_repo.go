package postgres

import (
	"context"
	"database/sql"

	"conferencecentral/internal/domain"
)

type registrationRepository struct {
	DB *sql.DB
}

func NewRegistrationRepository(db *sql.DB) domain.RegistrationRepository {
	return &registrationRepository{DB: db}
}

// UpdateRegistration locks the conference row, then the profile row, so
// concurrent registrations for one conference serialize on the seat count.
func (r *registrationRepository) UpdateRegistration(ctx context.Context, conferenceID int64, userID string, fn func(c *domain.Conference, p *domain.Profile) error) error {
	return withTx(ctx, r.DB, func(tx *sql.Tx) error {
		c, err := selectConferenceForUpdate(ctx, tx, conferenceID)
		if err != nil {
			return err
		}
		p, err := selectProfileForUpdate(ctx, tx, userID)
		if err != nil {
			return err
		}
		if err := fn(c, p); err != nil {
			return err
		}
		if err := updateConference(ctx, tx, c); err != nil {
			return err
		}
		return updateProfile(ctx, tx, p)
	})
}

package domain

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// TeeShirtSize enumerates the conference t-shirt sizes.
type TeeShirtSize string

const TeeShirtNotSpecified TeeShirtSize = "NOT_SPECIFIED"

var teeShirtSizes = map[TeeShirtSize]struct{}{
	TeeShirtNotSpecified: {},
	"XS_M": {}, "XS_W": {}, "S_M": {}, "S_W": {}, "M_M": {}, "M_W": {}, "L_M": {}, "L_W": {},
	"XL_M": {}, "XL_W": {}, "XXL_M": {}, "XXL_W": {}, "XXXL_M": {}, "XXXL_W": {},
}

// ParseTeeShirtSize validates s against the known sizes.
func ParseTeeShirtSize(s string) (TeeShirtSize, error) {
	size := TeeShirtSize(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := teeShirtSizes[size]; !ok {
		return "", fmt.Errorf("%w: unknown teeShirtSize %q", ErrInvalidInput, s)
	}
	return size, nil
}

// Profile holds a user's display data, registrations and wishlist. The key
// lists hold URL-safe keys and never contain duplicates.
type Profile struct {
	UserID                 string
	DisplayName            string
	MainEmail              string
	TeeShirtSize           TeeShirtSize
	ConferenceKeysToAttend []string
	WishlistSessionKeys    []string
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// NewProfile returns a profile for a user seen for the first time.
func NewProfile(identity *Identity, now time.Time) *Profile {
	return &Profile{
		UserID:                 identity.UserID,
		DisplayName:            identity.Nickname,
		MainEmail:              identity.Email,
		TeeShirtSize:           TeeShirtNotSpecified,
		ConferenceKeysToAttend: []string{},
		WishlistSessionKeys:    []string{},
		CreatedAt:              now,
		UpdatedAt:              now,
	}
}

// AttendsConference reports whether websafeKey is in the attend list.
func (p *Profile) AttendsConference(websafeKey string) bool {
	return containsString(p.ConferenceKeysToAttend, websafeKey)
}

// HasWishlistSession reports whether websafeKey is in the wishlist.
func (p *Profile) HasWishlistSession(websafeKey string) bool {
	return containsString(p.WishlistSessionKeys, websafeKey)
}

// RemoveConference drops websafeKey from the attend list.
func (p *Profile) RemoveConference(websafeKey string) {
	out := p.ConferenceKeysToAttend[:0]
	for _, k := range p.ConferenceKeysToAttend {
		if k != websafeKey {
			out = append(out, k)
		}
	}
	p.ConferenceKeysToAttend = out
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// ProfileUpdate carries the user-modifiable profile fields. Empty means unchanged.
type ProfileUpdate struct {
	DisplayName  string
	TeeShirtSize string
}

// ProfileRepository defines storage operations for profiles.
type ProfileRepository interface {
	// GetOrCreate returns the stored profile for p.UserID, inserting p when absent.
	GetOrCreate(ctx context.Context, p *Profile) (*Profile, error)
	GetByID(ctx context.Context, userID string) (*Profile, error)
	GetMulti(ctx context.Context, userIDs []string) (map[string]*Profile, error)
	// Update loads the profile, applies fn and stores the result in one transaction.
	Update(ctx context.Context, userID string, fn func(p *Profile) error) (*Profile, error)
}

// RegistrationRepository performs read-modify-write over a conference and a
// profile in a single transaction. If fn fails neither entity is changed.
type RegistrationRepository interface {
	UpdateRegistration(ctx context.Context, conferenceID int64, userID string, fn func(c *Conference, p *Profile) error) error
}

// ProfileService defines profile, registration and wishlist operations.
type ProfileService interface {
	GetProfile(ctx context.Context, identity *Identity) (*Profile, error)
	SaveProfile(ctx context.Context, identity *Identity, upd *ProfileUpdate) (*Profile, error)
	Register(ctx context.Context, identity *Identity, websafeConferenceKey string) (bool, error)
	Unregister(ctx context.Context, identity *Identity, websafeConferenceKey string) (bool, error)
	ListConferencesToAttend(ctx context.Context, identity *Identity) ([]*ConferenceWithOrganizer, error)
	AddSessionToWishlist(ctx context.Context, identity *Identity, websafeSessionKey string) (bool, error)
	ListWishlist(ctx context.Context, identity *Identity) ([]*SessionWithSpeakers, error)
}

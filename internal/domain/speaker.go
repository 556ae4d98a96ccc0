package domain

import (
	"context"
	"strings"
	"time"
)

// Speaker is identified by the normalized form of the name that first created it.
type Speaker struct {
	Key       string
	Name      string
	CreatedAt time.Time
}

// NormalizeSpeakerKey derives a speaker key from a name: lowercased, trimmed,
// and with every single space replaced by an underscore. Runs of spaces are not
// collapsed, so "Jane  Doe" and "Jane Doe" are different speakers.
func NormalizeSpeakerKey(name string) string {
	return strings.ReplaceAll(strings.TrimSpace(strings.ToLower(name)), " ", "_")
}

// SpeakerRepository defines storage operations for speakers.
type SpeakerRepository interface {
	// GetOrCreate atomically returns the speaker stored under key, inserting it
	// with name when absent. An existing speaker keeps its original name.
	GetOrCreate(ctx context.Context, key, name string) (*Speaker, error)
	GetByKey(ctx context.Context, key string) (*Speaker, error)
	GetMulti(ctx context.Context, keys []string) (map[string]*Speaker, error)
	ListOrderedByName(ctx context.Context) ([]*Speaker, error)
}

// FeaturedSpeakerService computes and serves the per-conference featured speaker announcement.
type FeaturedSpeakerService interface {
	// Review rescans the conference and publishes the announcement to the cache.
	Review(ctx context.Context, websafeConferenceKey string) (string, error)
}

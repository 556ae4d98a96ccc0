package domain

import "context"

// Cache keys.
const (
	AnnouncementsCacheKey    = "RECENT_ANNOUNCEMENTS"
	featuredSpeakerKeyPrefix = "FEATURED:"
)

// FeaturedSpeakerCacheKey returns the cache key holding a conference's featured speaker announcement.
func FeaturedSpeakerCacheKey(websafeConferenceKey string) string {
	return featuredSpeakerKeyPrefix + websafeConferenceKey
}

// Cache is a string key/value store for derived, disposable values.
// A missing key is reported as ok == false with a nil error.
type Cache interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// AnnouncementService maintains the "nearly sold out" announcement.
type AnnouncementService interface {
	CacheAnnouncement(ctx context.Context) (string, error)
	GetAnnouncement(ctx context.Context) (string, error)
}

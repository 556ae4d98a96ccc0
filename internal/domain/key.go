package domain

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Entity kinds addressable by a Key.
const (
	KindProfile    = "Profile"
	KindConference = "Conference"
	KindSession    = "Session"
	KindSpeaker    = "Speaker"
)

// Key is a hierarchical entity key: an optional parent, a kind, and either a
// string or a numeric id.
type Key struct {
	Parent   *Key
	Kind     string
	StringID string
	IntID    int64
}

// ProfileKey returns the root key of a user's profile.
func ProfileKey(userID string) *Key {
	return &Key{Kind: KindProfile, StringID: userID}
}

// ConferenceKey returns the key of a conference owned by the organizer's profile.
func ConferenceKey(organizerUserID string, id int64) *Key {
	return &Key{Parent: ProfileKey(organizerUserID), Kind: KindConference, IntID: id}
}

// SessionKey returns the key of a session that is a child of the given conference key.
func SessionKey(conference *Key, id int64) *Key {
	return &Key{Parent: conference, Kind: KindSession, IntID: id}
}

// SpeakerKey returns the root key of a speaker with an already normalized id.
func SpeakerKey(normalized string) *Key {
	return &Key{Kind: KindSpeaker, StringID: normalized}
}

// Equal reports whether both keys address the same entity.
func (k *Key) Equal(o *Key) bool {
	if k == nil || o == nil {
		return k == o
	}
	if k.Kind != o.Kind || k.StringID != o.StringID || k.IntID != o.IntID {
		return false
	}
	return k.Parent.Equal(o.Parent)
}

// String renders the key path, e.g. Profile:s:alice/Conference:i:12.
func (k *Key) String() string {
	var segments []string
	for cur := k; cur != nil; cur = cur.Parent {
		var seg string
		if cur.StringID != "" {
			seg = cur.Kind + ":s:" + url.PathEscape(cur.StringID)
		} else {
			seg = cur.Kind + ":i:" + strconv.FormatInt(cur.IntID, 10)
		}
		segments = append([]string{seg}, segments...)
	}
	return strings.Join(segments, "/")
}

// Encode returns the opaque URL-safe form of the key.
func (k *Key) Encode() string {
	return base64.RawURLEncoding.EncodeToString([]byte(k.String()))
}

// DecodeKey parses a URL-safe key produced by Encode.
func DecodeKey(urlsafe string) (*Key, error) {
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimSpace(urlsafe))
	if err != nil || len(raw) == 0 {
		return nil, ErrInvalidKey
	}
	var key *Key
	for _, seg := range strings.Split(string(raw), "/") {
		parts := strings.SplitN(seg, ":", 3)
		if len(parts) != 3 || !knownKind(parts[0]) {
			return nil, ErrInvalidKey
		}
		next := &Key{Parent: key, Kind: parts[0]}
		switch parts[1] {
		case "s":
			id, err := url.PathUnescape(parts[2])
			if err != nil || id == "" {
				return nil, ErrInvalidKey
			}
			next.StringID = id
		case "i":
			id, err := strconv.ParseInt(parts[2], 10, 64)
			if err != nil || id <= 0 {
				return nil, ErrInvalidKey
			}
			next.IntID = id
		default:
			return nil, ErrInvalidKey
		}
		key = next
	}
	return key, nil
}

// DecodeConferenceKey decodes urlsafe and checks it addresses a conference
// under a profile.
func DecodeConferenceKey(urlsafe string) (*Key, error) {
	key, err := DecodeKey(urlsafe)
	if err != nil {
		return nil, err
	}
	if key.Kind != KindConference || key.Parent == nil || key.Parent.Kind != KindProfile || key.Parent.Parent != nil {
		return nil, fmt.Errorf("%w: not a conference key", ErrInvalidKey)
	}
	return key, nil
}

// DecodeSessionKey decodes urlsafe and checks it addresses a session under a conference.
func DecodeSessionKey(urlsafe string) (*Key, error) {
	key, err := DecodeKey(urlsafe)
	if err != nil {
		return nil, err
	}
	if key.Kind != KindSession || key.Parent == nil {
		return nil, fmt.Errorf("%w: not a session key", ErrInvalidKey)
	}
	if _, err := DecodeConferenceKey(key.Parent.Encode()); err != nil {
		return nil, fmt.Errorf("%w: not a session key", ErrInvalidKey)
	}
	return key, nil
}

func knownKind(kind string) bool {
	switch kind {
	case KindProfile, KindConference, KindSession, KindSpeaker:
		return true
	}
	return false
}

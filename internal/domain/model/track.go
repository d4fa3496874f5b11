// Package model contains domain models passed between layers.
package model

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrMalformedID reports an identifier that is not a 24-character hex object id.
var ErrMalformedID = errors.New("malformed track id")

// TrackID identifies a track. It shares its 12-byte layout with the
// storage backend's object id so values convert without copying.
type TrackID primitive.ObjectID

// NewTrackID returns a freshly generated identifier.
func NewTrackID() TrackID {
	return TrackID(primitive.NewObjectID())
}

// ParseTrackID validates s and returns the identifier it encodes.
func ParseTrackID(s string) (TrackID, error) {
	oid, err := primitive.ObjectIDFromHex(s)
	if err != nil {
		return TrackID{}, fmt.Errorf("%w: %q", ErrMalformedID, s)
	}
	return TrackID(oid), nil
}

// String returns the 24-character lowercase hex form.
func (id TrackID) String() string {
	return primitive.ObjectID(id).Hex()
}

// IsZero reports whether id was never assigned.
func (id TrackID) IsZero() bool {
	return primitive.ObjectID(id).IsZero()
}

// MarshalText renders the id as hex so it serialises as a JSON string.
func (id TrackID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText parses a hex id.
func (id *TrackID) UnmarshalText(b []byte) error {
	parsed, err := ParseTrackID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// Track is a single song record.
type Track struct {
	ID              TrackID `json:"id"`
	Artist          string  `json:"artist"`
	Title           string  `json:"title"`
	LengthInSeconds int32   `json:"lengthInSeconds"`
	Category        string  `json:"category"`
}

// TrackFields holds everything about a track except its identifier.
// Updates replace all of these at once.
type TrackFields struct {
	Artist          string `json:"artist"`
	Title           string `json:"title"`
	LengthInSeconds int32  `json:"lengthInSeconds"`
	Category        string `json:"category"`
}

// Fields returns the replaceable part of t.
func (t Track) Fields() TrackFields {
	return TrackFields{
		Artist:          t.Artist,
		Title:           t.Title,
		LengthInSeconds: t.LengthInSeconds,
		Category:        t.Category,
	}
}

// WithID builds a Track from f carrying id.
func (f TrackFields) WithID(id TrackID) Track {
	return Track{
		ID:              id,
		Artist:          f.Artist,
		Title:           f.Title,
		LengthInSeconds: f.LengthInSeconds,
		Category:        f.Category,
	}
}

package domain

import "github.com/orgball2608/deface/pkg/errors"

// Location is a place tagged in a post.
type Location struct {
	Name      string   `json:"name"`
	Address   *string  `json:"address,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	URL       *string  `json:"url,omitempty"`
}

// Equal reports whether both locations hold the same values.
func (l Location) Equal(other Location) bool {
	return l.Name == other.Name &&
		equalPtr(l.Address, other.Address) &&
		equalPtr(l.Latitude, other.Latitude) &&
		equalPtr(l.Longitude, other.Longitude) &&
		equalPtr(l.URL, other.URL)
}

// IsMergeableWith reports whether the two locations describe the same place.
// Only the URL may differ, and only by being absent from one of them.
func (l Location) IsMergeableWith(other Location) bool {
	return l.Name == other.Name &&
		equalPtr(l.Address, other.Address) &&
		equalPtr(l.Latitude, other.Latitude) &&
		equalPtr(l.Longitude, other.Longitude) &&
		equalOrOneNil(l.URL, other.URL)
}

// Merge combines two mergeable locations, keeping whichever URL is present.
func (l Location) Merge(other Location) (Location, error) {
	if !l.IsMergeableWith(other) {
		return Location{}, errors.Unmergeable("Unable to merge unrelated locations", l, other)
	}
	if equalPtr(l.URL, other.URL) || other.URL == nil {
		return l, nil
	}
	return other, nil
}

package domain

import (
	"slices"

	"github.com/orgball2608/deface/pkg/errors"
)

// Post is one status update, consolidated across archive exports.
type Post struct {
	Timestamp          int64   `json:"timestamp"` // seconds since the epoch, the ordering key
	BackdatedTimestamp *int64  `json:"backdated_timestamp,omitempty"`
	UpdateTimestamp    *int64  `json:"update_timestamp,omitempty"` // in practice a was-updated flag
	Body               *string `json:"post,omitempty"`
	Name               *string `json:"name,omitempty"`  // recommendations only
	Title              *string `json:"title,omitempty"` // generated, e.g. "Alice updated her status."

	Text            []string         `json:"text,omitempty"`
	ExternalContext *ExternalContext `json:"external_context,omitempty"`
	Event           *Event           `json:"event,omitempty"`
	Places          []Location       `json:"places,omitempty"`
	Tags            []string         `json:"tags,omitempty"`
	Media           []Media          `json:"media,omitempty"`
}

// IsSimultaneous reports whether both posts share a timestamp.
func (p Post) IsSimultaneous(other Post) bool {
	return p.Timestamp == other.Timestamp
}

// Equal reports whether both posts hold the same values. Nil and empty lists
// are equal.
func (p Post) Equal(other Post) bool {
	return p.Timestamp == other.Timestamp &&
		equalPtr(p.BackdatedTimestamp, other.BackdatedTimestamp) &&
		equalPtr(p.UpdateTimestamp, other.UpdateTimestamp) &&
		equalPtr(p.Body, other.Body) &&
		equalPtr(p.Name, other.Name) &&
		equalPtr(p.Title, other.Title) &&
		slices.Equal(p.Text, other.Text) &&
		equalContext(p.ExternalContext, other.ExternalContext) &&
		equalPtr(p.Event, other.Event) &&
		slices.EqualFunc(p.Places, other.Places, Location.Equal) &&
		slices.Equal(p.Tags, other.Tags) &&
		slices.EqualFunc(p.Media, other.Media, Media.Equal)
}

func (p Post) isCompatibleWith(other Post) bool {
	return slices.Equal(p.Tags, other.Tags) &&
		p.Timestamp == other.Timestamp &&
		equalPtr(p.Event, other.Event) &&
		equalContext(p.ExternalContext, other.ExternalContext) &&
		equalPtr(p.Name, other.Name) &&
		slices.EqualFunc(p.Places, other.Places, Location.Equal) &&
		equalPtr(p.Body, other.Body) &&
		equalOrOneEmpty(p.Text, other.Text, eq[string]) &&
		equalOrOneNil(p.BackdatedTimestamp, other.BackdatedTimestamp) &&
		equalOrOneNil(p.Title, other.Title) &&
		equalOrOneNil(p.UpdateTimestamp, other.UpdateTimestamp)
}

// IsMergeableWith reports whether the two posts are exports of the same post.
// They must agree on everything but the media, the title, the timestamps
// besides the ordering key and the free-standing text, which may be missing
// from one of them. Media sharing a uri must be mergeable.
func (p Post) IsMergeableWith(other Post) bool {
	if !p.isCompatibleWith(other) {
		return false
	}
	_, err := mergeMedia(p.Media, other.Media)
	return err == nil
}

// Merge combines two mergeable posts, uniting their media by uri.
func (p Post) Merge(other Post) (Post, error) {
	if p.Equal(other) {
		return p, nil
	}
	if !p.isCompatibleWith(other) {
		return Post{}, errors.Unmergeable("Unable to merge unrelated posts", p, other)
	}
	media, err := mergeMedia(p.Media, other.Media)
	if err != nil {
		return Post{}, err
	}

	merged := p
	merged.Media = media
	merged.BackdatedTimestamp = firstNonNil(p.BackdatedTimestamp, other.BackdatedTimestamp)
	merged.Title = firstNonNil(p.Title, other.Title)
	merged.UpdateTimestamp = firstNonNil(p.UpdateTimestamp, other.UpdateTimestamp)
	if len(p.Text) == 0 {
		merged.Text = other.Text
	}
	return merged, nil
}

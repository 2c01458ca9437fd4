package domain

import "fmt"

// MediaType tells photos from videos.
type MediaType string

const (
	Photo MediaType = "PHOTO"
	Video MediaType = "VIDEO"
)

// UnmarshalText accepts the symbolic names only.
func (t *MediaType) UnmarshalText(text []byte) error {
	switch MediaType(text) {
	case Photo, Video:
		*t = MediaType(text)
		return nil
	}
	return fmt.Errorf("unknown media type %q", text)
}

// Comment is a comment on a photo or video.
type Comment struct {
	Author    string `json:"author"`
	Body      string `json:"comment"`
	Timestamp int64  `json:"timestamp"`
}

// Event is an event a post is about.
type Event struct {
	Name           string `json:"name"`
	StartTimestamp int64  `json:"start_timestamp"`
	EndTimestamp   int64  `json:"end_timestamp"` // zero for events without a defined duration
}

// ExternalContext links a post to external content.
type ExternalContext struct {
	URL    string  `json:"url"`
	Name   *string `json:"name,omitempty"`   // website name or article title
	Source *string `json:"source,omitempty"` // website or publication name
}

// Equal reports whether both contexts hold the same values.
func (c ExternalContext) Equal(other ExternalContext) bool {
	return c.URL == other.URL &&
		equalPtr(c.Name, other.Name) &&
		equalPtr(c.Source, other.Source)
}

func equalContext(a, b *ExternalContext) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

package ingest

import (
	"github.com/orgball2608/deface/internal/domain"
	"github.com/orgball2608/deface/internal/validator"
)

var (
	commentKeys         = validator.Keys("author", "comment", "timestamp")
	eventKeys           = validator.Keys("name", "start_timestamp", "end_timestamp")
	externalContextKeys = validator.Keys("name", "source", "url")
	locationKeys        = validator.Keys("address", "coordinate", "name", "url")
	coordinateKeys      = validator.Keys("latitude", "longitude")
)

// Comment decodes a comment on a photo or video.
func Comment(v validator.Value) (domain.Comment, error) {
	f, err := read(v, commentKeys)
	if err != nil {
		return domain.Comment{}, err
	}
	comment := domain.Comment{
		Author:    f.string("author"),
		Body:      f.string("comment"),
		Timestamp: f.integer("timestamp"),
	}
	if f.err != nil {
		return domain.Comment{}, f.err
	}
	return comment, nil
}

// Event decodes the event a post is about.
func Event(v validator.Value) (domain.Event, error) {
	f, err := read(v, eventKeys)
	if err != nil {
		return domain.Event{}, err
	}
	event := domain.Event{
		Name:           f.string("name"),
		StartTimestamp: f.integer("start_timestamp"),
		EndTimestamp:   f.integer("end_timestamp"),
	}
	if f.err != nil {
		return domain.Event{}, f.err
	}
	return event, nil
}

// ExternalContext decodes a link to external content.
func ExternalContext(v validator.Value) (domain.ExternalContext, error) {
	f, err := read(v, externalContextKeys)
	if err != nil {
		return domain.ExternalContext{}, err
	}
	context := domain.ExternalContext{
		Name:   f.optionalString("name"),
		Source: f.optionalString("source"),
		URL:    f.string("url"),
	}
	if f.err != nil {
		return domain.ExternalContext{}, f.err
	}
	return context, nil
}

// Location decodes a place. Its coordinate, if any, must carry both latitude
// and longitude.
func Location(v validator.Value) (domain.Location, error) {
	f, err := read(v, locationKeys)
	if err != nil {
		return domain.Location{}, err
	}

	var location domain.Location
	location.Address = f.optionalString("address")
	if f.err == nil && f.Has("coordinate") {
		value, _ := f.field("coordinate")
		coordinate, err := read(value, coordinateKeys)
		if err != nil {
			return domain.Location{}, err
		}
		latitude, longitude := coordinate.float("latitude"), coordinate.float("longitude")
		if coordinate.err != nil {
			return domain.Location{}, coordinate.err
		}
		location.Latitude, location.Longitude = &latitude, &longitude
	}
	location.Name = f.string("name")
	location.URL = f.optionalString("url")

	if f.err != nil {
		return domain.Location{}, f.err
	}
	return location, nil
}

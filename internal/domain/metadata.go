package domain

import "github.com/orgball2608/deface/pkg/errors"

// MediaMetaData holds the camera and geometry details of a photo or video.
// Every field is optional.
type MediaMetaData struct {
	CameraMake        *string  `json:"camera_make,omitempty"`
	CameraModel       *string  `json:"camera_model,omitempty"`
	Exposure          *string  `json:"exposure,omitempty"`
	FocalLength       *string  `json:"focal_length,omitempty"`
	FStop             *string  `json:"f_stop,omitempty"`
	ISOSpeed          *int64   `json:"iso_speed,omitempty"`
	Latitude          *float64 `json:"latitude,omitempty"`
	Longitude         *float64 `json:"longitude,omitempty"`
	ModifiedTimestamp *int64   `json:"modified_timestamp,omitempty"`
	Orientation       *int64   `json:"orientation,omitempty"`
	OriginalHeight    *int64   `json:"original_height,omitempty"`
	OriginalWidth     *int64   `json:"original_width,omitempty"`
	TakenTimestamp    *int64   `json:"taken_timestamp,omitempty"`
}

// Equal reports whether both records hold the same values.
func (m MediaMetaData) Equal(other MediaMetaData) bool {
	return equalPtr(m.CameraMake, other.CameraMake) &&
		equalPtr(m.CameraModel, other.CameraModel) &&
		equalPtr(m.Exposure, other.Exposure) &&
		equalPtr(m.FocalLength, other.FocalLength) &&
		equalPtr(m.FStop, other.FStop) &&
		equalPtr(m.ISOSpeed, other.ISOSpeed) &&
		equalPtr(m.Latitude, other.Latitude) &&
		equalPtr(m.Longitude, other.Longitude) &&
		equalPtr(m.ModifiedTimestamp, other.ModifiedTimestamp) &&
		equalPtr(m.Orientation, other.Orientation) &&
		equalPtr(m.OriginalHeight, other.OriginalHeight) &&
		equalPtr(m.OriginalWidth, other.OriginalWidth) &&
		equalPtr(m.TakenTimestamp, other.TakenTimestamp)
}

// IsEmpty reports whether no field is set.
func (m MediaMetaData) IsEmpty() bool {
	return m.Equal(MediaMetaData{})
}

// IsMergeableWith reports whether every field is either equal or absent from
// one of the two records.
func (m MediaMetaData) IsMergeableWith(other MediaMetaData) bool {
	return equalOrOneNil(m.CameraMake, other.CameraMake) &&
		equalOrOneNil(m.CameraModel, other.CameraModel) &&
		equalOrOneNil(m.Exposure, other.Exposure) &&
		equalOrOneNil(m.FocalLength, other.FocalLength) &&
		equalOrOneNil(m.FStop, other.FStop) &&
		equalOrOneNil(m.ISOSpeed, other.ISOSpeed) &&
		equalOrOneNil(m.Latitude, other.Latitude) &&
		equalOrOneNil(m.Longitude, other.Longitude) &&
		equalOrOneNil(m.ModifiedTimestamp, other.ModifiedTimestamp) &&
		equalOrOneNil(m.Orientation, other.Orientation) &&
		equalOrOneNil(m.OriginalHeight, other.OriginalHeight) &&
		equalOrOneNil(m.OriginalWidth, other.OriginalWidth) &&
		equalOrOneNil(m.TakenTimestamp, other.TakenTimestamp)
}

// Merge fills the absent fields of m from other.
func (m MediaMetaData) Merge(other MediaMetaData) (MediaMetaData, error) {
	if m.Equal(other) {
		return m, nil
	}
	if !m.IsMergeableWith(other) {
		return MediaMetaData{}, errors.Unmergeable("Unable to merge media metadata", m, other)
	}
	return MediaMetaData{
		CameraMake:        firstNonNil(m.CameraMake, other.CameraMake),
		CameraModel:       firstNonNil(m.CameraModel, other.CameraModel),
		Exposure:          firstNonNil(m.Exposure, other.Exposure),
		FocalLength:       firstNonNil(m.FocalLength, other.FocalLength),
		FStop:             firstNonNil(m.FStop, other.FStop),
		ISOSpeed:          firstNonNil(m.ISOSpeed, other.ISOSpeed),
		Latitude:          firstNonNil(m.Latitude, other.Latitude),
		Longitude:         firstNonNil(m.Longitude, other.Longitude),
		ModifiedTimestamp: firstNonNil(m.ModifiedTimestamp, other.ModifiedTimestamp),
		Orientation:       firstNonNil(m.Orientation, other.Orientation),
		OriginalHeight:    firstNonNil(m.OriginalHeight, other.OriginalHeight),
		OriginalWidth:     firstNonNil(m.OriginalWidth, other.OriginalWidth),
		TakenTimestamp:    firstNonNil(m.TakenTimestamp, other.TakenTimestamp),
	}, nil
}

func equalMetadata(a, b *MediaMetaData) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

package domain

import (
	"slices"

	"github.com/orgball2608/deface/pkg/errors"
)

// Media is a photo or video attached to a post.
type Media struct {
	MediaType         MediaType      `json:"media_type"`
	URI               string         `json:"uri"` // archive-relative path
	Description       *string        `json:"description,omitempty"`
	Title             *string        `json:"title,omitempty"`
	Thumbnail         *string        `json:"thumbnail,omitempty"`
	Metadata          *MediaMetaData `json:"metadata,omitempty"`
	CreationTimestamp *int64         `json:"creation_timestamp,omitempty"`
	UploadTimestamp   *int64         `json:"upload_timestamp,omitempty"`
	UploadIP          *string        `json:"upload_ip,omitempty"`
	Comments          []Comment      `json:"comments,omitempty"`
}

// Equal reports whether both descriptors hold the same values. Nil and empty
// comment lists are equal.
func (m Media) Equal(other Media) bool {
	return m.MediaType == other.MediaType &&
		m.URI == other.URI &&
		equalPtr(m.Description, other.Description) &&
		equalPtr(m.Title, other.Title) &&
		equalPtr(m.Thumbnail, other.Thumbnail) &&
		equalMetadata(m.Metadata, other.Metadata) &&
		equalPtr(m.CreationTimestamp, other.CreationTimestamp) &&
		equalPtr(m.UploadTimestamp, other.UploadTimestamp) &&
		equalPtr(m.UploadIP, other.UploadIP) &&
		slices.Equal(m.Comments, other.Comments)
}

// IsMergeableWith reports whether the two descriptors describe the same photo
// or video.
func (m Media) IsMergeableWith(other Media) bool {
	if m.Metadata != nil && other.Metadata != nil && !m.Metadata.IsMergeableWith(*other.Metadata) {
		return false
	}
	return m.MediaType == other.MediaType &&
		m.URI == other.URI &&
		equalPtr(m.Description, other.Description) &&
		equalPtr(m.Thumbnail, other.Thumbnail) &&
		equalPtr(m.CreationTimestamp, other.CreationTimestamp) &&
		equalPtr(m.UploadTimestamp, other.UploadTimestamp) &&
		equalOrOneNil(m.Title, other.Title) &&
		equalOrOneNil(m.UploadIP, other.UploadIP) &&
		equalOrOneEmpty(m.Comments, other.Comments, eq[Comment])
}

// Merge combines two mergeable descriptors. When both carry comments, the
// receiver's comments are kept.
func (m Media) Merge(other Media) (Media, error) {
	if m.Equal(other) {
		return m, nil
	}
	if !m.IsMergeableWith(other) {
		return Media{}, errors.Unmergeable("Unable to merge media descriptors", m, other)
	}

	merged := m
	if len(m.Comments) == 0 {
		merged.Comments = other.Comments
	}
	switch {
	case m.Metadata == nil:
		merged.Metadata = other.Metadata
	case other.Metadata != nil:
		metadata, err := m.Metadata.Merge(*other.Metadata)
		if err != nil {
			return Media{}, err
		}
		merged.Metadata = &metadata
	}
	merged.Title = firstNonNil(m.Title, other.Title)
	merged.UploadIP = firstNonNil(m.UploadIP, other.UploadIP)
	return merged, nil
}

// mergeMedia combines two media lists by uri, in order of first appearance.
func mergeMedia(left, right []Media) ([]Media, error) {
	merged := make([]Media, 0, len(left)+len(right))
	position := make(map[string]int, len(left)+len(right))

	for _, media := range slices.Concat(left, right) {
		i, seen := position[media.URI]
		if !seen {
			position[media.URI] = len(merged)
			merged = append(merged, media)
			continue
		}
		if !merged[i].IsMergeableWith(media) {
			return nil, errors.Unmergeable(
				"Unable to merge posts with different media descriptors for the same photo/video",
				merged[i], media,
			)
		}
		combined, err := merged[i].Merge(media)
		if err != nil {
			return nil, err
		}
		merged[i] = combined
	}
	return merged, nil
}

package domain

import (
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/orgball2608/deface/pkg/errors"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const propertyRounds = 2000

func pick[T any](r *rand.Rand, values ...T) T {
	return values[r.IntN(len(values))]
}

func maybe[T any](r *rand.Rand, values ...T) *T {
	if r.IntN(3) == 0 {
		return nil
	}
	return lo.ToPtr(pick(r, values...))
}

func randomLocation(r *rand.Rand) Location {
	location := Location{
		Name:    pick(r, "Wonderland", "Looking-Glass House"),
		Address: maybe(r, "Rabbit Hole 1"),
		URL:     maybe(r, "https://a.example", "https://b.example"),
	}
	if r.IntN(2) == 0 {
		location.Latitude = lo.ToPtr(pick(r, 51.75, 52.2))
		location.Longitude = lo.ToPtr(-1.25)
	}
	return location
}

func randomMetadata(r *rand.Rand) *MediaMetaData {
	if r.IntN(3) == 0 {
		return nil
	}
	return &MediaMetaData{
		CameraMake:     maybe(r, "Canon", "Nikon"),
		ISOSpeed:       maybe[int64](r, 100, 400),
		Latitude:       maybe(r, 1.5),
		TakenTimestamp: maybe[int64](r, 665, 666),
	}
}

func randomComments(r *rand.Rand) []Comment {
	switch r.IntN(3) {
	case 0:
		return nil
	case 1:
		return []Comment{{Author: "Queen", Body: "Off with her head!", Timestamp: 667}}
	default:
		return []Comment{{Author: "Alice", Body: "Stuff and nonsense!", Timestamp: 669}}
	}
}

func randomMedia(r *rand.Rand, uri string) Media {
	return Media{
		MediaType:         Photo,
		URI:               uri,
		Description:       maybe(r, "tea party"),
		Title:             maybe(r, "Mobile Uploads", "Timeline Photos"),
		Metadata:          randomMetadata(r),
		CreationTimestamp: lo.ToPtr[int64](665),
		UploadIP:          maybe(r, "127.0.0.1", "10.0.0.1"),
		Comments:          randomComments(r),
	}
}

func randomPost(r *rand.Rand) Post {
	post := Post{
		Timestamp:       665,
		Body:            maybe(r, "But what did the Dormouse say?"),
		Title:           maybe(r, "Alice", "Alice updated her status."),
		UpdateTimestamp: maybe[int64](r, 665),
	}
	for range r.IntN(3) {
		post.Media = append(post.Media, randomMedia(r, pick(r, "a.jpg", "b.jpg", "c.jpg")))
	}
	if r.IntN(4) == 0 {
		post.Places = []Location{{Name: "Wonderland"}}
	}
	return post
}

func TestLocationMerge(t *testing.T) {
	withURL := Location{Name: "Wonderland", Address: lo.ToPtr("Rabbit Hole 1"), URL: lo.ToPtr("https://a.example")}
	withoutURL := Location{Name: "Wonderland", Address: lo.ToPtr("Rabbit Hole 1")}
	otherURL := Location{Name: "Wonderland", Address: lo.ToPtr("Rabbit Hole 1"), URL: lo.ToPtr("https://b.example")}
	elsewhere := Location{Name: "Wonderland", Address: lo.ToPtr("Rabbit Hole 2")}

	tests := []struct {
		name      string
		left      Location
		right     Location
		want      Location
		wantError bool
	}{
		{name: "url on the left", left: withURL, right: withoutURL, want: withURL},
		{name: "url on the right", left: withoutURL, right: withURL, want: withURL},
		{name: "equal", left: withoutURL, right: withoutURL, want: withoutURL},
		{name: "divergent urls", left: withURL, right: otherURL, wantError: true},
		{name: "different address", left: withoutURL, right: elsewhere, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.left.Merge(tt.right)
			if tt.wantError {
				require.Error(t, err)
				assert.True(t, errors.IsMerge(err))
				assert.Equal(t, "Unable to merge unrelated locations", err.Error())
				assert.Len(t, errors.Details(err), 2)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), cmp.Diff(tt.want, got))
		})
	}
}

func TestLocationMergeProperty(t *testing.T) {
	r := rand.New(rand.NewPCG(665, 42))
	for range propertyRounds {
		left, right := randomLocation(r), randomLocation(r)
		merged, err := left.Merge(right)
		if !left.IsMergeableWith(right) {
			require.Error(t, err)
			continue
		}
		require.NoError(t, err)
		switch {
		case left.URL != nil:
			assert.Equal(t, *left.URL, *merged.URL)
		case right.URL != nil:
			assert.Equal(t, *right.URL, *merged.URL)
		default:
			assert.Nil(t, merged.URL)
		}
	}
}

func TestMetadataMerge(t *testing.T) {
	left := MediaMetaData{CameraMake: lo.ToPtr("Canon"), TakenTimestamp: lo.ToPtr[int64](665)}
	right := MediaMetaData{CameraModel: lo.ToPtr("EOS"), TakenTimestamp: lo.ToPtr[int64](665)}

	merged, err := left.Merge(right)
	require.NoError(t, err)
	want := MediaMetaData{CameraMake: lo.ToPtr("Canon"), CameraModel: lo.ToPtr("EOS"), TakenTimestamp: lo.ToPtr[int64](665)}
	assert.True(t, merged.Equal(want), cmp.Diff(want, merged))

	_, err = left.Merge(MediaMetaData{TakenTimestamp: lo.ToPtr[int64](666)})
	require.Error(t, err)
	assert.Equal(t, "Unable to merge media metadata", err.Error())

	assert.True(t, MediaMetaData{}.IsEmpty())
	assert.False(t, left.IsEmpty())
}

func TestMediaMerge(t *testing.T) {
	comments := []Comment{{Author: "Queen", Body: "Nearly two miles high", Timestamp: 667}}
	left := Media{MediaType: Photo, URI: "alice.jpg", Comments: comments}
	right := Media{MediaType: Photo, URI: "alice.jpg", Title: lo.ToPtr("Mobile Uploads"), UploadIP: lo.ToPtr("127.0.0.1")}

	merged, err := left.Merge(right)
	require.NoError(t, err)
	assert.Equal(t, comments, merged.Comments)
	assert.Equal(t, "Mobile Uploads", *merged.Title)
	assert.Equal(t, "127.0.0.1", *merged.UploadIP)

	_, err = left.Merge(Media{MediaType: Video, URI: "alice.jpg"})
	require.Error(t, err)
	assert.True(t, errors.IsMerge(err))
	assert.Equal(t, "Unable to merge media descriptors", err.Error())
}

func TestMediaMergeKeepsFirstComments(t *testing.T) {
	left := Media{MediaType: Photo, URI: "alice.jpg", Comments: []Comment{{Author: "Queen", Body: "Off with her head!", Timestamp: 1}}}
	right := Media{MediaType: Photo, URI: "alice.jpg", Comments: []Comment{{Author: "Alice", Body: "Nonsense!", Timestamp: 2}}}
	assert.False(t, left.IsMergeableWith(right))

	right.Comments = nil
	merged, err := left.Merge(right)
	require.NoError(t, err)
	assert.Equal(t, left.Comments, merged.Comments)
}

func TestMediaMergeIsIdempotent(t *testing.T) {
	r := rand.New(rand.NewPCG(4, 2))
	mergeable := 0
	for range propertyRounds {
		left, right := randomMedia(r, "alice.jpg"), randomMedia(r, "alice.jpg")
		if !left.IsMergeableWith(right) {
			_, err := left.Merge(right)
			if !left.Equal(right) {
				require.Error(t, err)
			}
			continue
		}
		mergeable++
		once, err := left.Merge(right)
		require.NoError(t, err)
		twice, err := once.Merge(right)
		require.NoError(t, err)
		assert.True(t, once.Equal(twice), cmp.Diff(once, twice))
	}
	assert.Positive(t, mergeable)
}

func TestPostMergeAgreesWithMergeability(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 3))
	for range propertyRounds {
		left, right := randomPost(r), randomPost(r)
		merged, err := left.Merge(right)
		if left.Equal(right) {
			require.NoError(t, err)
			continue
		}
		if !left.IsMergeableWith(right) {
			require.Error(t, err)
			assert.True(t, errors.IsMerge(err))
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, left.Timestamp, merged.Timestamp)
		for _, media := range append(left.Media, right.Media...) {
			assert.True(t, lo.ContainsBy(merged.Media, func(m Media) bool { return m.URI == media.URI }))
		}
	}
}

func TestPostMergeMedia(t *testing.T) {
	a := Media{MediaType: Photo, URI: "a.jpg"}
	b := Media{MediaType: Photo, URI: "b.jpg"}
	c := Media{MediaType: Video, URI: "c.mp4"}
	left := Post{Timestamp: 3, Title: lo.ToPtr("Alice"), Media: []Media{a, b}}
	right := Post{Timestamp: 3, UpdateTimestamp: lo.ToPtr[int64](3), Media: []Media{c, b}}

	merged, err := left.Merge(right)
	require.NoError(t, err)
	assert.Equal(t, []Media{a, b, c}, merged.Media)
	assert.Equal(t, "Alice", *merged.Title)
	assert.Equal(t, int64(3), *merged.UpdateTimestamp)

	conflicting := Post{Timestamp: 3, Media: []Media{{MediaType: Video, URI: "a.jpg"}}}
	assert.False(t, left.IsMergeableWith(conflicting))
	_, err = left.Merge(conflicting)
	require.Error(t, err)
	assert.Equal(t, "Unable to merge posts with different media descriptors for the same photo/video", err.Error())
}

func TestUnrelatedPosts(t *testing.T) {
	left := Post{Timestamp: 665, Title: lo.ToPtr("Alice"), Body: lo.ToPtr("Curiouser and curiouser!")}
	right := Post{Timestamp: 665, Title: lo.ToPtr("Bob"), Body: lo.ToPtr("Off with her head!")}

	assert.True(t, left.IsSimultaneous(right))
	assert.False(t, left.IsMergeableWith(right))
	_, err := left.Merge(right)
	require.Error(t, err)
	assert.Equal(t, "Unable to merge unrelated posts", err.Error())
	assert.Equal(t, []any{left, right}, errors.Details(err))
}

func TestRoundTrip(t *testing.T) {
	post := Post{
		Timestamp: 665,
		Title:     lo.ToPtr("Alice"),
		Body:      lo.ToPtr("But what did the Dormouse say?"),
		ExternalContext: &ExternalContext{
			URL: "https://gutenberg.org/cache/epub/28885/pg28885-images.html",
		},
		Media: []Media{{
			MediaType: Photo,
			URI:       "alice.jpg",
			UploadIP:  lo.ToPtr("127.0.0.1"),
			Metadata:  &MediaMetaData{ISOSpeed: lo.ToPtr[int64](100), Latitude: lo.ToPtr(51.75)},
			Comments: []Comment{
				{Author: "Queen", Body: "Nearly two miles high", Timestamp: 667},
				{Author: "Alice", Body: "Stuff and nonsense!", Timestamp: 669},
			},
		}},
		Places: []Location{{Name: "Wonderland"}},
		Tags:   []string{"Hatter", "Queen"},
		Text:   []string{},
	}

	data, err := EncodePost(post)
	require.NoError(t, err)
	decoded, err := DecodePost(data)
	require.NoError(t, err)
	assert.True(t, post.Equal(decoded), cmp.Diff(post, decoded))
}

func TestEncodingIsSparse(t *testing.T) {
	data, err := EncodePost(Post{
		Timestamp: 665,
		Event:     &Event{Name: "Tea Party", StartTimestamp: 665},
		Media:     []Media{{MediaType: Video, URI: "v.mp4"}},
		Text:      []string{},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"timestamp": 665,
		"event": {"name": "Tea Party", "start_timestamp": 665, "end_timestamp": 0},
		"media": [{"media_type": "VIDEO", "uri": "v.mp4"}]
	}`, string(data))
}

func TestDecodeRejectsUnknownMediaType(t *testing.T) {
	_, err := DecodePost([]byte(`{"timestamp": 1, "media": [{"media_type": "AUDIO", "uri": "x"}]}`))
	assert.Error(t, err)
}

// Package history consolidates posts from overlapping archive exports into
// one timeline.
package history

import (
	"sort"

	"github.com/orgball2608/deface/internal/domain"
	"github.com/orgball2608/deface/internal/ingest"
	"github.com/orgball2608/deface/internal/validator"
)

// slot holds the posts sharing one timestamp. Most timestamps have a single
// post, which is kept in one; many is only used after a collision.
type slot struct {
	one  domain.Post
	many []domain.Post
}

// History is a set of posts keyed by timestamp. Posts that are exports of the
// same post are merged when added. A History is not safe for concurrent use.
type History struct {
	posts map[int64]*slot
	order []int64
}

func New() *History {
	return &History{posts: make(map[int64]*slot)}
}

// Len returns the number of distinct posts.
func (h *History) Len() int {
	n := 0
	for _, s := range h.posts {
		if s.many != nil {
			n += len(s.many)
		} else {
			n++
		}
	}
	return n
}

// Add adds the post, merging it with the first mergeable post of the same
// timestamp if there is one.
func (h *History) Add(post domain.Post) error {
	s, ok := h.posts[post.Timestamp]
	if !ok {
		h.posts[post.Timestamp] = &slot{one: post}
		h.order = append(h.order, post.Timestamp)
		return nil
	}

	if s.many == nil {
		if !s.one.IsMergeableWith(post) {
			s.many = []domain.Post{s.one, post}
			s.one = domain.Post{}
			return nil
		}
		merged, err := s.one.Merge(post)
		if err != nil {
			return err
		}
		s.one = merged
		return nil
	}

	for i, other := range s.many {
		if other.IsMergeableWith(post) {
			merged, err := other.Merge(post)
			if err != nil {
				return err
			}
			s.many[i] = merged
			return nil
		}
	}
	s.many = append(s.many, post)
	return nil
}

// Ingest decodes the list of posts wrapped by v and adds them. It returns
// the errors for posts that could not be decoded or added.
func (h *History) Ingest(v validator.Value) []error {
	posts, errs := ingest.Posts(v)
	for _, post := range posts {
		if err := h.Add(post); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// Timeline returns all posts ordered by timestamp. Posts sharing a timestamp
// keep the order in which they were first added.
func (h *History) Timeline() []domain.Post {
	timeline := make([]domain.Post, 0, len(h.order))
	for _, timestamp := range h.order {
		s := h.posts[timestamp]
		if s.many != nil {
			timeline = append(timeline, s.many...)
		} else {
			timeline = append(timeline, s.one)
		}
	}
	sort.SliceStable(timeline, func(i, j int) bool {
		return timeline[i].Timestamp < timeline[j].Timestamp
	})
	return timeline
}

// Range is a half-open range of timeline indices.
type Range struct {
	Start int
	Stop  int
}

// Len returns the number of indices in the range.
func (r Range) Len() int {
	return r.Stop - r.Start
}

// FindSimultaneous returns the maximal runs of two or more posts sharing a
// timestamp. The timeline must be sorted by timestamp.
func FindSimultaneous(timeline []domain.Post) []Range {
	var ranges []Range
	for start := 0; start < len(timeline); {
		stop := start + 1
		for stop < len(timeline) && timeline[start].IsSimultaneous(timeline[stop]) {
			stop++
		}
		if stop-start > 1 {
			ranges = append(ranges, Range{Start: start, Stop: stop})
		}
		start = stop
	}
	return ranges
}

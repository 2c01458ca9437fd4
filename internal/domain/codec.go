package domain

import (
	"fmt"

	"github.com/goccy/go-json"
)

// EncodePost serializes a post. Absent and empty fields are omitted.
func EncodePost(post Post) ([]byte, error) {
	return json.Marshal(post)
}

// DecodePost reconstructs a post from the output of EncodePost. Omitted lists
// come back as nil.
func DecodePost(data []byte) (Post, error) {
	var post Post
	if err := json.Unmarshal(data, &post); err != nil {
		return Post{}, fmt.Errorf("decode post: %w", err)
	}
	return post, nil
}

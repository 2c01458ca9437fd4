// Package ingest decodes the posts of a personal data archive into domain
// records. Decoding is strict: every object may only carry known fields, and
// the first structural defect of a post is reported with its key path.
package ingest

import (
	"bytes"
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"github.com/orgball2608/deface/internal/domain"
	"github.com/orgball2608/deface/internal/validator"
	"github.com/orgball2608/deface/pkg/errors"
	"github.com/orgball2608/deface/pkg/mojibake"
)

// Parse repairs and parses the JSON text of an archive file. Numbers are kept
// as json.Number so that the validator tells integers from floats. The text
// must hold exactly one value. A top-level {"status_updates": [...]} object is
// unwrapped to its list.
func Parse(data []byte) (any, error) {
	decoder := json.NewDecoder(bytes.NewReader(mojibake.Restore(data)))
	decoder.UseNumber()

	var value any
	if err := decoder.Decode(&value); err != nil {
		return nil, err
	}
	var extra any
	if err := decoder.Decode(&extra); !errors.Is(err, io.EOF) {
		if err == nil {
			err = fmt.Errorf("extra data after the top-level value")
		}
		return nil, err
	}
	if object, ok := value.(map[string]any); ok {
		if updates, ok := object["status_updates"]; ok {
			return updates, nil
		}
	}
	return value, nil
}

// Posts decodes a list of posts. A post that fails to decode is skipped; its
// error is returned instead. Validation errors carry the raw post.
func Posts(v validator.Value) ([]domain.Post, []error) {
	list, err := v.ToList()
	if err != nil {
		return nil, []error{err}
	}

	var posts []domain.Post
	var errs []error
	for _, item := range list.Items() {
		post, err := Post(item)
		if err != nil {
			errs = append(errs, withRecord(err, item.Raw()))
			continue
		}
		posts = append(posts, post)
	}
	return posts, errs
}

// Open parses the named archive file and wraps its root value. Malformed
// JSON is reported as a validation error.
func Open(data []byte, name string) (validator.Value, error) {
	value, err := Parse(data)
	if err != nil {
		return validator.Value{}, errors.Invalid("%s is not valid JSON: %v", name, err)
	}
	return validator.New(value, name), nil
}

// Document parses the named archive file and decodes its posts.
func Document(data []byte, name string) ([]domain.Post, []error) {
	root, err := Open(data, name)
	if err != nil {
		return nil, []error{err}
	}
	return Posts(root)
}

func withRecord(err error, record any) error {
	var verr *errors.ValidationError
	if errors.As(err, &verr) {
		return verr.WithRecord(record)
	}
	return err
}

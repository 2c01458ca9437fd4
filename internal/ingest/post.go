package ingest

import (
	"github.com/orgball2608/deface/internal/domain"
	"github.com/orgball2608/deface/internal/validator"
	"github.com/orgball2608/deface/pkg/errors"
	"github.com/samber/lo"
)

var (
	postKeys    = validator.Keys("attachments", "data", "tags", "timestamp", "title")
	wrapperKeys = validator.Keys("data")

	attachmentVariants = map[string]variant{
		"event":            decodeOnce("event", Event, eq[domain.Event], func(p *domain.Post, e domain.Event) { p.Event = &e }),
		"external_context": decodeOnce("external_context", ExternalContext, domain.ExternalContext.Equal, func(p *domain.Post, c domain.ExternalContext) { p.ExternalContext = &c }),
		"media":            addMedia,
		"name":             decodeOnce("name", validator.Value.ToString, eq[string], func(p *domain.Post, s string) { p.Name = &s }),
		"place":            addPlace,
		"text":             addText,
	}
	attachmentKeys = validator.Keys(lo.Keys(attachmentVariants)...)

	dataVariants = map[string]variant{
		"backdated_timestamp": setInteger(func(p *domain.Post, ts int64) { p.BackdatedTimestamp = &ts }),
		"post":                setBody,
		"update_timestamp":    setInteger(func(p *domain.Post, ts int64) { p.UpdateTimestamp = &ts }),
	}
	dataKeys = validator.Keys(lo.Keys(dataVariants)...)
)

// draft accumulates a post while its attachments and data are decoded.
type draft struct {
	post domain.Post
	seen map[string]any
}

// variant decodes the value of a single-field object into the draft. The
// item is the single-field object itself.
type variant func(d *draft, item, value validator.Value) error

func eq[T comparable](a, b T) bool {
	return a == b
}

func decodeOnce[T any](
	key string,
	decode func(validator.Value) (T, error),
	equal func(T, T) bool,
	assign func(*domain.Post, T),
) variant {
	return func(d *draft, item, value validator.Value) error {
		decoded, err := decode(value)
		if err != nil {
			return err
		}
		if previous, ok := d.seen[key]; ok {
			if !equal(previous.(T), decoded) {
				return errors.Unmergeable(
					item.Describe(`has repeated, divergent value for field "%s"`, key),
					previous, decoded,
				)
			}
			return nil
		}
		d.seen[key] = decoded
		assign(&d.post, decoded)
		return nil
	}
}

func addMedia(d *draft, _, value validator.Value) error {
	media, err := Media(value)
	if err != nil {
		return err
	}
	d.post.Media = append(d.post.Media, media)
	return nil
}

// addPlace merges the place into the first compatible place seen so far.
func addPlace(d *draft, _, value validator.Value) error {
	place, err := Location(value)
	if err != nil {
		return err
	}
	for i, other := range d.post.Places {
		if merged, err := place.Merge(other); err == nil {
			d.post.Places[i] = merged
			return nil
		}
	}
	d.post.Places = append(d.post.Places, place)
	return nil
}

func addText(d *draft, _, value validator.Value) error {
	text, err := value.ToString()
	if err != nil {
		return err
	}
	d.post.Text = append(d.post.Text, text)
	return nil
}

func setInteger(assign func(*domain.Post, int64)) variant {
	return func(d *draft, _, value validator.Value) error {
		ts, err := value.ToInteger()
		if err != nil {
			return err
		}
		assign(&d.post, ts)
		return nil
	}
}

func setBody(d *draft, _, value validator.Value) error {
	body, err := value.ToString()
	if err != nil {
		return err
	}
	d.post.Body = &body
	return nil
}

// Post decodes one post of an archive.
func Post(v validator.Value) (domain.Post, error) {
	f, err := read(v, postKeys)
	if err != nil {
		return domain.Post{}, err
	}

	d := &draft{seen: make(map[string]any)}
	if f.Has("attachments") {
		value, _ := f.field("attachments")
		if err := d.attachments(value); err != nil {
			return domain.Post{}, err
		}
	}
	if f.Has("data") {
		value, _ := f.field("data")
		if err := d.data(value); err != nil {
			return domain.Post{}, err
		}
	}
	d.post.Tags = each(f, "tags", validator.Value.ToString)
	d.post.Timestamp = f.integer("timestamp")
	d.post.Title = f.optionalString("title")
	if f.err != nil {
		return domain.Post{}, f.err
	}

	disambiguate(&d.post)
	return d.post, nil
}

// attachments flattens the list of {"data": [...]} wrappers and dispatches
// every single-field item on its field name.
func (d *draft) attachments(v validator.Value) error {
	wrappers, err := v.ToList()
	if err != nil {
		return err
	}
	for _, wrapper := range wrappers.Items() {
		object, _, err := wrapper.ToSingleton(wrapperKeys)
		if err != nil {
			return err
		}
		data, err := object.Field("data")
		if err != nil {
			return err
		}
		items, err := data.ToList()
		if err != nil {
			return err
		}
		for _, item := range items.Items() {
			if err := d.dispatch(item, attachmentKeys, attachmentVariants); err != nil {
				return err
			}
		}
	}
	return nil
}

// data decodes the list of single-field data objects. Each field may occur
// once only.
func (d *draft) data(v validator.Value) error {
	items, err := v.ToList()
	if err != nil {
		return err
	}
	for _, item := range items.Items() {
		object, key, err := item.ToSingleton(dataKeys)
		if err != nil {
			return err
		}
		value, err := object.Field(key)
		if err != nil {
			return err
		}
		if previous, ok := d.seen[key]; ok {
			return errors.Unmergeable(item.Describe(`has redundant field "%s"`, key), previous, value.Raw())
		}
		d.seen[key] = value.Raw()
		if err := dataVariants[key](d, item, value); err != nil {
			return err
		}
	}
	return nil
}

func (d *draft) dispatch(item validator.Value, keys validator.KeySet, variants map[string]variant) error {
	object, key, err := item.ToSingleton(keys)
	if err != nil {
		return err
	}
	value, err := object.Field(key)
	if err != nil {
		return err
	}
	return variants[key](d, item, value)
}

// disambiguate drops media descriptions that repeat the body. Without a body,
// a description shared by all media becomes the body.
func disambiguate(post *domain.Post) {
	if post.Body != nil {
		for i, media := range post.Media {
			if media.Description != nil && *media.Description == *post.Body {
				post.Media[i].Description = nil
			}
		}
		return
	}

	if len(post.Media) == 0 || post.Media[0].Description == nil || *post.Media[0].Description == "" {
		return
	}
	description := *post.Media[0].Description
	shared := lo.EveryBy(post.Media, func(media domain.Media) bool {
		return media.Description != nil && *media.Description == description
	})
	if !shared {
		return
	}
	post.Body = &description
	for i := range post.Media {
		post.Media[i].Description = nil
	}
}

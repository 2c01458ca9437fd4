package ingest

import (
	"strings"

	"github.com/orgball2608/deface/internal/domain"
	"github.com/orgball2608/deface/internal/validator"
	"github.com/samber/lo"
)

var (
	mediaKeys = validator.Keys(
		"comments",
		"creation_timestamp",
		"description",
		"media_metadata",
		"thumbnail",
		"title",
		"uri",
	)
	metadataKeys = validator.Keys(
		"camera_make",
		"camera_model",
		"exposure",
		"focal_length",
		"f_stop",
		"iso",
		"iso_speed",
		"latitude",
		"longitude",
		"modified_timestamp",
		"orientation",
		"original_width",
		"original_height",
		"taken_timestamp",
		"upload_ip",
		"upload_timestamp",
	)
	thumbnailKeys = validator.Keys("uri")

	// The single field of a media_metadata object names the media type.
	metadataVariants = map[string]domain.MediaType{
		"photo_metadata": domain.Photo,
		"video_metadata": domain.Video,
	}
	metadataVariantKeys = validator.Keys(lo.Keys(metadataVariants)...)
)

// Media decodes a photo or video. The upload_ip and upload_timestamp fields
// of its metadata describe the upload, so they end up on the media record
// itself.
func Media(v validator.Value) (domain.Media, error) {
	f, err := read(v, mediaKeys)
	if err != nil {
		return domain.Media{}, err
	}

	var media domain.Media
	media.Comments = each(f, "comments", Comment)
	creation := f.integer("creation_timestamp")
	media.CreationTimestamp = &creation
	media.Description = f.optionalString("description")
	media.URI = f.string("uri")
	if f.err != nil {
		return domain.Media{}, f.err
	}

	if f.Has("media_metadata") {
		value, _ := f.field("media_metadata")
		if err := decodeMetadata(value, &media); err != nil {
			return domain.Media{}, err
		}
	} else if strings.HasSuffix(media.URI, ".mp4") {
		media.MediaType = domain.Video
	} else {
		media.MediaType = domain.Photo
	}

	if f.Has("thumbnail") {
		value, _ := f.field("thumbnail")
		thumbnail, _, err := value.ToSingleton(thumbnailKeys)
		if err != nil {
			return domain.Media{}, err
		}
		uri, err := thumbnail.Field("uri")
		if err != nil {
			return domain.Media{}, err
		}
		path, err := uri.ToString()
		if err != nil {
			return domain.Media{}, err
		}
		media.Thumbnail = &path
	}
	media.Title = f.optionalString("title")

	if f.err != nil {
		return domain.Media{}, f.err
	}
	return media, nil
}

func decodeMetadata(v validator.Value, media *domain.Media) error {
	variant, key, err := v.ToSingleton(metadataVariantKeys)
	if err != nil {
		return err
	}
	media.MediaType = metadataVariants[key]

	value, err := variant.Field(key)
	if err != nil {
		return err
	}
	object, err := value.ToObject(nil)
	if err != nil {
		return err
	}
	if object.Len() == 1 && object.Has("exif_data") {
		exif, _ := object.Field("exif_data")
		list, err := exif.ToSingletonList()
		if err != nil {
			return err
		}
		value = list.Index(0)
	}

	metadata, err := Metadata(value, media)
	if err != nil {
		return err
	}
	if !metadata.IsEmpty() {
		media.Metadata = &metadata
	}
	return nil
}

// Metadata decodes the camera details of a photo or video. It hoists the
// upload fields onto media. An iso field takes precedence over iso_speed.
func Metadata(v validator.Value, media *domain.Media) (domain.MediaMetaData, error) {
	f, err := read(v, metadataKeys)
	if err != nil {
		return domain.MediaMetaData{}, err
	}

	media.UploadIP = f.optionalString("upload_ip")
	media.UploadTimestamp = f.optionalInteger("upload_timestamp")

	var metadata domain.MediaMetaData
	metadata.CameraMake = f.optionalString("camera_make")
	metadata.CameraModel = f.optionalString("camera_model")
	metadata.Exposure = f.optionalString("exposure")
	metadata.FocalLength = f.optionalString("focal_length")
	metadata.FStop = f.optionalString("f_stop")
	if f.Has("iso") {
		metadata.ISOSpeed = f.optionalInteger("iso")
	} else {
		metadata.ISOSpeed = f.optionalInteger("iso_speed")
	}
	metadata.Latitude = f.optionalFloat("latitude")
	metadata.Longitude = f.optionalFloat("longitude")
	metadata.ModifiedTimestamp = f.optionalInteger("modified_timestamp")
	metadata.Orientation = f.optionalInteger("orientation")
	metadata.OriginalHeight = f.optionalInteger("original_height")
	metadata.OriginalWidth = f.optionalInteger("original_width")
	metadata.TakenTimestamp = f.optionalInteger("taken_timestamp")

	if f.err != nil {
		return domain.MediaMetaData{}, f.err
	}
	return metadata, nil
}

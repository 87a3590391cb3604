package validation

import (
	"fmt"

	"github.com/gabriel-vasile/mimetype"

	"service-desk/model"
)

// DefaultMaxPhotoBytes is the upload limit for request photos (2 MiB).
const DefaultMaxPhotoBytes int64 = 2 * 1024 * 1024

var photoExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/bmp":  ".bmp",
}

// PhotoExtension sniffs content and returns the file extension to store it
// under. ok is false for anything but JPEG, PNG or BMP.
func PhotoExtension(content []byte) (ext string, ok bool) {
	if len(content) == 0 {
		return "", false
	}
	ext, ok = photoExtensions[mimetype.Detect(content).String()]
	return ext, ok
}

// Photo checks an optional upload against the size limit and format allow-list.
func Photo(photo *model.PhotoUpload, maxBytes int64) []FieldError {
	if photo == nil {
		return nil
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxPhotoBytes
	}

	var problems []FieldError
	size := photo.Size
	if size == 0 {
		size = int64(len(photo.Content))
	}
	if size > maxBytes {
		problems = append(problems, FieldError{
			Code:    TooLarge,
			Message: fmt.Sprintf("The file is too large. Maximum size is %d MB.", maxBytes/(1024*1024)),
		})
	}
	if _, ok := PhotoExtension(photo.Content); !ok {
		problems = append(problems, FieldError{
			Code:    UnsupportedFormat,
			Message: "Unsupported image format. Allowed formats: JPG, PNG, BMP.",
		})
	}
	return problems
}

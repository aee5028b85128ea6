package domain

import (
	"errors"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ImageField is the only multipart field allowed to carry a file.
const ImageField = "myImage"

// MaxImageBytes is the largest accepted product image.
const MaxImageBytes = 1_000_000

// Image rejections, surfaced as validation errors on ImageField.
var (
	ErrImagesOnly      = errors.New("Error: Images Only!") //nolint:staticcheck // client-facing message
	ErrImageTooLarge   = errors.New("File too large")      //nolint:staticcheck // client-facing message
	ErrUnexpectedField = errors.New("Unexpected field")    //nolint:staticcheck // client-facing message
)

var imageTypes = regexp.MustCompile(`jpeg|jpg|png|gif`)

// CheckImageType accepts a file only when both its lower-cased extension and
// its declared content type mention an image type.
func CheckImageType(filename, contentType string) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if imageTypes.MatchString(ext) && imageTypes.MatchString(contentType) {
		return nil
	}
	return ErrImagesOnly
}

// CheckImageSize rejects files over limit bytes. A non-positive limit means
// MaxImageBytes.
func CheckImageSize(size, limit int64) error {
	if limit <= 0 {
		limit = MaxImageBytes
	}
	if size > limit {
		return ErrImageTooLarge
	}
	return nil
}

// ImageFileName names a stored upload: field tag, upload time in unix
// milliseconds, original extension.
func ImageFileName(original string, at time.Time) string {
	return ImageField + "-" + strconv.FormatInt(at.UnixMilli(), 10) + filepath.Ext(original)
}
